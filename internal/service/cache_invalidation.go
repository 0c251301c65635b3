package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/pkg/jobs"
)

// JobTypeInvalidateCohortCache identifies queued analytics cache invalidations.
const JobTypeInvalidateCohortCache = "cohort_cache_invalidate"

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

// CohortCacheInvalidator drops an institution's cached aggregate views after new check-ins.
type CohortCacheInvalidator struct {
	cache  *CacheService
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewCohortCacheInvalidator constructs the invalidator. Bind a queue to make Schedule asynchronous.
func NewCohortCacheInvalidator(cache *CacheService, logger *zap.Logger) *CohortCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CohortCacheInvalidator{cache: cache, logger: logger}
}

// Bind attaches the queue jobs are pushed to.
func (i *CohortCacheInvalidator) Bind(queue jobEnqueuer) {
	i.queue = queue
}

// Schedule requests invalidation for the institution. Without a queue it runs inline.
func (i *CohortCacheInvalidator) Schedule(institutionID string) error {
	if !i.cache.Enabled() {
		return nil
	}
	if i.queue == nil {
		return i.cache.InvalidateInstitution(context.Background(), institutionID)
	}
	return i.queue.TryEnqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeInvalidateCohortCache,
		Key:     institutionID,
		Payload: institutionID,
	})
}

// Handle is the queue handler.
func (i *CohortCacheInvalidator) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeInvalidateCohortCache {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	institutionID, ok := job.Payload.(string)
	if !ok || institutionID == "" {
		i.logger.Warn("dropping invalidation job without institution", zap.String("job_id", job.ID))
		return nil
	}
	return i.cache.InvalidateInstitution(ctx, institutionID)
}
