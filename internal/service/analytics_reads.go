package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
)

type latestWeekReader interface {
	LatestAcademicWeek(ctx context.Context, institutionID string) (*models.AcademicWeek, error)
}

func storeUnavailable(err error) error {
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
}

func listSubmissions(ctx context.Context, store AnalyticsStore, metrics *MetricsService, filter models.SubmissionFilter) ([]models.Submission, error) {
	start := time.Now()
	submissions, err := store.ListSubmissions(ctx, filter)
	metrics.ObserveStoreQuery("list_submissions", time.Since(start))
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return submissions, nil
}

func listClassifications(ctx context.Context, store AnalyticsStore, metrics *MetricsService, filter models.ClassificationFilter) ([]models.RiskClassification, error) {
	start := time.Now()
	classifications, err := store.ListClassifications(ctx, filter)
	metrics.ObserveStoreQuery("list_classifications", time.Since(start))
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return classifications, nil
}

// tryCache reports a hit after decoding into dest. Cache backend failures degrade to a miss.
func tryCache(ctx context.Context, cache *CacheService, logger *zap.Logger, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	hit, err := cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func persistCache(ctx context.Context, cache *CacheService, logger *zap.Logger, key string, value interface{}, ttl time.Duration) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
