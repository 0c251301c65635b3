package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
)

// AnalyticsStore is the read contract both aggregate views run against.
type AnalyticsStore interface {
	ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	ListClassifications(ctx context.Context, filter models.ClassificationFilter) ([]models.RiskClassification, error)
}

// CohortServiceConfig tunes the snapshot.
type CohortServiceConfig struct {
	WindowDays             int
	HighDistressSharePct   float64
	SupportEligibleMinimum int
	CacheTTL               time.Duration
}

// CohortService builds the privacy-floored current-window snapshot.
type CohortService struct {
	store           AnalyticsStore
	privacy         *PrivacyGuard
	recommendations *RecommendationTable
	cache           *CacheService
	metrics         *MetricsService
	logger          *zap.Logger
	now             func() time.Time
	cfg             CohortServiceConfig
}

// CohortServiceParams groups constructor dependencies.
type CohortServiceParams struct {
	Store           AnalyticsStore
	Privacy         *PrivacyGuard
	Recommendations *RecommendationTable
	Cache           *CacheService
	Metrics         *MetricsService
	Logger          *zap.Logger
	Config          CohortServiceConfig
}

// NewCohortService constructs a CohortService with sane defaults.
func NewCohortService(params CohortServiceParams) *CohortService {
	cfg := params.Config
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.HighDistressSharePct <= 0 {
		cfg.HighDistressSharePct = 30
	}
	if cfg.SupportEligibleMinimum <= 0 {
		cfg.SupportEligibleMinimum = 3
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	privacy := params.Privacy
	if privacy == nil {
		privacy = NewPrivacyGuard(DefaultMinCohortSize, params.Metrics)
	}
	recommendations := params.Recommendations
	if recommendations == nil {
		recommendations = NewRecommendationTable(nil)
	}
	return &CohortService{
		store:           params.Store,
		privacy:         privacy,
		recommendations: recommendations,
		cache:           params.Cache,
		metrics:         params.Metrics,
		logger:          logger,
		now:             time.Now,
		cfg:             cfg,
	}
}

// Snapshot returns the current-window snapshot and indicates cache utilisation.
func (s *CohortService) Snapshot(ctx context.Context, institutionID string) (*dto.CohortSnapshotResponse, bool, error) {
	if institutionID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "institutionId is required")
	}
	cacheKey := CohortCacheKey(institutionID, "snapshot")
	var cached dto.CohortSnapshotResponse
	if hit := tryCache(ctx, s.cache, s.logger, cacheKey, &cached); hit {
		return &cached, true, nil
	}

	snapshot, err := s.compose(ctx, institutionID)
	if err != nil {
		return nil, false, err
	}
	persistCache(ctx, s.cache, s.logger, cacheKey, snapshot, s.cfg.CacheTTL)
	return snapshot, false, nil
}

func (s *CohortService) compose(ctx context.Context, institutionID string) (*dto.CohortSnapshotResponse, error) {
	now := s.now().UTC()
	start := now.AddDate(0, 0, -s.cfg.WindowDays)

	submissions, err := listSubmissions(ctx, s.store, s.metrics, models.SubmissionFilter{InstitutionID: institutionID, From: &start, To: &now})
	if err != nil {
		return nil, err
	}

	users := perUserAverages(submissions)
	snapshot := &dto.CohortSnapshotResponse{
		InstitutionID:   institutionID,
		Window:          dto.WindowBounds{Start: start, End: now},
		MinCohortSize:   s.privacy.MinCohortSize(),
		DomainFrequency: []dto.DomainCount{},
		Recommendations: []string{},
		GeneratedAt:     now,
	}
	if !s.privacy.Meets(len(users)) {
		suppression := s.privacy.Suppress(viewSnapshot, "cohort", MessageInsufficientCohort)
		snapshot.Suppressed = true
		snapshot.BelowThreshold = true
		snapshot.Message = suppression.Message
		snapshot.RiskTiersStatus = suppression
		return snapshot, nil
	}

	classifications, err := listClassifications(ctx, s.store, s.metrics, models.ClassificationFilter{InstitutionID: institutionID, From: &start, To: &now})
	if err != nil {
		return nil, err
	}

	snapshot.CohortSize = len(users)
	snapshot.SubmissionCount = len(submissions)
	snapshot.DomainFrequency = domainFrequency(submissions, s.privacy.MinCohortSize())
	if len(snapshot.DomainFrequency) > 0 {
		snapshot.TopDomain = snapshot.DomainFrequency[0].Domain
	} else {
		snapshot.DomainFrequencyStatus = s.privacy.Suppress(viewSnapshot, "domain_frequency", MessageNoQualifyingDomain)
	}
	snapshot.AverageIntensity = round2(meanOf(users))
	snapshot.HighDistressShare = percentage(highIntensityUsers(users), len(users))

	if s.privacy.Meets(distinctClassifiedUsers(classifications)) {
		for _, c := range classifications {
			snapshot.RiskTiers.Add(c.Tier)
		}
		snapshot.SupportEligible = snapshot.RiskTiers.Tier2 + snapshot.RiskTiers.Tier3
	} else {
		snapshot.RiskTiersStatus = s.privacy.Suppress(viewSnapshot, "risk_tiers", MessageInsufficientClassified)
	}

	snapshot.Recommendations = s.recommend(snapshot)
	return snapshot, nil
}

func (s *CohortService) recommend(snapshot *dto.CohortSnapshotResponse) []string {
	recommendations := make([]string, 0, 3)
	if text, ok := s.recommendations.For(RecommendationEngineCohort, snapshot.TopDomain); ok {
		recommendations = append(recommendations, text)
	} else {
		recommendations = append(recommendations, RecommendationGeneric)
	}
	if snapshot.HighDistressShare >= s.cfg.HighDistressSharePct {
		recommendations = append(recommendations, RecommendationHighDistress)
	}
	if !snapshot.RiskTiersStatus.Suppressed && snapshot.SupportEligible >= s.cfg.SupportEligibleMinimum {
		recommendations = append(recommendations, RecommendationSupportEligible)
	}
	return recommendations
}
