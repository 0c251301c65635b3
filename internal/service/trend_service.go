package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/models"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
)

// Trend models.
const (
	TrendModelRolling  = "rolling"
	TrendModelAcademic = "academic"
)

// TrendStore adds the academic-week anchor to the shared read contract.
type TrendStore interface {
	AnalyticsStore
	latestWeekReader
}

// TrendServiceConfig tunes the trend engine.
type TrendServiceConfig struct {
	WindowDays       int
	MaxAcademicWeeks int
	CacheTTL         time.Duration
}

// TrendService computes independently suppressed trend metrics.
type TrendService struct {
	store           TrendStore
	privacy         *PrivacyGuard
	recommendations *RecommendationTable
	cache           *CacheService
	metrics         *MetricsService
	logger          *zap.Logger
	now             func() time.Time
	cfg             TrendServiceConfig
}

// TrendServiceParams groups constructor dependencies.
type TrendServiceParams struct {
	Store           TrendStore
	Privacy         *PrivacyGuard
	Recommendations *RecommendationTable
	Cache           *CacheService
	Metrics         *MetricsService
	Logger          *zap.Logger
	Config          TrendServiceConfig
}

// NewTrendService constructs a TrendService with sane defaults.
func NewTrendService(params TrendServiceParams) *TrendService {
	cfg := params.Config
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.MaxAcademicWeeks <= 0 {
		cfg.MaxAcademicWeeks = 12
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
	return &TrendService{
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

// MaxAcademicWeeks is the largest accepted academic window.
func (s *TrendService) MaxAcademicWeeks() int {
	return s.cfg.MaxAcademicWeeks
}

// Rolling compares the trailing window with the one before it.
func (s *TrendService) Rolling(ctx context.Context, institutionID string) (*dto.RollingTrendResponse, bool, error) {
	if institutionID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "institutionId is required")
	}
	cacheKey := CohortCacheKey(institutionID, "trend", TrendModelRolling)
	var cached dto.RollingTrendResponse
	if hit := tryCache(ctx, s.cache, s.logger, cacheKey, &cached); hit {
		return &cached, true, nil
	}

	trend, err := s.composeRolling(ctx, institutionID)
	if err != nil {
		return nil, false, err
	}
	persistCache(ctx, s.cache, s.logger, cacheKey, trend, s.cfg.CacheTTL)
	return trend, false, nil
}

// Academic returns the weeks-long series ending at the latest academic week with data.
func (s *TrendService) Academic(ctx context.Context, institutionID string, weeks int) (*dto.AcademicTrendResponse, bool, error) {
	if institutionID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "institutionId is required")
	}
	if weeks < 1 || weeks > s.cfg.MaxAcademicWeeks {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("weeks must be between 1 and %d", s.cfg.MaxAcademicWeeks))
	}
	cacheKey := CohortCacheKey(institutionID, "trend", "weeks", strconv.Itoa(weeks))
	var cached dto.AcademicTrendResponse
	if hit := tryCache(ctx, s.cache, s.logger, cacheKey, &cached); hit {
		return &cached, true, nil
	}

	trend, err := s.composeAcademic(ctx, institutionID, weeks)
	if err != nil {
		return nil, false, err
	}
	persistCache(ctx, s.cache, s.logger, cacheKey, trend, s.cfg.CacheTTL)
	return trend, false, nil
}

func (s *TrendService) composeRolling(ctx context.Context, institutionID string) (*dto.RollingTrendResponse, error) {
	now := s.now().UTC()
	currentStart := now.AddDate(0, 0, -s.cfg.WindowDays)
	previousStart := currentStart.AddDate(0, 0, -s.cfg.WindowDays)

	current, err := listSubmissions(ctx, s.store, s.metrics, models.SubmissionFilter{InstitutionID: institutionID, From: &currentStart, To: &now})
	if err != nil {
		return nil, err
	}
	previous, err := listSubmissions(ctx, s.store, s.metrics, models.SubmissionFilter{InstitutionID: institutionID, From: &previousStart, To: &currentStart})
	if err != nil {
		return nil, err
	}

	trend := &dto.RollingTrendResponse{
		InstitutionID: institutionID,
		Model:         TrendModelRolling,
		Current:       dto.WindowBounds{Start: currentStart, End: now},
		Previous:      dto.WindowBounds{Start: previousStart, End: currentStart},
		MinCohortSize: s.privacy.MinCohortSize(),
		GeneratedAt:   now,
	}

	currentUsers := perUserAverages(current)
	previousUsers := perUserAverages(previous)
	currentOK := s.privacy.Meets(len(currentUsers))
	previousOK := s.privacy.Meets(len(previousUsers))

	if currentOK {
		share := percentage(highIntensityUsers(currentUsers), len(currentUsers))
		trend.HighIntensityShare = dto.ValueMetric{Value: floatPtr(share)}
	} else {
		trend.HighIntensityShare = dto.ValueMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricHighIntensityShare, MessageInsufficientCohort)}
	}

	trend.WeekOverWeekChange = s.weekOverWeek(currentUsers, previousUsers, currentOK, previousOK)

	currentStats := domainStats(current)
	trend.DomainDistribution, trend.TopDomain = s.domainMetrics(viewRolling, currentStats, currentOK)

	switch {
	case !currentOK:
		trend.SustainedPressure = dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricSustainedPressure, MessageInsufficientCohort)}
	case !previousOK:
		trend.SustainedPressure = dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricSustainedPressure, MessageInsufficientPrevious)}
	default:
		k := s.privacy.MinCohortSize()
		trend.SustainedPressure = dto.SustainedPressureMetric{
			Domains: sustainedDomains(pressuredDomains(currentStats, k), pressuredDomains(domainStats(previous), k)),
		}
	}

	if !currentOK {
		trend.RiskTierDistribution = dto.RiskTierDistributionMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricRiskTierDistribution, MessageInsufficientCohort)}
		return trend, nil
	}
	classifications, err := listClassifications(ctx, s.store, s.metrics, models.ClassificationFilter{InstitutionID: institutionID, From: &currentStart, To: &now})
	if err != nil {
		return nil, err
	}
	highest := highestTierPerUser(classifications)
	if !s.privacy.Meets(len(highest)) {
		trend.RiskTierDistribution = dto.RiskTierDistributionMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricRiskTierDistribution, MessageInsufficientClassified)}
		return trend, nil
	}
	counts := &dto.RiskTierCounts{}
	for _, tier := range highest {
		counts.Add(tier)
	}
	trend.RiskTierDistribution = dto.RiskTierDistributionMetric{Tiers: counts}
	return trend, nil
}

func (s *TrendService) weekOverWeek(currentUsers, previousUsers map[string]float64, currentOK, previousOK bool) dto.ValueMetric {
	if !currentOK {
		return dto.ValueMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricWeekOverWeekChange, MessageInsufficientCohort)}
	}
	if !previousOK {
		return dto.ValueMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricWeekOverWeekChange, MessageInsufficientPrevious)}
	}
	previousAvg := meanOf(previousUsers)
	if previousAvg <= 0 {
		return dto.ValueMetric{Suppression: s.privacy.Suppress(viewRolling, dto.MetricWeekOverWeekChange, MessageNoBaseline)}
	}
	change := (meanOf(currentUsers) - previousAvg) / previousAvg * 100
	return dto.ValueMetric{Value: floatPtr(round2(change))}
}

// domainMetrics builds the distribution and the intensity-ranked top domain from the same rows.
func (s *TrendService) domainMetrics(view string, stats []dto.DomainStat, cohortOK bool) (dto.DomainDistributionMetric, dto.TopDomainMetric) {
	if !cohortOK {
		return dto.DomainDistributionMetric{Suppression: s.privacy.Suppress(view, dto.MetricDomainDistribution, MessageInsufficientCohort), Domains: []dto.DomainStat{}},
			dto.TopDomainMetric{Suppression: s.privacy.Suppress(view, dto.MetricTopDomain, MessageInsufficientCohort)}
	}
	qualifying := qualifyingDomains(stats, s.privacy.MinCohortSize())
	if len(qualifying) == 0 {
		return dto.DomainDistributionMetric{Suppression: s.privacy.Suppress(view, dto.MetricDomainDistribution, MessageNoQualifyingDomain), Domains: []dto.DomainStat{}},
			dto.TopDomainMetric{Suppression: s.privacy.Suppress(view, dto.MetricTopDomain, MessageNoQualifyingDomain)}
	}
	top, _ := topByIntensity(qualifying)
	recommendation, _ := s.recommendations.For(RecommendationEngineTrend, top.Domain)
	return dto.DomainDistributionMetric{Domains: qualifying},
		dto.TopDomainMetric{Domain: top.Domain, AverageIntensity: floatPtr(top.AverageIntensity), Recommendation: recommendation}
}

func (s *TrendService) composeAcademic(ctx context.Context, institutionID string, weeks int) (*dto.AcademicTrendResponse, error) {
	now := s.now().UTC()
	trend := &dto.AcademicTrendResponse{
		InstitutionID: institutionID,
		Model:         TrendModelAcademic,
		MinCohortSize: s.privacy.MinCohortSize(),
		Weeks:         []dto.AcademicWeekPoint{},
		GeneratedAt:   now,
	}

	start := time.Now()
	latest, err := s.store.LatestAcademicWeek(ctx, institutionID)
	s.metrics.ObserveStoreQuery("latest_academic_week", time.Since(start))
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if latest == nil {
		trend.DomainDistribution = dto.DomainDistributionMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricDomainDistribution, MessageNoCheckins), Domains: []dto.DomainStat{}}
		trend.TopDomain = dto.TopDomainMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricTopDomain, MessageNoCheckins)}
		trend.SustainedPressure = dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricSustainedPressure, MessageNoCheckins)}
		return trend, nil
	}

	fromWeek := latest.WeekNumber - weeks + 1
	if fromWeek < 1 {
		fromWeek = 1
	}
	trend.AcademicYear = latest.AcademicYear
	trend.FromWeek = fromWeek
	trend.ToWeek = latest.WeekNumber

	submissions, err := listSubmissions(ctx, s.store, s.metrics, models.SubmissionFilter{
		InstitutionID: institutionID,
		AcademicYear:  latest.AcademicYear,
		WeekFrom:      fromWeek,
		WeekTo:        latest.WeekNumber,
	})
	if err != nil {
		return nil, err
	}

	byWeek := make(map[int][]models.Submission)
	for _, sub := range submissions {
		byWeek[sub.WeekNumber] = append(byWeek[sub.WeekNumber], sub)
	}
	for week := fromWeek; week <= latest.WeekNumber; week++ {
		trend.Weeks = append(trend.Weeks, s.weekPoint(week, byWeek[week]))
	}

	rangeUsers := perUserAverages(submissions)
	trend.DomainDistribution, trend.TopDomain = s.domainMetrics(viewAcademic, domainStats(submissions), s.privacy.Meets(len(rangeUsers)))
	trend.SustainedPressure = s.academicSustained(byWeek, fromWeek, latest.WeekNumber)
	return trend, nil
}

func (s *TrendService) weekPoint(week int, submissions []models.Submission) dto.AcademicWeekPoint {
	users := perUserAverages(submissions)
	if !s.privacy.Meets(len(users)) {
		return dto.AcademicWeekPoint{
			Suppression: s.privacy.Suppress(viewAcademic, "weekly_series", MessageInsufficientCohort),
			WeekNumber:  week,
		}
	}
	return dto.AcademicWeekPoint{
		WeekNumber:         week,
		AverageIntensity:   floatPtr(round2(meanOf(users))),
		HighIntensityShare: floatPtr(percentage(highIntensityUsers(users), len(users))),
	}
}

// academicSustained compares the last two weeks of the range, each floored independently.
func (s *TrendService) academicSustained(byWeek map[int][]models.Submission, fromWeek, toWeek int) dto.SustainedPressureMetric {
	latest := byWeek[toWeek]
	if !s.privacy.Meets(len(perUserAverages(latest))) {
		return dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricSustainedPressure, MessageInsufficientCohort)}
	}
	if toWeek-1 < fromWeek {
		return dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricSustainedPressure, MessageInsufficientPrevious)}
	}
	prior := byWeek[toWeek-1]
	if !s.privacy.Meets(len(perUserAverages(prior))) {
		return dto.SustainedPressureMetric{Suppression: s.privacy.Suppress(viewAcademic, dto.MetricSustainedPressure, MessageInsufficientPrevious)}
	}
	k := s.privacy.MinCohortSize()
	return dto.SustainedPressureMetric{
		Domains: sustainedDomains(pressuredDomains(domainStats(latest), k), pressuredDomains(domainStats(prior), k)),
	}
}
