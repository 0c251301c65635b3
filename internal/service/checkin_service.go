package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/risk"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
	"github.com/noah-isme/wellbeing-api/pkg/pseudonym"
)

// CheckinStore is the persistence contract of the submission path.
type CheckinStore interface {
	submissionHistoryReader
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	CreateClassification(ctx context.Context, classification *models.RiskClassification) error
}

type cacheInvalidator interface {
	Schedule(institutionID string) error
}

// CheckinServiceConfig tunes submission handling.
type CheckinServiceConfig struct {
	ClassifierVersion      string
	AcademicYearStartMonth time.Month
}

// CheckinService scores and stores check-ins.
type CheckinService struct {
	store       CheckinStore
	history     *HistoryContextBuilder
	classifier  risk.TextClassifier
	calendar    risk.AcademicCalendar
	invalidator cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	pseudonyms  *pseudonym.Hasher
	logger      *zap.Logger
	now         func() time.Time
	cfg         CheckinServiceConfig
}

// CheckinServiceParams groups constructor dependencies.
type CheckinServiceParams struct {
	Store       CheckinStore
	Classifier  risk.TextClassifier
	Invalidator cacheInvalidator
	Metrics     *MetricsService
	Validator   *validator.Validate
	Pseudonyms  *pseudonym.Hasher
	Logger      *zap.Logger
	Config      CheckinServiceConfig
}

// NewCheckinService constructs the service.
func NewCheckinService(params CheckinServiceParams) *CheckinService {
	cfg := params.Config
	if cfg.ClassifierVersion == "" {
		cfg.ClassifierVersion = "rules-v1"
	}
	if cfg.AcademicYearStartMonth == 0 {
		cfg.AcademicYearStartMonth = time.September
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = risk.NewKeywordClassifier()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CheckinService{
		store:       params.Store,
		history:     NewHistoryContextBuilder(params.Store),
		classifier:  classifier,
		calendar:    risk.AcademicCalendar{StartMonth: cfg.AcademicYearStartMonth},
		invalidator: params.Invalidator,
		metrics:     params.Metrics,
		validator:   validate,
		pseudonyms:  params.Pseudonyms,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
	if err := RegisterCheckinValidations(svc.validator); err != nil {
		logger.Error("failed to register check-in validations", zap.Error(err))
	}
	return svc
}

// RegisterCheckinValidations adds the domain and self_harm tags used by dto.CheckinRequest.
// Registering on a shared validator is idempotent.
func RegisterCheckinValidations(validate *validator.Validate) error {
	if err := validate.RegisterValidation("domain", func(fl validator.FieldLevel) bool {
		return models.Domain(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return validate.RegisterValidation("self_harm", func(fl validator.FieldLevel) bool {
		return models.SelfHarmIndicator(fl.Field().String()).Valid()
	})
}

// Submit validates, scores and stores a check-in. The classification write is best effort.
func (s *CheckinService) Submit(ctx context.Context, userID, institutionID string, req dto.CheckinRequest) (*dto.CheckinResponse, error) {
	if userID == "" || institutionID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "check-in requires a user and institution scope")
	}
	req.PrimaryDomain = strings.ToLower(strings.TrimSpace(req.PrimaryDomain))
	if req.SecondaryDomain != nil {
		secondary := strings.ToLower(strings.TrimSpace(*req.SecondaryDomain))
		req.SecondaryDomain = &secondary
		if secondary == "" {
			req.SecondaryDomain = nil
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}
	if req.SecondaryDomain != nil && *req.SecondaryDomain == req.PrimaryDomain {
		return nil, appErrors.Clone(appErrors.ErrValidation, "secondaryDomain must differ from primaryDomain")
	}

	subject := s.pseudonyms.Of(userID)
	createdAt := s.now().UTC()
	submission := &models.Submission{
		UserID:        userID,
		InstitutionID: institutionID,
		PrimaryDomain: models.Domain(req.PrimaryDomain),
		Intensity:     req.Intensity,
		Reflection:    req.Reflection,
		CreatedAt:     createdAt,
	}
	submission.AcademicYear, submission.WeekNumber = s.calendar.WeekOf(createdAt)
	if req.AcademicYear != nil {
		submission.AcademicYear = *req.AcademicYear
	}
	if req.WeekNumber != nil {
		submission.WeekNumber = *req.WeekNumber
	}
	if req.SecondaryDomain != nil {
		secondary := models.Domain(*req.SecondaryDomain)
		submission.SecondaryDomain = &secondary
	}

	explicit := req.SelfHarm != nil
	if explicit {
		submission.SelfHarm = models.SelfHarmIndicator(*req.SelfHarm)
	} else {
		submission.SelfHarm = s.inferSelfHarm(ctx, subject, req.Reflection)
		submission.SelfHarmInferred = true
	}

	signals, err := s.history.Build(ctx, userID, risk.Observation{Domain: submission.PrimaryDomain, Intensity: submission.Intensity})
	if err != nil {
		s.logger.Warn("history unavailable, scoring without signals", zap.String("user", subject), zap.Error(err))
	}

	result := risk.Score(risk.Input{Intensity: submission.Intensity, SelfHarm: submission.SelfHarm, Signals: signals})

	start := time.Now()
	err = s.store.CreateSubmission(ctx, submission)
	s.metrics.ObserveStoreQuery("create_submission", time.Since(start))
	if err != nil {
		s.logger.Error("submission write failed", zap.String("user", subject), zap.Error(err))
		return nil, storeUnavailable(err)
	}

	classification := &models.RiskClassification{
		SubmissionID:      submission.ID,
		InstitutionID:     institutionID,
		UserID:            userID,
		Score:             result.Score,
		Tier:              result.Tier,
		TriggerCodes:      result.Triggers,
		Explanation:       result.Explanation,
		Confidence:        confidenceFor(explicit, signals),
		ClassifierVersion: s.cfg.ClassifierVersion,
		CreatedAt:         submission.CreatedAt,
	}
	s.metrics.RecordClassification(result.Tier)
	stored := s.persistClassification(ctx, subject, classification)

	if s.invalidator != nil {
		if err := s.invalidator.Schedule(institutionID); err != nil {
			s.logger.Warn("analytics cache invalidation not scheduled", zap.String("institution_id", institutionID), zap.Error(err))
		}
	}

	s.logger.Info("check-in recorded",
		zap.String("user", subject),
		zap.String("institution_id", institutionID),
		zap.String("submission_id", submission.ID),
		zap.Int("score", result.Score),
		zap.Int("tier", int(result.Tier)),
		zap.Bool("self_harm_inferred", submission.SelfHarmInferred),
	)

	return &dto.CheckinResponse{
		SubmissionID:      submission.ID,
		WeekNumber:        submission.WeekNumber,
		AcademicYear:      submission.AcademicYear,
		Score:             result.Score,
		Tier:              result.Tier,
		HighRisk:          result.HighRisk,
		TriggerCodes:      result.Triggers,
		Explanation:       result.Explanation,
		Confidence:        classification.Confidence,
		ClassifierVersion: classification.ClassifierVersion,
		SelfHarmInferred:  submission.SelfHarmInferred,
		Signals:           signals,
		ClassificationOK:  stored,
		CreatedAt:         submission.CreatedAt,
	}, nil
}

func (s *CheckinService) inferSelfHarm(ctx context.Context, subject, reflection string) models.SelfHarmIndicator {
	if strings.TrimSpace(reflection) == "" {
		return models.SelfHarmNone
	}
	indicator, err := s.classifier.Classify(ctx, reflection)
	if err != nil || !indicator.Valid() {
		s.logger.Warn("text classifier unavailable, assuming none", zap.String("user", subject), zap.Error(err))
		return models.SelfHarmNone
	}
	return indicator
}

func (s *CheckinService) persistClassification(ctx context.Context, subject string, classification *models.RiskClassification) bool {
	start := time.Now()
	err := s.store.CreateClassification(ctx, classification)
	s.metrics.ObserveStoreQuery("create_classification", time.Since(start))
	if err != nil {
		s.metrics.RecordClassificationWriteFailure()
		s.logger.Warn("classification write failed",
			zap.String("user", subject),
			zap.String("submission_id", classification.SubmissionID),
			zap.Int("tier", int(classification.Tier)),
			zap.Error(err),
		)
		return false
	}
	return true
}

func confidenceFor(explicitIndicator bool, signals risk.Signals) models.ConfidenceBand {
	if explicitIndicator && signals.PriorCount > 0 {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}
