package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/repository/memory"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
	"github.com/noah-isme/wellbeing-api/pkg/pseudonym"
)

var checkinNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

type flakyCheckinStore struct {
	*memory.Store
	failHistory        bool
	failSubmission     bool
	failClassification bool
}

func (s *flakyCheckinStore) RecentSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	if s.failHistory {
		return nil, errors.New("history read failed")
	}
	return s.Store.RecentSubmissionsByUser(ctx, userID, limit)
}

func (s *flakyCheckinStore) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	if s.failSubmission {
		return errors.New("insert failed")
	}
	return s.Store.CreateSubmission(ctx, submission)
}

func (s *flakyCheckinStore) CreateClassification(ctx context.Context, classification *models.RiskClassification) error {
	if s.failClassification {
		return errors.New("insert failed")
	}
	return s.Store.CreateClassification(ctx, classification)
}

type recordingInvalidator struct {
	scheduled []string
	err       error
}

func (r *recordingInvalidator) Schedule(institutionID string) error {
	r.scheduled = append(r.scheduled, institutionID)
	return r.err
}

func newCheckinFixture(t *testing.T) (*CheckinService, *flakyCheckinStore, *MetricsService, *recordingInvalidator) {
	t.Helper()
	store := &flakyCheckinStore{Store: memory.NewStore()}
	metrics := NewMetricsService()
	invalidator := &recordingInvalidator{}
	svc := NewCheckinService(CheckinServiceParams{
		Store:       store,
		Invalidator: invalidator,
		Metrics:     metrics,
		Pseudonyms:  pseudonym.New("test"),
		Config:      CheckinServiceConfig{ClassifierVersion: "rules-v1", AcademicYearStartMonth: time.September},
	})
	svc.now = func() time.Time { return checkinNow }
	return svc, store, metrics, invalidator
}

func strPtr(v string) *string { return &v }

func TestCheckinServiceHighIntensityWithoutHistory(t *testing.T) {
	svc, store, _, invalidator := newCheckinFixture(t)

	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{
		PrimaryDomain: "academic",
		Intensity:     5,
		SelfHarm:      strPtr("none"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Score)
	assert.Equal(t, models.RiskTierNone, resp.Tier)
	assert.False(t, resp.HighRisk)
	assert.Equal(t, []models.TriggerCode{models.TriggerHighIntensity}, resp.TriggerCodes)
	assert.Equal(t, models.ConfidenceMedium, resp.Confidence)
	assert.Equal(t, "rules-v1", resp.ClassifierVersion)
	assert.True(t, resp.ClassificationOK)
	assert.Equal(t, 2026, resp.AcademicYear)
	assert.Equal(t, 7, resp.WeekNumber)
	assert.Equal(t, []string{"inst-1"}, invalidator.scheduled)

	classifications, err := store.ListClassifications(context.Background(), models.ClassificationFilter{InstitutionID: "inst-1"})
	require.NoError(t, err)
	require.Len(t, classifications, 1)
	assert.Equal(t, resp.SubmissionID, classifications[0].SubmissionID)
	assert.Equal(t, "user-1", classifications[0].UserID)
}

func TestCheckinServiceSelfHarmWithSpike(t *testing.T) {
	svc, store, _, _ := newCheckinFixture(t)
	require.NoError(t, store.CreateSubmission(context.Background(), &models.Submission{
		UserID:        "user-1",
		InstitutionID: "inst-1",
		PrimaryDomain: models.DomainFamily,
		Intensity:     1,
		SelfHarm:      models.SelfHarmNone,
		CreatedAt:     checkinNow.AddDate(0, 0, -7),
	}))

	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{
		PrimaryDomain: "academic",
		Intensity:     4,
		SelfHarm:      strPtr("sometimes"),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Score)
	assert.Equal(t, models.RiskTierElevated, resp.Tier)
	assert.True(t, resp.HighRisk)
	assert.Equal(t, []models.TriggerCode{models.TriggerSelfHarmSometimes, models.TriggerHighIntensity, models.TriggerIntensitySpike}, resp.TriggerCodes)
	assert.Equal(t, models.ConfidenceHigh, resp.Confidence)
	require.NotNil(t, resp.Signals.LastIntensity)
	assert.Equal(t, 1, *resp.Signals.LastIntensity)
}

func TestCheckinServiceInfersSelfHarmFromReflection(t *testing.T) {
	svc, _, _, _ := newCheckinFixture(t)

	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{
		PrimaryDomain: "social",
		Intensity:     2,
		Reflection:    "Honestly I want to die some days",
	})
	require.NoError(t, err)
	assert.True(t, resp.SelfHarmInferred)
	assert.Equal(t, models.RiskTierHigh, resp.Tier)
	assert.Equal(t, models.ConfidenceMedium, resp.Confidence)
}

func TestCheckinServiceClassificationFailureIsSwallowed(t *testing.T) {
	svc, store, metrics, _ := newCheckinFixture(t)
	store.failClassification = true

	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "health", Intensity: 3})
	require.NoError(t, err)
	assert.False(t, resp.ClassificationOK)
	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, uint64(1), metrics.Snapshot().ClassificationWriteFailures)

	subs, err := store.ListSubmissions(context.Background(), models.SubmissionFilter{InstitutionID: "inst-1"})
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestCheckinServiceSubmissionFailureIsRetryable(t *testing.T) {
	svc, store, _, invalidator := newCheckinFixture(t)
	store.failSubmission = true

	_, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "health", Intensity: 3})
	require.Error(t, err)
	assert.True(t, appErrors.Retryable(err))
	assert.Empty(t, invalidator.scheduled)
}

func TestCheckinServiceHistoryFailureDegradesSignals(t *testing.T) {
	svc, store, _, _ := newCheckinFixture(t)
	store.failHistory = true

	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "future", Intensity: 4, SelfHarm: strPtr("none")})
	require.NoError(t, err)
	assert.Nil(t, resp.Signals.LastIntensity)
	assert.Equal(t, []models.TriggerCode{models.TriggerHighIntensity}, resp.TriggerCodes)
}

func TestCheckinServiceInvalidationFailureIsLogged(t *testing.T) {
	svc, _, _, invalidator := newCheckinFixture(t)
	invalidator.err = errors.New("queue full")

	_, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "future", Intensity: 1})
	assert.NoError(t, err)
}

func TestCheckinServiceExplicitWeekOverridesCalendar(t *testing.T) {
	svc, _, _, _ := newCheckinFixture(t)
	week, year := 12, 2025
	resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "family", Intensity: 2, WeekNumber: &week, AcademicYear: &year})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.WeekNumber)
	assert.Equal(t, 2025, resp.AcademicYear)
}

func TestCheckinServiceValidation(t *testing.T) {
	svc, _, _, _ := newCheckinFixture(t)
	week := 54
	cases := map[string]dto.CheckinRequest{
		"unknown domain":     {PrimaryDomain: "weather", Intensity: 3},
		"intensity too high": {PrimaryDomain: "academic", Intensity: 6},
		"intensity missing":  {PrimaryDomain: "academic"},
		"same secondary":     {PrimaryDomain: "academic", SecondaryDomain: strPtr("Academic"), Intensity: 3},
		"unknown secondary":  {PrimaryDomain: "academic", SecondaryDomain: strPtr("weather"), Intensity: 3},
		"unknown self harm":  {PrimaryDomain: "academic", Intensity: 3, SelfHarm: strPtr("rarely")},
		"week out of range":  {PrimaryDomain: "academic", Intensity: 3, WeekNumber: &week},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), "user-1", "inst-1", req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}

	_, err := svc.Submit(context.Background(), "user-1", "", dto.CheckinRequest{PrimaryDomain: "academic", Intensity: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRegisterCheckinValidations(t *testing.T) {
	validate := validator.New()
	require.NoError(t, RegisterCheckinValidations(validate))
	require.NoError(t, RegisterCheckinValidations(validate))

	assert.NoError(t, validate.Struct(dto.CheckinRequest{PrimaryDomain: "academic", Intensity: 3, SelfHarm: strPtr("sometimes")}))
	assert.Error(t, validate.Struct(dto.CheckinRequest{PrimaryDomain: "weather", Intensity: 3}))
	assert.Error(t, validate.Struct(dto.CheckinRequest{PrimaryDomain: "academic", Intensity: 3, SelfHarm: strPtr("rarely")}))
}

func TestCheckinServiceSharedValidator(t *testing.T) {
	validate := validator.New()
	params := CheckinServiceParams{
		Store:      memory.NewStore(),
		Validator:  validate,
		Pseudonyms: pseudonym.New("test"),
	}
	first := NewCheckinService(params)
	second := NewCheckinService(params)

	for _, svc := range []*CheckinService{first, second} {
		svc.now = func() time.Time { return checkinNow }
		_, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "weather", Intensity: 3})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

		resp, err := svc.Submit(context.Background(), "user-1", "inst-1", dto.CheckinRequest{PrimaryDomain: "family", Intensity: 2})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.SubmissionID)
	}
}
