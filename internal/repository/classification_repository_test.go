package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

func TestClassificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSubmissionMock(t)
	defer cleanup()
	repo := NewClassificationRepository(db)

	mock.ExpectExec("INSERT INTO risk_classifications").
		WithArgs(sqlmock.AnyArg(), "sub-1", "inst-1", "user-1", 9, 2, sqlmock.AnyArg(), "Score 9", "high", "rules-v1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateClassification(context.Background(), &models.RiskClassification{
		SubmissionID:      "sub-1",
		InstitutionID:     "inst-1",
		UserID:            "user-1",
		Score:             9,
		Tier:              models.RiskTierElevated,
		TriggerCodes:      []models.TriggerCode{models.TriggerSelfHarmSometimes, models.TriggerHighIntensity},
		Explanation:       "Score 9",
		Confidence:        models.ConfidenceHigh,
		ClassifierVersion: "rules-v1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassificationRepositoryCreateWrapsError(t *testing.T) {
	db, mock, cleanup := newSubmissionMock(t)
	defer cleanup()
	repo := NewClassificationRepository(db)

	mock.ExpectExec("INSERT INTO risk_classifications").WillReturnError(errors.New("connection reset"))

	err := repo.CreateClassification(context.Background(), &models.RiskClassification{SubmissionID: "sub-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create classification")
}

func TestClassificationRepositoryList(t *testing.T) {
	db, mock, cleanup := newSubmissionMock(t)
	defer cleanup()
	repo := NewClassificationRepository(db)

	from := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	rows := sqlmock.NewRows([]string{"id", "submission_id", "institution_id", "user_id", "score", "tier", "trigger_codes", "explanation", "confidence", "classifier_version", "created_at"}).
		AddRow("cls-1", "sub-1", "inst-1", "user-1", 9, 2, "{self_harm_sometimes,high_intensity,intensity_spike}", "Score 9", "high", "rules-v1", from.Add(time.Hour))
	mock.ExpectQuery(`FROM risk_classifications WHERE 1=1 AND institution_id = \$1 AND created_at >= \$2 AND created_at < \$3`).
		WithArgs("inst-1", from, to).
		WillReturnRows(rows)

	items, err := repo.ListClassifications(context.Background(), models.ClassificationFilter{InstitutionID: "inst-1", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.RiskTierElevated, items[0].Tier)
	assert.Equal(t, []models.TriggerCode{models.TriggerSelfHarmSometimes, models.TriggerHighIntensity, models.TriggerIntensitySpike}, items[0].TriggerCodes)
	assert.Equal(t, models.ConfidenceHigh, items[0].Confidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
