package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

func TestStoreRecentSubmissionsByUser(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateSubmission(ctx, &models.Submission{
			UserID:        "user-1",
			InstitutionID: "inst-1",
			Intensity:     i + 1,
			CreatedAt:     base.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{UserID: "user-2", InstitutionID: "inst-1", CreatedAt: base}))

	recent, err := store.RecentSubmissionsByUser(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, 5, recent[0].Intensity)
	assert.Equal(t, 3, recent[2].Intensity)
	assert.NotEmpty(t, recent[0].ID)
}

func TestStoreListSubmissionsHalfOpenWindow(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	for _, ts := range []time.Time{start.Add(-time.Second), start, end.Add(-time.Second), end} {
		require.NoError(t, store.CreateSubmission(ctx, &models.Submission{UserID: "user-1", InstitutionID: "inst-1", CreatedAt: ts}))
	}
	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{UserID: "user-3", InstitutionID: "inst-2", CreatedAt: start}))

	subs, err := store.ListSubmissions(ctx, models.SubmissionFilter{InstitutionID: "inst-1", From: &start, To: &end})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, start, subs[0].CreatedAt)
}

func TestStoreListSubmissionsByAcademicRange(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for week := 1; week <= 6; week++ {
		require.NoError(t, store.CreateSubmission(ctx, &models.Submission{UserID: "user-1", InstitutionID: "inst-1", AcademicYear: 2026, WeekNumber: week}))
	}
	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{UserID: "user-1", InstitutionID: "inst-1", AcademicYear: 2025, WeekNumber: 4}))

	subs, err := store.ListSubmissions(ctx, models.SubmissionFilter{InstitutionID: "inst-1", AcademicYear: 2026, WeekFrom: 3, WeekTo: 5})
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestStoreLatestAcademicWeek(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	week, err := store.LatestAcademicWeek(ctx, "inst-1")
	require.NoError(t, err)
	assert.Nil(t, week)

	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{InstitutionID: "inst-1", AcademicYear: 2025, WeekNumber: 40}))
	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{InstitutionID: "inst-1", AcademicYear: 2026, WeekNumber: 3}))
	require.NoError(t, store.CreateSubmission(ctx, &models.Submission{InstitutionID: "inst-2", AcademicYear: 2026, WeekNumber: 9}))

	week, err = store.LatestAcademicWeek(ctx, "inst-1")
	require.NoError(t, err)
	require.NotNil(t, week)
	assert.Equal(t, models.AcademicWeek{AcademicYear: 2026, WeekNumber: 3}, *week)
}

func TestStoreClassificationsCopyTriggers(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	triggers := []models.TriggerCode{models.TriggerHighIntensity}
	require.NoError(t, store.CreateClassification(ctx, &models.RiskClassification{InstitutionID: "inst-1", UserID: "user-1", TriggerCodes: triggers}))
	triggers[0] = models.TriggerSelfHarmOften

	items, err := store.ListClassifications(ctx, models.ClassificationFilter{InstitutionID: "inst-1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.TriggerHighIntensity, items[0].TriggerCodes[0])

	items, err = store.ListClassifications(ctx, models.ClassificationFilter{InstitutionID: "inst-1", UserID: "user-2"})
	require.NoError(t, err)
	assert.Empty(t, items)
}
