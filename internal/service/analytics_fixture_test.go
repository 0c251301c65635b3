package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/repository/memory"
)

var analyticsNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type checkin struct {
	user      string
	domain    models.Domain
	secondary models.Domain
	intensity int
	at        time.Time
	week      int
	year      int
}

func seedCheckins(t *testing.T, store *memory.Store, institutionID string, checkins ...checkin) {
	t.Helper()
	for _, c := range checkins {
		sub := &models.Submission{
			UserID:        c.user,
			InstitutionID: institutionID,
			PrimaryDomain: c.domain,
			Intensity:     c.intensity,
			SelfHarm:      models.SelfHarmNone,
			CreatedAt:     c.at,
			WeekNumber:    c.week,
			AcademicYear:  c.year,
		}
		if c.secondary != "" {
			secondary := c.secondary
			sub.SecondaryDomain = &secondary
		}
		require.NoError(t, store.CreateSubmission(context.Background(), sub))
	}
}

func seedClassifications(t *testing.T, store *memory.Store, institutionID string, at time.Time, tiers map[string][]models.RiskTier) {
	t.Helper()
	for user, list := range tiers {
		for _, tier := range list {
			require.NoError(t, store.CreateClassification(context.Background(), &models.RiskClassification{
				InstitutionID: institutionID,
				UserID:        user,
				Tier:          tier,
				CreatedAt:     at,
			}))
		}
	}
}

// uniformCohort builds n users (prefix-0..n-1) each submitting once with the given domain and intensity.
func uniformCohort(prefix string, n int, domain models.Domain, intensity int, at time.Time) []checkin {
	result := make([]checkin, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, checkin{user: fmt.Sprintf("%s-%d", prefix, i), domain: domain, intensity: intensity, at: at})
	}
	return result
}

type failingAnalyticsStore struct {
	*memory.Store
}

func (failingAnalyticsStore) ListSubmissions(context.Context, models.SubmissionFilter) ([]models.Submission, error) {
	return nil, errors.New("connection refused")
}

func (failingAnalyticsStore) LatestAcademicWeek(context.Context, string) (*models.AcademicWeek, error) {
	return nil, errors.New("connection refused")
}
