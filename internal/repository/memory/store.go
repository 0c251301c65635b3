// Package memory provides an in-process store satisfying the submission and
// classification query contracts. It backs tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// Store keeps submissions and classifications in memory.
type Store struct {
	mu              sync.RWMutex
	submissions     []models.Submission
	classifications []models.RiskClassification
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// CreateSubmission appends a submission.
func (s *Store) CreateSubmission(_ context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, *submission)
	return nil
}

// RecentSubmissionsByUser returns up to limit submissions for the user, most recent first.
func (s *Store) RecentSubmissionsByUser(_ context.Context, userID string, limit int) ([]models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Submission
	for _, sub := range s.submissions {
		if sub.UserID == userID {
			result = append(result, sub)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListSubmissions returns submissions matching the filter ordered by creation time.
func (s *Store) ListSubmissions(_ context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Submission
	for _, sub := range s.submissions {
		if matchSubmission(sub, filter) {
			result = append(result, sub)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// LatestAcademicWeek returns the most recent academic week with data for the institution, or nil.
func (s *Store) LatestAcademicWeek(_ context.Context, institutionID string) (*models.AcademicWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.AcademicWeek
	for _, sub := range s.submissions {
		if sub.InstitutionID != institutionID {
			continue
		}
		if latest == nil || sub.AcademicYear > latest.AcademicYear ||
			(sub.AcademicYear == latest.AcademicYear && sub.WeekNumber > latest.WeekNumber) {
			latest = &models.AcademicWeek{AcademicYear: sub.AcademicYear, WeekNumber: sub.WeekNumber}
		}
	}
	return latest, nil
}

// CreateClassification appends a classification record.
func (s *Store) CreateClassification(_ context.Context, classification *models.RiskClassification) error {
	if classification.ID == "" {
		classification.ID = uuid.NewString()
	}
	if classification.CreatedAt.IsZero() {
		classification.CreatedAt = time.Now().UTC()
	}
	record := *classification
	record.TriggerCodes = append([]models.TriggerCode(nil), classification.TriggerCodes...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifications = append(s.classifications, record)
	return nil
}

// ListClassifications returns classifications matching the filter ordered by creation time.
func (s *Store) ListClassifications(_ context.Context, filter models.ClassificationFilter) ([]models.RiskClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.RiskClassification
	for _, c := range s.classifications {
		if filter.InstitutionID != "" && c.InstitutionID != filter.InstitutionID {
			continue
		}
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		if !inRange(c.CreatedAt, filter.From, filter.To) {
			continue
		}
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func matchSubmission(sub models.Submission, filter models.SubmissionFilter) bool {
	if filter.InstitutionID != "" && sub.InstitutionID != filter.InstitutionID {
		return false
	}
	if filter.UserID != "" && sub.UserID != filter.UserID {
		return false
	}
	if filter.AcademicYear != 0 && sub.AcademicYear != filter.AcademicYear {
		return false
	}
	if filter.WeekFrom != 0 && sub.WeekNumber < filter.WeekFrom {
		return false
	}
	if filter.WeekTo != 0 && sub.WeekNumber > filter.WeekTo {
		return false
	}
	return inRange(sub.CreatedAt, filter.From, filter.To)
}

func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && !ts.Before(*to) {
		return false
	}
	return true
}
