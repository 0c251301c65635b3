package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

const submissionColumns = `id, user_id, institution_id, week_number, academic_year, primary_domain, secondary_domain, intensity, reflection, self_harm, self_harm_inferred, created_at`

// SubmissionRepository persists wellbeing check-ins.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// CreateSubmission inserts an immutable submission row.
func (r *SubmissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO checkin_submissions (` + submissionColumns + `)
VALUES (:id, :user_id, :institution_id, :week_number, :academic_year, :primary_domain, :secondary_domain, :intensity, :reflection, :self_harm, :self_harm_inferred, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// RecentSubmissionsByUser returns up to limit prior submissions for a user, most recent first.
func (r *SubmissionRepository) RecentSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM checkin_submissions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent submissions: %w", err)
	}
	return submissions, nil
}

// ListSubmissions returns submissions matching the filter ordered by creation time.
func (r *SubmissionRepository) ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ` + submissionColumns + ` FROM checkin_submissions WHERE 1=1`)
	var args []interface{}
	if filter.InstitutionID != "" {
		args = append(args, filter.InstitutionID)
		builder.WriteString(fmt.Sprintf(" AND institution_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		builder.WriteString(fmt.Sprintf(" AND user_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		builder.WriteString(fmt.Sprintf(" AND created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		builder.WriteString(fmt.Sprintf(" AND created_at < $%d", len(args)))
	}
	if filter.AcademicYear != 0 {
		args = append(args, filter.AcademicYear)
		builder.WriteString(fmt.Sprintf(" AND academic_year = $%d", len(args)))
	}
	if filter.WeekFrom != 0 {
		args = append(args, filter.WeekFrom)
		builder.WriteString(fmt.Sprintf(" AND week_number >= $%d", len(args)))
	}
	if filter.WeekTo != 0 {
		args = append(args, filter.WeekTo)
		builder.WriteString(fmt.Sprintf(" AND week_number <= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY created_at ASC")

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// LatestAcademicWeek returns the newest academic week holding data for the institution, or nil when none exists.
func (r *SubmissionRepository) LatestAcademicWeek(ctx context.Context, institutionID string) (*models.AcademicWeek, error) {
	const query = `SELECT academic_year, week_number FROM checkin_submissions WHERE institution_id = $1 ORDER BY academic_year DESC, week_number DESC LIMIT 1`
	var week models.AcademicWeek
	if err := r.db.GetContext(ctx, &week, query, institutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest academic week: %w", err)
	}
	return &week, nil
}
