package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// ClassificationRepository persists the audit trail of risk classifications.
type ClassificationRepository struct {
	db *sqlx.DB
}

// NewClassificationRepository constructs the repository.
func NewClassificationRepository(db *sqlx.DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

type classificationRow struct {
	models.RiskClassification
	Triggers pq.StringArray `db:"trigger_codes"`
}

// CreateClassification inserts a classification record.
func (r *ClassificationRepository) CreateClassification(ctx context.Context, classification *models.RiskClassification) error {
	if classification.ID == "" {
		classification.ID = uuid.NewString()
	}
	if classification.CreatedAt.IsZero() {
		classification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO risk_classifications (id, submission_id, institution_id, user_id, score, tier, trigger_codes, explanation, confidence, classifier_version, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		classification.ID,
		classification.SubmissionID,
		classification.InstitutionID,
		classification.UserID,
		classification.Score,
		int(classification.Tier),
		pqStringArray(triggerStrings(classification.TriggerCodes)),
		classification.Explanation,
		string(classification.Confidence),
		classification.ClassifierVersion,
		classification.CreatedAt,
	); err != nil {
		return fmt.Errorf("create classification: %w", err)
	}
	return nil
}

// ListClassifications returns classifications matching the filter ordered by creation time.
func (r *ClassificationRepository) ListClassifications(ctx context.Context, filter models.ClassificationFilter) ([]models.RiskClassification, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT id, submission_id, institution_id, user_id, score, tier, trigger_codes, explanation, confidence, classifier_version, created_at
FROM risk_classifications WHERE 1=1`)
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
	builder.WriteString(" ORDER BY created_at ASC")

	var rows []classificationRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	result := make([]models.RiskClassification, 0, len(rows))
	for _, row := range rows {
		item := row.RiskClassification
		item.TriggerCodes = make([]models.TriggerCode, 0, len(row.Triggers))
		for _, code := range row.Triggers {
			item.TriggerCodes = append(item.TriggerCodes, models.TriggerCode(code))
		}
		result = append(result, item)
	}
	return result, nil
}

func triggerStrings(codes []models.TriggerCode) []string {
	values := make([]string, 0, len(codes))
	for _, code := range codes {
		values = append(values, string(code))
	}
	return values
}

// pqStringArray helper ensures we pass string arrays consistently.
func pqStringArray(values []string) interface{} {
	return pq.Array(values)
}
