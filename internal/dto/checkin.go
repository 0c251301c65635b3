package dto

import (
	"time"

	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/risk"
)

// CheckinRequest is the payload a student submits.
type CheckinRequest struct {
	PrimaryDomain   string  `json:"primaryDomain" validate:"required,domain"`
	SecondaryDomain *string `json:"secondaryDomain,omitempty" validate:"omitempty,domain"`
	Intensity       int     `json:"intensity" validate:"required,min=1,max=5"`
	Reflection      string  `json:"reflection" validate:"max=4000"`
	SelfHarm        *string `json:"selfHarm,omitempty" validate:"omitempty,self_harm"`
	WeekNumber      *int    `json:"weekNumber,omitempty" validate:"omitempty,min=1,max=53"`
	AcademicYear    *int    `json:"academicYear,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// CheckinResponse is returned once the submission is stored.
// Tier follows score boundaries (see risk.Tier), so TriggerCodes may be non-empty at tier 0.
type CheckinResponse struct {
	SubmissionID      string                `json:"submissionId"`
	WeekNumber        int                   `json:"weekNumber"`
	AcademicYear      int                   `json:"academicYear"`
	Score             int                   `json:"score"`
	Tier              models.RiskTier       `json:"tier"`
	HighRisk          bool                  `json:"highRisk"`
	TriggerCodes      []models.TriggerCode  `json:"triggerCodes"`
	Explanation       string                `json:"explanation"`
	Confidence        models.ConfidenceBand `json:"confidence"`
	ClassifierVersion string                `json:"classifierVersion"`
	SelfHarmInferred  bool                  `json:"selfHarmInferred"`
	Signals           risk.Signals          `json:"signals"`
	ClassificationOK  bool                  `json:"classificationStored"`
	CreatedAt         time.Time             `json:"createdAt"`
}
