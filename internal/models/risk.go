package models

import "time"

// RiskTier is the ordinal 0..3 risk classification of a single submission.
type RiskTier int

const (
	RiskTierNone RiskTier = iota
	RiskTierLow
	RiskTierElevated
	RiskTierHigh
)

// RiskTiers lists every tier in ascending order.
var RiskTiers = []RiskTier{RiskTierNone, RiskTierLow, RiskTierElevated, RiskTierHigh}

// TriggerCode names a scoring rule that fired.
type TriggerCode string

const (
	TriggerSelfHarmSometimes   TriggerCode = "self_harm_sometimes"
	TriggerSelfHarmOften       TriggerCode = "self_harm_often"
	TriggerHighIntensity       TriggerCode = "high_intensity"
	TriggerIntensitySpike      TriggerCode = "intensity_spike"
	TriggerRepeatedDomainSpike TriggerCode = "repeated_domain_spike"
)

// ConfidenceBand expresses how much historical and explicit input backed a classification.
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
)

// RiskClassification is the persisted audit record of a submission's scoring.
type RiskClassification struct {
	ID                string         `db:"id" json:"id"`
	SubmissionID      string         `db:"submission_id" json:"submission_id"`
	InstitutionID     string         `db:"institution_id" json:"institution_id"`
	UserID            string         `db:"user_id" json:"user_id"`
	Score             int            `db:"score" json:"score"`
	Tier              RiskTier       `db:"tier" json:"tier"`
	TriggerCodes      []TriggerCode  `db:"-" json:"trigger_codes"`
	Explanation       string         `db:"explanation" json:"explanation"`
	Confidence        ConfidenceBand `db:"confidence" json:"confidence"`
	ClassifierVersion string         `db:"classifier_version" json:"classifier_version"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// ClassificationFilter scopes classification queries. Time bounds are half-open: [From, To).
type ClassificationFilter struct {
	InstitutionID string
	UserID        string
	From          *time.Time
	To            *time.Time
}
