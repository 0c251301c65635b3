package dto

import (
	"time"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// WindowBounds is a half-open [start, end) time range.
type WindowBounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DomainCount is the number of distinct users who tagged a domain as primary or secondary.
type DomainCount struct {
	Domain models.Domain `json:"domain"`
	Count  int           `json:"count"`
}

// RiskTierCounts counts classifications per tier.
type RiskTierCounts struct {
	Tier0 int `json:"tier0"`
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

// Add increments the counter for tier.
func (c *RiskTierCounts) Add(tier models.RiskTier) {
	switch tier {
	case models.RiskTierHigh:
		c.Tier3++
	case models.RiskTierElevated:
		c.Tier2++
	case models.RiskTierLow:
		c.Tier1++
	default:
		c.Tier0++
	}
}

// CohortSnapshotResponse is the current-window population snapshot for an institution.
// When Suppressed is true every numeric field is zero and every list is empty.
// DomainFrequencyStatus is set when no domain reaches the anonymity floor.
type CohortSnapshotResponse struct {
	InstitutionID         string         `json:"institutionId"`
	Window                WindowBounds   `json:"window"`
	MinCohortSize         int            `json:"minCohortSize"`
	Suppressed            bool           `json:"suppressed"`
	BelowThreshold        bool           `json:"belowThreshold"`
	Message               string         `json:"message,omitempty"`
	CohortSize            int            `json:"cohortSize"`
	SubmissionCount       int            `json:"submissionCount"`
	TopDomain             models.Domain  `json:"topDomain,omitempty"`
	DomainFrequency       []DomainCount  `json:"domainFrequency"`
	DomainFrequencyStatus Suppression    `json:"domainFrequencyStatus"`
	AverageIntensity      float64        `json:"averageIntensity"`
	HighDistressShare     float64        `json:"highDistressShare"`
	RiskTiers             RiskTierCounts `json:"riskTiers"`
	RiskTiersStatus       Suppression    `json:"riskTiersStatus"`
	SupportEligible       int            `json:"supportEligible"`
	Recommendations       []string       `json:"recommendations"`
	GeneratedAt           time.Time      `json:"generatedAt"`
}
