package service

import (
	"fmt"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// RecommendationEngine identifies which aggregate view is asking for a recommendation.
type RecommendationEngine string

const (
	RecommendationEngineCohort RecommendationEngine = "cohort"
	RecommendationEngineTrend  RecommendationEngine = "trend"
)

// Generic recommendations appended to the snapshot.
const (
	RecommendationGeneric         = "Share the general wellbeing resources and drop-in hours with the whole cohort."
	RecommendationHighDistress    = "A large share of students report high intensity; schedule a cohort-wide pastoral check-in."
	RecommendationSupportEligible = "Several students reached an elevated risk tier; review the support referral queue today."
)

// DefaultRecommendations maps each domain to its staff-facing action.
var DefaultRecommendations = map[models.Domain]string{
	models.DomainAcademic:  "offer study-skills sessions and review upcoming assessment load",
	models.DomainSocial:    "run peer-support or small-group connection activities",
	models.DomainFamily:    "make family liaison and counselling contacts visible",
	models.DomainFinancial: "signpost hardship funds and financial advice services",
	models.DomainHealth:    "promote health services, sleep and activity resources",
	models.DomainFuture:    "arrange careers guidance and pathway conversations",
	models.DomainBelonging: "strengthen mentoring, clubs and inclusion initiatives",
}

var enginePhrasing = map[RecommendationEngine]string{
	RecommendationEngineCohort: "Most reported pressure this week is %s: %s.",
	RecommendationEngineTrend:  "Pressure is most intense in %s: %s.",
}

// RecommendationTable is the one domain-keyed lookup used by both the snapshot and the trends.
type RecommendationTable struct {
	entries map[models.Domain]string
}

// NewRecommendationTable builds a table. A nil map uses DefaultRecommendations.
func NewRecommendationTable(entries map[models.Domain]string) *RecommendationTable {
	if entries == nil {
		entries = DefaultRecommendations
	}
	return &RecommendationTable{entries: entries}
}

// For returns the recommendation for domain phrased for engine, and whether an entry exists.
func (t *RecommendationTable) For(engine RecommendationEngine, domain models.Domain) (string, bool) {
	if t == nil || domain == "" {
		return "", false
	}
	action, ok := t.entries[domain]
	if !ok || action == "" {
		return "", false
	}
	format, ok := enginePhrasing[engine]
	if !ok {
		format = enginePhrasing[RecommendationEngineCohort]
	}
	return fmt.Sprintf(format, domain, action), true
}
