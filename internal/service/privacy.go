package service

import "github.com/noah-isme/wellbeing-api/internal/dto"

// DefaultMinCohortSize is the anonymity floor used when none is configured.
const DefaultMinCohortSize = 10

// Suppression messages returned to consumers alongside suppressed=true.
const (
	MessageInsufficientCohort     = "Fewer than the minimum number of students checked in during this period, so this metric is hidden."
	MessageInsufficientPrevious   = "Fewer than the minimum number of students checked in during the previous period, so no comparison is shown."
	MessageNoBaseline             = "The previous period has no baseline intensity to compare against."
	MessageNoQualifyingDomain     = "No pressure domain had enough students to be reported."
	MessageInsufficientClassified = "Fewer than the minimum number of students have a risk classification in this period, so the distribution is hidden."
	MessageNoCheckins             = "No check-ins have been recorded for this institution yet."
)

// Views used to label suppression accounting.
const (
	viewSnapshot = "snapshot"
	viewRolling  = "rolling"
	viewAcademic = "academic"
)

// PrivacyGuard applies the single anonymity floor shared by every aggregate view.
type PrivacyGuard struct {
	minCohortSize int
	metrics       *MetricsService
}

// NewPrivacyGuard constructs a guard. A non-positive floor falls back to DefaultMinCohortSize.
func NewPrivacyGuard(minCohortSize int, metrics *MetricsService) *PrivacyGuard {
	if minCohortSize <= 0 {
		minCohortSize = DefaultMinCohortSize
	}
	return &PrivacyGuard{minCohortSize: minCohortSize, metrics: metrics}
}

// MinCohortSize returns k.
func (g *PrivacyGuard) MinCohortSize() int {
	if g == nil {
		return DefaultMinCohortSize
	}
	return g.minCohortSize
}

// Meets reports whether distinctUsers reaches the floor.
func (g *PrivacyGuard) Meets(distinctUsers int) bool {
	return distinctUsers >= g.MinCohortSize()
}

// Suppress records a withheld metric and returns its suppression marker.
func (g *PrivacyGuard) Suppress(view, metric, message string) dto.Suppression {
	if g != nil {
		g.metrics.RecordSuppression(view, metric)
	}
	return dto.Suppression{Suppressed: true, Message: message}
}
