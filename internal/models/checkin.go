package models

import "time"

// Domain is one of the fixed pressure categories a check-in can be tagged with.
type Domain string

const (
	DomainAcademic  Domain = "academic"
	DomainSocial    Domain = "social"
	DomainFamily    Domain = "family"
	DomainFinancial Domain = "financial"
	DomainHealth    Domain = "health"
	DomainFuture    Domain = "future"
	DomainBelonging Domain = "belonging"
)

// Domains lists every domain in canonical order. Ties in rankings resolve by this order.
var Domains = []Domain{
	DomainAcademic,
	DomainSocial,
	DomainFamily,
	DomainFinancial,
	DomainHealth,
	DomainFuture,
	DomainBelonging,
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// SelfHarmIndicator is the three-valued self-harm signal attached to a check-in.
type SelfHarmIndicator string

const (
	SelfHarmNone      SelfHarmIndicator = "none"
	SelfHarmSometimes SelfHarmIndicator = "sometimes"
	SelfHarmOften     SelfHarmIndicator = "often"
)

// Valid reports whether the indicator is one of the known values.
func (s SelfHarmIndicator) Valid() bool {
	switch s {
	case SelfHarmNone, SelfHarmSometimes, SelfHarmOften:
		return true
	default:
		return false
	}
}

// HighIntensityThreshold is the intensity at or above which a rating counts as high.
const HighIntensityThreshold = 4

// Submission is a single wellbeing check-in. Submissions are immutable once stored.
type Submission struct {
	ID               string            `db:"id" json:"id"`
	UserID           string            `db:"user_id" json:"user_id"`
	InstitutionID    string            `db:"institution_id" json:"institution_id"`
	WeekNumber       int               `db:"week_number" json:"week_number"`
	AcademicYear     int               `db:"academic_year" json:"academic_year"`
	PrimaryDomain    Domain            `db:"primary_domain" json:"primary_domain"`
	SecondaryDomain  *Domain           `db:"secondary_domain" json:"secondary_domain,omitempty"`
	Intensity        int               `db:"intensity" json:"intensity"`
	Reflection       string            `db:"reflection" json:"reflection"`
	SelfHarm         SelfHarmIndicator `db:"self_harm" json:"self_harm"`
	SelfHarmInferred bool              `db:"self_harm_inferred" json:"self_harm_inferred"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

// HighIntensity reports whether the submission's intensity is at or above the high threshold.
func (s Submission) HighIntensity() bool {
	return s.Intensity >= HighIntensityThreshold
}

// SubmissionFilter scopes submission queries. Time bounds are half-open: [From, To).
type SubmissionFilter struct {
	InstitutionID string
	UserID        string
	From          *time.Time
	To            *time.Time
	AcademicYear  int
	WeekFrom      int
	WeekTo        int
}

// AcademicWeek identifies a week within an academic year.
type AcademicWeek struct {
	AcademicYear int `db:"academic_year" json:"academic_year"`
	WeekNumber   int `db:"week_number" json:"week_number"`
}
