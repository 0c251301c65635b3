package dto

import (
	"time"

	"github.com/noah-isme/wellbeing-api/internal/models"
)

// Trend metric names, used for suppression accounting and exports.
const (
	MetricHighIntensityShare   = "high_intensity_share"
	MetricWeekOverWeekChange   = "week_over_week_change"
	MetricTopDomain            = "top_domain"
	MetricDomainDistribution   = "domain_distribution"
	MetricSustainedPressure    = "sustained_pressure"
	MetricRiskTierDistribution = "risk_tier_distribution"
)

// Suppression is embedded in every metric. Consumers must read Suppressed rather than infer it from absent values.
type Suppression struct {
	Suppressed bool   `json:"suppressed"`
	Message    string `json:"message,omitempty"`
}

// ValueMetric carries a single percentage value.
type ValueMetric struct {
	Suppression
	Value *float64 `json:"value"`
}

// DomainStat is the per-domain aggregate built from per-user averages.
type DomainStat struct {
	Domain             models.Domain `json:"domain"`
	AverageIntensity   float64       `json:"averageIntensity"`
	UserCount          int           `json:"userCount"`
	HighIntensityUsers int           `json:"highIntensityUsers"`
	HighIntensityShare float64       `json:"highIntensityShare"`
}

// DomainDistributionMetric lists every domain that met the anonymity floor.
type DomainDistributionMetric struct {
	Suppression
	Domains []DomainStat `json:"domains"`
}

// TopDomainMetric is the domain with the highest average intensity.
type TopDomainMetric struct {
	Suppression
	Domain           models.Domain `json:"domain,omitempty"`
	AverageIntensity *float64      `json:"averageIntensity"`
	Recommendation   string        `json:"recommendation,omitempty"`
}

// SustainedPressureMetric lists domains under high pressure in consecutive qualifying windows.
type SustainedPressureMetric struct {
	Suppression
	Domains []models.Domain `json:"domains"`
}

// RiskTierDistributionMetric counts the highest tier reached by each distinct user.
type RiskTierDistributionMetric struct {
	Suppression
	Tiers *RiskTierCounts `json:"tiers"`
}

// RollingTrendResponse compares the trailing window with the one before it.
type RollingTrendResponse struct {
	InstitutionID        string                     `json:"institutionId"`
	Model                string                     `json:"model"`
	Current              WindowBounds               `json:"current"`
	Previous             WindowBounds               `json:"previous"`
	MinCohortSize        int                        `json:"minCohortSize"`
	HighIntensityShare   ValueMetric                `json:"highIntensityShare"`
	WeekOverWeekChange   ValueMetric                `json:"weekOverWeekChange"`
	TopDomain            TopDomainMetric            `json:"topDomain"`
	DomainDistribution   DomainDistributionMetric   `json:"domainDistribution"`
	SustainedPressure    SustainedPressureMetric    `json:"sustainedPressure"`
	RiskTierDistribution RiskTierDistributionMetric `json:"riskTierDistribution"`
	GeneratedAt          time.Time                  `json:"generatedAt"`
}

// AcademicWeekPoint is one week in an academic-window series.
type AcademicWeekPoint struct {
	Suppression
	WeekNumber         int      `json:"weekNumber"`
	AverageIntensity   *float64 `json:"averageIntensity"`
	HighIntensityShare *float64 `json:"highIntensityShare"`
}

// AcademicTrendResponse covers the N academic weeks ending at the latest week with data.
type AcademicTrendResponse struct {
	InstitutionID      string                   `json:"institutionId"`
	Model              string                   `json:"model"`
	AcademicYear       int                      `json:"academicYear"`
	FromWeek           int                      `json:"fromWeek"`
	ToWeek             int                      `json:"toWeek"`
	MinCohortSize      int                      `json:"minCohortSize"`
	Weeks              []AcademicWeekPoint      `json:"weeks"`
	TopDomain          TopDomainMetric          `json:"topDomain"`
	DomainDistribution DomainDistributionMetric `json:"domainDistribution"`
	SustainedPressure  SustainedPressureMetric  `json:"sustainedPressure"`
	GeneratedAt        time.Time                `json:"generatedAt"`
}
