package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
	"github.com/noah-isme/wellbeing-api/pkg/export"
)

const suppressedValue = "suppressed"

var exportHeaders = []string{"section", "metric", "value", "status"}

type snapshotProvider interface {
	Snapshot(ctx context.Context, institutionID string) (*dto.CohortSnapshotResponse, bool, error)
}

type rollingTrendProvider interface {
	Rolling(ctx context.Context, institutionID string) (*dto.RollingTrendResponse, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered report ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the cohort snapshot and rolling trend as CSV or PDF.
type ExportService struct {
	snapshots snapshotProvider
	trends    rollingTrendProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(snapshots snapshotProvider, trends rollingTrendProvider, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{snapshots: snapshots, trends: trends, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export renders the institution's current aggregate view. Suppressed metrics never carry numbers.
func (s *ExportService) Export(ctx context.Context, institutionID, format string) (*ExportFile, error) {
	kind, ok := export.ParseFormat(format)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	snapshot, _, err := s.snapshots.Snapshot(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	trend, _, err := s.trends.Rolling(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	dataset := BuildCohortDataset(snapshot, trend)
	var data []byte
	switch kind {
	case export.FormatPDF:
		data, err = s.pdf.Render(dataset, "Cohort wellbeing report")
	default:
		data, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.logger.Error("render export failed", zap.String("institution_id", institutionID), zap.String("format", string(kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("cohort-%s-%s.%s", institutionID, s.now().UTC().Format("20060102"), kind)
	return &ExportFile{Filename: filename, ContentType: kind.ContentType(), Data: data}, nil
}

// BuildCohortDataset flattens the snapshot and rolling trend into export rows.
func BuildCohortDataset(snapshot *dto.CohortSnapshotResponse, trend *dto.RollingTrendResponse) export.Dataset {
	rows := make([]map[string]string, 0, 24)
	add := func(section, metric, value, status string) {
		rows = append(rows, map[string]string{"section": section, "metric": metric, "value": value, "status": status})
	}

	if snapshot != nil {
		if snapshot.Suppressed {
			add("snapshot", "cohort", suppressedValue, snapshot.Message)
		} else {
			add("snapshot", "cohort_size", strconv.Itoa(snapshot.CohortSize), "")
			add("snapshot", "submission_count", strconv.Itoa(snapshot.SubmissionCount), "")
			if snapshot.DomainFrequencyStatus.Suppressed {
				add("snapshot", "top_domain", suppressedValue, snapshot.DomainFrequencyStatus.Message)
			} else {
				add("snapshot", "top_domain", string(snapshot.TopDomain), "")
			}
			add("snapshot", "average_intensity", formatFloat(snapshot.AverageIntensity), "")
			add("snapshot", "high_distress_share_pct", formatFloat(snapshot.HighDistressShare), "")
			if snapshot.RiskTiersStatus.Suppressed {
				add("snapshot", "risk_tiers", suppressedValue, snapshot.RiskTiersStatus.Message)
			} else {
				add("snapshot", "risk_tier_0", strconv.Itoa(snapshot.RiskTiers.Tier0), "")
				add("snapshot", "risk_tier_1", strconv.Itoa(snapshot.RiskTiers.Tier1), "")
				add("snapshot", "risk_tier_2", strconv.Itoa(snapshot.RiskTiers.Tier2), "")
				add("snapshot", "risk_tier_3", strconv.Itoa(snapshot.RiskTiers.Tier3), "")
				add("snapshot", "support_eligible", strconv.Itoa(snapshot.SupportEligible), "")
			}
			for _, rec := range snapshot.Recommendations {
				add("snapshot", "recommendation", rec, "")
			}
		}
	}

	if trend != nil {
		addValue := func(metric string, m dto.ValueMetric) {
			if m.Suppressed || m.Value == nil {
				add("trend", metric, suppressedValue, m.Message)
				return
			}
			add("trend", metric, formatFloat(*m.Value), "")
		}
		addValue(dto.MetricHighIntensityShare, trend.HighIntensityShare)
		addValue(dto.MetricWeekOverWeekChange, trend.WeekOverWeekChange)

		if trend.TopDomain.Suppressed {
			add("trend", dto.MetricTopDomain, suppressedValue, trend.TopDomain.Message)
		} else {
			add("trend", dto.MetricTopDomain, string(trend.TopDomain.Domain), trend.TopDomain.Recommendation)
		}

		if trend.DomainDistribution.Suppressed {
			add("trend", dto.MetricDomainDistribution, suppressedValue, trend.DomainDistribution.Message)
		} else {
			for _, stat := range trend.DomainDistribution.Domains {
				add("trend", dto.MetricDomainDistribution+":"+string(stat.Domain),
					fmt.Sprintf("avg %s, users %d, high %s%%", formatFloat(stat.AverageIntensity), stat.UserCount, formatFloat(stat.HighIntensityShare)), "")
			}
		}

		if trend.SustainedPressure.Suppressed {
			add("trend", dto.MetricSustainedPressure, suppressedValue, trend.SustainedPressure.Message)
		} else {
			domains := make([]string, 0, len(trend.SustainedPressure.Domains))
			for _, d := range trend.SustainedPressure.Domains {
				domains = append(domains, string(d))
			}
			add("trend", dto.MetricSustainedPressure, strings.Join(domains, " "), "")
		}

		if trend.RiskTierDistribution.Suppressed || trend.RiskTierDistribution.Tiers == nil {
			add("trend", dto.MetricRiskTierDistribution, suppressedValue, trend.RiskTierDistribution.Message)
		} else {
			tiers := trend.RiskTierDistribution.Tiers
			add("trend", dto.MetricRiskTierDistribution, fmt.Sprintf("0:%d 1:%d 2:%d 3:%d", tiers.Tier0, tiers.Tier1, tiers.Tier2, tiers.Tier3), "")
		}
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: rows}
	if snapshot != nil {
		dataset.Notes = append(dataset.Notes, fmt.Sprintf("Metrics covering fewer than %d students are suppressed.", snapshot.MinCohortSize))
	}
	return dataset
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
