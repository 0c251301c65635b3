package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
)

type fakeSnapshotProvider struct {
	snapshot *dto.CohortSnapshotResponse
	err      error
}

func (f fakeSnapshotProvider) Snapshot(context.Context, string) (*dto.CohortSnapshotResponse, bool, error) {
	return f.snapshot, false, f.err
}

type fakeRollingProvider struct {
	trend *dto.RollingTrendResponse
}

func (f fakeRollingProvider) Rolling(context.Context, string) (*dto.RollingTrendResponse, bool, error) {
	return f.trend, false, nil
}

func suppressedRolling() *dto.RollingTrendResponse {
	s := dto.Suppression{Suppressed: true, Message: MessageInsufficientCohort}
	return &dto.RollingTrendResponse{
		HighIntensityShare:   dto.ValueMetric{Suppression: s},
		WeekOverWeekChange:   dto.ValueMetric{Suppression: s},
		TopDomain:            dto.TopDomainMetric{Suppression: s},
		DomainDistribution:   dto.DomainDistributionMetric{Suppression: s},
		SustainedPressure:    dto.SustainedPressureMetric{Suppression: s},
		RiskTierDistribution: dto.RiskTierDistributionMetric{Suppression: s},
	}
}

func TestExportServiceSuppressedRendersNoNumbers(t *testing.T) {
	snapshot := &dto.CohortSnapshotResponse{Suppressed: true, BelowThreshold: true, Message: MessageInsufficientCohort, MinCohortSize: 10}
	svc := NewExportService(fakeSnapshotProvider{snapshot: snapshot}, fakeRollingProvider{trend: suppressedRolling()}, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), "inst-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "cohort-inst-1-20261017.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	// header, snapshot, six trend metrics, note
	require.Len(t, lines, 9)
	for _, line := range lines[1:8] {
		assert.Contains(t, line, ",suppressed,")
	}
}

func TestExportServicePopulatedPDF(t *testing.T) {
	value := 12.5
	snapshot := &dto.CohortSnapshotResponse{CohortSize: 12, SubmissionCount: 15, TopDomain: "academic", AverageIntensity: 2.4, MinCohortSize: 10, Recommendations: []string{"do a thing"}}
	trend := suppressedRolling()
	trend.HighIntensityShare = dto.ValueMetric{Value: &value}
	svc := NewExportService(fakeSnapshotProvider{snapshot: snapshot}, fakeRollingProvider{trend: trend}, nil, nil, nil)

	file, err := svc.Export(context.Background(), "inst-1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))

	dataset := BuildCohortDataset(snapshot, trend)
	assert.Equal(t, "12.50", dataset.Rows[len(dataset.Rows)-6]["value"])
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(fakeSnapshotProvider{}, fakeRollingProvider{}, nil, nil, nil)
	_, err := svc.Export(context.Background(), "inst-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServicePropagatesReadErrors(t *testing.T) {
	svc := NewExportService(fakeSnapshotProvider{err: errors.New("boom")}, fakeRollingProvider{}, nil, nil, nil)
	_, err := svc.Export(context.Background(), "inst-1", "csv")
	assert.Error(t, err)
}

func TestBuildCohortDatasetSuppressedTopDomain(t *testing.T) {
	snapshot := &dto.CohortSnapshotResponse{
		CohortSize:            12,
		DomainFrequencyStatus: dto.Suppression{Suppressed: true, Message: MessageNoQualifyingDomain},
	}
	dataset := BuildCohortDataset(snapshot, nil)
	for _, row := range dataset.Rows {
		if row["metric"] == "top_domain" {
			assert.Equal(t, suppressedValue, row["value"])
			assert.Equal(t, MessageNoQualifyingDomain, row["status"])
			return
		}
	}
	t.Fatal("top_domain row missing")
}
