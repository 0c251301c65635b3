package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	"github.com/noah-isme/wellbeing-api/internal/service"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
	"github.com/noah-isme/wellbeing-api/pkg/response"
)

type snapshotService interface {
	Snapshot(ctx context.Context, institutionID string) (*dto.CohortSnapshotResponse, bool, error)
}

type trendService interface {
	Rolling(ctx context.Context, institutionID string) (*dto.RollingTrendResponse, bool, error)
	Academic(ctx context.Context, institutionID string, weeks int) (*dto.AcademicTrendResponse, bool, error)
	MaxAcademicWeeks() int
}

type exportService interface {
	Export(ctx context.Context, institutionID, format string) (*service.ExportFile, error)
}

// CohortHandler serves the staff-facing aggregate views.
type CohortHandler struct {
	snapshots snapshotService
	trends    trendService
	exports   exportService
}

// NewCohortHandler constructs the handler.
func NewCohortHandler(snapshots snapshotService, trends trendService, exports exportService) *CohortHandler {
	return &CohortHandler{snapshots: snapshots, trends: trends, exports: exports}
}

// Snapshot godoc
// @Summary Current cohort snapshot
// @Tags Cohort
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /cohort/snapshot [get]
func (h *CohortHandler) Snapshot(c *gin.Context) {
	institutionID, ok := h.institution(c)
	if !ok {
		return
	}
	start := time.Now()
	snapshot, cacheHit, err := h.snapshots.Snapshot(c.Request.Context(), institutionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, readMeta(c, cacheHit, start))
}

// Trends godoc
// @Summary Cohort trends
// @Description window=rolling (default) compares the last two rolling windows; weeks=N returns the last N academic weeks.
// @Tags Cohort
// @Produce json
// @Param window query string false "rolling or academic"
// @Param weeks query int false "Academic weeks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cohort/trends [get]
func (h *CohortHandler) Trends(c *gin.Context) {
	institutionID, ok := h.institution(c)
	if !ok {
		return
	}
	window := strings.ToLower(strings.TrimSpace(c.Query("window")))
	rawWeeks := strings.TrimSpace(c.Query("weeks"))
	if window == "" {
		window = service.TrendModelRolling
		if rawWeeks != "" {
			window = service.TrendModelAcademic
		}
	}

	start := time.Now()
	switch window {
	case service.TrendModelRolling:
		trend, cacheHit, err := h.trends.Rolling(c.Request.Context(), institutionID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, trend, readMeta(c, cacheHit, start))
	case service.TrendModelAcademic:
		weeks, err := strconv.Atoi(rawWeeks)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("weeks must be an integer between 1 and %d", h.trends.MaxAcademicWeeks())))
			return
		}
		trend, cacheHit, err := h.trends.Academic(c.Request.Context(), institutionID, weeks)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, trend, readMeta(c, cacheHit, start))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "window must be rolling or academic"))
	}
}

// Export godoc
// @Summary Export the cohort view
// @Tags Cohort
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /cohort/export [get]
func (h *CohortHandler) Export(c *gin.Context) {
	institutionID, ok := h.institution(c)
	if !ok {
		return
	}
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	file, err := h.exports.Export(c.Request.Context(), institutionID, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func (h *CohortHandler) institution(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	if claims.InstitutionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "token carries no institution"))
		return "", false
	}
	return claims.InstitutionID, true
}
