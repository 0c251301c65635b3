package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellbeing-api/internal/dto"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
	"github.com/noah-isme/wellbeing-api/pkg/response"
)

type checkinService interface {
	Submit(ctx context.Context, userID, institutionID string, req dto.CheckinRequest) (*dto.CheckinResponse, error)
}

// CheckinHandler accepts student self-reports.
type CheckinHandler struct {
	service checkinService
}

// NewCheckinHandler constructs the handler.
func NewCheckinHandler(service checkinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

// Submit godoc
// @Summary Submit a wellbeing check-in
// @Description Stores the check-in and classifies its risk tier. The user and institution come from the access token.
// @Tags Checkins
// @Accept json
// @Produce json
// @Param payload body dto.CheckinRequest true "Check-in"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /checkins [post]
func (h *CheckinHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), claims.UserID, claims.InstitutionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
