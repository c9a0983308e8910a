package controllers

import (
	"log/slog"
	"net/http"

	"studysync/internal/delivery/http/helpers"
	"studysync/internal/delivery/http/middleware"
	"studysync/internal/domain"
)

// AnalyticsSuccessResponse is the success response envelope for GET /api/analytics (200).
type AnalyticsSuccessResponse struct {
	Data  *domain.AnalyticsSummary `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		Logger:  logger,
		Service: svc,
	}
}

// GetAnalytics godoc
// @Summary Get study analytics for the current user
// @Description Returns aggregated statistics over the user's sessions: totals, average rating, participation rate, hours, top subjects, and six months of activity.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AnalyticsSuccessResponse "data contains the analytics summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/analytics [get]
func (c *AnalyticsController) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	summary, err := c.Service.GetUserAnalytics(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
