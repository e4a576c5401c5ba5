package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-edu/inkwell-backend/internal/middleware"
	"github.com/inkwell-edu/inkwell-backend/internal/response"
	"github.com/inkwell-edu/inkwell-backend/internal/service"
)

// DashboardHandler handles the staff dashboard summary endpoint.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary godoc
// GET /api/v1/staff/dashboard
// Returns exam and submission counts for the staff member's exams,
// including submissions flagged for plagiarism review.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
