package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmaddalena/lifelog/internal/adapters/handler/http/middleware"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type SummaryHandler struct {
	svc *services.SummaryService
}

func NewSummaryHandler(svc *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

type summaryRequest struct {
	OngoingConditions []string `json:"ongoing_conditions"`
	Notes             string   `json:"notes"`
	CarryOver         bool     `json:"carry_over"`
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	summary := router.Group("/summary")
	{
		summary.GET("/:date", h.Get)
		summary.PUT("/:date", h.Upsert)
	}
}

func (h *SummaryHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	summary, err := h.svc.GetByDate(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Upsert godoc
// @Summary  Write a day's summary, optionally carrying over yesterday's ongoing conditions
// @Tags     summary
// @Accept   json
// @Produce  json
// @Param    date path string true "Day (YYYY-MM-DD)"
// @Param    request body summaryRequest true "Summary content"
// @Success  200 {object} domain.DailySummary
// @Security BearerAuth
// @Router   /summary/{date} [put]
func (h *SummaryHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.Upsert(c.Request.Context(), services.SummaryInput{
		UserID:            userID,
		SummaryDate:       c.Param("date"),
		OngoingConditions: req.OngoingConditions,
		Notes:             req.Notes,
		CarryOver:         req.CarryOver,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
