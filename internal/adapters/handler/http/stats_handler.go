package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmaddalena/lifelog/internal/adapters/handler/http/middleware"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyOverview)
}

// GetWeeklyOverview godoc
// @Summary  Dashboard aggregate for the week containing the anchor date
// @Tags     stats
// @Produce  json
// @Param    date query string false "Anchor day (YYYY-MM-DD, default today)"
// @Success  200 {object} domain.WeeklyOverview
// @Security BearerAuth
// @Router   /stats/weekly [get]
func (h *StatsHandler) GetWeeklyOverview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	// The anchor resolves in the user's timezone inside the service; widget
	// reads degrade individually there, so only a bad date or a missing
	// user errors here.
	overview, err := h.svc.WeeklyOverview(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
