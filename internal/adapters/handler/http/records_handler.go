package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmaddalena/lifelog/internal/adapters/handler/http/middleware"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type RecordsHandler struct {
	svc *services.RecordsService
}

func NewRecordsHandler(svc *services.RecordsService) *RecordsHandler {
	return &RecordsHandler{
		svc: svc,
	}
}

func (h *RecordsHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.POST("/health", h.LogHealthMetric)
		records.GET("/health", h.ListHealthMetrics)
		records.DELETE("/health/:id", h.DeleteHealthMetric)

		records.POST("/mood", h.LogMood)
		records.GET("/mood", h.ListMoodLogs)
		records.DELETE("/mood/:id", h.DeleteMoodLog)

		records.POST("/focus", h.LogFocusSession)
		records.GET("/focus", h.ListFocusSessions)
		records.DELETE("/focus/:id", h.DeleteFocusSession)

		records.POST("/finance", h.AddFinanceEntry)
		records.GET("/finance", h.ListFinanceEntries)
		records.DELETE("/finance/:id", h.DeleteFinanceEntry)
	}
}

// rangeQuery pulls from/to day bounds out of the query string, defaulting
// to the last 30 days.
func rangeQuery(c *gin.Context) (from, to string, ok bool) {
	now := time.Now().UTC()
	from = now.AddDate(0, 0, -30).Format(schedule.DayFormat)
	to = now.Format(schedule.DayFormat)

	if f := c.Query("from"); f != "" {
		if _, err := schedule.ParseDay(f, time.UTC); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return "", "", false
		}
		from = f
	}
	if t := c.Query("to"); t != "" {
		if _, err := schedule.ParseDay(t, time.UTC); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return "", "", false
		}
		to = t
	}

	return from, to, true
}

type healthMetricRequest struct {
	MetricDate string   `json:"metric_date" binding:"required"`
	WeightKg   *float64 `json:"weight_kg"`
	SleepHours *float64 `json:"sleep_hours"`
	WaterMl    int      `json:"water_ml"`
	Steps      int      `json:"steps"`
	Notes      string   `json:"notes"`
}

func (h *RecordsHandler) LogHealthMetric(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req healthMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.LogHealthMetric(c.Request.Context(), services.HealthMetricInput{
		UserID:     userID,
		MetricDate: req.MetricDate,
		WeightKg:   req.WeightKg,
		SleepHours: req.SleepHours,
		WaterMl:    req.WaterMl,
		Steps:      req.Steps,
		Notes:      req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *RecordsHandler) ListHealthMetrics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.HealthMetrics(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) DeleteHealthMetric(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.DeleteHealthMetric(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type moodLogRequest struct {
	LogDate string `json:"log_date" binding:"required"`
	Mood    int    `json:"mood" binding:"required"`
	Anxiety int    `json:"anxiety" binding:"required"`
	Notes   string `json:"notes"`
}

func (h *RecordsHandler) LogMood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req moodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.LogMood(c.Request.Context(), services.MoodLogInput{
		UserID:  userID,
		LogDate: req.LogDate,
		Mood:    req.Mood,
		Anxiety: req.Anxiety,
		Notes:   req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *RecordsHandler) ListMoodLogs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.MoodLogs(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) DeleteMoodLog(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.DeleteMoodLog(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type focusSessionRequest struct {
	StartedAt   time.Time `json:"started_at" binding:"required"`
	DurationMin int       `json:"duration_min" binding:"required"`
	Category    string    `json:"category"`
	Notes       string    `json:"notes"`
}

func (h *RecordsHandler) LogFocusSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req focusSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.svc.LogFocusSession(c.Request.Context(), services.FocusSessionInput{
		UserID:      userID,
		StartedAt:   req.StartedAt,
		DurationMin: req.DurationMin,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, s)
}

func (h *RecordsHandler) ListFocusSessions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.FocusSessions(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) DeleteFocusSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.DeleteFocusSession(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type financeEntryRequest struct {
	EntryDate   string `json:"entry_date" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Kind        string `json:"kind" binding:"required"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

func (h *RecordsHandler) AddFinanceEntry(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req financeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.svc.AddFinanceEntry(c.Request.Context(), services.FinanceEntryInput{
		UserID:      userID,
		EntryDate:   req.EntryDate,
		AmountCents: req.AmountCents,
		Kind:        req.Kind,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (h *RecordsHandler) ListFinanceEntries(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, ok := rangeQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.FinanceEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) DeleteFinanceEntry(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.DeleteFinanceEntry(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
