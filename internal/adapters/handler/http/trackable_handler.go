package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmaddalena/lifelog/internal/adapters/handler/http/middleware"
	"github.com/dmaddalena/lifelog/internal/core/domain"
	"github.com/dmaddalena/lifelog/internal/core/schedule"
	"github.com/dmaddalena/lifelog/internal/core/services"
)

type TrackableHandler struct {
	svc *services.TrackableService
}

func NewTrackableHandler(svc *services.TrackableService) *TrackableHandler {
	return &TrackableHandler{
		svc: svc,
	}
}

type recurrenceRuleRequest struct {
	Frequency  string `json:"frequency" binding:"required"`
	Interval   int    `json:"interval"`
	DaysOfWeek []int  `json:"days_of_week"`
	EndDate    string `json:"end_date"`
}

type trackableRequest struct {
	Title         string                 `json:"title" binding:"required"`
	Type          string                 `json:"type"`
	Priority      *string                `json:"priority"`
	ScheduledTime *string                `json:"scheduled_time"`
	ResetFreq     string                 `json:"reset_frequency"`
	TargetValue   *int                   `json:"target_value"`
	StartDate     string                 `json:"start_date"`
	EndDate       string                 `json:"end_date"`
	ScheduledDate string                 `json:"scheduled_date"`
	IsRecurring   bool                   `json:"is_recurring"`
	Recurrence    *recurrenceRuleRequest `json:"recurrence_rule"`
	SelectedDays  []string               `json:"selected_days"`
}

func (h *TrackableHandler) RegisterRoutes(router *gin.RouterGroup) {
	trackables := router.Group("/trackables")
	{
		trackables.POST("", h.Create)
		trackables.GET("", h.List)
		trackables.GET("/:id", h.Get)
		trackables.PUT("/:id", h.Update)
		trackables.DELETE("/:id", h.Delete)
		trackables.POST("/:id/toggle", h.Toggle)
		trackables.POST("/:id/increment", h.Increment)
		trackables.POST("/:id/decrement", h.Decrement)
		trackables.GET("/:id/streaks", h.Streaks)
	}

	// The day view sits beside /trackables/:id to avoid a route conflict
	// on the :id segment.
	router.GET("/day", h.DayView)
}

func parseOptionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := schedule.ParseDay(s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *trackableRequest) toSchedule() (services.ScheduleInput, error) {
	var sched services.ScheduleInput
	var err error

	if sched.StartDate, err = parseOptionalDay(r.StartDate); err != nil {
		return sched, err
	}
	if sched.EndDate, err = parseOptionalDay(r.EndDate); err != nil {
		return sched, err
	}
	if sched.ScheduledDate, err = parseOptionalDay(r.ScheduledDate); err != nil {
		return sched, err
	}

	sched.IsRecurring = r.IsRecurring
	sched.SelectedDays = r.SelectedDays

	if r.Recurrence != nil {
		rule := &domain.RecurrenceRule{
			Frequency:  r.Recurrence.Frequency,
			Interval:   r.Recurrence.Interval,
			DaysOfWeek: r.Recurrence.DaysOfWeek,
		}
		if rule.EndDate, err = parseOptionalDay(r.Recurrence.EndDate); err != nil {
			return sched, err
		}
		sched.Recurrence = rule
	}

	return sched, nil
}

// Create godoc
// @Summary  Create a trackable
// @Tags     trackables
// @Accept   json
// @Produce  json
// @Param    request body trackableRequest true "Trackable definition"
// @Success  201 {object} domain.Trackable
// @Security BearerAuth
// @Router   /trackables [post]
func (h *TrackableHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req trackableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sched, err := req.toSchedule()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateTrackableInput{
		UserID:        userID,
		Title:         req.Title,
		Type:          req.Type,
		Priority:      req.Priority,
		ScheduledTime: req.ScheduledTime,
		ResetFreq:     req.ResetFreq,
		TargetValue:   req.TargetValue,
		Schedule:      sched,
	}

	t, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *TrackableHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TrackableHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TrackableHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req trackableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sched, err := req.toSchedule()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateTrackableInput{
		ID:            c.Param("id"),
		UserID:        userID,
		Title:         req.Title,
		Priority:      req.Priority,
		ScheduledTime: req.ScheduledTime,
		ResetFreq:     req.ResetFreq,
		TargetValue:   req.TargetValue,
		Schedule:      sched,
	}

	t, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TrackableHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Toggle godoc
// @Summary  Toggle today's completion state
// @Tags     trackables
// @Produce  json
// @Param    id path string true "Trackable ID"
// @Success  200 {object} domain.Trackable
// @Security BearerAuth
// @Router   /trackables/{id}/toggle [post]
func (h *TrackableHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	t, err := h.svc.ToggleCompletion(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TrackableHandler) Increment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	t, err := h.svc.Increment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TrackableHandler) Decrement(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	t, err := h.svc.Decrement(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TrackableHandler) Streaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	current, longest, err := h.svc.Streaks(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_streak": current,
		"longest_streak": longest,
	})
}

// DayView godoc
// @Summary  Trackables due on a day, bucketed by completion state
// @Tags     trackables
// @Produce  json
// @Param    date query string false "Day (YYYY-MM-DD, default today)"
// @Success  200 {object} schedule.DayBuckets
// @Security BearerAuth
// @Router   /day [get]
func (h *TrackableHandler) DayView(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	buckets, err := h.svc.DayView(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, buckets)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrTrackableNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrSummaryNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrTargetNotReached),
		errors.Is(err, domain.ErrTrackableTitleEmpty),
		errors.Is(err, domain.ErrTrackableTitleTooLong),
		errors.Is(err, domain.ErrInvalidTrackableType),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrInvalidResetFrequency),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidScheduledTime),
		errors.Is(err, domain.ErrInvalidRecurrenceRule),
		errors.Is(err, domain.ErrTrackableArchived),
		errors.Is(err, domain.ErrInvalidRecordDate),
		errors.Is(err, domain.ErrInvalidMoodScore),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidFinanceKind),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidMeasurement):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
