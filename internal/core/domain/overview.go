package domain

// WeeklyOverview feeds the dashboard widgets. Every field is best-effort:
// a failed sub-read leaves its field empty/zero instead of failing the page.
type WeeklyOverview struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	ActiveTrackables int   `json:"active_trackables"`
	TotalCompletions int   `json:"total_completions"`
	CompletionsByDay []int `json:"completions_by_day"` // Monday..Sunday

	AverageMood  float64 `json:"average_mood"`
	FocusMinutes int     `json:"focus_minutes"`
	IncomeCents  int64   `json:"income_cents"`
	ExpenseCents int64   `json:"expense_cents"`
}
