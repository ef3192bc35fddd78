package model

const ReasonUnsupportedYear = "unsupported_year"

// ProgressSummary is derived on every request and never stored.
type ProgressSummary struct {
	OK           bool    `json:"ok"`
	Reason       string  `json:"reason,omitempty"`
	TotalDays    int     `json:"totalDays"`
	DaysSoFar    int     `json:"daysSoFar"`
	FastingCount int     `json:"fastingCount"`
	StartDate    *string `json:"startDate"`
}

func UnsupportedYearSummary() *ProgressSummary {
	return &ProgressSummary{OK: false, Reason: ReasonUnsupportedYear}
}

type DayState string

const (
	DayStatePast   DayState = "past"
	DayStateToday  DayState = "today"
	DayStateFuture DayState = "future"
)

// DayCheckpoint is one cell of the progress banner.
type DayCheckpoint struct {
	DayNumber int      `json:"dayNumber"`
	DateISO   string   `json:"dateISO"`
	State     DayState `json:"state"`
	Checked   bool     `json:"checked"`
}
