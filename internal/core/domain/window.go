package domain

import "time"

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Windows holds the current window of every cadence for a single evaluation pass.
type Windows struct {
	Daily   Window `json:"daily"`
	Weekly  Window `json:"weekly"`
	Monthly Window `json:"monthly"`
	Yearly  Window `json:"yearly"`
}

// For returns the window matching the cadence, or a zero Window for unknown cadences.
func (w Windows) For(t TimeType) Window {
	switch t {
	case TimeTypeDaily:
		return w.Daily
	case TimeTypeWeekly:
		return w.Weekly
	case TimeTypeMonthly:
		return w.Monthly
	case TimeTypeYearly:
		return w.Yearly
	}
	return Window{}
}
