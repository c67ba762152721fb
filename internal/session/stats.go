package session

// DailyStats are the persisted Pomodoro counters. Field names follow the
// planner's stored JSON.
type DailyStats struct {
	TodayCompleted int    `json:"todayCompleted"`
	TodayMinutes   int    `json:"todayMinutes"`
	TotalCompleted int    `json:"totalCompleted"`
	TotalMinutes   int    `json:"totalMinutes"`
	LastResetDate  string `json:"lastResetDate"`
}

// Apply folds a completion event into the counters. Break completions leave
// the counters untouched.
func (d DailyStats) Apply(ev Event) DailyStats {
	if ev.Kind != Working {
		return d
	}
	d.TodayCompleted++
	d.TotalCompleted++
	d.TodayMinutes += ev.Minutes
	d.TotalMinutes += ev.Minutes
	return d
}

// Rollover clears the today counters when they belong to a day other than
// today (a YYYY-MM-DD string).
func (d DailyStats) Rollover(today string) DailyStats {
	if d.LastResetDate == today {
		return d
	}
	d.TodayCompleted = 0
	d.TodayMinutes = 0
	d.LastResetDate = today
	return d
}
