package web

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type runEntry struct {
	Name            string  `json:"name"`
	Date            string  `json:"date"`
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes int     `json:"duration_minutes"`
	PacePerMile     string  `json:"pace_per_mile"`
}

type weatherEntry struct {
	TempMorning       *float64 `json:"temp_morning"`
	FeelsLikeMorning  *float64 `json:"feels_like_morning"`
	PrecipitationProb int      `json:"precipitation_prob"`
	Description       string   `json:"description"`
}

type planDayEntry struct {
	Day             string        `json:"day"`
	DayShort        string        `json:"day_short"`
	Workout         string        `json:"workout"`
	Completed       bool          `json:"completed"`
	DistanceMiles   *float64      `json:"distance_miles,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	PacePerMile     *string       `json:"pace_per_mile,omitempty"`
	Weather         *weatherEntry `json:"weather,omitempty"`
}

type dashboardResponse struct {
	WeeklyMiles        float64        `json:"weekly_miles"`
	TargetMiles        float64        `json:"target_miles"`
	WeeksUntilEvent    int            `json:"weeks_until_event"`
	EventName          string         `json:"event_name"`
	WeekLabel          string         `json:"week_label"`
	Quote              string         `json:"quote"`
	Runs               []runEntry     `json:"runs"`
	WeeklyPlan         []planDayEntry `json:"weekly_plan"`
	HasWeeklyPlan      bool           `json:"has_weekly_plan"`
	ProgressPercentage int            `json:"progress_percentage"`
}
