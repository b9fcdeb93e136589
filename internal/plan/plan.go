// Package plan implements the training-calendar arithmetic: week
// boundaries, weeks-until-event, the weekly mileage target lookup, and
// the configured weekly workout plan.
package plan

import (
	"encoding/json"
	"sort"
	"time"
)

// DefaultTargetMiles is used when no training schedule is configured or
// the configured one cannot be parsed.
const DefaultTargetMiles = 25.0

// ScheduleEntry maps weeks-remaining-until-event to a weekly mileage
// target.
type ScheduleEntry struct {
	WeeksUntil  int     `json:"weeks_until"`
	TargetMiles float64 `json:"target_miles"`
}

// Day is one entry of the configured weekly workout plan.
type Day struct {
	Day     string `json:"day"`
	Workout string `json:"workout"`
}

var dayAbbreviations = map[string]string{
	"Monday":    "Mon",
	"Tuesday":   "Tue",
	"Wednesday": "Wed",
	"Thursday":  "Thu",
	"Friday":    "Fri",
	"Saturday":  "Sat",
	"Sunday":    "Sun",
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekStart returns Monday 00:00:00 of the week containing now.
func WeekStart(now time.Time) time.Time {
	weekday := int(now.Weekday())
	// time.Weekday counts Sunday as 0; the training week starts Monday.
	daysSinceMonday := (weekday + 6) % 7
	monday := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
}

// WeekLabel renders a human-readable label like "Week of Dec 2-8, 2025".
func WeekLabel(now time.Time) string {
	start := WeekStart(now)
	end := start.AddDate(0, 0, 6)
	return "Week of " + start.Format("Jan 2") + "-" + end.Format("2, 2006")
}

// WeeksUntilEvent counts complete weeks from now until the event date
// (YYYY-MM-DD). A past or unparseable date yields 0.
func WeeksUntilEvent(eventDate string, now time.Time) int {
	event, err := time.ParseInLocation("2006-01-02", eventDate, now.Location())
	if err != nil {
		return 0
	}
	days := int(event.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

// WeeklyTarget picks the mileage target for the current distance from
// the event. The schedule is scanned in descending weeks_until order
// and the first entry whose threshold is at or below weeksUntilEvent
// wins. If the event is further away than the largest threshold, the
// largest-threshold entry applies (pre-training base mileage). An empty
// or malformed schedule falls back to DefaultTargetMiles.
func WeeklyTarget(weeksUntilEvent int, scheduleJSON string) float64 {
	if scheduleJSON == "" {
		return DefaultTargetMiles
	}

	var schedule []ScheduleEntry
	if err := json.Unmarshal([]byte(scheduleJSON), &schedule); err != nil || len(schedule) == 0 {
		return DefaultTargetMiles
	}

	sort.Slice(schedule, func(i, j int) bool {
		return schedule[i].WeeksUntil > schedule[j].WeeksUntil
	})

	for _, entry := range schedule {
		if weeksUntilEvent >= entry.WeeksUntil {
			return entry.TargetMiles
		}
	}
	return schedule[0].TargetMiles
}

// ParseWeeklyPlan decodes the configured plan. Malformed input is
// treated as no plan rather than an error; the dashboard simply renders
// without the plan section.
func ParseWeeklyPlan(planJSON string) []Day {
	if planJSON == "" {
		return nil
	}
	var days []Day
	if err := json.Unmarshal([]byte(planJSON), &days); err != nil {
		return nil
	}
	return days
}

// DayAbbreviation shortens a weekday name for the e-ink layout.
func DayAbbreviation(day string) string {
	if short, ok := dayAbbreviations[day]; ok {
		return short
	}
	if len(day) > 3 {
		return day[:3]
	}
	return day
}

// DayIndex returns the offset of the named weekday from Monday, so plan
// entries can be mapped onto calendar dates within the week. Unknown
// names map to Monday.
func DayIndex(day string) int {
	for i, name := range dayNames {
		if name == day {
			return i
		}
	}
	return 0
}

// ProgressPercentage reports weekly progress against target, rounded to
// the nearest integer and capped at 100. A zero target reports 0.
func ProgressPercentage(weeklyMiles, targetMiles float64) int {
	if targetMiles == 0 {
		return 0
	}
	pct := weeklyMiles / targetMiles * 100
	if pct >= 100 {
		return 100
	}
	return int(pct + 0.5)
}
