// Package stats reduces a window of raw Strava activities into the
// summary, per-period, and per-type rollups served by the nutrition
// endpoint. The reduction is a single commutative pass: the result does
// not depend on the input order, and optional fields (heart rate,
// calories, effort score, temperature) are skipped when absent — they
// contribute to neither the sum nor the averaging denominator.
package stats

import (
	"time"

	"github.com/skeates/trmnl-running-dashboard/internal/strava"
	"github.com/skeates/trmnl-running-dashboard/internal/units"
)

const (
	MinWindowDays     = 1
	MaxWindowDays     = 90
	DefaultWindowDays = 30
)

// ClampWindowDays forces the requested window into [1, 90]. Out-of-range
// values are clamped, not rejected.
func ClampWindowDays(days int) int {
	if days < MinWindowDays {
		return MinWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

type Period struct {
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Summary struct {
	TotalActivities            int      `json:"total_activities"`
	TotalDistanceKm            float64  `json:"total_distance_km"`
	TotalDistanceMiles         float64  `json:"total_distance_miles"`
	TotalMovingTimeMinutes     int      `json:"total_moving_time_minutes"`
	TotalElapsedTimeMinutes    int      `json:"total_elapsed_time_minutes"`
	TotalElevationGainM        float64  `json:"total_elevation_gain_m"`
	TotalElevationGainFt       float64  `json:"total_elevation_gain_ft"`
	TotalCalories              float64  `json:"total_calories"`
	TotalSufferScore           float64  `json:"total_suffer_score"`
	AverageHeartrate           *float64 `json:"average_heartrate"`
	AverageCaloriesPerActivity *float64 `json:"average_calories_per_activity"`
	AverageSufferScore         *float64 `json:"average_suffer_score"`
}

// PeriodAverages is the summary divided down to one week or one day.
// The divisor is always derived from the window length, never from the
// number of periods that happened to contain activities.
type PeriodAverages struct {
	Activities        float64 `json:"activities"`
	DistanceKm        float64 `json:"distance_km"`
	DistanceMiles     float64 `json:"distance_miles"`
	MovingTimeMinutes float64 `json:"moving_time_minutes"`
	ElevationGainM    float64 `json:"elevation_gain_m"`
	ElevationGainFt   float64 `json:"elevation_gain_ft"`
	Calories          float64 `json:"calories"`
}

// TypeStats repeats the summary arithmetic within one activity type.
// Types are grouped by the raw Strava type string, case-sensitive.
type TypeStats struct {
	Count                  int      `json:"count"`
	TotalDistanceKm        float64  `json:"total_distance_km"`
	TotalDistanceMiles     float64  `json:"total_distance_miles"`
	TotalMovingTimeMinutes int      `json:"total_moving_time_minutes"`
	TotalElevationGainM    float64  `json:"total_elevation_gain_m"`
	TotalElevationGainFt   float64  `json:"total_elevation_gain_ft"`
	TotalCalories          float64  `json:"total_calories"`
	AverageHeartrate       *float64 `json:"average_heartrate"`
}

// Report is the full nutrition-data payload.
type Report struct {
	Period         Period                `json:"period"`
	Summary        Summary               `json:"summary"`
	WeeklyAverages PeriodAverages        `json:"weekly_averages"`
	DailyAverages  PeriodAverages        `json:"daily_averages"`
	ActivityTypes  map[string]*TypeStats `json:"activity_types"`
	Activities     []ActivityView        `json:"activities"`
}

// accumulator keeps a sum alongside the count of activities that
// actually carried the field, so means never divide by absentees.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.count++
}

func (a *accumulator) mean() *float64 {
	if a.count == 0 {
		return nil
	}
	m := units.Round1(a.sum / float64(a.count))
	return &m
}

// BuildReport aggregates the window in one pass.
func BuildReport(activities []strava.Activity, days int, start, end time.Time) Report {
	var (
		distanceMeters  float64
		movingSeconds   int
		elapsedSeconds  int
		elevationMeters float64
		heartrate       accumulator
		calories        accumulator
		sufferScore     accumulator
	)
	types := map[string]*TypeStats{}
	typeHeartrate := map[string]*accumulator{}
	typeMoving := map[string]int{}
	typeDistance := map[string]float64{}
	typeElevation := map[string]float64{}

	for _, a := range activities {
		distanceMeters += a.Distance
		movingSeconds += a.MovingTime
		elapsedSeconds += a.ElapsedTime
		elevationMeters += a.TotalElevationGain
		heartrate.add(a.AverageHeartrate)
		calories.add(a.Calories)
		sufferScore.add(a.SufferScore)

		ts, ok := types[a.Type]
		if !ok {
			ts = &TypeStats{}
			types[a.Type] = ts
			typeHeartrate[a.Type] = &accumulator{}
		}
		ts.Count++
		typeDistance[a.Type] += a.Distance
		typeMoving[a.Type] += a.MovingTime
		typeElevation[a.Type] += a.TotalElevationGain
		if a.Calories != nil {
			ts.TotalCalories += *a.Calories
		}
		typeHeartrate[a.Type].add(a.AverageHeartrate)
	}

	for name, ts := range types {
		ts.TotalDistanceKm = units.Round2(units.MetersToKm(typeDistance[name]))
		ts.TotalDistanceMiles = units.Round2(units.MetersToMiles(typeDistance[name]))
		ts.TotalMovingTimeMinutes = units.SecondsToMinutes(typeMoving[name])
		ts.TotalElevationGainM = units.Round1(typeElevation[name])
		ts.TotalElevationGainFt = units.Round1(units.MetersToFeet(typeElevation[name]))
		ts.AverageHeartrate = typeHeartrate[name].mean()
	}

	summary := Summary{
		TotalActivities:         len(activities),
		TotalDistanceKm:         units.Round2(units.MetersToKm(distanceMeters)),
		TotalDistanceMiles:      units.Round2(units.MetersToMiles(distanceMeters)),
		TotalMovingTimeMinutes:  units.SecondsToMinutes(movingSeconds),
		TotalElapsedTimeMinutes: units.SecondsToMinutes(elapsedSeconds),
		TotalElevationGainM:     units.Round1(elevationMeters),
		TotalElevationGainFt:    units.Round1(units.MetersToFeet(elevationMeters)),
		TotalCalories:           units.Round1(calories.sum),
		TotalSufferScore:        units.Round1(sufferScore.sum),
		AverageHeartrate:        heartrate.mean(),
		AverageSufferScore:      sufferScore.mean(),
	}
	if calories.count > 0 {
		perActivity := units.Round1(calories.sum / float64(calories.count))
		summary.AverageCaloriesPerActivity = &perActivity
	}

	weeks := float64(days) / 7
	views := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, NewActivityView(a))
	}

	return Report{
		Period: Period{
			Days:      days,
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		Summary:        summary,
		WeeklyAverages: averages(distanceMeters, movingSeconds, elevationMeters, calories.sum, len(activities), weeks),
		DailyAverages:  averages(distanceMeters, movingSeconds, elevationMeters, calories.sum, len(activities), float64(days)),
		ActivityTypes:  types,
		Activities:     views,
	}
}

func averages(distanceMeters float64, movingSeconds int, elevationMeters, totalCalories float64, activityCount int, periods float64) PeriodAverages {
	return PeriodAverages{
		Activities:        units.Round1(float64(activityCount) / periods),
		DistanceKm:        units.Round2(units.MetersToKm(distanceMeters) / periods),
		DistanceMiles:     units.Round2(units.MetersToMiles(distanceMeters) / periods),
		MovingTimeMinutes: units.Round1(float64(movingSeconds) / 60 / periods),
		ElevationGainM:    units.Round1(elevationMeters / periods),
		ElevationGainFt:   units.Round1(units.MetersToFeet(elevationMeters) / periods),
		Calories:          units.Round1(totalCalories / periods),
	}
}
