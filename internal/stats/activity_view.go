package stats

import (
	"github.com/skeates/trmnl-running-dashboard/internal/strava"
	"github.com/skeates/trmnl-running-dashboard/internal/units"
)

// ActivityView is the display-formatted per-activity row: both unit
// systems for every distance, elevation, and temperature, and both
// paces. Optional source fields stay optional here.
type ActivityView struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	Date               string   `json:"date"`
	DistanceKm         float64  `json:"distance_km"`
	DistanceMiles      float64  `json:"distance_miles"`
	MovingTimeMinutes  int      `json:"moving_time_minutes"`
	ElapsedTimeMinutes int      `json:"elapsed_time_minutes"`
	PacePerKm          string   `json:"pace_per_km"`
	PacePerMile        string   `json:"pace_per_mile"`
	ElevationGainM     float64  `json:"elevation_gain_m"`
	ElevationGainFt    float64  `json:"elevation_gain_ft"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	MaxHeartrate       *float64 `json:"max_heartrate"`
	AverageCadence     *float64 `json:"average_cadence"`
	Calories           *float64 `json:"calories"`
	SufferScore        *float64 `json:"suffer_score"`
	AverageTempC       *float64 `json:"average_temp_c"`
	AverageTempF       *float64 `json:"average_temp_f"`
	Trainer            bool     `json:"trainer"`
	Commute            bool     `json:"commute"`
	AchievementCount   int      `json:"achievement_count"`
	KudosCount         int      `json:"kudos_count"`
	PRCount            int      `json:"pr_count"`
}

// NewActivityView converts one raw activity into its display form.
func NewActivityView(a strava.Activity) ActivityView {
	view := ActivityView{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               a.Type,
		SportType:          a.SportType,
		Date:               a.LocalDate(),
		DistanceKm:         units.Round2(units.MetersToKm(a.Distance)),
		DistanceMiles:      units.Round2(units.MetersToMiles(a.Distance)),
		MovingTimeMinutes:  units.SecondsToMinutes(a.MovingTime),
		ElapsedTimeMinutes: units.SecondsToMinutes(a.ElapsedTime),
		PacePerKm:          units.Pace(a.Distance, a.MovingTime, true),
		PacePerMile:        units.Pace(a.Distance, a.MovingTime, false),
		ElevationGainM:     units.Round1(a.TotalElevationGain),
		ElevationGainFt:    units.Round1(units.MetersToFeet(a.TotalElevationGain)),
		AverageHeartrate:   a.AverageHeartrate,
		MaxHeartrate:       a.MaxHeartrate,
		AverageCadence:     a.AverageCadence,
		Calories:           a.Calories,
		SufferScore:        a.SufferScore,
		AverageTempC:       a.AverageTemp,
		Trainer:            a.Trainer,
		Commute:            a.Commute,
		AchievementCount:   a.AchievementCount,
		KudosCount:         a.KudosCount,
		PRCount:            a.PRCount,
	}
	if a.AverageTemp != nil {
		f := units.Round1(units.CelsiusToFahrenheit(*a.AverageTemp))
		view.AverageTempF = &f
	}
	return view
}
