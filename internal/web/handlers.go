package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skeates/trmnl-running-dashboard/internal/config"
	"github.com/skeates/trmnl-running-dashboard/internal/plan"
	"github.com/skeates/trmnl-running-dashboard/internal/quotes"
	"github.com/skeates/trmnl-running-dashboard/internal/stats"
	"github.com/skeates/trmnl-running-dashboard/internal/strava"
	"github.com/skeates/trmnl-running-dashboard/internal/units"
	"github.com/skeates/trmnl-running-dashboard/internal/weather"
)

// Handler owns the three API endpoints. It holds no per-request state:
// configuration and upstream clients are built fresh inside each
// request, so concurrent device polls share nothing.
type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// RunningData serves the e-ink dashboard payload: this week's mileage
// against the training-schedule target, the configured weekly plan
// merged with actual runs and the forecast, and the quote of the day.
func (h *Handler) RunningData(c *gin.Context) {
	cfg := config.Load()
	if err := cfg.RequireEventDate(); err != nil {
		writeError(c, err)
		return
	}
	if err := cfg.RequireStrava(); err != nil {
		writeError(c, err)
		return
	}

	now := h.now()
	weekStart := plan.WeekStart(now)
	weeksUntilEvent := plan.WeeksUntilEvent(cfg.Event.Date, now)
	targetMiles := plan.WeeklyTarget(weeksUntilEvent, cfg.Event.TrainingSchedule)

	client := strava.NewClient(cfg.Strava)
	runs, err := client.WeeklyRuns(c.Request.Context(), weekStart)
	if err != nil {
		writeError(c, err)
		return
	}

	// Weather is decoration, not data: a forecast failure degrades to a
	// plan without weather rather than failing the request.
	forecast := map[string]weather.DayForecast{}
	if cfg.WeatherConfigured() {
		wc := weather.NewClient(cfg.Weather)
		forecast, err = wc.DailyForecast(c.Request.Context(), 7)
		if err != nil {
			log.Printf("weather forecast unavailable: %v", err)
			forecast = map[string]weather.DayForecast{}
		}
	}

	weeklyMiles := 0.0
	runEntries := make([]runEntry, 0, len(runs))
	runsByDate := map[string]runEntry{}
	for _, run := range runs {
		entry := runEntry{
			Name:            run.Name,
			Date:            run.LocalDate(),
			DistanceMiles:   units.Round1(units.MetersToMiles(run.Distance)),
			DurationMinutes: units.SecondsToMinutes(run.MovingTime),
			PacePerMile:     units.Pace(run.Distance, run.MovingTime, false),
		}
		weeklyMiles += entry.DistanceMiles
		runEntries = append(runEntries, entry)
		runsByDate[entry.Date] = entry
	}
	weeklyMiles = units.Round1(weeklyMiles)

	weeklyPlan := buildWeeklyPlan(cfg.Event.WeeklyPlan, weekStart, runsByDate, forecast)

	c.JSON(http.StatusOK, dashboardResponse{
		WeeklyMiles:        weeklyMiles,
		TargetMiles:        targetMiles,
		WeeksUntilEvent:    weeksUntilEvent,
		EventName:          cfg.Event.Name,
		WeekLabel:          plan.WeekLabel(now),
		Quote:              quotes.Daily(now),
		Runs:               runEntries,
		WeeklyPlan:         weeklyPlan,
		HasWeeklyPlan:      len(weeklyPlan) > 0,
		ProgressPercentage: plan.ProgressPercentage(weeklyMiles, targetMiles),
	})
}

// NutritionData serves the full aggregation over a 1-90 day window
// ending now. The days parameter is clamped, never rejected.
func (h *Handler) NutritionData(c *gin.Context) {
	cfg := config.Load()
	if err := cfg.RequireStrava(); err != nil {
		writeError(c, err)
		return
	}

	days := stats.DefaultWindowDays
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	days = stats.ClampWindowDays(days)

	now := h.now()
	start := now.AddDate(0, 0, -days)

	client := strava.NewClient(cfg.Strava)
	activities, err := client.GetActivities(c.Request.Context(), start.Unix(), strava.MaxPerPage)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats.BuildReport(activities, days, start, now))
}

// buildWeeklyPlan maps each configured plan day onto its calendar date
// within the current week, then attaches the matching run and forecast.
// Past days have no forecast entry and simply omit the weather object.
func buildWeeklyPlan(planJSON string, weekStart time.Time, runsByDate map[string]runEntry, forecast map[string]weather.DayForecast) []planDayEntry {
	days := plan.ParseWeeklyPlan(planJSON)
	entries := make([]planDayEntry, 0, len(days))

	for _, day := range days {
		date := weekStart.AddDate(0, 0, plan.DayIndex(day.Day)).Format("2006-01-02")

		entry := planDayEntry{
			Day:      day.Day,
			DayShort: plan.DayAbbreviation(day.Day),
			Workout:  day.Workout,
		}

		if run, ok := runsByDate[date]; ok {
			entry.Completed = true
			entry.DistanceMiles = &run.DistanceMiles
			entry.DurationMinutes = &run.DurationMinutes
			entry.PacePerMile = &run.PacePerMile
		}

		if fc, ok := forecast[date]; ok {
			w := weatherEntry{
				PrecipitationProb: int(fc.PrecipitationProb + 0.5),
				Description:       fc.Description,
			}
			if fc.TempMorning != nil {
				t := units.Round1(*fc.TempMorning)
				w.TempMorning = &t
			}
			if fc.FeelsLikeMorning != nil {
				t := units.Round1(*fc.FeelsLikeMorning)
				w.FeelsLikeMorning = &t
			}
			entry.Weather = &w
		}

		entries = append(entries, entry)
	}
	return entries
}

// writeError maps the error taxonomy onto status codes: missing config
// and upstream API failures are 500, a rejected token exchange is 401.
// The body always carries {"error", "details"} for the device log.
func writeError(c *gin.Context, err error) {
	var (
		missingKey *config.MissingKeyError
		authErr    *strava.AuthError
		apiErr     *strava.APIError
	)

	switch {
	case errors.As(err, &missingKey):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Configuration error", Details: err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Strava authentication failed", Details: err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Strava API error", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error", Details: err.Error()})
	}
}
