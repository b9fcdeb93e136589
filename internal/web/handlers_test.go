package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skeates/trmnl-running-dashboard/internal/stats"
	"github.com/skeates/trmnl-running-dashboard/internal/strava"
)

func f(v float64) *float64 { return &v }

// testNow is a fixed Wednesday; the containing week runs Mon Jan 19 to
// Sun Jan 25.
var testNow = time.Date(2026, 1, 21, 10, 0, 0, 0, time.UTC)

type upstream struct {
	server      *httptest.Server
	rejectToken bool
	dataStatus  int
	activities  []strava.Activity
	lastAfter   string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{dataStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if u.rejectToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "Bad Request"}`))
			return
		}
		fmt.Fprint(w, `{"access_token": "t", "refresh_token": "r", "expires_at": 9999999999}`)
	})
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		u.lastAfter = r.URL.Query().Get("after")
		if u.dataStatus != http.StatusOK {
			w.WriteHeader(u.dataStatus)
			w.Write([]byte(`{"message": "upstream unhappy"}`))
			return
		}
		json.NewEncoder(w).Encode(u.activities)
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)

	t.Setenv("STRAVA_CLIENT_ID", "id")
	t.Setenv("STRAVA_CLIENT_SECRET", "secret")
	t.Setenv("STRAVA_REFRESH_TOKEN", "refresh")
	t.Setenv("STRAVA_TOKEN_URL", u.server.URL+"/oauth/token")
	t.Setenv("STRAVA_API_BASE_URL", u.server.URL+"/api/v3")
	t.Setenv("OPENWEATHER_API_KEY", "")
	return u
}

func newTestRouter() (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	h := NewHandler()
	h.now = func() time.Time { return testNow }
	router := gin.New()
	h.RegisterRoutes(router)
	return router, h
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func nutritionFixture() []strava.Activity {
	return []strava.Activity{
		{
			ID: 1, Name: "Morning Run", Type: "Run", SportType: "Run",
			StartDateLocal: "2026-01-20T06:00:00Z",
			Distance:       8000, MovingTime: 2400, ElapsedTime: 2500,
			TotalElevationGain: 100,
			AverageHeartrate:   f(155), MaxHeartrate: f(175),
			Calories: f(450), SufferScore: f(42),
		},
		{
			ID: 2, Name: "Easy Run", Type: "Run", SportType: "Run",
			StartDateLocal: "2026-01-18T07:00:00Z",
			Distance:       5000, MovingTime: 1800, ElapsedTime: 1900,
			TotalElevationGain: 50,
			AverageHeartrate:   f(145), MaxHeartrate: f(160),
			Calories: f(300), SufferScore: f(28),
		},
		{
			ID: 3, Name: "Recovery Bike", Type: "Ride", SportType: "MountainBikeRide",
			StartDateLocal: "2026-01-19T08:00:00Z",
			Distance:       15000, MovingTime: 2700, ElapsedTime: 3000,
			TotalElevationGain: 200,
			AverageHeartrate:   f(130), MaxHeartrate: f(150),
			Calories: f(400), SufferScore: f(35),
		},
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("timestamp missing")
	}
}

func TestNutritionDataEndToEnd(t *testing.T) {
	u := newUpstream(t)
	u.activities = nutritionFixture()
	router, _ := newTestRouter()

	w := doRequest(router, "/api/nutrition-data?days=30")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var report stats.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}

	if report.Summary.TotalActivities != 3 {
		t.Errorf("total_activities = %d, want 3", report.Summary.TotalActivities)
	}
	if report.Summary.TotalCalories != 1150 {
		t.Errorf("total_calories = %v, want 1150", report.Summary.TotalCalories)
	}
	if run := report.ActivityTypes["Run"]; run == nil || run.Count != 2 {
		t.Errorf("activity_types.Run = %+v, want count 2", run)
	}
	if report.Period.Days != 30 {
		t.Errorf("period.days = %d, want 30", report.Period.Days)
	}
	if len(report.Activities) != 3 {
		t.Errorf("activities has %d rows, want 3", len(report.Activities))
	}
	if report.Activities[0].PacePerKm != "5:00" || report.Activities[0].PacePerMile == "" {
		t.Errorf("activity paces = %q / %q", report.Activities[0].PacePerKm, report.Activities[0].PacePerMile)
	}
}

func TestNutritionDaysClamped(t *testing.T) {
	u := newUpstream(t)
	router, _ := newTestRouter()

	tests := []struct {
		query    string
		wantDays int
	}{
		{"days=500", 90},
		{"days=0", 1},
		{"days=-3", 1},
		{"days=45", 45},
		{"days=notanumber", 30},
		{"", 30},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(router, "/api/nutrition-data?"+tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}

			var report stats.Report
			if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
				t.Fatalf("decoding report: %v", err)
			}
			if report.Period.Days != tt.wantDays {
				t.Errorf("period.days = %d, want %d", report.Period.Days, tt.wantDays)
			}

			wantAfter := fmt.Sprintf("%d", testNow.AddDate(0, 0, -tt.wantDays).Unix())
			if u.lastAfter != wantAfter {
				t.Errorf("after = %s, want %s", u.lastAfter, wantAfter)
			}
		})
	}
}

func TestNutritionAuthFailure(t *testing.T) {
	u := newUpstream(t)
	u.rejectToken = true
	router, _ := newTestRouter()

	w := doRequest(router, "/api/nutrition-data")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "Strava authentication failed" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestNutritionUpstreamFailure(t *testing.T) {
	u := newUpstream(t)
	u.dataStatus = http.StatusServiceUnavailable
	router, _ := newTestRouter()

	w := doRequest(router, "/api/nutrition-data")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "Strava API error" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestNutritionMissingCredentials(t *testing.T) {
	newUpstream(t)
	t.Setenv("STRAVA_REFRESH_TOKEN", "")
	router, _ := newTestRouter()

	w := doRequest(router, "/api/nutrition-data")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "Configuration error" {
		t.Errorf("error = %q", body.Error)
	}
	// The response names the missing key so the operator can fix it.
	if want := "STRAVA_REFRESH_TOKEN"; !strings.Contains(body.Details, want) {
		t.Errorf("details %q does not name %s", body.Details, want)
	}
}

func TestRunningDataRequiresEventDate(t *testing.T) {
	newUpstream(t)
	t.Setenv("NEXT_EVENT_DATE", "")
	router, _ := newTestRouter()

	w := doRequest(router, "/api/running-data")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !strings.Contains(body.Details, "NEXT_EVENT_DATE") {
		t.Errorf("details %q does not name NEXT_EVENT_DATE", body.Details)
	}
}

func TestRunningDataDashboard(t *testing.T) {
	u := newUpstream(t)
	u.activities = []strava.Activity{
		{ID: 1, Name: "Tempo Tuesday", Type: "Run", StartDateLocal: "2026-01-20T06:30:00Z", Distance: 8000, MovingTime: 2400},
		{ID: 2, Name: "Monday Shakeout", Type: "Run", StartDateLocal: "2026-01-19T06:15:00Z", Distance: 5000, MovingTime: 1800},
		{ID: 3, Name: "Lunch Ride", Type: "Ride", StartDateLocal: "2026-01-20T12:00:00Z", Distance: 20000, MovingTime: 3600},
	}

	t.Setenv("NEXT_EVENT_NAME", "Spring Marathon")
	t.Setenv("NEXT_EVENT_DATE", "2026-03-19") // 8 full weeks past testNow
	t.Setenv("TRAINING_SCHEDULE", `[
		{"weeks_until": 16, "target_miles": 15},
		{"weeks_until": 12, "target_miles": 20},
		{"weeks_until": 8, "target_miles": 25},
		{"weeks_until": 4, "target_miles": 30}
	]`)
	t.Setenv("WEEKLY_PLAN", `[
		{"day": "Monday", "workout": "Easy 3mi"},
		{"day": "Tuesday", "workout": "Tempo 5mi"},
		{"day": "Wednesday", "workout": "Rest"}
	]`)

	router, _ := newTestRouter()
	w := doRequest(router, "/api/running-data")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp dashboardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	// 8000m -> 5.0mi, 5000m -> 3.1mi; the ride is filtered out.
	if resp.WeeklyMiles != 8.1 {
		t.Errorf("weekly_miles = %v, want 8.1", resp.WeeklyMiles)
	}
	if resp.TargetMiles != 25 {
		t.Errorf("target_miles = %v, want 25", resp.TargetMiles)
	}
	if resp.WeeksUntilEvent != 8 {
		t.Errorf("weeks_until_event = %d, want 8", resp.WeeksUntilEvent)
	}
	if resp.EventName != "Spring Marathon" {
		t.Errorf("event_name = %q", resp.EventName)
	}
	if resp.Quote == "" {
		t.Error("quote missing")
	}
	if resp.ProgressPercentage != 32 {
		t.Errorf("progress_percentage = %d, want 32", resp.ProgressPercentage)
	}
	if len(resp.Runs) != 2 {
		t.Fatalf("runs has %d entries, want 2", len(resp.Runs))
	}
	if !resp.HasWeeklyPlan || len(resp.WeeklyPlan) != 3 {
		t.Fatalf("weekly_plan has %d entries, want 3", len(resp.WeeklyPlan))
	}

	monday := resp.WeeklyPlan[0]
	if !monday.Completed || monday.DistanceMiles == nil || *monday.DistanceMiles != 3.1 {
		t.Errorf("Monday entry = %+v, want completed 3.1mi", monday)
	}
	wednesday := resp.WeeklyPlan[2]
	if wednesday.Completed {
		t.Error("Wednesday should not be completed")
	}
	if wednesday.Weather != nil {
		t.Error("weather should be absent when not configured")
	}
}

func TestRunningDataMergesWeather(t *testing.T) {
	u := newUpstream(t)
	u.activities = []strava.Activity{}

	// Forecast covering today (Wednesday) only; past plan days stay
	// without a weather object.
	wednesdayNoon := time.Date(2026, 1, 21, 12, 0, 0, 0, time.Local)
	weatherServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"list": [{
				"dt": %d,
				"temp": {"morn": 4.26},
				"feels_like": {"morn": 1.84},
				"pop": 0.65,
				"weather": [{"description": "overcast clouds"}]
			}]
		}`, wednesdayNoon.Unix())
	}))
	defer weatherServer.Close()

	t.Setenv("NEXT_EVENT_DATE", "2026-03-18")
	t.Setenv("WEEKLY_PLAN", `[
		{"day": "Monday", "workout": "Easy 3mi"},
		{"day": "Wednesday", "workout": "Tempo"}
	]`)
	t.Setenv("OPENWEATHER_API_KEY", "key")
	t.Setenv("WEATHER_LAT", "51.5")
	t.Setenv("WEATHER_LON", "-0.1")
	t.Setenv("OPENWEATHER_BASE_URL", weatherServer.URL)

	router, _ := newTestRouter()
	w := doRequest(router, "/api/running-data")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp dashboardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if resp.WeeklyPlan[0].Weather != nil {
		t.Error("Monday had no forecast entry and should omit weather")
	}
	wednesday := resp.WeeklyPlan[1].Weather
	if wednesday == nil {
		t.Fatal("Wednesday forecast missing")
	}
	if wednesday.TempMorning == nil || *wednesday.TempMorning != 4.3 {
		t.Errorf("temp_morning = %v, want 4.3", wednesday.TempMorning)
	}
	if wednesday.PrecipitationProb != 65 {
		t.Errorf("precipitation_prob = %d, want 65", wednesday.PrecipitationProb)
	}
	if wednesday.Description != "overcast clouds" {
		t.Errorf("description = %q", wednesday.Description)
	}
}

