// internal/strava/models.go
package strava

import (
	"fmt"
	"strings"
)

// Activity is one completed session as returned by Strava's
// /athlete/activities endpoint. Fields Strava only sometimes populates
// (heart rate, calories, cadence, temperature, effort score) are
// pointers so absence is distinguishable from zero — the aggregator
// excludes absent values from both sums and averaging denominators.
type Activity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	StartDate          string   `json:"start_date"`
	StartDateLocal     string   `json:"start_date_local"`
	Distance           float64  `json:"distance"`             // meters
	MovingTime         int      `json:"moving_time"`          // seconds
	ElapsedTime        int      `json:"elapsed_time"`         // seconds
	TotalElevationGain float64  `json:"total_elevation_gain"` // meters
	ElevHigh           *float64 `json:"elev_high"`
	ElevLow            *float64 `json:"elev_low"`
	AverageSpeed       float64  `json:"average_speed"` // m/s
	MaxSpeed           float64  `json:"max_speed"`     // m/s
	AverageCadence     *float64 `json:"average_cadence"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	MaxHeartrate       *float64 `json:"max_heartrate"`
	Calories           *float64 `json:"calories"`
	SufferScore        *float64 `json:"suffer_score"`
	AverageTemp        *float64 `json:"average_temp"`
	HasHeartrate       bool     `json:"has_heartrate"`
	Trainer            bool     `json:"trainer"`
	Commute            bool     `json:"commute"`
	AchievementCount   int      `json:"achievement_count"`
	KudosCount         int      `json:"kudos_count"`
	PRCount            int      `json:"pr_count"`
}

// LocalDate extracts the YYYY-MM-DD part of the local start timestamp,
// which is how runs are matched to plan days and forecasts.
func (a Activity) LocalDate() string {
	date := a.StartDateLocal
	if date == "" {
		date = a.StartDate
	}
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// TokenResponse is Strava's OAuth token payload, shared by the refresh
// and authorization-code grants.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	Athlete      *Athlete `json:"athlete,omitempty"`
}

type Athlete struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// AuthError means the token exchange was rejected; handlers surface it
// as 401.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strava token exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("strava token exchange rejected with status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError means the data call itself failed; handlers surface it as
// 500 with the upstream status and body kept for diagnostics.
type APIError struct {
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strava API request failed: %v", e.Err)
	}
	return fmt.Sprintf("strava API returned status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }
