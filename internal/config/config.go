package config

import (
	"fmt"
	"os"
)

// Config holds everything the handlers need. It is re-read from the
// environment at the start of every request so that credential changes
// take effect without a restart.
type Config struct {
	Strava  StravaConfig
	Weather WeatherConfig
	Event   EventConfig
	Server  ServerConfig
}

type StravaConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	APIBaseURL   string
}

type WeatherConfig struct {
	APIKey  string
	Lat     string
	Lon     string
	BaseURL string
}

type EventConfig struct {
	Name             string
	Date             string // YYYY-MM-DD, required by the dashboard endpoint
	TrainingSchedule string // JSON array of {weeks_until, target_miles}
	WeeklyPlan       string // JSON array of {day, workout}
}

type ServerConfig struct {
	Port       string
	CORSOrigin string
}

// MissingKeyError names the environment variable whose absence made a
// request impossible to serve.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

// Load reads the current environment. It never fails: required-field
// validation happens per endpoint via the Require* methods, since the
// two endpoints need different subsets.
func Load() *Config {
	return &Config{
		Strava: StravaConfig{
			ClientID:     os.Getenv("STRAVA_CLIENT_ID"),
			ClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
			RefreshToken: os.Getenv("STRAVA_REFRESH_TOKEN"),
			TokenURL:     getEnv("STRAVA_TOKEN_URL", "https://www.strava.com/oauth/token"),
			APIBaseURL:   getEnv("STRAVA_API_BASE_URL", "https://www.strava.com/api/v3"),
		},
		Weather: WeatherConfig{
			APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
			Lat:     os.Getenv("WEATHER_LAT"),
			Lon:     os.Getenv("WEATHER_LON"),
			BaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		},
		Event: EventConfig{
			Name:             getEnv("NEXT_EVENT_NAME", "Next Running Event"),
			Date:             os.Getenv("NEXT_EVENT_DATE"),
			TrainingSchedule: os.Getenv("TRAINING_SCHEDULE"),
			WeeklyPlan:       os.Getenv("WEEKLY_PLAN"),
		},
		Server: ServerConfig{
			Port:       getEnv("PORT", "8888"),
			CORSOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
	}
}

// RequireStrava checks the three credentials every Strava call needs.
func (c *Config) RequireStrava() error {
	required := []struct {
		key string
		val string
	}{
		{"STRAVA_CLIENT_ID", c.Strava.ClientID},
		{"STRAVA_CLIENT_SECRET", c.Strava.ClientSecret},
		{"STRAVA_REFRESH_TOKEN", c.Strava.RefreshToken},
	}
	for _, r := range required {
		if r.val == "" {
			return &MissingKeyError{Key: r.key}
		}
	}
	return nil
}

// RequireEventDate is only enforced on the dashboard endpoint.
func (c *Config) RequireEventDate() error {
	if c.Event.Date == "" {
		return &MissingKeyError{Key: "NEXT_EVENT_DATE"}
	}
	return nil
}

// WeatherConfigured reports whether the forecast client can be built.
// Weather is optional: the dashboard degrades gracefully without it.
func (c *Config) WeatherConfigured() bool {
	return c.Weather.APIKey != "" && c.Weather.Lat != "" && c.Weather.Lon != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
