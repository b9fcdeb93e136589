// internal/weather/client.go
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skeates/trmnl-running-dashboard/internal/config"
)

// maxForecastDays is OpenWeatherMap's cap on the daily forecast length.
const maxForecastDays = 16

// Client fetches daily forecasts from OpenWeatherMap for a fixed
// configured location.
type Client struct {
	apiKey     string
	lat        string
	lon        string
	baseURL    string
	httpClient *http.Client
}

// DayForecast is the per-day subset the dashboard renders. Morning
// temperatures can be absent in the upstream payload, so they stay
// pointers all the way to the JSON response.
type DayForecast struct {
	TempMorning       *float64 `json:"temp_morning"`
	FeelsLikeMorning  *float64 `json:"feels_like_morning"`
	PrecipitationProb float64  `json:"precipitation_prob"`
	Description       string   `json:"description"`
}

func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		lat:     cfg.Lat,
		lon:     cfg.Lon,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// forecastResponse mirrors the fields we use from the upstream payload.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Morn *float64 `json:"morn"`
		} `json:"temp"`
		FeelsLike struct {
			Morn *float64 `json:"morn"`
		} `json:"feels_like"`
		Pop     float64 `json:"pop"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// DailyForecast returns up to days of forecast keyed by local calendar
// date (YYYY-MM-DD). Probability of precipitation is converted from the
// upstream 0-1 fraction to a percentage.
func (c *Client) DailyForecast(ctx context.Context, days int) (map[string]DayForecast, error) {
	if days > maxForecastDays {
		days = maxForecastDays
	}

	url := fmt.Sprintf("%s/forecast/daily?lat=%s&lon=%s&cnt=%d&appid=%s&units=metric",
		c.baseURL, c.lat, c.lon, days, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, body)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}

	forecasts := make(map[string]DayForecast, len(data.List))
	for _, day := range data.List {
		description := "Unknown"
		if len(day.Weather) > 0 {
			description = day.Weather[0].Description
		}
		date := time.Unix(day.Dt, 0).Format("2006-01-02")
		forecasts[date] = DayForecast{
			TempMorning:       day.Temp.Morn,
			FeelsLikeMorning:  day.FeelsLike.Morn,
			PrecipitationProb: day.Pop * 100,
			Description:       description,
		}
	}
	return forecasts, nil
}
