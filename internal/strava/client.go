// internal/strava/client.go
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skeates/trmnl-running-dashboard/internal/config"
)

// MaxPerPage is Strava's hard cap on the activities page size.
const MaxPerPage = 200

// Client talks to the Strava API v3 on behalf of a single athlete. It
// lives for one request: credentials come from configuration and a
// rotated refresh token is kept only until the client is discarded.
type Client struct {
	clientID     string
	clientSecret string
	refreshToken string
	accessToken  string

	tokenURL      string
	activitiesURL string
	httpClient    *http.Client
}

// NewClient creates a Strava client from request-scoped configuration.
func NewClient(cfg config.StravaConfig) *Client {
	return &Client{
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		refreshToken:  cfg.RefreshToken,
		tokenURL:      cfg.TokenURL,
		activitiesURL: cfg.APIBaseURL + "/athlete/activities",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RefreshAccessToken exchanges the refresh token for a short-lived
// access token. Strava may rotate the refresh token; the returned value
// replaces the configured one for the rest of this client's lifetime.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {c.refreshToken},
		"grant_type":    {"refresh_token"},
	}

	token, err := c.postToken(ctx, form)
	if err != nil {
		return err
	}

	c.accessToken = token.AccessToken
	if token.RefreshToken != "" {
		c.refreshToken = token.RefreshToken
	}
	return nil
}

// ExchangeAuthorizationCode performs the one-time authorization-code
// grant used during initial setup (see cmd/oauth-setup).
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	}
	return c.postToken(ctx, form)
}

func (c *Client) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, &AuthError{Err: fmt.Errorf("decoding token response: %w", err)}
	}
	return &token, nil
}

// GetActivities fetches one page of activities started after the given
// unix timestamp. perPage is capped at MaxPerPage. On a 401 the token
// is refreshed once and the call retried; any other failure is a single
// attempt — the polling device re-requests on its own schedule.
func (c *Client) GetActivities(ctx context.Context, after int64, perPage int) ([]Activity, error) {
	if c.accessToken == "" {
		if err := c.RefreshAccessToken(ctx); err != nil {
			return nil, err
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	resp, err := c.getActivities(ctx, after, perPage)
	if err != nil {
		return nil, &APIError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.RefreshAccessToken(ctx); err != nil {
			return nil, err
		}
		resp, err = c.getActivities(ctx, after, perPage)
		if err != nil {
			return nil, &APIError{Err: err}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, &APIError{Err: fmt.Errorf("decoding activities: %w", err)}
	}
	if activities == nil {
		activities = []Activity{}
	}
	return activities, nil
}

func (c *Client) getActivities(ctx context.Context, after int64, perPage int) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.activitiesURL, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("per_page", strconv.Itoa(perPage))
	if after > 0 {
		q.Set("after", strconv.FormatInt(after, 10))
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	return c.httpClient.Do(req)
}

// WeeklyRuns fetches everything since weekStart and keeps only runs.
// The type match is exact: Strava's type strings are treated as opaque.
func (c *Client) WeeklyRuns(ctx context.Context, weekStart time.Time) ([]Activity, error) {
	activities, err := c.GetActivities(ctx, weekStart.Unix(), MaxPerPage)
	if err != nil {
		return nil, err
	}

	runs := []Activity{}
	for _, activity := range activities {
		if activity.Type == "Run" {
			runs = append(runs, activity)
		}
	}
	return runs, nil
}
