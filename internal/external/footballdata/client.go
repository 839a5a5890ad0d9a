// Package footballdata is a client for the football-data.org v4 API.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/soccer-analytics/pkg/httputil"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

const (
	// DefaultBaseURL is the public v4 endpoint
	DefaultBaseURL = "https://api.football-data.org/v4"
	// DefaultPlan is the subscription tier used to list competitions
	DefaultPlan = "TIER_ONE"

	authHeader = "X-Auth-Token"
	dateLayout = "2006-01-02"
)

var (
	// ErrRateLimited is returned on HTTP 429
	ErrRateLimited = errors.New("football-data rate limit exceeded")
	// ErrForbidden is returned on HTTP 403 (bad key or plan)
	ErrForbidden = errors.New("football-data access forbidden, check API key and plan")
)

// APIError is any other non-200 response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("football-data request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client handles communication with football-data.org
// ⭐ SSOT: football-data API calls are made by this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a client. The API key is sent on every request.
func NewClient(httpClient *httputil.Client, apiKey, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey != "" {
		httpClient.WithHeader(authHeader, apiKey)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.Module("footballdata"),
		baseURL:    baseURL,
	}
}

// get fetches endpoint with query params and decodes JSON into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	status, body, err := c.httpClient.GetBody(ctx, u)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}

	switch status {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return &APIError{StatusCode: status, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func seasonParams(season *int) url.Values {
	params := url.Values{}
	if season != nil {
		params.Set("season", strconv.Itoa(*season))
	}
	return params
}

// Competitions lists competitions available on the plan
func (c *Client) Competitions(ctx context.Context, plan string) ([]Competition, error) {
	if plan == "" {
		plan = DefaultPlan
	}
	var resp competitionsResponse
	if err := c.get(ctx, "/competitions", url.Values{"plan": {plan}}, &resp); err != nil {
		return nil, err
	}
	c.logger.WithField("count", len(resp.Competitions)).Info("Fetched competitions")
	return resp.Competitions, nil
}

// Competition fetches a single competition
func (c *Client) Competition(ctx context.Context, id int64) (*Competition, error) {
	var comp Competition
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d", id), nil, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

// CompetitionTeams lists a competition's teams, optionally for a season
func (c *Client) CompetitionTeams(ctx context.Context, competitionID int64, season *int) ([]Team, error) {
	var resp teamsResponse
	endpoint := fmt.Sprintf("/competitions/%d/teams", competitionID)
	if err := c.get(ctx, endpoint, seasonParams(season), &resp); err != nil {
		return nil, err
	}
	c.logger.WithFields(map[string]interface{}{
		"competition_id": competitionID,
		"count":          len(resp.Teams),
	}).Info("Fetched competition teams")
	return resp.Teams, nil
}

// Team fetches a team with its squad
func (c *Client) Team(ctx context.Context, teamID int64) (*Team, error) {
	var team Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", teamID), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CompetitionMatches lists a competition's matches, optionally for a season
// and a date window
func (c *Client) CompetitionMatches(ctx context.Context, competitionID int64, season *int, from, to *time.Time) ([]Match, error) {
	params := seasonParams(season)
	if from != nil {
		params.Set("dateFrom", from.Format(dateLayout))
	}
	if to != nil {
		params.Set("dateTo", to.Format(dateLayout))
	}

	var resp matchesResponse
	endpoint := fmt.Sprintf("/competitions/%d/matches", competitionID)
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	c.logger.WithFields(map[string]interface{}{
		"competition_id": competitionID,
		"count":          len(resp.Matches),
	}).Info("Fetched competition matches")
	return resp.Matches, nil
}

// Standings fetches a competition's tables, optionally for a season
func (c *Client) Standings(ctx context.Context, competitionID int64, season *int) (*StandingsResponse, error) {
	var resp StandingsResponse
	endpoint := fmt.Sprintf("/competitions/%d/standings", competitionID)
	if err := c.get(ctx, endpoint, seasonParams(season), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TeamMatchesOptions narrows /teams/{id}/matches
type TeamMatchesOptions struct {
	Season *int
	Status string
	Venue  string
	Limit  int
}

// TeamMatches lists a team's matches
func (c *Client) TeamMatches(ctx context.Context, teamID int64, opts TeamMatchesOptions) ([]Match, error) {
	params := seasonParams(opts.Season)
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Venue != "" {
		params.Set("venue", opts.Venue)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	var resp matchesResponse
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/matches", teamID), params, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// RecentMatches lists matches across competitions between now-daysBack and now
func (c *Client) RecentMatches(ctx context.Context, now time.Time, daysBack int) ([]Match, error) {
	params := url.Values{}
	params.Set("dateFrom", now.AddDate(0, 0, -daysBack).Format(dateLayout))
	params.Set("dateTo", now.Format(dateLayout))

	var resp matchesResponse
	if err := c.get(ctx, "/matches", params, &resp); err != nil {
		return nil, err
	}
	c.logger.WithFields(map[string]interface{}{
		"days_back": daysBack,
		"count":     len(resp.Matches),
	}).Info("Fetched recent matches")
	return resp.Matches, nil
}
