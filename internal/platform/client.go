package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallydesk/rallydesk/internal/scoring"
)

// APIClient is an HTTP client for the RallyDesk platform API. It implements
// the PlatformClient interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new platform client pointed at the given base URL.
func NewClient(baseURL string) PlatformClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the PlatformClient interface.
var _ PlatformClient = (*APIClient)(nil)

// ListMatches fetches the match listing for a tournament.
func (c *APIClient) ListMatches(ctx context.Context, tournamentID string) ([]MatchSummary, error) {
	url := fmt.Sprintf("%s/tournaments/%s/matches", c.BaseURL, tournamentID)

	var payloads []matchPayload
	if err := c.getJSON(ctx, url, &payloads); err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(payloads))
	for _, p := range payloads {
		summaries = append(summaries, MatchSummary{
			MatchID:     p.ID,
			RoundNumber: p.RoundNumber,
			MatchNumber: p.MatchNumber,
			Status:      scoring.MatchStatus(p.Status),
		})
	}
	log.Debug("Fetched tournament matches", "tournament", tournamentID, "count", len(summaries))
	return summaries, nil
}

// GetMatch fetches the authoritative record of a single match.
func (c *APIClient) GetMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	url := fmt.Sprintf("%s/matches/%s", c.BaseURL, matchID)

	var payload matchPayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return MatchRecord{}, err
	}
	return payload.toRecord(), nil
}

// GetScoringRules fetches the scoring rules configured for a tournament.
func (c *APIClient) GetScoringRules(ctx context.Context, tournamentID string) (scoring.Rules, error) {
	url := fmt.Sprintf("%s/tournaments/%s/rules", c.BaseURL, tournamentID)

	var rules scoring.Rules
	if err := c.getJSON(ctx, url, &rules); err != nil {
		return scoring.Rules{}, err
	}
	return rules, nil
}

// StartMatch transitions a scheduled match to live.
func (c *APIClient) StartMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	url := fmt.Sprintf("%s/matches/%s/start", c.BaseURL, matchID)
	return c.postMatch(ctx, url, nil)
}

// SubmitSet records a completed set on the platform and returns the updated
// match record.
func (c *APIClient) SubmitSet(ctx context.Context, matchID string, set scoring.SetScore) (MatchRecord, error) {
	url := fmt.Sprintf("%s/matches/%s/score", c.BaseURL, matchID)
	return c.postMatch(ctx, url, setPayload{SetNumber: set.SetNumber, Score1: set.Score1, Score2: set.Score2})
}

// OverrideSet corrects a historical set on the platform and returns the
// updated match record.
func (c *APIClient) OverrideSet(ctx context.Context, matchID string, set scoring.SetScore) (MatchRecord, error) {
	url := fmt.Sprintf("%s/matches/%s/override", c.BaseURL, matchID)
	return c.postMatch(ctx, url, setPayload{SetNumber: set.SetNumber, Score1: set.Score1, Score2: set.Score2})
}

func (c *APIClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting from platform API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) postMatch(ctx context.Context, url string, body any) (MatchRecord, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return MatchRecord{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	log.Debug("Posting to platform API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return MatchRecord{}, err
	}

	var payload matchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return MatchRecord{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.toRecord(), nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict:
		var payload errorPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, payload.Error)
		}
		return ErrRejected
	default:
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from platform API", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
}
