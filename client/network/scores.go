package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cbodonnell/tetris/client/ui"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

const (
	DefaultAPIURL = "http://localhost:9090"
	ScoresPath    = "/scores"
	LivePath      = "/scores/live"
)

// APIClient calls the high score API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

type NewAPIClientOptions struct {
	BaseURL string
	// HTTPClient defaults to http.DefaultClient
	HTTPClient *http.Client
}

func NewAPIClient(opts NewAPIClientOptions) *APIClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *APIClient) ListScores(ctx context.Context) ([]models.HighScore, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ScoresPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send list request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ErrUnexpectedStatus{StatusCode: resp.StatusCode}
	}

	leaderboard := &messages.Leaderboard{}
	if err := json.NewDecoder(resp.Body).Decode(leaderboard); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %v", err)
	}

	return leaderboard.Scores, nil
}

// SubmitScore submits a score and returns its rank. A rejected submission is
// returned as a *ui.ActionableError carrying the server's message.
func (c *APIClient) SubmitScore(ctx context.Context, submission messages.SubmitScoreRequest) (int, error) {
	body, err := json.Marshal(&submission)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal submission: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ScoresPath, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create submit request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send submit request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errResp := &messages.ErrorResponse{}
		_ = json.NewDecoder(resp.Body).Decode(errResp)
		if resp.StatusCode == http.StatusBadRequest && errResp.Error != "" {
			return 0, &ui.ActionableError{Message: errResp.Error}
		}
		return 0, &ErrUnexpectedStatus{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	submitResp := &messages.SubmitScoreResponse{}
	if err := json.NewDecoder(resp.Body).Decode(submitResp); err != nil {
		return 0, fmt.Errorf("failed to decode submit response: %v", err)
	}

	return submitResp.Rank, nil
}

// LiveURL returns the websocket URL of the live leaderboard feed.
func (c *APIClient) LiveURL() string {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + LivePath
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + LivePath
	}
	return c.baseURL + LivePath
}
