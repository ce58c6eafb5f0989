package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreClient struct {
	scores    []models.HighScore
	submitted []messages.SubmitScoreRequest
	submitErr error
	listErr   error
}

func (c *fakeScoreClient) ListScores(ctx context.Context) ([]models.HighScore, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.scores, nil
}

func (c *fakeScoreClient) SubmitScore(ctx context.Context, req messages.SubmitScoreRequest) (int, error) {
	if c.submitErr != nil {
		return 0, c.submitErr
	}
	c.submitted = append(c.submitted, req)
	c.scores = append(c.scores, models.HighScore{Initials: req.Initials, Score: req.Score, Level: req.Level})
	return len(c.scores), nil
}

func runScoreWorker(t *testing.T, client ScoreClient, req ScoreRequest) ScoreResult {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requests := make(chan ScoreRequest, 1)
	results := make(chan ScoreResult, 1)
	w := NewScoreWorker(NewScoreWorkerOptions{Client: client, RequestChan: requests, ResultChan: results})
	go w.Start(ctx)

	requests <- req
	select {
	case result := <-results:
		return result
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}
	return ScoreResult{}
}

func TestScoreWorker(t *testing.T) {
	tests := []struct {
		name          string
		client        *fakeScoreClient
		req           ScoreRequest
		wantSubmit    bool
		wantSubmitted bool
		wantRank      int
		wantScores    int
		wantErr       bool
	}{
		{
			name:       "refresh",
			client:     &fakeScoreClient{scores: []models.HighScore{{Initials: "AAA", Score: 10}}},
			wantScores: 1,
		},
		{
			name:          "submit then refresh",
			client:        &fakeScoreClient{},
			req:           ScoreRequest{Submit: &messages.SubmitScoreRequest{Initials: "ABC", Score: 500, Level: 2}},
			wantSubmit:    true,
			wantSubmitted: true,
			wantRank:      1,
			wantScores:    1,
		},
		{
			name:    "submit failure",
			client:  &fakeScoreClient{submitErr: errors.New("offline")},
			req:        ScoreRequest{Submit: &messages.SubmitScoreRequest{Initials: "ABC"}},
			wantSubmit: true,
			wantErr:    true,
		},
		{
			name:    "list failure",
			client:  &fakeScoreClient{listErr: errors.New("offline")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runScoreWorker(t, tt.client, tt.req)
			assert.Equal(t, tt.wantSubmit, result.Submit)
			if tt.wantErr {
				assert.Error(t, result.Err)
				return
			}
			require.NoError(t, result.Err)
			assert.Equal(t, tt.wantSubmitted, result.Submitted)
			assert.Equal(t, tt.wantRank, result.Rank)
			assert.Len(t, result.Scores, tt.wantScores)
		})
	}
}

func TestBroadcastLeaderboardWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sm := network.NewSubscriberManager()
	subscriber, err := sm.Subscribe()
	require.NoError(t, err)

	scoresChan := make(chan []models.HighScore)
	w := NewBroadcastLeaderboardWorker(NewBroadcastLeaderboardWorkerOptions{
		SubscriberManager:   sm,
		BroadcastScoresChan: scoresChan,
	})
	go w.Start(ctx)

	scoresChan <- []models.HighScore{{Initials: "ABC", Score: 100}}

	select {
	case payload := <-subscriber.Updates():
		leaderboard, err := messages.DeserializeLeaderboard(payload)
		require.NoError(t, err)
		require.Len(t, leaderboard.Scores, 1)
		assert.Equal(t, "ABC", leaderboard.Scores[0].Initials)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}
