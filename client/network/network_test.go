package network

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/tetris/client/ui"
	"github.com/cbodonnell/tetris/pkg/api"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/cbodonnell/tetris/pkg/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	subscriberManager := network.NewSubscriberManager()
	broadcastChan := make(chan []models.HighScore, 8)
	go workers.NewBroadcastLeaderboardWorker(workers.NewBroadcastLeaderboardWorkerOptions{
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastChan,
	}).Start(ctx)

	repository := repositories.NewFileRepository(filepath.Join(t.TempDir(), "scores.json"))
	server := httptest.NewServer(api.NewRouter(api.NewAPIServerOptions{
		AllowedOrigins:      []string{"*"},
		Leaderboard:         highscores.NewLeaderboard(highscores.NewLeaderboardOptions{Repository: repository}),
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastChan,
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAPIClient(t *testing.T) {
	server := newAPIServer(t)
	client := NewAPIClient(NewAPIClientOptions{BaseURL: server.URL + "/"})
	ctx := context.Background()

	scores, err := client.ListScores(ctx)
	require.NoError(t, err)
	assert.Empty(t, scores)

	rank, err := client.SubmitScore(ctx, messages.SubmitScoreRequest{Initials: "ABC", Score: 300, Level: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, err = client.SubmitScore(ctx, messages.SubmitScoreRequest{Initials: "XYZ", Score: 900, Level: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	scores, err = client.ListScores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "XYZ", scores[0].Initials)
}

func TestAPIClient_Rejected(t *testing.T) {
	server := newAPIServer(t)
	client := NewAPIClient(NewAPIClientOptions{BaseURL: server.URL})

	_, err := client.SubmitScore(context.Background(), messages.SubmitScoreRequest{Initials: "ab", Score: 1})
	require.Error(t, err)
	actionable, ok := err.(*ui.ActionableError)
	require.True(t, ok, "unexpected error type %T", err)
	assert.Equal(t, highscores.ErrMsgInitials, actionable.Message)
}

func TestAPIClient_Unreachable(t *testing.T) {
	server := newAPIServer(t)
	client := NewAPIClient(NewAPIClientOptions{BaseURL: server.URL})
	server.Close()

	_, err := client.ListScores(context.Background())
	assert.Error(t, err)
}

func TestAPIClient_LiveURL(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{baseURL: "http://localhost:9090", want: "ws://localhost:9090/scores/live"},
		{baseURL: "https://tetris.example.com/", want: "wss://tetris.example.com/scores/live"},
	}
	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			assert.Equal(t, tt.want, NewAPIClient(NewAPIClientOptions{BaseURL: tt.baseURL}).LiveURL())
		})
	}
}

func waitFor[T any](t *testing.T, poll func() (T, bool)) T {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := poll(); ok {
			return v
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out")
	var zero T
	return zero
}

func TestNetworkManager(t *testing.T) {
	server := newAPIServer(t)
	m := NewNetworkManager(NewNetworkManagerOptions{APIURL: server.URL, Live: true})
	m.Start(context.Background())
	defer m.Stop()

	// the feed sends the current leaderboard on connect
	initial := waitFor(t, m.PollLiveScores)
	assert.Empty(t, initial)

	require.NoError(t, m.SubmitScore(messages.SubmitScoreRequest{Initials: "ABC", Score: 1200, Level: 3}))
	result := waitFor(t, m.PollResult)
	require.NoError(t, result.Err)
	assert.True(t, result.Submitted)
	assert.Equal(t, 1, result.Rank)
	require.Len(t, result.Scores, 1)

	live := waitFor(t, m.PollLiveScores)
	require.Len(t, live, 1)
	assert.Equal(t, int64(1200), live[0].Score)

	require.NoError(t, m.RefreshScores())
	result = waitFor(t, m.PollResult)
	require.NoError(t, result.Err)
	assert.False(t, result.Submitted)
	assert.Len(t, result.Scores, 1)
}

func TestNetworkManager_QueueFull(t *testing.T) {
	m := NewNetworkManager(NewNetworkManagerOptions{APIURL: "http://127.0.0.1:1"})
	for i := 0; i < ScoreRequestChannelSize; i++ {
		require.NoError(t, m.RefreshScores())
	}
	err := m.RefreshScores()
	assert.IsType(t, &ErrRequestQueueFull{}, err)

	_, ok := m.PollLiveScores()
	assert.False(t, ok)
}
