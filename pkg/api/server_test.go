package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/tetris/pkg/api/middleware"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/cbodonnell/tetris/pkg/workers"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

type failingRepository struct{}

func (failingRepository) Close(ctx context.Context) error { return nil }

func (failingRepository) LoadHighScores(ctx context.Context) ([]models.HighScore, error) {
	return nil, &repositories.ErrNotFound{}
}

func (failingRepository) SaveHighScores(ctx context.Context, scores []models.HighScore) error {
	return errors.New("read-only file system")
}

type testServer struct {
	*httptest.Server
	repository repositories.Repository
}

func newTestServer(t *testing.T, repository repositories.Repository) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if repository == nil {
		repository = repositories.NewFileRepository(t.TempDir() + "/scores.json")
	}
	subscriberManager := network.NewSubscriberManager()
	broadcastChan := make(chan []models.HighScore, 8)
	go workers.NewBroadcastLeaderboardWorker(workers.NewBroadcastLeaderboardWorkerOptions{
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastChan,
	}).Start(ctx)

	router := NewRouter(NewAPIServerOptions{
		AllowedOrigins:      []string{"*"},
		Leaderboard:         highscores.NewLeaderboard(highscores.NewLeaderboardOptions{Repository: repository}),
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastChan,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server, repository: repository}
}

func (s *testServer) post(t *testing.T, path string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func (s *testServer) list(t *testing.T, path string) []models.HighScore {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	leaderboard := &messages.Leaderboard{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(leaderboard))
	require.NotNil(t, leaderboard.Scores)
	return leaderboard.Scores
}

func TestListScores_Empty(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.URL + "/scores")
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, `[]`, string(out["scores"]))
}

func TestSubmitScore(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "valid", body: `{"initials":"ABC","score":1200,"level":3}`, wantStatus: http.StatusOK},
		{name: "malformed body", body: `{"initials":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "bad initials", body: `{"initials":"ab1","score":1200,"level":3}`, wantStatus: http.StatusBadRequest, wantError: highscores.ErrMsgInitials},
		{name: "bad initials reported before bad score", body: `{"initials":"ab1","score":-1,"level":0}`, wantStatus: http.StatusBadRequest, wantError: highscores.ErrMsgInitials},
		{name: "string score", body: `{"initials":"ABC","score":"1200","level":3}`, wantStatus: http.StatusBadRequest, wantError: highscores.ErrMsgScore},
		{name: "negative score", body: `{"initials":"ABC","score":-1,"level":3}`, wantStatus: http.StatusBadRequest, wantError: highscores.ErrMsgScore},
		{name: "missing level", body: `{"initials":"ABC","score":1200}`, wantStatus: http.StatusBadRequest, wantError: highscores.ErrMsgLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			resp, out := s.post(t, "/scores", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			scores := s.list(t, "/scores")
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, out["error"])
				assert.Empty(t, scores)
				return
			}
			assert.Equal(t, true, out["success"])
			assert.Equal(t, float64(1), out["rank"])
			require.Len(t, scores, 1)
			assert.Equal(t, "ABC", scores[0].Initials)
			assert.Equal(t, int64(1200), scores[0].Score)
			assert.Equal(t, int64(3), scores[0].Level)
			assert.WithinDuration(t, time.Now(), scores[0].Date, time.Minute)
		})
	}
}

func TestSubmitScore_Ranks(t *testing.T) {
	s := newTestServer(t, nil)

	for i, body := range []string{
		`{"initials":"AAA","score":500,"level":1}`,
		`{"initials":"BBB","score":900,"level":2}`,
		`{"initials":"CCC","score":700,"level":1}`,
	} {
		resp, _ := s.post(t, "/scores", body)
		require.Equal(t, http.StatusOK, resp.StatusCode, "submission %d", i)
	}

	_, out := s.post(t, "/api/tetris/highscores", `{"initials":"DDD","score":700,"level":1}`)
	assert.Equal(t, float64(3), out["rank"])

	scores := s.list(t, "/api/tetris/highscores")
	got := make([]string, len(scores))
	for i, score := range scores {
		got[i] = score.Initials
	}
	assert.Equal(t, []string{"BBB", "CCC", "DDD", "AAA"}, got)
}

func TestSubmitScore_SaveFailure(t *testing.T) {
	s := newTestServer(t, failingRepository{})

	resp, out := s.post(t, "/scores", `{"initials":"ABC","score":1,"level":0}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to save score", out["error"])
}

func TestScores_Methods(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		method     string
		wantStatus int
	}{
		{method: http.MethodOptions, wantStatus: http.StatusNoContent},
		{method: http.MethodPut, wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodDelete, wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, s.URL+"/scores", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "https://tetris.example.com")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
		})
	}
}

func TestScores_RequestID(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.URL + "/scores")
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(middleware.RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req, err := http.NewRequest(http.MethodGet, s.URL+"/scores", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(middleware.RequestIDHeader))
}

func TestScores_Gzip(t *testing.T) {
	repository := repositories.NewFileRepository(t.TempDir() + "/scores.json")
	scores := make([]models.HighScore, 50)
	for i := range scores {
		scores[i] = models.HighScore{Initials: "AAA", Score: int64(10000 - i), Level: 9, Date: time.Now().UTC()}
	}
	require.NoError(t, repository.SaveHighScores(context.Background(), scores))
	s := newTestServer(t, repository)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/scores", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	leaderboard := &messages.Leaderboard{}
	require.NoError(t, json.NewDecoder(zr).Decode(leaderboard))
	assert.Len(t, leaderboard.Scores, 50)
}

func TestLiveScores(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(s.URL, "http")+"/scores/live", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	initial, err := network.ReadLeaderboardFromWS(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, initial.Scores)

	for i := 1; i <= 2; i++ {
		resp, _ := s.post(t, "/scores", fmt.Sprintf(`{"initials":"ABC","score":%d,"level":0}`, i*100))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		update, err := network.ReadLeaderboardFromWS(ctx, conn)
		require.NoError(t, err)
		require.Len(t, update.Scores, i)
		assert.Equal(t, int64(i*100), update.Scores[0].Score)
	}

	// rejected submissions are not broadcast
	resp, _ := s.post(t, "/scores", `{"initials":"no","score":1,"level":0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readCtx, readCancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer readCancel()
	_, err = network.ReadLeaderboardFromWS(readCtx, conn)
	assert.Error(t, err)
}

func TestLiveScores_RejectsUnknownOrigin(t *testing.T) {
	router := NewRouter(NewAPIServerOptions{
		AllowedOrigins:    []string{"https://tetris.example.com"},
		Leaderboard:       highscores.NewLeaderboard(highscores.NewLeaderboardOptions{Repository: failingRepository{}}),
		SubscriberManager: network.NewSubscriberManager(),
	})
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/scores/live", &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"https://evil.example.com"}},
	})
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
