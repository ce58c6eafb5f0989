package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/cbodonnell/tetris/pkg/api/middleware"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"nhooyr.io/websocket"
)

const (
	// ErrMsgRequestBody is returned for a body that is not a JSON object
	ErrMsgRequestBody = "Invalid request body"
	// ErrMsgSaveScore is returned when the leaderboard could not be saved
	ErrMsgSaveScore = "Failed to save score"

	// MaxRequestBodySize caps the size of a submitted score
	MaxRequestBodySize = 4096
)

func HandleListScores(leaderboard *highscores.Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &messages.Leaderboard{Scores: leaderboard.List(r.Context())})
	}
}

// HandleSubmitScore stores a submitted score and publishes the updated
// leaderboard on broadcastChan without blocking.
func HandleSubmitScore(leaderboard *highscores.Leaderboard, broadcastChan chan<- []models.HighScore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With("requestID", middleware.RequestID(r.Context()))

		submission, err := ParseSubmission(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rank, scores, err := leaderboard.Submit(r.Context(), submission)
		if err != nil {
			if highscores.IsValidation(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("failed to submit score: %v", err)
			writeError(w, http.StatusInternalServerError, ErrMsgSaveScore)
			return
		}

		logger.Info("Score %d by %s ranked %d", submission.Score, submission.Initials, rank)

		if broadcastChan != nil {
			select {
			case broadcastChan <- scores:
			default:
				logger.Warn("Broadcast channel full, live feed misses this update")
			}
		}

		writeJSON(w, http.StatusOK, &messages.SubmitScoreResponse{Success: true, Rank: rank})
	}
}

// HandleLiveScores upgrades the request to a websocket that receives the
// leaderboard now and after every successful submission.
func HandleLiveScores(leaderboard *highscores.Leaderboard, subscriberManager *network.SubscriberManager, allowedOrigins []string) http.HandlerFunc {
	acceptOptions := newAcceptOptions(allowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, acceptOptions)
		if err != nil {
			log.Error("failed to accept websocket connection: %v", err)
			return
		}
		defer conn.CloseNow()

		subscriber, err := subscriberManager.Subscribe()
		if err != nil {
			log.Error("failed to subscribe to live scores: %v", err)
			conn.Close(websocket.StatusInternalError, "failed to subscribe")
			return
		}
		defer subscriberManager.Unsubscribe(subscriber.ID)
		log.Debug("Live feed subscriber %d connected from %s", subscriber.ID, r.RemoteAddr)

		initial, err := messages.SerializeLeaderboard(leaderboard.List(r.Context()))
		if err != nil {
			log.Error("failed to serialize leaderboard: %v", err)
			conn.Close(websocket.StatusInternalError, "failed to serialize leaderboard")
			return
		}

		if err := network.ServeSubscriber(r.Context(), conn, subscriber, initial); err != nil {
			log.Debug("Live feed subscriber %d: %v", subscriber.ID, err)
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

// newAcceptOptions turns the allowed CORS origins into websocket origin host
// patterns. Same-host requests are always accepted.
func newAcceptOptions(allowedOrigins []string) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			opts.InsecureSkipVerify = true
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			log.Warn("Ignoring allowed origin %q for the live feed", origin)
			continue
		}
		opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
	}
	return opts
}

type submitScoreBody struct {
	Initials json.RawMessage `json:"initials"`
	Score    json.RawMessage `json:"score"`
	Level    json.RawMessage `json:"level"`
}

// ParseSubmission decodes a submitted score. Fields are checked in the order
// initials, score, level and the first invalid one is reported. Scores and
// levels must be non-negative integers; a JSON string or fraction is invalid.
func ParseSubmission(body io.Reader) (highscores.Submission, error) {
	raw := &submitScoreBody{}
	if err := json.NewDecoder(body).Decode(raw); err != nil {
		return highscores.Submission{}, &highscores.ValidationError{Message: ErrMsgRequestBody}
	}

	var initials string
	if err := json.Unmarshal(raw.Initials, &initials); err != nil || !highscores.ValidInitials(initials) {
		return highscores.Submission{}, &highscores.ValidationError{Message: highscores.ErrMsgInitials}
	}
	score, ok := parseCount(raw.Score)
	if !ok {
		return highscores.Submission{}, &highscores.ValidationError{Message: highscores.ErrMsgScore}
	}
	level, ok := parseCount(raw.Level)
	if !ok {
		return highscores.Submission{}, &highscores.ValidationError{Message: highscores.ErrMsgLevel}
	}

	submission := highscores.Submission{
		Initials: initials,
		Score:    score,
		Level:    level,
	}
	return submission, submission.Validate()
}

// parseCount reads a non-negative integral JSON number. Integral values written
// with a fraction or exponent (1.0, 1e3) are accepted.
func parseCount(raw json.RawMessage) (int64, bool) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var v interface{}
	if err := d.Decode(&v); err != nil {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, i >= 0
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &messages.ErrorResponse{Error: msg})
}
