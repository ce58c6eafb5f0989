package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

// Message types sent over the live leaderboard feed
const (
	MessageTypeLeaderboard = "leaderboard"
)

// Message is the envelope of every live feed message
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Leaderboard is the body of GET /scores and the payload of live feed updates
type Leaderboard struct {
	Scores []models.HighScore `json:"scores"`
}

// SubmitScoreRequest is the body of POST /scores
type SubmitScoreRequest struct {
	Initials string `json:"initials"`
	Score    int64  `json:"score"`
	Level    int64  `json:"level"`
}

// SubmitScoreResponse is the body of a successful POST /scores
type SubmitScoreResponse struct {
	Success bool `json:"success"`
	Rank    int  `json:"rank"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// SerializeLeaderboard wraps the scores in a live feed message
func SerializeLeaderboard(scores []models.HighScore) ([]byte, error) {
	if scores == nil {
		scores = []models.HighScore{}
	}
	payload, err := json.Marshal(&Leaderboard{Scores: scores})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leaderboard: %v", err)
	}
	b, err := json.Marshal(&Message{
		Type:    MessageTypeLeaderboard,
		Payload: payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %v", err)
	}
	return b, nil
}

// DeserializeLeaderboard reads a live feed message carrying a leaderboard
func DeserializeLeaderboard(data []byte) (*Leaderboard, error) {
	msg := &Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeLeaderboard {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	leaderboard := &Leaderboard{}
	if err := json.Unmarshal(msg.Payload, leaderboard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard: %v", err)
	}
	return leaderboard, nil
}
