package messages

import (
	"testing"
	"time"

	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeLeaderboard(t *testing.T) {
	date := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	scores := []models.HighScore{{Initials: "ABC", Score: 1200, Level: 3, Date: date}}

	b, err := SerializeLeaderboard(scores)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"leaderboard","payload":{"scores":[{"initials":"ABC","score":1200,"level":3,"date":"2024-06-01T12:00:00Z"}]}}`, string(b))

	leaderboard, err := DeserializeLeaderboard(b)
	require.NoError(t, err)
	require.Len(t, leaderboard.Scores, 1)
	assert.True(t, date.Equal(leaderboard.Scores[0].Date))
}

func TestSerializeLeaderboard_Empty(t *testing.T) {
	b, err := SerializeLeaderboard(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"leaderboard","payload":{"scores":[]}}`, string(b))
}

func TestDeserializeLeaderboard_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "wrong type", data: `{"type":"pong","payload":{}}`},
		{name: "bad payload", data: `{"type":"leaderboard","payload":{"scores":"nope"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeLeaderboard([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
