package network

import (
	"context"
	"time"

	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"nhooyr.io/websocket"
)

const (
	// LiveFeedMinBackoff is the wait before the first reconnect
	LiveFeedMinBackoff = time.Second
	// LiveFeedMaxBackoff caps the wait between reconnects
	LiveFeedMaxBackoff = 30 * time.Second
)

// LiveFeed keeps a websocket open to the live leaderboard and reconnects with
// exponential backoff when it drops. Only the latest leaderboard is kept.
type LiveFeed struct {
	url     string
	updates chan []models.HighScore
}

func NewLiveFeed(url string) *LiveFeed {
	return &LiveFeed{
		url:     url,
		updates: make(chan []models.HighScore, 1),
	}
}

// Updates returns a one-way channel holding the latest leaderboard
func (f *LiveFeed) Updates() <-chan []models.HighScore {
	return f.updates
}

func (f *LiveFeed) Start(ctx context.Context) {
	backoff := LiveFeedMinBackoff
	for {
		connected, err := f.run(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = LiveFeedMinBackoff
		}
		log.Debug("Live feed disconnected, retrying in %s: %v", backoff, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, LiveFeedMaxBackoff)
	}
}

// run reads leaderboards until the connection fails. It reports whether a
// connection was established.
func (f *LiveFeed) run(ctx context.Context) (bool, error) {
	conn, _, err := websocket.Dial(ctx, f.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.CloseNow()
	log.Info("Connected to live leaderboard at %s", f.url)

	for {
		leaderboard, err := network.ReadLeaderboardFromWS(ctx, conn)
		if err != nil {
			return true, err
		}
		f.publish(leaderboard.Scores)
	}
}

func (f *LiveFeed) publish(scores []models.HighScore) {
	for {
		select {
		case f.updates <- scores:
			return
		default:
		}
		// replace the stale leaderboard
		select {
		case <-f.updates:
		default:
		}
	}
}
