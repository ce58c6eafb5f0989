package workers

import (
	"context"

	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

// BroadcastLeaderboardWorker pushes every updated leaderboard to the live feed subscribers.
type BroadcastLeaderboardWorker struct {
	subscriberManager   *network.SubscriberManager
	broadcastScoresChan <-chan []models.HighScore
}

type NewBroadcastLeaderboardWorkerOptions struct {
	SubscriberManager   *network.SubscriberManager
	BroadcastScoresChan <-chan []models.HighScore
}

func NewBroadcastLeaderboardWorker(opts NewBroadcastLeaderboardWorkerOptions) *BroadcastLeaderboardWorker {
	return &BroadcastLeaderboardWorker{
		subscriberManager:   opts.SubscriberManager,
		broadcastScoresChan: opts.BroadcastScoresChan,
	}
}

func (w *BroadcastLeaderboardWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case scores := <-w.broadcastScoresChan:
			payload, err := messages.SerializeLeaderboard(scores)
			if err != nil {
				log.Error("Failed to serialize leaderboard: %v", err)
				continue
			}
			if dropped := w.subscriberManager.Broadcast(payload); dropped > 0 {
				log.Warn("Leaderboard update dropped for %d slow subscribers", dropped)
			}
		}
	}
}
