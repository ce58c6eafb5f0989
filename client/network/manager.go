package network

import (
	"context"

	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/cbodonnell/tetris/pkg/workers"
)

// ScoreRequestChannelSize is the number of score requests that can be pending
const ScoreRequestChannelSize = 4

// NetworkManager runs the high score traffic in the background. The game
// loop only polls it, so network latency never stalls a frame.
type NetworkManager struct {
	client      *APIClient
	liveFeed    *LiveFeed
	requestChan chan workers.ScoreRequest
	resultChan  chan workers.ScoreResult
	cancel      context.CancelFunc
}

type NewNetworkManagerOptions struct {
	APIURL string
	// Live enables the live leaderboard feed
	Live bool
}

func NewNetworkManager(opts NewNetworkManagerOptions) *NetworkManager {
	client := NewAPIClient(NewAPIClientOptions{BaseURL: opts.APIURL})
	m := &NetworkManager{
		client:      client,
		requestChan: make(chan workers.ScoreRequest, ScoreRequestChannelSize),
		resultChan:  make(chan workers.ScoreResult, ScoreRequestChannelSize),
	}
	if opts.Live {
		m.liveFeed = NewLiveFeed(client.LiveURL())
	}
	return m
}

// Start starts the score worker and the live feed.
func (m *NetworkManager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	scoreWorker := workers.NewScoreWorker(workers.NewScoreWorkerOptions{
		Client:      m.client,
		RequestChan: m.requestChan,
		ResultChan:  m.resultChan,
	})
	go scoreWorker.Start(ctx)

	if m.liveFeed != nil {
		go m.liveFeed.Start(ctx)
	}
}

func (m *NetworkManager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// RefreshScores queues a leaderboard refresh.
func (m *NetworkManager) RefreshScores() error {
	return m.enqueue(workers.ScoreRequest{})
}

// SubmitScore queues a score submission followed by a refresh.
func (m *NetworkManager) SubmitScore(submission messages.SubmitScoreRequest) error {
	return m.enqueue(workers.ScoreRequest{Submit: &submission})
}

func (m *NetworkManager) enqueue(req workers.ScoreRequest) error {
	select {
	case m.requestChan <- req:
		return nil
	default:
		return &ErrRequestQueueFull{}
	}
}

// PollResult returns a finished score request, if any.
func (m *NetworkManager) PollResult() (workers.ScoreResult, bool) {
	select {
	case result := <-m.resultChan:
		return result, true
	default:
		return workers.ScoreResult{}, false
	}
}

// PollLiveScores returns the latest leaderboard pushed by the live feed, if any.
func (m *NetworkManager) PollLiveScores() ([]models.HighScore, bool) {
	if m.liveFeed == nil {
		return nil, false
	}
	select {
	case scores := <-m.liveFeed.Updates():
		return scores, true
	default:
		return nil, false
	}
}
