package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

// ScoreClient talks to the high score API.
type ScoreClient interface {
	ListScores(ctx context.Context) ([]models.HighScore, error)
	SubmitScore(ctx context.Context, req messages.SubmitScoreRequest) (int, error)
}

// ScoreRequest asks the worker to refresh the leaderboard, submitting a score first when Submit is set.
type ScoreRequest struct {
	Submit *messages.SubmitScoreRequest
}

// ScoreResult is the outcome of a ScoreRequest.
type ScoreResult struct {
	// Submit is set when the request carried a submission, whatever its outcome
	Submit    bool
	Submitted bool
	Rank      int
	Scores    []models.HighScore
	Err       error
}

// ScoreWorker runs high score requests off the game loop so that a slow or
// unreachable API never stalls a frame.
type ScoreWorker struct {
	client      ScoreClient
	requestChan <-chan ScoreRequest
	resultChan  chan<- ScoreResult
	timeout     time.Duration
}

type NewScoreWorkerOptions struct {
	Client      ScoreClient
	RequestChan <-chan ScoreRequest
	ResultChan  chan<- ScoreResult
	// Timeout bounds each request. Defaults to 10 seconds.
	Timeout time.Duration
}

func NewScoreWorker(opts NewScoreWorkerOptions) *ScoreWorker {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScoreWorker{
		client:      opts.Client,
		requestChan: opts.RequestChan,
		resultChan:  opts.ResultChan,
		timeout:     timeout,
	}
}

func (w *ScoreWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requestChan:
			result := w.handle(ctx, req)
			select {
			case <-ctx.Done():
				return
			case w.resultChan <- result:
			}
		}
	}
}

func (w *ScoreWorker) handle(ctx context.Context, req ScoreRequest) ScoreResult {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	result := ScoreResult{Submit: req.Submit != nil}
	if req.Submit != nil {
		rank, err := w.client.SubmitScore(ctx, *req.Submit)
		if err != nil {
			log.Error("Failed to submit score: %v", err)
			result.Err = err
			return result
		}
		result.Submitted = true
		result.Rank = rank
	}

	scores, err := w.client.ListScores(ctx)
	if err != nil {
		log.Error("Failed to list scores: %v", err)
		result.Err = err
		return result
	}
	result.Scores = scores

	return result
}
