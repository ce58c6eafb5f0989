package highscores

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/repositories"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

var initialsRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Validation messages returned to clients.
const (
	ErrMsgInitials = "Initials must be exactly 3 uppercase letters"
	ErrMsgScore    = "Invalid score"
	ErrMsgLevel    = "Invalid level"
)

// ValidationError reports a submission that was rejected without touching the
// stored list.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// ValidInitials reports whether initials are exactly three uppercase letters.
func ValidInitials(initials string) bool {
	return initialsRegex.MatchString(initials)
}

// Submission is a score submitted at the end of a game.
type Submission struct {
	Initials string
	Score    int64
	Level    int64
}

// Validate checks the submission's fields in order and reports the first
// problem.
func (s Submission) Validate() error {
	if !ValidInitials(s.Initials) {
		return &ValidationError{Message: ErrMsgInitials}
	}
	if s.Score < 0 {
		return &ValidationError{Message: ErrMsgScore}
	}
	if s.Level < 0 {
		return &ValidationError{Message: ErrMsgLevel}
	}
	return nil
}

// Leaderboard keeps the stored list sorted by descending score and capped.
// Submissions are serialized so concurrent submits never lose an entry.
type Leaderboard struct {
	mu         sync.Mutex
	repository repositories.Repository
	now        func() time.Time
	max        int
}

// NewLeaderboardOptions contains options for creating a new Leaderboard.
type NewLeaderboardOptions struct {
	Repository repositories.Repository
	// Now returns the timestamp of new entries. Defaults to time.Now.
	Now func() time.Time
	// MaxEntries is the number of entries kept. Defaults to constants.MaxHighScores.
	MaxEntries int
}

func NewLeaderboard(opts NewLeaderboardOptions) *Leaderboard {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	max := opts.MaxEntries
	if max <= 0 {
		max = constants.MaxHighScores
	}
	return &Leaderboard{
		repository: opts.Repository,
		now:        now,
		max:        max,
	}
}

// List returns the stored entries. A missing or unreadable store is an empty
// leaderboard.
func (l *Leaderboard) List(ctx context.Context) []models.HighScore {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Leaderboard) load(ctx context.Context) []models.HighScore {
	scores, err := l.repository.LoadHighScores(ctx)
	if err != nil {
		if !repositories.IsNotFound(err) {
			log.Error("Failed to load high scores, treating as empty: %v", err)
		}
		return []models.HighScore{}
	}
	if scores == nil {
		return []models.HighScore{}
	}
	return scores
}

// Submit validates the submission, inserts it with the current time, sorts
// and truncates the list and saves it. It returns the 1-based rank of the new
// entry, or 0 when the entry did not make the list.
func (l *Leaderboard) Submit(ctx context.Context, s Submission) (int, []models.HighScore, error) {
	if err := s.Validate(); err != nil {
		return 0, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := models.HighScore{
		Initials: s.Initials,
		Score:    s.Score,
		Level:    s.Level,
		Date:     l.now().UTC(),
	}
	scores := append(l.load(ctx), entry)
	newIndex := len(scores) - 1

	// stable: equal scores keep their order, so the newcomer ranks below them
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scores[a].Score > scores[b].Score:
			return -1
		case scores[a].Score < scores[b].Score:
			return 1
		}
		return 0
	})

	rank := 0
	sorted := make([]models.HighScore, 0, min(len(scores), l.max))
	for pos, i := range order {
		if pos >= l.max {
			break
		}
		if i == newIndex {
			rank = pos + 1
		}
		sorted = append(sorted, scores[i])
	}

	if err := l.repository.SaveHighScores(ctx, sorted); err != nil {
		return 0, nil, fmt.Errorf("failed to save high scores: %v", err)
	}

	return rank, sorted, nil
}

// Qualifies reports whether a final score earns a place on the visible
// leaderboard: either the board is not full yet or the score beats its last
// entry.
func Qualifies(top []models.HighScore, score int64) bool {
	if len(top) < constants.LeaderboardSize {
		return true
	}
	return score > top[constants.LeaderboardSize-1].Score
}
