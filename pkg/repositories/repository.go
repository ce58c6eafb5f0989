package repositories

import (
	"context"

	"github.com/cbodonnell/tetris/pkg/repositories/models"
)

// Repository persists the high score list as a whole: every save replaces the
// stored list.
type Repository interface {
	Close(ctx context.Context) error
	// LoadHighScores returns the stored list in stored order.
	// When nothing has been stored yet it returns an empty list or ErrNotFound.
	LoadHighScores(ctx context.Context) ([]models.HighScore, error)
	SaveHighScores(ctx context.Context, scores []models.HighScore) error
}
