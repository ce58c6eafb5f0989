package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cbodonnell/tetris/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := db.ExecContext(ctx, migration)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

// runMigrations executes every file of the migrations directory in name order.
func runMigrations(migrations string, exec func(name string, migration string) error) error {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if err := exec(entry.Name(), string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadHighScores(ctx context.Context) ([]models.HighScore, error) {
	q := `
	SELECT initials, score, level, date FROM high_scores ORDER BY position;
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %v", err)
	}
	defer rows.Close()

	scores := []models.HighScore{}
	for rows.Next() {
		var score models.HighScore
		var date string
		if err := rows.Scan(&score.Initials, &score.Score, &score.Level, &date); err != nil {
			return nil, fmt.Errorf("failed to scan high score: %v", err)
		}
		score.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse high score date %q: %v", date, err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read high scores: %v", err)
	}

	return scores, nil
}

func (r *SQLiteRepository) SaveHighScores(ctx context.Context, scores []models.HighScore) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM high_scores;`); err != nil {
		return fmt.Errorf("failed to clear high scores: %v", err)
	}

	q := `
	INSERT INTO high_scores (position, initials, score, level, date)
	VALUES (?, ?, ?, ?, ?);
	`
	for i, score := range scores {
		_, err = tx.ExecContext(ctx, q, i, score.Initials, score.Score, score.Level, score.Date.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert high score: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
