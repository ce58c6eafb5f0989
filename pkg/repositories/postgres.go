package repositories

import (
	"context"
	"fmt"

	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := conn.Exec(ctx, migration)
		return err
	}); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) LoadHighScores(ctx context.Context) ([]models.HighScore, error) {
	rows, err := r.conn.Query(ctx, "SELECT initials, score, level, date FROM high_scores ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %v", err)
	}
	defer rows.Close()

	scores := []models.HighScore{}
	for rows.Next() {
		var score models.HighScore
		if err := rows.Scan(&score.Initials, &score.Score, &score.Level, &score.Date); err != nil {
			return nil, fmt.Errorf("failed to scan high score: %v", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read high scores: %v", err)
	}

	return scores, nil
}

func (r *PostgresRepository) SaveHighScores(ctx context.Context, scores []models.HighScore) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("failed to clear high scores: %v", err)
	}

	batch := &pgx.Batch{}
	q := `
	INSERT INTO high_scores (position, initials, score, level, date) VALUES ($1, $2, $3, $4, $5);
	`
	for i, score := range scores {
		batch.Queue(q, i, score.Initials, score.Score, score.Level, score.Date)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert high scores: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
