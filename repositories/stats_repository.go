package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lamesa/poker-league/models"
)

// StatsRepository keeps the cumulative eliminator-vs-victim counters. The
// increment is a single idempotent-per-event upsert so it can run either
// inside the elimination transaction or out-of-band after it.
type StatsRepository interface {
	IncrementElimination(ctx context.Context, exec SQLExecutor, tournamentID, eliminatorID, eliminatedID int, gameDateDate time.Time) error
	DecrementElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.EliminationStat, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStatsRepository) IncrementElimination(ctx context.Context, exec SQLExecutor, tournamentID, eliminatorID, eliminatedID int, gameDateDate time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO elimination_stats (tournament_id, eliminator_player_id, eliminated_player_id, count, last_game_date)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (tournament_id, eliminator_player_id, eliminated_player_id)
		DO UPDATE SET count = elimination_stats.count + 1, last_game_date = EXCLUDED.last_game_date`

	if _, err := executor.ExecContext(ctx, query, tournamentID, eliminatorID, eliminatedID, gameDateDate); err != nil {
		return fmt.Errorf("failed to increment elimination stat: %w", err)
	}
	return nil
}

func (r *postgresStatsRepository) DecrementElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int) error {
	// Deleting the latest elimination of a live date undoes its counter.
	query := `
		UPDATE elimination_stats
		SET count = GREATEST(count - 1, 0)
		WHERE tournament_id = $1 AND eliminator_player_id = $2 AND eliminated_player_id = $3`

	if _, err := r.db.ExecContext(ctx, query, tournamentID, eliminatorID, eliminatedID); err != nil {
		return fmt.Errorf("failed to decrement elimination stat: %w", err)
	}
	return nil
}

func (r *postgresStatsRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.EliminationStat, error) {
	query := `
		SELECT tournament_id, eliminator_player_id, eliminated_player_id, count, last_game_date
		FROM elimination_stats
		WHERE tournament_id = $1
		ORDER BY count DESC, eliminator_player_id ASC, eliminated_player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elimination stats for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	stats := make([]models.EliminationStat, 0)
	for rows.Next() {
		var s models.EliminationStat
		if errScan := rows.Scan(&s.TournamentID, &s.EliminatorPlayerID, &s.EliminatedPlayerID, &s.Count, &s.LastGameDate); errScan != nil {
			return nil, errScan
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during elimination stat rows iteration: %w", err)
	}
	return stats, nil
}
