package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lamesa/poker-league/models"
	"github.com/lib/pq"
)

var (
	ErrGameDateNotFound          = errors.New("game date not found")
	ErrGameDateNumberTaken       = errors.New("game date number already exists for this tournament")
	ErrGameDateTournamentInvalid = errors.New("game date references an unknown tournament")
)

type GameDateRepository interface {
	Create(ctx context.Context, exec SQLExecutor, gameDate *models.GameDate) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GameDate, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.GameDate, error)
	UpdateRoster(ctx context.Context, id int, playerIDs, guestIDs []int64) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameDateStatus) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, id int, completedAt time.Time) error
}

type postgresGameDateRepository struct {
	db *sql.DB
}

func NewPostgresGameDateRepository(db *sql.DB) GameDateRepository {
	return &postgresGameDateRepository{db: db}
}

func (r *postgresGameDateRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameDateRepository) Create(ctx context.Context, exec SQLExecutor, gameDate *models.GameDate) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO game_dates (tournament_id, date_number, scheduled_date, status, player_ids, guest_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		gameDate.TournamentID,
		gameDate.DateNumber,
		gameDate.ScheduledDate,
		gameDate.Status,
		pq.Array(gameDate.PlayerIDs),
		pq.Array(gameDate.GuestIDs),
	).Scan(&gameDate.ID)

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "game_dates_tournament_id_date_number_key"):
		return ErrGameDateNumberTaken
	case isForeignKeyViolation(err, "game_dates_tournament_id_fkey"):
		return ErrGameDateTournamentInvalid
	}
	return fmt.Errorf("failed to create game date: %w", err)
}

func (r *postgresGameDateRepository) scanGameDate(rowScanner interface{ Scan(...interface{}) error }) (*models.GameDate, error) {
	var g models.GameDate
	err := rowScanner.Scan(
		&g.ID, &g.TournamentID, &g.DateNumber, &g.ScheduledDate, &g.Status,
		pq.Array(&g.PlayerIDs), pq.Array(&g.GuestIDs), &g.StartedAt, &g.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameDateNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameDateRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GameDate, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, date_number, scheduled_date, status, player_ids, guest_ids, started_at, completed_at
		FROM game_dates
		WHERE id = $1`
	return r.scanGameDate(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameDateRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.GameDate, error) {
	query := `
		SELECT id, tournament_id, date_number, scheduled_date, status, player_ids, guest_ids, started_at, completed_at
		FROM game_dates
		WHERE tournament_id = $1
		ORDER BY date_number ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game dates for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	dates := make([]models.GameDate, 0)
	for rows.Next() {
		g, errScan := r.scanGameDate(rows)
		if errScan != nil {
			return nil, errScan
		}
		dates = append(dates, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game date rows iteration: %w", err)
	}
	return dates, nil
}

func (r *postgresGameDateRepository) UpdateRoster(ctx context.Context, id int, playerIDs, guestIDs []int64) error {
	query := `UPDATE game_dates SET player_ids = $1, guest_ids = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, pq.Array(playerIDs), pq.Array(guestIDs), id)
	if err != nil {
		return fmt.Errorf("failed to update roster for game date %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameDateNotFound)
}

func (r *postgresGameDateRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameDateStatus) error {
	executor := r.getExecutor(exec)
	var query string
	if status == models.GameDateStatusInProgress {
		query = `UPDATE game_dates SET status = $1, started_at = NOW() WHERE id = $2`
	} else {
		query = `UPDATE game_dates SET status = $1 WHERE id = $2`
	}
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for game date %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameDateNotFound)
}

func (r *postgresGameDateRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id int, completedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE game_dates SET status = $1, completed_at = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, models.GameDateStatusCompleted, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark game date %d completed: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameDateNotFound)
}
