package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lamesa/poker-league/models"
)

var (
	ErrEliminationNotFound = errors.New("elimination not found")
	// ErrEliminationPositionTaken is the race signal: another writer claimed
	// the position between our count and our insert.
	ErrEliminationPositionTaken = errors.New("elimination position already taken")
	// ErrEliminationPlayerTaken guards the one-elimination-per-player rule.
	ErrEliminationPlayerTaken   = errors.New("player already eliminated in this game date")
	ErrEliminationPlayerInvalid = errors.New("elimination references an unknown player")
)

// EliminationRepository is the append-only ledger port. The database enforces
// uniqueness on (game_date_id, position) and (game_date_id,
// eliminated_player_id); those two indexes are the authoritative guard
// against concurrent reporters.
type EliminationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, elimination *models.Elimination) error
	GetByID(ctx context.Context, id int) (*models.Elimination, error)
	ListByGameDate(ctx context.Context, exec SQLExecutor, gameDateID int) ([]*models.Elimination, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Elimination, error)
	UpdatePlayers(ctx context.Context, id int, eliminatedPlayerID int, eliminatorPlayerID *int) error
	Delete(ctx context.Context, id int) error
}

type postgresEliminationRepository struct {
	db *sql.DB
}

func NewPostgresEliminationRepository(db *sql.DB) EliminationRepository {
	return &postgresEliminationRepository{db: db}
}

func (r *postgresEliminationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEliminationRepository) Create(ctx context.Context, exec SQLExecutor, elimination *models.Elimination) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO eliminations
			(game_date_id, position, points, eliminated_player_id, eliminator_player_id, elimination_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	if elimination.EliminationTime.IsZero() {
		elimination.EliminationTime = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		elimination.GameDateID,
		elimination.Position,
		elimination.Points,
		elimination.EliminatedPlayerID,
		elimination.EliminatorPlayerID,
		elimination.EliminationTime,
	).Scan(&elimination.ID, &elimination.CreatedAt)

	return r.handleEliminationConstraint(err)
}

func (r *postgresEliminationRepository) scanElimination(rowScanner interface{ Scan(...interface{}) error }) (*models.Elimination, error) {
	var e models.Elimination
	err := rowScanner.Scan(
		&e.ID, &e.GameDateID, &e.Position, &e.Points,
		&e.EliminatedPlayerID, &e.EliminatorPlayerID, &e.EliminationTime, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEliminationNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEliminationRepository) GetByID(ctx context.Context, id int) (*models.Elimination, error) {
	query := `
		SELECT id, game_date_id, position, points, eliminated_player_id, eliminator_player_id, elimination_time, created_at
		FROM eliminations
		WHERE id = $1`
	return r.scanElimination(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresEliminationRepository) ListByGameDate(ctx context.Context, exec SQLExecutor, gameDateID int) ([]*models.Elimination, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, game_date_id, position, points, eliminated_player_id, eliminator_player_id, elimination_time, created_at
		FROM eliminations
		WHERE game_date_id = $1
		ORDER BY position DESC`

	rows, err := executor.QueryContext(ctx, query, gameDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query eliminations for game date %d: %w", gameDateID, err)
	}
	defer rows.Close()

	eliminations := make([]*models.Elimination, 0)
	for rows.Next() {
		e, errScan := r.scanElimination(rows)
		if errScan != nil {
			return nil, errScan
		}
		eliminations = append(eliminations, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during elimination rows iteration: %w", err)
	}
	return eliminations, nil
}

func (r *postgresEliminationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Elimination, error) {
	query := `
		SELECT e.id, e.game_date_id, e.position, e.points, e.eliminated_player_id, e.eliminator_player_id, e.elimination_time, e.created_at
		FROM eliminations e
		JOIN game_dates gd ON gd.id = e.game_date_id
		WHERE gd.tournament_id = $1
		ORDER BY gd.date_number ASC, e.position DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query eliminations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	eliminations := make([]*models.Elimination, 0)
	for rows.Next() {
		e, errScan := r.scanElimination(rows)
		if errScan != nil {
			return nil, errScan
		}
		eliminations = append(eliminations, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during elimination rows iteration: %w", err)
	}
	return eliminations, nil
}

func (r *postgresEliminationRepository) UpdatePlayers(ctx context.Context, id int, eliminatedPlayerID int, eliminatorPlayerID *int) error {
	query := `UPDATE eliminations SET eliminated_player_id = $1, eliminator_player_id = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, eliminatedPlayerID, eliminatorPlayerID, id)
	if err != nil {
		return r.handleEliminationConstraint(err)
	}
	return checkAffectedRows(result, ErrEliminationNotFound)
}

func (r *postgresEliminationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM eliminations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEliminationNotFound)
}

func (r *postgresEliminationRepository) handleEliminationConstraint(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err, "eliminations_game_date_id_position_key"):
		return ErrEliminationPositionTaken
	case isUniqueViolation(err, "eliminations_game_date_id_eliminated_player_id_key"):
		return ErrEliminationPlayerTaken
	case isForeignKeyViolation(err, "eliminations_eliminated_player_id_fkey"),
		isForeignKeyViolation(err, "eliminations_eliminator_player_id_fkey"):
		return ErrEliminationPlayerInvalid
	}
	return err
}
