package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lamesa/poker-league/models"
)

var (
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentNumberTaken    = errors.New("tournament number already exists")
	ErrParticipantAlreadyExists = errors.New("player already registered for this tournament")
	ErrParticipantInvalid       = errors.New("participant references an unknown player or tournament")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	AddParticipant(ctx context.Context, tournamentID, playerID int) (*models.TournamentParticipant, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]models.TournamentParticipant, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (number, status, exclusion_count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		tournament.Number, tournament.Status, tournament.ExclusionCount,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	if isUniqueViolation(err, "tournaments_number_key") {
		return ErrTournamentNumberTaken
	}
	return err
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	err := rowScanner.Scan(&t.ID, &t.Number, &t.Status, &t.ExclusionCount, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT id, number, status, exclusion_count, created_at FROM tournaments WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	return r.list(ctx, `SELECT id, number, status, exclusion_count, created_at FROM tournaments ORDER BY number DESC`)
}

func (r *postgresTournamentRepository) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error) {
	return r.list(ctx, `SELECT id, number, status, exclusion_count, created_at FROM tournaments WHERE status = $1 ORDER BY number DESC`, status)
}

func (r *postgresTournamentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, errScan := r.scanTournament(rows)
		if errScan != nil {
			return nil, errScan
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddParticipant(ctx context.Context, tournamentID, playerID int) (*models.TournamentParticipant, error) {
	query := `
		INSERT INTO tournament_players (tournament_id, player_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	participant := &models.TournamentParticipant{TournamentID: tournamentID, PlayerID: playerID}
	err := r.db.QueryRowContext(ctx, query, tournamentID, playerID).Scan(&participant.ID, &participant.CreatedAt)
	switch {
	case err == nil:
		return participant, nil
	case isUniqueViolation(err, "tournament_players_tournament_id_player_id_key"):
		return nil, ErrParticipantAlreadyExists
	case isForeignKeyViolation(err, ""):
		return nil, ErrParticipantInvalid
	}
	return nil, fmt.Errorf("failed to register participant: %w", err)
}

func (r *postgresTournamentRepository) ListParticipants(ctx context.Context, tournamentID int) ([]models.TournamentParticipant, error) {
	query := `
		SELECT id, tournament_id, player_id, created_at
		FROM tournament_players
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]models.TournamentParticipant, 0)
	for rows.Next() {
		var p models.TournamentParticipant
		if errScan := rows.Scan(&p.ID, &p.TournamentID, &p.PlayerID, &p.CreatedAt); errScan != nil {
			return nil, errScan
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}
