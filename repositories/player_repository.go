package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lamesa/poker-league/models"
)

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerNicknameConflict = errors.New("nickname is already in use")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByNickname(ctx context.Context, nickname string) (*models.Player, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
	UpdatePinHash(ctx context.Context, id int, pinHash string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (first_name, last_name, nickname, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.FirstName, player.LastName, player.Nickname, player.Role, player.IsActive,
	).Scan(&player.ID, &player.CreatedAt)

	if isUniqueViolation(err, "players_nickname_key") {
		return ErrPlayerNicknameConflict
	}
	return err
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Nickname, &p.Role,
		&p.PinHash, &p.PhotoKey, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

const playerColumns = `id, first_name, last_name, nickname, role, pin_hash, photo_key, is_active, created_at`

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByNickname(ctx context.Context, nickname string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE nickname = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, nickname))
}

func (r *postgresPlayerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY nickname ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, errScan := r.scanPlayer(rows)
		if errScan != nil {
			return nil, errScan
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET first_name = $1, last_name = $2, nickname = $3, role = $4, is_active = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		player.FirstName, player.LastName, player.Nickname, player.Role, player.IsActive, player.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "players_nickname_key") {
			return ErrPlayerNicknameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePinHash(ctx context.Context, id int, pinHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET pin_hash = $1 WHERE id = $2`, pinHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
