package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
	"github.com/lamesa/poker-league/scoring"
)

type RegisterEliminationInput struct {
	GameDateID         int        `json:"game_date_id"`
	EliminatedPlayerID int        `json:"eliminated_player_id"`
	EliminatorPlayerID *int       `json:"eliminator_player_id,omitempty"`
	EliminationTime    *time.Time `json:"elimination_time,omitempty"`
}

type UpdateEliminationInput struct {
	EliminatedPlayerID *int `json:"eliminated_player_id,omitempty"`
	EliminatorPlayerID *int `json:"eliminator_player_id,omitempty"`
	ClearEliminator    bool `json:"clear_eliminator,omitempty"`
}

// EliminationService validates and records elimination events. Position
// assignment is always its own: callers name players, never positions.
type EliminationService interface {
	Register(ctx context.Context, input RegisterEliminationInput) (*models.Elimination, error)
	Update(ctx context.Context, id int, input UpdateEliminationInput) (*models.Elimination, error)
	Delete(ctx context.Context, id int) error
	ListByGameDate(ctx context.Context, gameDateID int) ([]*models.Elimination, error)
}

type eliminationService struct {
	db              *sql.DB
	eliminationRepo repositories.EliminationRepository
	gameDateRepo    repositories.GameDateRepository
	stats           StatsRecorder
	notifier        NotificationService
	logger          *slog.Logger
}

func NewEliminationService(
	db *sql.DB,
	eliminationRepo repositories.EliminationRepository,
	gameDateRepo repositories.GameDateRepository,
	stats StatsRecorder,
	notifier NotificationService,
	logger *slog.Logger,
) EliminationService {
	return &eliminationService{
		db:              db,
		eliminationRepo: eliminationRepo,
		gameDateRepo:    gameDateRepo,
		stats:           stats,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *eliminationService) Register(ctx context.Context, input RegisterEliminationInput) (*models.Elimination, error) {
	gameDate, err := s.gameDateRepo.GetByID(ctx, nil, input.GameDateID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameDateNotFound) {
			return nil, ErrGameDateNotFound
		}
		return nil, fmt.Errorf("failed to load game date %d: %w", input.GameDateID, err)
	}
	if gameDate.Status != models.GameDateStatusInProgress {
		return nil, ErrGameDateNotInProgress
	}

	eliminationTime := time.Now()
	if input.EliminationTime != nil {
		eliminationTime = *input.EliminationTime
	}

	if err := s.validatePlayers(ctx, gameDate, input.EliminatedPlayerID, input.EliminatorPlayerID, eliminationTime, 0); err != nil {
		return nil, err
	}

	elimination, winner, err := s.insertWithRetry(ctx, gameDate, input, eliminationTime)
	if err != nil {
		return nil, err
	}

	// Secondary effects run after the commit boundary. They are best-effort:
	// a failing counter or notification never surfaces to the reporter.
	s.applySideEffects(ctx, gameDate, elimination, winner)

	return elimination, nil
}

// insertWithRetry runs the check-compute-insert cycle. If a concurrent
// reporter claims the computed position first, the unique index rejects the
// insert and the whole cycle runs once more with a fresh count before the
// conflict is surfaced.
func (s *eliminationService) insertWithRetry(ctx context.Context, gameDate *models.GameDate, input RegisterEliminationInput, eliminationTime time.Time) (*models.Elimination, *models.Elimination, error) {
	var (
		elimination *models.Elimination
		winner      *models.Elimination
		err         error
	)
	for attempt := 0; attempt < 2; attempt++ {
		elimination, winner, err = s.insertOnce(ctx, gameDate, input, eliminationTime)
		if err == nil {
			return elimination, winner, nil
		}
		if !errors.Is(err, repositories.ErrEliminationPositionTaken) {
			return nil, nil, err
		}
	}
	return nil, nil, ErrPositionConflict
}

func (s *eliminationService) insertOnce(ctx context.Context, gameDate *models.GameDate, input RegisterEliminationInput, eliminationTime time.Time) (*models.Elimination, *models.Elimination, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin elimination transaction: %w", err)
	}
	defer tx.Rollback()

	recorded, err := s.eliminationRepo.ListByGameDate(ctx, tx, gameDate.ID)
	if err != nil {
		return nil, nil, err
	}
	totalPlayers := gameDate.TotalPlayers()

	for _, e := range recorded {
		if e.EliminatedPlayerID == input.EliminatedPlayerID {
			return nil, nil, ErrDuplicateElimination
		}
	}
	if input.EliminatorPlayerID != nil {
		for _, e := range recorded {
			if e.EliminatedPlayerID == *input.EliminatorPlayerID && !e.EliminationTime.After(eliminationTime) {
				return nil, nil, ErrEliminatorAlreadyEliminated
			}
		}
	}

	// Positions are handed out descending: first out gets totalPlayers,
	// the runner-up gets 2, and position 1 is never assigned directly.
	position := totalPlayers - len(recorded)
	if position < 2 {
		return nil, nil, ErrGameDateNotInProgress
	}

	elimination := &models.Elimination{
		GameDateID:         gameDate.ID,
		Position:           position,
		Points:             scoring.Points(position, totalPlayers),
		EliminatedPlayerID: input.EliminatedPlayerID,
		EliminatorPlayerID: input.EliminatorPlayerID,
		EliminationTime:    eliminationTime,
	}
	if err := s.eliminationRepo.Create(ctx, tx, elimination); err != nil {
		if errors.Is(err, repositories.ErrEliminationPlayerTaken) {
			return nil, nil, ErrDuplicateElimination
		}
		if errors.Is(err, repositories.ErrEliminationPlayerInvalid) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, err
	}

	var winner *models.Elimination
	if position == 2 {
		// One active player left: synthesize the winner record and close
		// the date. This is the only place the derived transition happens.
		winner, err = s.declareWinner(ctx, tx, gameDate, append(recorded, elimination), eliminationTime)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit elimination: %w", err)
	}
	return elimination, winner, nil
}

func (s *eliminationService) declareWinner(ctx context.Context, tx repositories.SQLExecutor, gameDate *models.GameDate, recorded []*models.Elimination, eliminationTime time.Time) (*models.Elimination, error) {
	eliminated := make(map[int]bool, len(recorded))
	for _, e := range recorded {
		eliminated[e.EliminatedPlayerID] = true
	}

	survivorID := 0
	for _, id := range gameDate.PlayerIDs {
		if !eliminated[int(id)] {
			survivorID = int(id)
			break
		}
	}
	if survivorID == 0 {
		for _, id := range gameDate.GuestIDs {
			if !eliminated[int(id)] {
				survivorID = int(id)
				break
			}
		}
	}
	if survivorID == 0 {
		return nil, fmt.Errorf("game date %d has no surviving player to declare winner", gameDate.ID)
	}

	totalPlayers := gameDate.TotalPlayers()
	winner := &models.Elimination{
		GameDateID:         gameDate.ID,
		Position:           1,
		Points:             scoring.Points(1, totalPlayers),
		EliminatedPlayerID: survivorID,
		EliminatorPlayerID: nil,
		EliminationTime:    eliminationTime,
	}
	if err := s.eliminationRepo.Create(ctx, tx, winner); err != nil {
		return nil, fmt.Errorf("failed to record winner for game date %d: %w", gameDate.ID, err)
	}
	if err := s.gameDateRepo.MarkCompleted(ctx, tx, gameDate.ID, eliminationTime); err != nil {
		return nil, err
	}
	gameDate.Status = models.GameDateStatusCompleted
	return winner, nil
}

func (s *eliminationService) applySideEffects(ctx context.Context, gameDate *models.GameDate, elimination, winner *models.Elimination) {
	if elimination.EliminatorPlayerID != nil {
		err := s.stats.RecordElimination(ctx, gameDate.TournamentID, *elimination.EliminatorPlayerID, elimination.EliminatedPlayerID, gameDate.ScheduledDate)
		if err != nil {
			s.logger.Error("failed to record elimination stat",
				slog.Int("game_date_id", gameDate.ID),
				slog.Int("eliminated_player_id", elimination.EliminatedPlayerID),
				slog.Any("error", err))
		}
	}

	if err := s.notifier.NotifyPlayerEliminated(ctx, gameDate, elimination); err != nil {
		s.logger.Error("failed to dispatch elimination notification",
			slog.Int("game_date_id", gameDate.ID), slog.Any("error", err))
	}
	if winner != nil {
		if err := s.notifier.NotifyWinnerDeclared(ctx, gameDate, winner); err != nil {
			s.logger.Error("failed to dispatch winner notification",
				slog.Int("game_date_id", gameDate.ID), slog.Any("error", err))
		}
	}
}

func (s *eliminationService) Update(ctx context.Context, id int, input UpdateEliminationInput) (*models.Elimination, error) {
	elimination, err := s.eliminationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEliminationNotFound) {
			return nil, ErrEliminationNotFound
		}
		return nil, err
	}
	if elimination.IsWinner() {
		return nil, ErrWinnerRecordImmutable
	}

	gameDate, err := s.gameDateRepo.GetByID(ctx, nil, elimination.GameDateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game date %d: %w", elimination.GameDateID, err)
	}

	recorded, err := s.eliminationRepo.ListByGameDate(ctx, nil, gameDate.ID)
	if err != nil {
		return nil, err
	}
	// No retroactive edits once the game has moved past this record.
	for _, e := range recorded {
		if e.Position < elimination.Position {
			return nil, ErrOrderingViolation
		}
	}

	previousEliminator := elimination.EliminatorPlayerID

	eliminatedID := elimination.EliminatedPlayerID
	if input.EliminatedPlayerID != nil {
		eliminatedID = *input.EliminatedPlayerID
	}
	eliminatorID := elimination.EliminatorPlayerID
	if input.ClearEliminator {
		eliminatorID = nil
	} else if input.EliminatorPlayerID != nil {
		eliminatorID = input.EliminatorPlayerID
	}

	if err := s.validatePlayers(ctx, gameDate, eliminatedID, eliminatorID, elimination.EliminationTime, elimination.ID); err != nil {
		return nil, err
	}

	if err := s.eliminationRepo.UpdatePlayers(ctx, id, eliminatedID, eliminatorID); err != nil {
		if errors.Is(err, repositories.ErrEliminationPlayerTaken) {
			return nil, ErrDuplicateElimination
		}
		return nil, err
	}
	elimination.EliminatedPlayerID = eliminatedID
	elimination.EliminatorPlayerID = eliminatorID

	s.adjustStatsAfterUpdate(ctx, gameDate, elimination, previousEliminator)

	return elimination, nil
}

func (s *eliminationService) adjustStatsAfterUpdate(ctx context.Context, gameDate *models.GameDate, elimination *models.Elimination, previousEliminator *int) {
	sameEliminator := previousEliminator != nil && elimination.EliminatorPlayerID != nil && *previousEliminator == *elimination.EliminatorPlayerID
	if sameEliminator {
		return
	}
	if previousEliminator != nil {
		if err := s.stats.UnrecordElimination(ctx, gameDate.TournamentID, *previousEliminator, elimination.EliminatedPlayerID); err != nil {
			s.logger.Error("failed to unrecord elimination stat", slog.Int("elimination_id", elimination.ID), slog.Any("error", err))
		}
	}
	if elimination.EliminatorPlayerID != nil {
		if err := s.stats.RecordElimination(ctx, gameDate.TournamentID, *elimination.EliminatorPlayerID, elimination.EliminatedPlayerID, gameDate.ScheduledDate); err != nil {
			s.logger.Error("failed to record elimination stat", slog.Int("elimination_id", elimination.ID), slog.Any("error", err))
		}
	}
}

func (s *eliminationService) Delete(ctx context.Context, id int) error {
	elimination, err := s.eliminationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEliminationNotFound) {
			return ErrEliminationNotFound
		}
		return err
	}

	gameDate, err := s.gameDateRepo.GetByID(ctx, nil, elimination.GameDateID)
	if err != nil {
		return fmt.Errorf("failed to load game date %d: %w", elimination.GameDateID, err)
	}
	if gameDate.Status != models.GameDateStatusInProgress {
		// Completed dates carry a winner record; deleting history would
		// punch a hole in the sequence.
		return ErrGameDateNotInProgress
	}

	recorded, err := s.eliminationRepo.ListByGameDate(ctx, nil, gameDate.ID)
	if err != nil {
		return err
	}
	// Only the most recently recorded elimination (the lowest outstanding
	// position value) may be removed, keeping the ledger gap-free.
	for _, e := range recorded {
		if e.Position < elimination.Position {
			return ErrOrderingViolation
		}
	}

	if err := s.eliminationRepo.Delete(ctx, id); err != nil {
		return err
	}

	if elimination.EliminatorPlayerID != nil {
		if err := s.stats.UnrecordElimination(ctx, gameDate.TournamentID, *elimination.EliminatorPlayerID, elimination.EliminatedPlayerID); err != nil {
			s.logger.Error("failed to unrecord elimination stat", slog.Int("elimination_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *eliminationService) ListByGameDate(ctx context.Context, gameDateID int) ([]*models.Elimination, error) {
	if _, err := s.gameDateRepo.GetByID(ctx, nil, gameDateID); err != nil {
		if errors.Is(err, repositories.ErrGameDateNotFound) {
			return nil, ErrGameDateNotFound
		}
		return nil, err
	}
	return s.eliminationRepo.ListByGameDate(ctx, nil, gameDateID)
}

// validatePlayers enforces the roster and temporal rules shared by register
// and update. excludeID skips the record being edited when checking whether
// the eliminator already busted out.
func (s *eliminationService) validatePlayers(ctx context.Context, gameDate *models.GameDate, eliminatedID int, eliminatorID *int, eliminationTime time.Time, excludeID int) error {
	if !gameDate.HasPlayer(eliminatedID) {
		return ErrPlayerNotInGameDate
	}
	if eliminatorID == nil {
		return nil
	}
	if *eliminatorID == eliminatedID {
		return ErrSelfElimination
	}
	if !gameDate.HasPlayer(*eliminatorID) {
		return ErrPlayerNotInGameDate
	}

	recorded, err := s.eliminationRepo.ListByGameDate(ctx, nil, gameDate.ID)
	if err != nil {
		return err
	}
	for _, e := range recorded {
		if e.ID == excludeID {
			continue
		}
		// A player cannot eliminate anyone after busting out themselves.
		if e.EliminatedPlayerID == *eliminatorID && !e.EliminationTime.After(eliminationTime) {
			return ErrEliminatorAlreadyEliminated
		}
	}
	return nil
}
