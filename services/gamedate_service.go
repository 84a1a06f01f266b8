package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
)

// gameDateTransitions is the single source of truth for the date lifecycle:
// pending -> created -> in_progress -> completed, with cancellation possible
// only before play starts. The completed transition is not listed because it
// is derived: only the elimination flow closes a date.
var gameDateTransitions = map[models.GameDateStatus][]models.GameDateStatus{
	models.GameDateStatusPending: {models.GameDateStatusCreated, models.GameDateStatusCancelled},
	models.GameDateStatusCreated: {models.GameDateStatusInProgress, models.GameDateStatusCancelled},
}

func canTransitionGameDate(from, to models.GameDateStatus) bool {
	for _, allowed := range gameDateTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type SetRosterInput struct {
	PlayerIDs []int64 `json:"player_ids"`
	GuestIDs  []int64 `json:"guest_ids"`
}

type GameDateService interface {
	Schedule(ctx context.Context, tournamentID, dateNumber int, scheduledDate time.Time) (*models.GameDate, error)
	GetByID(ctx context.Context, id int) (*models.GameDate, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.GameDate, error)
	SetRoster(ctx context.Context, id int, input SetRosterInput) (*models.GameDate, error)
	Start(ctx context.Context, id int) (*models.GameDate, error)
	Cancel(ctx context.Context, id int) (*models.GameDate, error)
}

type gameDateService struct {
	gameDateRepo   repositories.GameDateRepository
	tournamentRepo repositories.TournamentRepository
	notifier       NotificationService
	logger         *slog.Logger
}

func NewGameDateService(
	gameDateRepo repositories.GameDateRepository,
	tournamentRepo repositories.TournamentRepository,
	notifier NotificationService,
	logger *slog.Logger,
) GameDateService {
	return &gameDateService{
		gameDateRepo:   gameDateRepo,
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *gameDateService) Schedule(ctx context.Context, tournamentID, dateNumber int, scheduledDate time.Time) (*models.GameDate, error) {
	if dateNumber < 1 || dateNumber > models.GameDatesPerTournament {
		return nil, fmt.Errorf("%w: date number must be between 1 and %d", ErrValidationFailed, models.GameDatesPerTournament)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	gameDate := &models.GameDate{
		TournamentID:  tournamentID,
		DateNumber:    dateNumber,
		ScheduledDate: scheduledDate,
		Status:        models.GameDateStatusPending,
		PlayerIDs:     []int64{},
		GuestIDs:      []int64{},
	}
	if err := s.gameDateRepo.Create(ctx, nil, gameDate); err != nil {
		if errors.Is(err, repositories.ErrGameDateNumberTaken) {
			return nil, fmt.Errorf("%w: date number %d", ErrValidationFailed, dateNumber)
		}
		return nil, err
	}
	return gameDate, nil
}

func (s *gameDateService) GetByID(ctx context.Context, id int) (*models.GameDate, error) {
	gameDate, err := s.gameDateRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameDateNotFound) {
			return nil, ErrGameDateNotFound
		}
		return nil, err
	}
	return gameDate, nil
}

func (s *gameDateService) ListByTournament(ctx context.Context, tournamentID int) ([]models.GameDate, error) {
	return s.gameDateRepo.ListByTournament(ctx, tournamentID)
}

// SetRoster freezes who showed up. Allowed while pending or created; once the
// date is in progress the roster is the basis for every recorded position and
// must not move.
func (s *gameDateService) SetRoster(ctx context.Context, id int, input SetRosterInput) (*models.GameDate, error) {
	gameDate, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gameDate.Status != models.GameDateStatusPending && gameDate.Status != models.GameDateStatusCreated {
		return nil, ErrRosterLocked
	}
	if len(input.PlayerIDs)+len(input.GuestIDs) < 2 {
		return nil, ErrEmptyRoster
	}

	if err := s.gameDateRepo.UpdateRoster(ctx, id, input.PlayerIDs, input.GuestIDs); err != nil {
		return nil, err
	}
	gameDate.PlayerIDs = input.PlayerIDs
	gameDate.GuestIDs = input.GuestIDs

	if gameDate.Status == models.GameDateStatusPending {
		if err := s.transition(ctx, gameDate, models.GameDateStatusCreated); err != nil {
			return nil, err
		}
	}
	return gameDate, nil
}

func (s *gameDateService) Start(ctx context.Context, id int) (*models.GameDate, error) {
	gameDate, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gameDate.TotalPlayers() < 2 {
		return nil, ErrEmptyRoster
	}
	if err := s.transition(ctx, gameDate, models.GameDateStatusInProgress); err != nil {
		return nil, err
	}
	now := time.Now()
	gameDate.StartedAt = &now
	return gameDate, nil
}

func (s *gameDateService) Cancel(ctx context.Context, id int) (*models.GameDate, error) {
	gameDate, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, gameDate, models.GameDateStatusCancelled); err != nil {
		return nil, err
	}
	return gameDate, nil
}

func (s *gameDateService) transition(ctx context.Context, gameDate *models.GameDate, to models.GameDateStatus) error {
	if !canTransitionGameDate(gameDate.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidGameDateTransition, gameDate.Status, to)
	}
	if err := s.gameDateRepo.UpdateStatus(ctx, nil, gameDate.ID, to); err != nil {
		return err
	}
	gameDate.Status = to

	if err := s.notifier.NotifyGameDateUpdated(ctx, gameDate); err != nil {
		s.logger.Error("failed to dispatch game date notification",
			slog.Int("game_date_id", gameDate.ID), slog.Any("error", err))
	}
	return nil
}
