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
)

var tournamentTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.TournamentStatusActive: {models.TournamentStatusCompleted, models.TournamentStatusCancelled},
}

func canTransitionTournament(from, to models.TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type CreateTournamentInput struct {
	Number         int       `json:"number"`
	ExclusionCount int       `json:"exclusion_count"`
	FirstDate      time.Time `json:"first_date"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	RegisterPlayer(ctx context.Context, tournamentID, playerID int) (*models.TournamentParticipant, error)
	AutoCompleteFinishedTournaments(ctx context.Context) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	gameDateRepo   repositories.GameDateRepository
	playerRepo     repositories.PlayerRepository
	notifier       NotificationService
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	gameDateRepo repositories.GameDateRepository,
	playerRepo repositories.PlayerRepository,
	notifier NotificationService,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		gameDateRepo:   gameDateRepo,
		playerRepo:     playerRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// Create opens a new season: the tournament row and its twelve pending game
// dates, one week apart from the first date, all in one transaction.
func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Number <= 0 {
		return nil, fmt.Errorf("%w: tournament number must be positive", ErrValidationFailed)
	}
	exclusionCount := input.ExclusionCount
	if exclusionCount < 0 {
		return nil, fmt.Errorf("%w: exclusion count must not be negative", ErrValidationFailed)
	}
	if exclusionCount == 0 {
		exclusionCount = 2
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tournament transaction: %w", err)
	}
	defer tx.Rollback()

	tournament := &models.Tournament{
		Number:         input.Number,
		Status:         models.TournamentStatusActive,
		ExclusionCount: exclusionCount,
	}
	if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNumberTaken) {
			return nil, ErrTournamentNumberConflict
		}
		return nil, err
	}

	for i := 0; i < models.GameDatesPerTournament; i++ {
		gameDate := &models.GameDate{
			TournamentID:  tournament.ID,
			DateNumber:    i + 1,
			ScheduledDate: input.FirstDate.AddDate(0, 0, 7*i),
			Status:        models.GameDateStatusPending,
			PlayerIDs:     []int64{},
			GuestIDs:      []int64{},
		}
		if err := s.gameDateRepo.Create(ctx, tx, gameDate); err != nil {
			return nil, fmt.Errorf("failed to schedule date %d: %w", i+1, err)
		}
		tournament.GameDates = append(tournament.GameDates, *gameDate)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	gameDates, err := s.gameDateRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	tournament.GameDates = gameDates

	participants, err := s.tournamentRepo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		player, err := s.playerRepo.GetByID(ctx, p.PlayerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		tournament.Participants = append(tournament.Participants, *player)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if !canTransitionTournament(tournament.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTournamentTransition, tournament.Status, status)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	tournament.Status = status

	if err := s.notifier.NotifyTournamentUpdated(ctx, tournament); err != nil {
		s.logger.Error("failed to dispatch tournament notification",
			slog.Int("tournament_id", id), slog.Any("error", err))
	}
	return tournament, nil
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, tournamentID, playerID int) (*models.TournamentParticipant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.TournamentStatusActive {
		return nil, fmt.Errorf("%w: tournament %d is %s", ErrValidationFailed, tournamentID, tournament.Status)
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	participant, err := s.tournamentRepo.AddParticipant(ctx, tournamentID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantAlreadyExists) {
			return nil, ErrParticipantAlreadyRegistered
		}
		return nil, err
	}
	return participant, nil
}

// AutoCompleteFinishedTournaments is the scheduler sweep: an active
// tournament whose twelve dates are all completed or cancelled transitions to
// completed without operator action.
func (s *tournamentService) AutoCompleteFinishedTournaments(ctx context.Context) error {
	active, err := s.tournamentRepo.ListByStatus(ctx, models.TournamentStatusActive)
	if err != nil {
		return fmt.Errorf("failed to list active tournaments: %w", err)
	}

	for _, tournament := range active {
		gameDates, err := s.gameDateRepo.ListByTournament(ctx, tournament.ID)
		if err != nil {
			return err
		}
		if len(gameDates) < models.GameDatesPerTournament {
			continue
		}
		finished := true
		for _, d := range gameDates {
			if d.Status != models.GameDateStatusCompleted && d.Status != models.GameDateStatusCancelled {
				finished = false
				break
			}
		}
		if !finished {
			continue
		}
		if _, err := s.UpdateStatus(ctx, tournament.ID, models.TournamentStatusCompleted); err != nil {
			return fmt.Errorf("failed to auto-complete tournament %d: %w", tournament.ID, err)
		}
		s.logger.Info("tournament auto-completed", slog.Int("tournament_id", tournament.ID), slog.Int("number", tournament.Number))
	}
	return nil
}
