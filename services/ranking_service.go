package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
	"github.com/lamesa/poker-league/scoring"
	"golang.org/x/sync/errgroup"
)

// PlayerRankingDetail is the per-player drill-down: the full standings row
// plus where the player sits in the table.
type PlayerRankingDetail struct {
	TournamentID int                 `json:"tournament_id"`
	Row          models.StandingsRow `json:"row"`
	TotalPlayers int                 `json:"total_players"`
}

// RankingService is the pure read path. Every call replays the ledger; there
// is no cached ranking state, so reads always reflect the latest committed
// writes and may run concurrently with them.
type RankingService interface {
	GetTournamentRanking(ctx context.Context, tournamentID int, asOfDateNumber int) ([]models.StandingsRow, error)
	GetPlayerRankingDetail(ctx context.Context, tournamentID, playerID int) (*PlayerRankingDetail, error)
}

type rankingService struct {
	tournamentRepo  repositories.TournamentRepository
	gameDateRepo    repositories.GameDateRepository
	eliminationRepo repositories.EliminationRepository
	playerRepo      repositories.PlayerRepository
}

func NewRankingService(
	tournamentRepo repositories.TournamentRepository,
	gameDateRepo repositories.GameDateRepository,
	eliminationRepo repositories.EliminationRepository,
	playerRepo repositories.PlayerRepository,
) RankingService {
	return &rankingService{
		tournamentRepo:  tournamentRepo,
		gameDateRepo:    gameDateRepo,
		eliminationRepo: eliminationRepo,
		playerRepo:      playerRepo,
	}
}

func (s *rankingService) GetTournamentRanking(ctx context.Context, tournamentID int, asOfDateNumber int) ([]models.StandingsRow, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		participants []models.TournamentParticipant
		gameDates    []models.GameDate
		eliminations []*models.Elimination
		players      []*models.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var loadErr error
		participants, loadErr = s.tournamentRepo.ListParticipants(gctx, tournamentID)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		gameDates, loadErr = s.gameDateRepo.ListByTournament(gctx, tournamentID)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		eliminations, loadErr = s.eliminationRepo.ListByTournament(gctx, tournamentID)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		players, loadErr = s.playerRepo.List(gctx, false)
		return loadErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load ranking inputs for tournament %d: %w", tournamentID, err)
	}

	rows := scoring.BuildStandings(scoring.StandingsInput{
		Participants:   participants,
		GameDates:      gameDates,
		Eliminations:   eliminations,
		ExclusionCount: tournament.ExclusionCount,
		AsOfDateNumber: asOfDateNumber,
	})

	names := make(map[int]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Nickname
	}
	for i := range rows {
		rows[i].PlayerName = names[rows[i].PlayerID]
	}
	return rows, nil
}

func (s *rankingService) GetPlayerRankingDetail(ctx context.Context, tournamentID, playerID int) (*PlayerRankingDetail, error) {
	rows, err := s.GetTournamentRanking(ctx, tournamentID, 0)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.PlayerID == playerID {
			return &PlayerRankingDetail{
				TournamentID: tournamentID,
				Row:          row,
				TotalPlayers: len(rows),
			}, nil
		}
	}
	return nil, ErrPlayerNotFound
}
