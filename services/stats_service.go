package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
)

// StatsRecorder is the secondary-effect port for head-to-head counters. Its
// failure must never roll back or block the elimination write: callers invoke
// it after commit and only log errors.
type StatsRecorder interface {
	RecordElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int, gameDateDate time.Time) error
	UnrecordElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int) error
}

// HeadToHeadStat is one stats row enriched with player names for display.
type HeadToHeadStat struct {
	models.EliminationStat
	EliminatorName string `json:"eliminator_name"`
	EliminatedName string `json:"eliminated_name"`
}

type StatsService interface {
	StatsRecorder
	GetTournamentStats(ctx context.Context, tournamentID int) ([]HeadToHeadStat, error)
}

type statsService struct {
	statsRepo  repositories.StatsRepository
	playerRepo repositories.PlayerRepository
}

func NewStatsService(statsRepo repositories.StatsRepository, playerRepo repositories.PlayerRepository) StatsService {
	return &statsService{statsRepo: statsRepo, playerRepo: playerRepo}
}

func (s *statsService) RecordElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int, gameDateDate time.Time) error {
	return s.statsRepo.IncrementElimination(ctx, nil, tournamentID, eliminatorID, eliminatedID, gameDateDate)
}

func (s *statsService) UnrecordElimination(ctx context.Context, tournamentID, eliminatorID, eliminatedID int) error {
	return s.statsRepo.DecrementElimination(ctx, tournamentID, eliminatorID, eliminatedID)
}

func (s *statsService) GetTournamentStats(ctx context.Context, tournamentID int) ([]HeadToHeadStat, error) {
	stats, err := s.statsRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for tournament %d: %w", tournamentID, err)
	}

	players, err := s.playerRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for stats: %w", err)
	}
	names := make(map[int]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Nickname
	}

	out := make([]HeadToHeadStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, HeadToHeadStat{
			EliminationStat: st,
			EliminatorName:  names[st.EliminatorPlayerID],
			EliminatedName:  names[st.EliminatedPlayerID],
		})
	}
	return out, nil
}
