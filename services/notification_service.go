package services

import (
	"context"

	"github.com/lamesa/poker-league/live"
	"github.com/lamesa/poker-league/models"
)

// Event types pushed to connected clients.
const (
	EventPlayerEliminated  = "PLAYER_ELIMINATED"
	EventWinnerDeclared    = "WINNER_DECLARED"
	EventGameDateUpdated   = "GAME_DATE_UPDATED"
	EventTournamentUpdated = "TOURNAMENT_UPDATED"
)

// NotificationService is the dispatcher port for elimination and winner
// alerts. Implementations must be safe to call after the ledger write has
// committed; failures are the caller's to log, never to propagate.
type NotificationService interface {
	NotifyPlayerEliminated(ctx context.Context, gameDate *models.GameDate, elimination *models.Elimination) error
	NotifyWinnerDeclared(ctx context.Context, gameDate *models.GameDate, winner *models.Elimination) error
	NotifyGameDateUpdated(ctx context.Context, gameDate *models.GameDate) error
	NotifyTournamentUpdated(ctx context.Context, tournament *models.Tournament) error
}

type hubNotificationService struct {
	hub *live.Hub
}

// NewHubNotificationService dispatches events over the websocket hub, to both
// the game date room and its tournament room.
func NewHubNotificationService(hub *live.Hub) NotificationService {
	return &hubNotificationService{hub: hub}
}

func (s *hubNotificationService) broadcastForDate(gameDate *models.GameDate, event live.Event) {
	s.hub.BroadcastToRoom(GameDateRoom(gameDate.ID), event)
	s.hub.BroadcastToRoom(TournamentRoom(gameDate.TournamentID), event)
}

func (s *hubNotificationService) NotifyPlayerEliminated(_ context.Context, gameDate *models.GameDate, elimination *models.Elimination) error {
	s.broadcastForDate(gameDate, live.NewEvent(EventPlayerEliminated, elimination))
	return nil
}

func (s *hubNotificationService) NotifyWinnerDeclared(_ context.Context, gameDate *models.GameDate, winner *models.Elimination) error {
	s.broadcastForDate(gameDate, live.NewEvent(EventWinnerDeclared, winner))
	return nil
}

func (s *hubNotificationService) NotifyGameDateUpdated(_ context.Context, gameDate *models.GameDate) error {
	s.broadcastForDate(gameDate, live.NewEvent(EventGameDateUpdated, gameDate))
	return nil
}

func (s *hubNotificationService) NotifyTournamentUpdated(_ context.Context, tournament *models.Tournament) error {
	s.hub.BroadcastToRoom(TournamentRoom(tournament.ID), live.NewEvent(EventTournamentUpdated, tournament))
	return nil
}
