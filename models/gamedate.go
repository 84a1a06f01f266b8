package models

import "time"

// GameDateStatus mirrors the game_date_status ENUM in the database.
type GameDateStatus string

const (
	GameDateStatusPending    GameDateStatus = "pending"
	GameDateStatusCreated    GameDateStatus = "created"
	GameDateStatusInProgress GameDateStatus = "in_progress"
	GameDateStatusCompleted  GameDateStatus = "completed"
	GameDateStatusCancelled  GameDateStatus = "cancelled"
)

type GameDate struct {
	ID            int            `json:"id" db:"id"`
	TournamentID  int            `json:"tournament_id" db:"tournament_id"`
	DateNumber    int            `json:"date_number" db:"date_number"`
	ScheduledDate time.Time      `json:"scheduled_date" db:"scheduled_date"`
	Status        GameDateStatus `json:"status" db:"status"`
	PlayerIDs     []int64        `json:"player_ids" db:"player_ids"`
	GuestIDs      []int64        `json:"guest_ids" db:"guest_ids"`
	StartedAt     *time.Time     `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty" db:"completed_at"`

	Eliminations []*Elimination `json:"eliminations,omitempty" db:"-"`
}

// TotalPlayers is the table size frozen when the roster was set: registered
// players who showed up plus guests.
func (g *GameDate) TotalPlayers() int {
	return len(g.PlayerIDs) + len(g.GuestIDs)
}

// HasPlayer reports whether the player is on this date's roster (guests count).
func (g *GameDate) HasPlayer(playerID int) bool {
	for _, id := range g.PlayerIDs {
		if int(id) == playerID {
			return true
		}
	}
	for _, id := range g.GuestIDs {
		if int(id) == playerID {
			return true
		}
	}
	return false
}
