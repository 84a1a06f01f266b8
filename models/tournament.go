package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
	TournamentStatusCancelled TournamentStatus = "cancelled"
)

// GameDatesPerTournament is fixed by the league format: one season is
// exactly twelve scheduled sit-and-go dates.
const GameDatesPerTournament = 12

type Tournament struct {
	ID             int              `json:"id" db:"id"`
	Number         int              `json:"number" db:"number"`
	Status         TournamentStatus `json:"status" db:"status"`
	ExclusionCount int              `json:"exclusion_count" db:"exclusion_count"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`

	// Linked data, populated by the service layer.
	Participants []Player   `json:"participants,omitempty" db:"-"`
	GameDates    []GameDate `json:"game_dates,omitempty" db:"-"`
}

// TournamentParticipant is one row of the registration roster. The row id
// doubles as the join-order tie-break key for final standings.
type TournamentParticipant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
