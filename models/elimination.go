package models

import "time"

// Elimination is one append-only ledger entry: a player busting out of a game
// date at a finishing position. The winner gets a derived entry at position 1
// with a nil eliminator.
type Elimination struct {
	ID                 int       `json:"id" db:"id"`
	GameDateID         int       `json:"game_date_id" db:"game_date_id"`
	Position           int       `json:"position" db:"position"`
	Points             int       `json:"points" db:"points"`
	EliminatedPlayerID int       `json:"eliminated_player_id" db:"eliminated_player_id"`
	EliminatorPlayerID *int      `json:"eliminator_player_id,omitempty" db:"eliminator_player_id"`
	EliminationTime    time.Time `json:"elimination_time" db:"elimination_time"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// IsWinner reports whether this is the derived position-1 entry.
func (e *Elimination) IsWinner() bool {
	return e.Position == 1
}
