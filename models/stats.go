package models

import "time"

// EliminationStat is a cumulative head-to-head counter: how many times the
// eliminator has knocked out the victim within one tournament.
type EliminationStat struct {
	TournamentID       int       `json:"tournament_id" db:"tournament_id"`
	EliminatorPlayerID int       `json:"eliminator_player_id" db:"eliminator_player_id"`
	EliminatedPlayerID int       `json:"eliminated_player_id" db:"eliminated_player_id"`
	Count              int       `json:"count" db:"count"`
	LastGameDate       time.Time `json:"last_game_date" db:"last_game_date"`
}
