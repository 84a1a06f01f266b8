package models

// DatePoints is one cell of a player's season row: the points earned on a
// single game date. Played=false means the player did not show up.
type DatePoints struct {
	DateNumber int  `json:"date_number"`
	Points     int  `json:"points"`
	Played     bool `json:"played"`
}

// StandingsRow is derived, never stored. FinalScore is TotalPoints minus the
// excluded worst dates.
type StandingsRow struct {
	Rank          int          `json:"rank"`
	PlayerID      int          `json:"player_id"`
	PlayerName    string       `json:"player_name,omitempty"`
	TotalPoints   int          `json:"total_points"`
	FinalScore    int          `json:"final_score"`
	DatesPlayed   int          `json:"dates_played"`
	PointsByDate  []DatePoints `json:"points_by_date"`
	ExcludedDates []DatePoints `json:"excluded_dates"`
}
