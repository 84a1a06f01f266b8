package scoring

import (
	"cmp"
	"slices"

	"github.com/lamesa/poker-league/models"
)

// StandingsInput carries everything a standings replay needs. The ledger is
// the only source of truth: rows are recomputed from scratch on every call,
// there is no cached ranking state.
type StandingsInput struct {
	Participants   []models.TournamentParticipant
	GameDates      []models.GameDate
	Eliminations   []*models.Elimination
	ExclusionCount int

	// AsOfDateNumber limits the replay to dates with date_number <= the
	// given value, reproducing the standings as they stood after that date.
	// Zero means all occurred dates.
	AsOfDateNumber int
}

// BuildStandings replays a tournament's game dates and eliminations into a
// standings table. Only dates that have occurred (in_progress or completed,
// within the as-of window) contribute. A registered participant absent from a
// date's roster scores 0 for it; the survivor of an in_progress date with one
// active player left is credited winner points before the ledger entry exists.
//
// Ordering is finalScore desc, then totalPoints desc, then registration order.
// Ties are never resolved nondeterministically.
func BuildStandings(in StandingsInput) []models.StandingsRow {
	dates := occurredDates(in.GameDates, in.AsOfDateNumber)

	elimsByDate := make(map[int][]*models.Elimination, len(dates))
	for _, e := range in.Eliminations {
		elimsByDate[e.GameDateID] = append(elimsByDate[e.GameDateID], e)
	}

	completedCount := 0
	for _, d := range dates {
		if d.Status == models.GameDateStatusCompleted {
			completedCount++
		}
	}

	rows := make([]models.StandingsRow, 0, len(in.Participants))
	order := make(map[int]int, len(in.Participants)) // playerID -> join order

	for _, p := range in.Participants {
		order[p.PlayerID] = p.ID
		rows = append(rows, buildRow(p.PlayerID, dates, elimsByDate, completedCount, in.ExclusionCount))
	}

	slices.SortFunc(rows, func(a, b models.StandingsRow) int {
		if c := cmp.Compare(b.FinalScore, a.FinalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(order[a.PlayerID], order[b.PlayerID])
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func buildRow(playerID int, dates []models.GameDate, elimsByDate map[int][]*models.Elimination, completedCount, exclusionCount int) models.StandingsRow {
	row := models.StandingsRow{PlayerID: playerID}
	completed := make([]models.DatePoints, 0, len(dates))

	for _, d := range dates {
		dp := models.DatePoints{DateNumber: d.DateNumber}
		if d.HasPlayer(playerID) {
			dp.Played = true
			dp.Points = datePointsFor(playerID, &d, elimsByDate[d.ID])
			row.DatesPlayed++
		}
		row.TotalPoints += dp.Points
		row.PointsByDate = append(row.PointsByDate, dp)
		if d.Status == models.GameDateStatusCompleted {
			completed = append(completed, dp)
		}
	}

	row.FinalScore = row.TotalPoints
	if completedCount > exclusionCount {
		row.ExcludedDates = ExcludeWorstDates(completed, exclusionCount)
		for _, dp := range row.ExcludedDates {
			row.FinalScore -= dp.Points
		}
	}
	return row
}

// datePointsFor resolves one player's points on one occurred date: the ledger
// entry if they were eliminated (or won a completed date, since the winner row
// is written at completion), or derived winner points when they are the lone
// survivor of a date still in progress.
func datePointsFor(playerID int, date *models.GameDate, elims []*models.Elimination) int {
	for _, e := range elims {
		if e.EliminatedPlayerID == playerID {
			return e.Points
		}
	}
	if date.Status == models.GameDateStatusInProgress {
		total := date.TotalPlayers()
		if total-len(elims) == 1 {
			// Everyone else is on the ledger, so the one missing entry
			// belongs to the survivor.
			return Points(1, total)
		}
	}
	return 0
}

func occurredDates(all []models.GameDate, asOf int) []models.GameDate {
	dates := make([]models.GameDate, 0, len(all))
	for _, d := range all {
		if d.Status != models.GameDateStatusInProgress && d.Status != models.GameDateStatusCompleted {
			continue
		}
		if asOf > 0 && d.DateNumber > asOf {
			continue
		}
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b models.GameDate) int {
		return cmp.Compare(a.DateNumber, b.DateNumber)
	})
	return dates
}
