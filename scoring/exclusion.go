package scoring

import (
	"cmp"
	"slices"

	"github.com/lamesa/poker-league/models"
)

// ExcludeWorstDates selects the exclusionCount lowest point values out of the
// dates that have actually been completed. While a player has no more
// completed dates than the exclusion count nothing is dropped, so nobody is
// penalized early in the season. Ties on points exclude the earliest date
// first, which keeps the selection reproducible.
//
// The returned slice is ordered by date number for display ("elimina1",
// "elimina2").
func ExcludeWorstDates(completedDates []models.DatePoints, exclusionCount int) []models.DatePoints {
	if exclusionCount <= 0 || len(completedDates) <= exclusionCount {
		return nil
	}

	candidates := make([]models.DatePoints, len(completedDates))
	copy(candidates, completedDates)

	slices.SortFunc(candidates, func(a, b models.DatePoints) int {
		if c := cmp.Compare(a.Points, b.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.DateNumber, b.DateNumber)
	})

	excluded := candidates[:exclusionCount]
	slices.SortFunc(excluded, func(a, b models.DatePoints) int {
		return cmp.Compare(a.DateNumber, b.DateNumber)
	})
	return excluded
}
