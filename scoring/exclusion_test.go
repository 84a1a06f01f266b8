package scoring

import (
	"testing"

	"github.com/lamesa/poker-league/models"
)

func dp(dateNumber, points int) models.DatePoints {
	return models.DatePoints{DateNumber: dateNumber, Points: points, Played: true}
}

func TestExcludeWorstDatesDropsTwoLowest(t *testing.T) {
	completed := []models.DatePoints{dp(1, 26), dp(2, 27), dp(3, 7), dp(4, 19)}

	excluded := ExcludeWorstDates(completed, 2)
	if len(excluded) != 2 {
		t.Fatalf("expected 2 excluded dates, got %d", len(excluded))
	}
	if excluded[0].DateNumber != 3 || excluded[0].Points != 7 {
		t.Errorf("unexpected first excluded date: %+v", excluded[0])
	}
	if excluded[1].DateNumber != 4 || excluded[1].Points != 19 {
		t.Errorf("unexpected second excluded date: %+v", excluded[1])
	}
}

func TestExcludeWorstDatesEarlySeason(t *testing.T) {
	// With no more completed dates than the exclusion count, nothing drops.
	if got := ExcludeWorstDates([]models.DatePoints{dp(1, 10)}, 2); got != nil {
		t.Errorf("expected no exclusions for a single date, got %v", got)
	}
	if got := ExcludeWorstDates([]models.DatePoints{dp(1, 10), dp(2, 3)}, 2); got != nil {
		t.Errorf("expected no exclusions for two dates, got %v", got)
	}
}

func TestExcludeWorstDatesTieBreaksOnEarliestDate(t *testing.T) {
	completed := []models.DatePoints{dp(1, 5), dp(2, 5), dp(3, 5), dp(4, 20)}

	excluded := ExcludeWorstDates(completed, 2)
	if len(excluded) != 2 {
		t.Fatalf("expected 2 excluded dates, got %d", len(excluded))
	}
	// Equal point values: the earliest dates go first.
	if excluded[0].DateNumber != 1 || excluded[1].DateNumber != 2 {
		t.Errorf("expected dates 1 and 2 excluded, got %d and %d", excluded[0].DateNumber, excluded[1].DateNumber)
	}
}

func TestExcludeWorstDatesCountsAbsences(t *testing.T) {
	completed := []models.DatePoints{dp(1, 12), {DateNumber: 2, Points: 0, Played: false}, dp(3, 8), dp(4, 15)}

	excluded := ExcludeWorstDates(completed, 2)
	if len(excluded) != 2 {
		t.Fatalf("expected 2 excluded dates, got %d", len(excluded))
	}
	if excluded[0].DateNumber != 2 || excluded[1].DateNumber != 3 {
		t.Errorf("expected the absence and the 8-point date excluded, got %+v", excluded)
	}
}
