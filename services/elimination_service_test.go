package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamesa/poker-league/models"
)

type eliminationFixture struct {
	service  EliminationService
	elims    *fakeEliminationRepo
	dates    *fakeGameDateRepo
	stats    *fakeStatsRecorder
	notifier *fakeNotifier
	gameDate *models.GameDate
}

func newEliminationFixture(t *testing.T, status models.GameDateStatus, playerIDs []int64) *eliminationFixture {
	t.Helper()

	gameDate := &models.GameDate{
		ID:            17,
		TournamentID:  3,
		DateNumber:    5,
		ScheduledDate: time.Date(2025, 5, 10, 20, 0, 0, 0, time.UTC),
		Status:        status,
		PlayerIDs:     playerIDs,
		GuestIDs:      []int64{},
	}

	elims := &fakeEliminationRepo{}
	dates := newFakeGameDateRepo(gameDate)
	stats := &fakeStatsRecorder{}
	notifier := &fakeNotifier{}

	service := NewEliminationService(newTestDB(t), elims, dates, stats, notifier, discardLogger())
	return &eliminationFixture{
		service:  service,
		elims:    elims,
		dates:    dates,
		stats:    stats,
		notifier: notifier,
		gameDate: gameDate,
	}
}

func (f *eliminationFixture) register(t *testing.T, eliminatedID int, eliminatorID *int) *models.Elimination {
	t.Helper()
	elimination, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: eliminatedID,
		EliminatorPlayerID: eliminatorID,
	})
	require.NoError(t, err)
	return elimination
}

func TestRegisterAssignsDescendingPositions(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	first := f.register(t, 9, intPtr(1))
	assert.Equal(t, 9, first.Position)
	assert.Equal(t, 0, first.Points)

	second := f.register(t, 8, intPtr(2))
	assert.Equal(t, 8, second.Position)

	third := f.register(t, 7, nil)
	assert.Equal(t, 7, third.Position)
	assert.Nil(t, third.EliminatorPlayerID)

	// Nine players put 18 points in play for the winner; lower positions
	// scale down from that pool.
	assert.Greater(t, third.Points, second.Points)
}

func TestRegisterSynthesizesWinnerAndCompletesDate(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3})

	f.register(t, 3, intPtr(1))
	runnerUp := f.register(t, 2, intPtr(1))
	assert.Equal(t, 2, runnerUp.Position)

	// Recording the runner-up leaves one survivor: the service writes the
	// position-1 record itself and closes the date.
	require.Len(t, f.elims.records, 3)
	winner := f.elims.records[2]
	assert.Equal(t, 1, winner.Position)
	assert.Equal(t, 1, winner.EliminatedPlayerID)
	assert.Nil(t, winner.EliminatorPlayerID)

	assert.Equal(t, models.GameDateStatusCompleted, f.gameDate.Status)
	require.NotNil(t, f.gameDate.CompletedAt)
	assert.Equal(t, 1, f.notifier.winners)
}

func TestRegisterRejectsDateNotInProgress(t *testing.T) {
	for _, status := range []models.GameDateStatus{
		models.GameDateStatusPending,
		models.GameDateStatusCreated,
		models.GameDateStatusCompleted,
		models.GameDateStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newEliminationFixture(t, status, []int64{1, 2, 3})
			_, err := f.service.Register(context.Background(), RegisterEliminationInput{
				GameDateID:         f.gameDate.ID,
				EliminatedPlayerID: 3,
			})
			assert.ErrorIs(t, err, ErrGameDateNotInProgress)
		})
	}
}

func TestRegisterRejectsDuplicateElimination(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})
	f.register(t, 4, intPtr(1))

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 4,
		EliminatorPlayerID: intPtr(2),
	})
	assert.ErrorIs(t, err, ErrDuplicateElimination)
	assert.Len(t, f.elims.records, 1)
}

func TestRegisterRejectsPlayerOutsideRoster(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3})

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 42,
	})
	assert.ErrorIs(t, err, ErrPlayerNotInGameDate)

	_, err = f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 3,
		EliminatorPlayerID: intPtr(42),
	})
	assert.ErrorIs(t, err, ErrPlayerNotInGameDate)
}

func TestRegisterRejectsSelfElimination(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3})

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 2,
		EliminatorPlayerID: intPtr(2),
	})
	assert.ErrorIs(t, err, ErrSelfElimination)
}

func TestRegisterRejectsEliminatedEliminator(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})
	f.register(t, 4, intPtr(1))

	// Player 4 is already out and cannot be credited with a later bust-out.
	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 3,
		EliminatorPlayerID: intPtr(4),
	})
	assert.ErrorIs(t, err, ErrEliminatorAlreadyEliminated)
}

func TestRegisterAllowsEliminatorRecordedLater(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})

	late := time.Date(2025, 5, 10, 22, 0, 0, 0, time.UTC)
	early := late.Add(-30 * time.Minute)

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 4,
		EliminatorPlayerID: intPtr(1),
		EliminationTime:    &late,
	})
	require.NoError(t, err)

	// Backfilling an earlier bust-out credited to player 4 is fine: at that
	// moment player 4 was still in the game.
	_, err = f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 3,
		EliminatorPlayerID: intPtr(4),
		EliminationTime:    &early,
	})
	assert.NoError(t, err)
}

func TestRegisterRetriesOncePastPositionRace(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})
	f.elims.createConflicts = 1

	elimination := f.register(t, 4, intPtr(1))
	assert.Equal(t, 4, elimination.Position)
}

func TestRegisterSurfacesPersistentPositionConflict(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})
	f.elims.createConflicts = 2

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         f.gameDate.ID,
		EliminatedPlayerID: 4,
	})
	assert.ErrorIs(t, err, ErrPositionConflict)
}

func TestRegisterSideEffectFailuresAreSwallowed(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3})
	f.stats.failWith = errors.New("counter store down")
	f.notifier.failWith = errors.New("hub down")

	elimination := f.register(t, 3, intPtr(1))
	assert.Equal(t, 3, elimination.Position)
	assert.Len(t, f.elims.records, 1)
}

func TestRegisterRecordsHeadToHeadStat(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})

	f.register(t, 4, intPtr(2))
	require.Len(t, f.stats.recorded, 1)
	assert.Equal(t, statCall{tournamentID: 3, eliminatorID: 2, eliminatedID: 4}, f.stats.recorded[0])

	// No eliminator named, no counter moved.
	f.register(t, 3, nil)
	assert.Len(t, f.stats.recorded, 1)
}

func TestUpdateRejectsWinnerRecord(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2})

	f.register(t, 2, intPtr(1))
	winner := f.elims.records[1]
	require.True(t, winner.IsWinner())

	_, err := f.service.Update(context.Background(), winner.ID, UpdateEliminationInput{
		EliminatedPlayerID: intPtr(2),
	})
	assert.ErrorIs(t, err, ErrWinnerRecordImmutable)
}

func TestUpdateRejectsNonLatestRecord(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})

	first := f.register(t, 4, intPtr(1))
	f.register(t, 3, intPtr(1))

	_, err := f.service.Update(context.Background(), first.ID, UpdateEliminationInput{
		EliminatorPlayerID: intPtr(2),
	})
	assert.ErrorIs(t, err, ErrOrderingViolation)
}

func TestUpdateSwapsEliminatorAndAdjustsStats(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})

	elimination := f.register(t, 4, intPtr(1))

	updated, err := f.service.Update(context.Background(), elimination.ID, UpdateEliminationInput{
		EliminatorPlayerID: intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.EliminatorPlayerID)
	assert.Equal(t, 2, *updated.EliminatorPlayerID)
	assert.Equal(t, 4, updated.Position)

	require.Len(t, f.stats.unrecorded, 1)
	assert.Equal(t, statCall{tournamentID: 3, eliminatorID: 1, eliminatedID: 4}, f.stats.unrecorded[0])
	require.Len(t, f.stats.recorded, 2)
	assert.Equal(t, statCall{tournamentID: 3, eliminatorID: 2, eliminatedID: 4}, f.stats.recorded[1])
}

func TestUpdateClearsEliminator(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3})

	elimination := f.register(t, 3, intPtr(1))

	updated, err := f.service.Update(context.Background(), elimination.ID, UpdateEliminationInput{
		ClearEliminator: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EliminatorPlayerID)
	require.Len(t, f.stats.unrecorded, 1)
}

func TestDeleteOnlyLatestRecord(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2, 3, 4})

	first := f.register(t, 4, intPtr(1))
	second := f.register(t, 3, intPtr(2))

	err := f.service.Delete(context.Background(), first.ID)
	assert.ErrorIs(t, err, ErrOrderingViolation)

	require.NoError(t, f.service.Delete(context.Background(), second.ID))
	assert.Len(t, f.elims.records, 1)
	require.Len(t, f.stats.unrecorded, 1)
	assert.Equal(t, statCall{tournamentID: 3, eliminatorID: 2, eliminatedID: 3}, f.stats.unrecorded[0])
}

func TestDeleteRejectsCompletedDate(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2})

	runnerUp := f.register(t, 2, intPtr(1))
	require.Equal(t, models.GameDateStatusCompleted, f.gameDate.Status)

	err := f.service.Delete(context.Background(), runnerUp.ID)
	assert.ErrorIs(t, err, ErrGameDateNotInProgress)
}

func TestRegisterUnknownGameDate(t *testing.T) {
	f := newEliminationFixture(t, models.GameDateStatusInProgress, []int64{1, 2})

	_, err := f.service.Register(context.Background(), RegisterEliminationInput{
		GameDateID:         999,
		EliminatedPlayerID: 2,
	})
	assert.ErrorIs(t, err, ErrGameDateNotFound)
}
