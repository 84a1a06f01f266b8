package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamesa/poker-league/models"
)

type tournamentFixture struct {
	service     TournamentService
	tournaments *fakeTournamentRepo
	dates       *fakeGameDateRepo
	players     *fakePlayerRepo
	notifier    *fakeNotifier
}

func newTournamentFixture(t *testing.T, tournaments ...*models.Tournament) *tournamentFixture {
	t.Helper()

	f := &tournamentFixture{
		tournaments: newFakeTournamentRepo(tournaments...),
		dates:       newFakeGameDateRepo(),
		players: newFakePlayerRepo(
			&models.Player{ID: 1, Nickname: "ace", IsActive: true},
			&models.Player{ID: 2, Nickname: "river", IsActive: true},
		),
		notifier: &fakeNotifier{},
	}
	f.service = NewTournamentService(newTestDB(t), f.tournaments, f.dates, f.players, f.notifier, discardLogger())
	return f
}

func TestCreateTournamentSchedulesTwelveDates(t *testing.T) {
	f := newTournamentFixture(t)

	firstDate := time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	tournament, err := f.service.Create(context.Background(), CreateTournamentInput{
		Number:    28,
		FirstDate: firstDate,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TournamentStatusActive, tournament.Status)
	assert.Equal(t, 2, tournament.ExclusionCount)
	require.Len(t, tournament.GameDates, models.GameDatesPerTournament)

	for i, d := range tournament.GameDates {
		assert.Equal(t, i+1, d.DateNumber)
		assert.Equal(t, models.GameDateStatusPending, d.Status)
		assert.Equal(t, firstDate.AddDate(0, 0, 7*i), d.ScheduledDate)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t)

	_, err := f.service.Create(context.Background(), CreateTournamentInput{Number: 0, FirstDate: time.Now()})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.service.Create(context.Background(), CreateTournamentInput{Number: 5, ExclusionCount: -1, FirstDate: time.Now()})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTournamentStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.TournamentStatus
		to      models.TournamentStatus
		wantErr error
	}{
		{name: "active to completed", from: models.TournamentStatusActive, to: models.TournamentStatusCompleted},
		{name: "active to cancelled", from: models.TournamentStatusActive, to: models.TournamentStatusCancelled},
		{name: "completed to active", from: models.TournamentStatusCompleted, to: models.TournamentStatusActive, wantErr: ErrInvalidTournamentTransition},
		{name: "cancelled to completed", from: models.TournamentStatusCancelled, to: models.TournamentStatusCompleted, wantErr: ErrInvalidTournamentTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTournamentFixture(t, &models.Tournament{ID: 1, Number: 28, Status: tt.from})

			tournament, err := f.service.UpdateStatus(context.Background(), 1, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, tournament.Status)
			assert.Equal(t, 1, f.notifier.tournaments)
		})
	}
}

func TestRegisterPlayerOnActiveTournamentOnly(t *testing.T) {
	f := newTournamentFixture(t,
		&models.Tournament{ID: 1, Number: 28, Status: models.TournamentStatusActive},
		&models.Tournament{ID: 2, Number: 27, Status: models.TournamentStatusCompleted},
	)

	participant, err := f.service.RegisterPlayer(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, participant.PlayerID)

	_, err = f.service.RegisterPlayer(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrParticipantAlreadyRegistered)

	_, err = f.service.RegisterPlayer(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.service.RegisterPlayer(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestAutoCompleteFinishedTournaments(t *testing.T) {
	f := newTournamentFixture(t, &models.Tournament{ID: 1, Number: 28, Status: models.TournamentStatusActive})

	// Eleven completed dates and one cancelled count as a finished season.
	for i := 1; i <= models.GameDatesPerTournament; i++ {
		status := models.GameDateStatusCompleted
		if i == 4 {
			status = models.GameDateStatusCancelled
		}
		f.dates.dates[i] = &models.GameDate{ID: i, TournamentID: 1, DateNumber: i, Status: status}
	}

	require.NoError(t, f.service.AutoCompleteFinishedTournaments(context.Background()))

	tournament, err := f.tournaments.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusCompleted, tournament.Status)
}

func TestAutoCompleteSkipsTournamentWithOpenDates(t *testing.T) {
	f := newTournamentFixture(t, &models.Tournament{ID: 1, Number: 28, Status: models.TournamentStatusActive})

	for i := 1; i <= models.GameDatesPerTournament; i++ {
		status := models.GameDateStatusCompleted
		if i == 12 {
			status = models.GameDateStatusInProgress
		}
		f.dates.dates[i] = &models.GameDate{ID: i, TournamentID: 1, DateNumber: i, Status: status}
	}

	require.NoError(t, f.service.AutoCompleteFinishedTournaments(context.Background()))

	tournament, err := f.tournaments.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusActive, tournament.Status)
}
