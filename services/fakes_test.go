package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
)

// newTestDB hands out an in-memory handle so the services under test have a
// real transaction boundary. No table is ever touched: the fake repositories
// ignore the executor they receive.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

type fakeEliminationRepo struct {
	nextID  int
	records []*models.Elimination

	// createConflicts makes the next N Create calls fail with the
	// position-taken race signal.
	createConflicts int
}

func (r *fakeEliminationRepo) Create(_ context.Context, _ repositories.SQLExecutor, elimination *models.Elimination) error {
	if r.createConflicts > 0 {
		r.createConflicts--
		return repositories.ErrEliminationPositionTaken
	}
	for _, e := range r.records {
		if e.GameDateID == elimination.GameDateID && e.Position == elimination.Position {
			return repositories.ErrEliminationPositionTaken
		}
		if e.GameDateID == elimination.GameDateID && e.EliminatedPlayerID == elimination.EliminatedPlayerID {
			return repositories.ErrEliminationPlayerTaken
		}
	}
	r.nextID++
	elimination.ID = r.nextID
	elimination.CreatedAt = time.Now()
	r.records = append(r.records, elimination)
	return nil
}

func (r *fakeEliminationRepo) GetByID(_ context.Context, id int) (*models.Elimination, error) {
	for _, e := range r.records {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repositories.ErrEliminationNotFound
}

func (r *fakeEliminationRepo) ListByGameDate(_ context.Context, _ repositories.SQLExecutor, gameDateID int) ([]*models.Elimination, error) {
	var out []*models.Elimination
	for _, e := range r.records {
		if e.GameDateID == gameDateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEliminationRepo) ListByTournament(_ context.Context, _ int) ([]*models.Elimination, error) {
	return r.records, nil
}

func (r *fakeEliminationRepo) UpdatePlayers(_ context.Context, id int, eliminatedPlayerID int, eliminatorPlayerID *int) error {
	for _, e := range r.records {
		if e.ID == id {
			e.EliminatedPlayerID = eliminatedPlayerID
			e.EliminatorPlayerID = eliminatorPlayerID
			return nil
		}
	}
	return repositories.ErrEliminationNotFound
}

func (r *fakeEliminationRepo) Delete(_ context.Context, id int) error {
	for i, e := range r.records {
		if e.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEliminationNotFound
}

type fakeGameDateRepo struct {
	nextID int
	dates  map[int]*models.GameDate
}

func newFakeGameDateRepo(dates ...*models.GameDate) *fakeGameDateRepo {
	r := &fakeGameDateRepo{dates: make(map[int]*models.GameDate)}
	for _, d := range dates {
		r.dates[d.ID] = d
		if d.ID > r.nextID {
			r.nextID = d.ID
		}
	}
	return r
}

func (r *fakeGameDateRepo) Create(_ context.Context, _ repositories.SQLExecutor, gameDate *models.GameDate) error {
	for _, d := range r.dates {
		if d.TournamentID == gameDate.TournamentID && d.DateNumber == gameDate.DateNumber {
			return repositories.ErrGameDateNumberTaken
		}
	}
	r.nextID++
	gameDate.ID = r.nextID
	r.dates[gameDate.ID] = gameDate
	return nil
}

func (r *fakeGameDateRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.GameDate, error) {
	d, ok := r.dates[id]
	if !ok {
		return nil, repositories.ErrGameDateNotFound
	}
	return d, nil
}

func (r *fakeGameDateRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.GameDate, error) {
	var out []models.GameDate
	for _, d := range r.dates {
		if d.TournamentID == tournamentID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeGameDateRepo) UpdateRoster(_ context.Context, id int, playerIDs, guestIDs []int64) error {
	d, ok := r.dates[id]
	if !ok {
		return repositories.ErrGameDateNotFound
	}
	d.PlayerIDs = playerIDs
	d.GuestIDs = guestIDs
	return nil
}

func (r *fakeGameDateRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.GameDateStatus) error {
	d, ok := r.dates[id]
	if !ok {
		return repositories.ErrGameDateNotFound
	}
	d.Status = status
	return nil
}

func (r *fakeGameDateRepo) MarkCompleted(_ context.Context, _ repositories.SQLExecutor, id int, completedAt time.Time) error {
	d, ok := r.dates[id]
	if !ok {
		return repositories.ErrGameDateNotFound
	}
	d.Status = models.GameDateStatusCompleted
	d.CompletedAt = &completedAt
	return nil
}

type fakeTournamentRepo struct {
	tournaments  map[int]*models.Tournament
	participants []models.TournamentParticipant
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, tournament *models.Tournament) error {
	tournament.ID = len(r.tournaments) + 1
	r.tournaments[tournament.ID] = tournament
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.tournaments {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) ListByStatus(_ context.Context, status models.TournamentStatus) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.tournaments {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) AddParticipant(_ context.Context, tournamentID, playerID int) (*models.TournamentParticipant, error) {
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && p.PlayerID == playerID {
			return nil, repositories.ErrParticipantAlreadyExists
		}
	}
	participant := models.TournamentParticipant{
		ID:           len(r.participants) + 1,
		TournamentID: tournamentID,
		PlayerID:     playerID,
		CreatedAt:    time.Now(),
	}
	r.participants = append(r.participants, participant)
	return &participant, nil
}

func (r *fakeTournamentRepo) ListParticipants(_ context.Context, tournamentID int) ([]models.TournamentParticipant, error) {
	var out []models.TournamentParticipant
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
}

func newFakePlayerRepo(players ...*models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int]*models.Player)}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	for _, p := range r.players {
		if p.Nickname == player.Nickname {
			return repositories.ErrPlayerNicknameConflict
		}
	}
	player.ID = len(r.players) + 1
	player.CreatedAt = time.Now()
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return p, nil
}

func (r *fakePlayerRepo) GetByNickname(_ context.Context, nickname string) (*models.Player, error) {
	for _, p := range r.players {
		if p.Nickname == nickname {
			return p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) List(_ context.Context, activeOnly bool) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.players {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(_ context.Context, id int, photoKey *string) error {
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	return nil
}

func (r *fakePlayerRepo) UpdatePinHash(_ context.Context, id int, pinHash string) error {
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PinHash = &pinHash
	return nil
}

type statCall struct {
	tournamentID int
	eliminatorID int
	eliminatedID int
}

type fakeStatsRecorder struct {
	recorded   []statCall
	unrecorded []statCall
	failWith   error
}

func (f *fakeStatsRecorder) RecordElimination(_ context.Context, tournamentID, eliminatorID, eliminatedID int, _ time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.recorded = append(f.recorded, statCall{tournamentID, eliminatorID, eliminatedID})
	return nil
}

func (f *fakeStatsRecorder) UnrecordElimination(_ context.Context, tournamentID, eliminatorID, eliminatedID int) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.unrecorded = append(f.unrecorded, statCall{tournamentID, eliminatorID, eliminatedID})
	return nil
}

type fakeNotifier struct {
	eliminations int
	winners      int
	gameDates    int
	tournaments  int
	failWith     error
}

func (f *fakeNotifier) NotifyPlayerEliminated(_ context.Context, _ *models.GameDate, _ *models.Elimination) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.eliminations++
	return nil
}

func (f *fakeNotifier) NotifyWinnerDeclared(_ context.Context, _ *models.GameDate, _ *models.Elimination) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.winners++
	return nil
}

func (f *fakeNotifier) NotifyGameDateUpdated(_ context.Context, _ *models.GameDate) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.gameDates++
	return nil
}

func (f *fakeNotifier) NotifyTournamentUpdated(_ context.Context, _ *models.Tournament) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.tournaments++
	return nil
}
