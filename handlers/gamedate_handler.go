package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/lamesa/poker-league/services"
)

type GameDateHandler struct {
	gameDateService services.GameDateService
}

func NewGameDateHandler(gs services.GameDateService) *GameDateHandler {
	return &GameDateHandler{gameDateService: gs}
}

// ScheduleHandler handles POST /tournaments/{tournamentID}/game-dates.
func (h *GameDateHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		DateNumber    int       `json:"date_number"`
		ScheduledDate time.Time `json:"scheduled_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScheduledDate.IsZero() {
		badRequestResponse(w, r, errors.New("scheduled_date is required"))
		return
	}

	gameDate, err := h.gameDateService.Schedule(r.Context(), tournamentID, input.DateNumber, input.ScheduledDate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game_date": gameDate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /game-dates/{gameDateID}.
func (h *GameDateHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameDate, err := h.gameDateService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_date": gameDate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournamentHandler handles GET /tournaments/{tournamentID}/game-dates.
func (h *GameDateHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameDates, err := h.gameDateService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_dates": gameDates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetRosterHandler handles PUT /game-dates/{gameDateID}/roster.
func (h *GameDateHandler) SetRosterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SetRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameDate, err := h.gameDateService.SetRoster(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_date": gameDate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /game-dates/{gameDateID}/start.
func (h *GameDateHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameDate, err := h.gameDateService.Start(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_date": gameDate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler handles POST /game-dates/{gameDateID}/cancel.
func (h *GameDateHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameDate, err := h.gameDateService.Cancel(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_date": gameDate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
