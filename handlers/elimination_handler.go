package handlers

import (
	"net/http"

	"github.com/lamesa/poker-league/services"
)

type EliminationHandler struct {
	eliminationService services.EliminationService
}

func NewEliminationHandler(es services.EliminationService) *EliminationHandler {
	return &EliminationHandler{eliminationService: es}
}

// RegisterHandler handles POST /game-dates/{gameDateID}/eliminations.
func (h *EliminationHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	gameDateID, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterEliminationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameDateID = gameDateID

	elimination, err := h.eliminationService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"elimination": elimination}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /game-dates/{gameDateID}/eliminations, ordered by
// position descending (first out first).
func (h *EliminationHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	gameDateID, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	eliminations, err := h.eliminationService.ListByGameDate(r.Context(), gameDateID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"eliminations": eliminations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PATCH /eliminations/{eliminationID}. Only player
// references may change, never position or points.
func (h *EliminationHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eliminationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateEliminationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	elimination, err := h.eliminationService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"elimination": elimination}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /eliminations/{eliminationID}.
func (h *EliminationHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eliminationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eliminationService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
