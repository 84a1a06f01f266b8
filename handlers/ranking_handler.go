package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lamesa/poker-league/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// GetTournamentRankingHandler handles GET /tournaments/{tournamentID}/ranking.
// The optional as_of query parameter replays the standings as they stood
// after that date number.
func (h *RankingHandler) GetTournamentRankingHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	asOf := 0
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		asOf, err = strconv.Atoi(asOfStr)
		if err != nil || asOf < 1 {
			badRequestResponse(w, r, errors.New("invalid as_of query parameter"))
			return
		}
	}

	rows, err := h.rankingService.GetTournamentRanking(r.Context(), tournamentID, asOf)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayerDetailHandler handles GET /tournaments/{tournamentID}/ranking/players/{playerID}.
func (h *RankingHandler) GetPlayerDetailHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.rankingService.GetPlayerRankingDetail(r.Context(), tournamentID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"detail": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
