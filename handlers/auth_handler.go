package handlers

import (
	"net/http"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// LoginHandler handles POST /auth/login.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if err := readJSON(w, r, &credentials); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), credentials)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": result.Token, "player": result.Player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
