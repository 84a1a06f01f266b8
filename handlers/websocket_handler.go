package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lamesa/poker-league/live"
	"github.com/lamesa/poker-league/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the separately hosted frontend.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeTournamentWS handles GET /ws/tournaments/{tournamentID}, streaming
// standings and game date events for the tournament.
func (h *WebSocketHandler) ServeTournamentWS(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, services.TournamentRoom(tournamentID))
}

// ServeGameDateWS handles GET /ws/game-dates/{gameDateID}, streaming
// elimination events for a single game date.
func (h *WebSocketHandler) ServeGameDateWS(w http.ResponseWriter, r *http.Request) {
	gameDateID, err := getIDFromURL(r, "gameDateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, services.GameDateRoom(gameDateID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}
	live.NewClient(h.hub, conn, room).Start()
}
