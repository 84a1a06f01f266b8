package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/lamesa/poker-league/handlers"
	"github.com/lamesa/poker-league/middleware"
	"github.com/lamesa/poker-league/models"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Player      *handlers.PlayerHandler
	Tournament  *handlers.TournamentHandler
	GameDate    *handlers.GameDateHandler
	Elimination *handlers.EliminationHandler
	Ranking     *handlers.RankingHandler
	Stats       *handlers.StatsHandler
	WebSocket   *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	operatorOnly := middleware.Authorize(string(models.RoleAdmin), string(models.RoleOperator))
	adminOnly := middleware.Authorize(string(models.RoleAdmin))

	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.ListHandler)
		r.Get("/{playerID}", h.Player.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", h.Player.CreateHandler)
			r.Patch("/{playerID}", h.Player.UpdateHandler)
			r.Put("/{playerID}/pin", h.Player.SetPinHandler)
			r.Post("/{playerID}/photo", h.Player.UploadPhotoHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/game-dates", h.GameDate.ListByTournamentHandler)
		r.Get("/{tournamentID}/ranking", h.Ranking.GetTournamentRankingHandler)
		r.Get("/{tournamentID}/ranking/players/{playerID}", h.Ranking.GetPlayerDetailHandler)
		r.Get("/{tournamentID}/stats", h.Stats.GetTournamentStatsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(operatorOnly)

			r.Post("/", h.Tournament.CreateHandler)
			r.Patch("/{tournamentID}/status", h.Tournament.UpdateStatusHandler)
			r.Post("/{tournamentID}/players", h.Tournament.RegisterPlayerHandler)
			r.Post("/{tournamentID}/game-dates", h.GameDate.ScheduleHandler)
		})
	})

	router.Route("/game-dates", func(r chi.Router) {
		r.Get("/{gameDateID}", h.GameDate.GetByIDHandler)
		r.Get("/{gameDateID}/eliminations", h.Elimination.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(operatorOnly)

			r.Put("/{gameDateID}/roster", h.GameDate.SetRosterHandler)
			r.Post("/{gameDateID}/start", h.GameDate.StartHandler)
			r.Post("/{gameDateID}/cancel", h.GameDate.CancelHandler)
			r.Post("/{gameDateID}/eliminations", h.Elimination.RegisterHandler)
		})
	})

	router.Route("/eliminations", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(operatorOnly)

		r.Patch("/{eliminationID}", h.Elimination.UpdateHandler)
		r.Delete("/{eliminationID}", h.Elimination.DeleteHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeTournamentWS)
	router.Get("/ws/game-dates/{gameDateID}", h.WebSocket.ServeGameDateWS)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	return router
}
