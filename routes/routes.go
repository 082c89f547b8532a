package routes

import (
	"net/http"

	_ "github.com/Dosada05/scoremaster/docs" // swagger spec
	"github.com/Dosada05/scoremaster/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	State      *handlers.StateHandler
	Game       *handlers.GameHandler
	Player     *handlers.PlayerHandler
	Session    *handlers.SessionHandler
	History    *handlers.HistoryHandler
	Tournament *handlers.TournamentHandler
	Auth       *handlers.AuthHandler
	WebSocket  *handlers.WebSocketHandler
}

// SetupRoutes mounts the API. Reads are public; writes go through
// requireAuth when it is not nil.
func SetupRoutes(router *chi.Mux, h Handlers, requireAuth func(http.Handler) http.Handler, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if requireAuth == nil {
		requireAuth = func(next http.Handler) http.Handler { return next }
	}

	router.Get("/healthz", h.State.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", h.State.GetState)
		r.Get("/ws", h.WebSocket.ServeWs)
		r.Post("/auth/token", h.Auth.IssueToken)

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.Game.ListGames)
			r.Get("/{gameID}", h.Game.GetGame)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.Game.CreateGame)
				r.Put("/order", h.Game.ReorderGames)
				r.Patch("/{gameID}", h.Game.UpdateGame)
				r.Delete("/{gameID}", h.Game.DeleteGame)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.ListPlayers)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.Player.CreatePlayer)
				r.Patch("/{playerID}", h.Player.UpdatePlayer)
				r.Delete("/{playerID}", h.Player.DeletePlayer)
			})
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.Session.GetSession)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.Session.StartSession)
				r.Delete("/", h.Session.QuitSession)
				r.Post("/scores", h.Session.SubmitScore)
				r.Post("/advance", h.Session.AdvanceRound)
				r.Post("/finish", h.Session.FinishSession)
			})
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History.ListHistory)
			r.Get("/{sessionID}", h.History.GetHistorySession)
			r.With(requireAuth).Delete("/{sessionID}", h.History.DeleteHistorySession)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListTournaments)
			r.Get("/{tournamentID}", h.Tournament.GetTournament)
			r.Get("/{tournamentID}/standings", h.Tournament.GetStandings)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.Tournament.CreateTournament)
				r.Post("/{tournamentID}/sessions", h.Tournament.LinkSession)
				r.Post("/{tournamentID}/finish", h.Tournament.FinishTournament)
				r.Delete("/{tournamentID}", h.Tournament.DeleteTournament)
			})
		})

		r.With(requireAuth).Post("/preferences/dark-mode", h.State.ToggleDarkMode)
	})
}
