package routes

import (
	"log/slog"
	"time"

	_ "github.com/Dosada05/tournament-engine/docs"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger         *slog.Logger
	Authenticator  *middleware.Authenticator
	AllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthHandler.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket connections are long-lived and skip the request timeout.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
			r.Get("/{tournamentID}/bracket", tournamentHandler.GetBracketHandler)
			r.Get("/{tournamentID}/leaderboard", tournamentHandler.GetLeaderboardHandler)

			r.Group(func(r chi.Router) {
				r.Use(opts.Authenticator.Authenticate)

				r.Post("/", tournamentHandler.CreateHandler)
				r.Post("/{tournamentID}/start", tournamentHandler.StartHandler)
				r.Post("/{tournamentID}/cancel", tournamentHandler.CancelHandler)

				r.Post("/{tournamentID}/registrations", participantHandler.Register)
				r.Delete("/{tournamentID}/registrations", participantHandler.Unregister)

				r.Post("/{tournamentID}/matches/{matchID}/start", matchHandler.StartMatch)
				r.Post("/{tournamentID}/matches/{matchID}/result", matchHandler.SubmitResult)
			})
		})
	})
}
