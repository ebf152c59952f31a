package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/salillakra/e-summit26-sub001/handlers"
	"github.com/salillakra/e-summit26-sub001/middleware"
	"github.com/salillakra/e-summit26-sub001/models"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	allowedOrigins []string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	registrationHandler *handlers.RegistrationHandler,
	eventHandler *handlers.EventHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	chatHandler *handlers.ChatHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Public reads: event catalogue and leaderboards.
	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{eventID}", eventHandler.GetEventByID)
		r.Get("/{eventID}/leaderboard", leaderboardHandler.GetLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/{eventID}/team", teamHandler.GetTeamForEvent)
			r.Post("/{eventID}/register", registrationHandler.RegisterTeamForEvent)
			r.Get("/{eventID}/chat", chatHandler.Connect)
			r.Get("/{eventID}/chat/history", chatHandler.GetHistory)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/", teamHandler.CreateTeam)
		r.Post("/join", teamHandler.JoinByCode)
		r.Post("/{teamID}/members/{userID}/approve", teamHandler.ApproveMember)
		r.Delete("/{teamID}", teamHandler.DeleteTeam)
	})

	router.Route("/uploads", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/submissions", registrationHandler.UploadSubmissionAsset)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireRole(models.RoleAdmin))

		r.Get("/stats", adminHandler.GetDashboardStats)
		r.Get("/users", adminHandler.ListUsers)
		r.Get("/events/{eventID}/registrations", adminHandler.ListEventRegistrations)
		r.Post("/events", adminHandler.CreateEvent)
		r.Put("/events/{eventID}", adminHandler.UpdateEvent)
		r.Delete("/events/{eventID}", adminHandler.DeleteEvent)
		r.Post("/results", adminHandler.DeclareResult)
	})
}
