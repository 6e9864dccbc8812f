package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/padel-club/handlers"
	"github.com/Dosada05/padel-club/middleware"
	"github.com/Dosada05/padel-club/models"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	courtHandler *handlers.CourtHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	tournamentHandler *handlers.TournamentHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// Аутентификация и онбординг
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/confirm", authHandler.ConfirmEmail)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	// Профиль
	router.Route("/users", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/{id}", userHandler.GetUserByID)
		r.Put("/{id}", userHandler.UpdateUserByID)
		r.Post("/{id}/avatar", userHandler.UploadAvatar)
	})

	// Корты: просмотр публичный, управление только для админов
	router.Route("/courts", func(r chi.Router) {
		r.With(auth.AuthenticateOptional).Get("/", courtHandler.ListCourts)
		r.Get("/{courtID}", courtHandler.GetCourtByID)
		r.Get("/{courtID}/availability", availabilityHandler.GetCourtAvailability)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(string(models.RoleAdmin)))

			r.Post("/", courtHandler.CreateCourt)
			r.Put("/{courtID}", courtHandler.UpdateCourt)
			r.Delete("/{courtID}", courtHandler.DeactivateCourt)
			r.Post("/{courtID}/photo", courtHandler.UploadCourtPhoto)
		})
	})

	router.Get("/availability", availabilityHandler.GetClubAvailability)

	// Бронирования: всё за аутентификацией
	router.Route("/bookings", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/my", bookingHandler.ListMyBookings)
		r.Get("/{bookingID}", bookingHandler.GetBookingByID)
		r.Put("/{bookingID}", bookingHandler.RescheduleBooking)
		r.Delete("/{bookingID}", bookingHandler.CancelBooking)
	})

	// Турниры
	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentByID)
		r.Get("/{tournamentID}/participants", tournamentHandler.ListParticipants)
		r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)
		r.Get("/{tournamentID}/standings", tournamentHandler.ListStandings)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/{tournamentID}/register", tournamentHandler.RegisterParticipant)
			r.Delete("/{tournamentID}/register", tournamentHandler.WithdrawParticipant)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(string(models.RoleAdmin)))

			r.Post("/", tournamentHandler.CreateTournament)
			r.Put("/{tournamentID}", tournamentHandler.UpdateTournament)
			r.Patch("/{tournamentID}/status", tournamentHandler.ChangeTournamentStatus)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.Authorize(string(models.RoleAdmin)))
		r.Post("/matches/{matchID}/result", tournamentHandler.RecordMatchResult)
	})

	// Главный экран
	router.Get("/dashboard", dashboardHandler.GetDashboard)

	// WebSocket-подписки
	router.Get("/ws/courts/{courtID}", webSocketHandler.ServeCourtWs)
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournamentWs)
}
