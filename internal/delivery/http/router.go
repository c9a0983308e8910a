package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"studysync/internal/delivery/http/controllers"
	"studysync/internal/delivery/http/middleware"
	"studysync/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login, and swagger requires a Bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	sessionController *controllers.SessionController,
	analyticsController *controllers.AnalyticsController,
	userController *controllers.UserController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", authController.SignUp)
	mux.HandleFunc("POST /api/auth/login", authController.Login)
	mux.HandleFunc("GET /api/auth/me", auth(authController.Me))

	// Sessions
	mux.HandleFunc("GET /api/sessions", auth(sessionController.ListSessions))
	mux.HandleFunc("POST /api/sessions", auth(sessionController.CreateSession))
	mux.HandleFunc("GET /api/sessions/user", auth(sessionController.ListMySessions))
	mux.HandleFunc("GET /api/sessions/{sessionID}", auth(sessionController.GetSession))
	mux.HandleFunc("POST /api/sessions/{sessionID}/timeslots", auth(sessionController.ProposeTimeSlot))
	mux.HandleFunc("POST /api/sessions/{sessionID}/timeslots/{slotID}/vote", auth(sessionController.VoteForTimeSlot))
	mux.HandleFunc("POST /api/sessions/{sessionID}/timeslots/{slotID}/finalize", auth(sessionController.FinalizeTimeSlot))
	mux.HandleFunc("POST /api/sessions/{sessionID}/resources", auth(sessionController.AddResource))
	mux.HandleFunc("POST /api/sessions/{sessionID}/feedback", auth(sessionController.SubmitFeedback))

	// Analytics
	mux.HandleFunc("GET /api/analytics", auth(analyticsController.GetAnalytics))

	// Users
	mux.HandleFunc("GET /api/users", auth(userController.ListUsers))
	mux.HandleFunc("GET /api/users/{userID}", auth(userController.GetUser))
	mux.HandleFunc("GET /api/users/search/{email}", auth(userController.SearchUsers))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
