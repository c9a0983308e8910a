// @title StudySync API
// @version 1.0
// @description Backend for coordinating group study sessions: propose time slots, vote, finalize, share resources, and leave feedback.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"studysync/config"
	_ "studysync/docs"
	authadapter "studysync/internal/adapters/auth"
	emailadapter "studysync/internal/adapters/email"
	delivery "studysync/internal/delivery/http"
	"studysync/internal/delivery/http/controllers"
	"studysync/internal/delivery/http/middleware"
	"studysync/internal/repository/postgres"
	"studysync/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath, logger); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	tokenExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour
	authService := services.NewAuthService(userRepo, hasher, issuer, emailService, logger, tokenExpiry, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)
	sessionService := services.NewSessionService(sessionRepo, userRepo, hasher, emailService, logger, serviceTimeout)
	analyticsService := services.NewAnalyticsService(sessionRepo, serviceTimeout)

	authController := controllers.NewAuthController(logger, authService, userService)
	sessionController := controllers.NewSessionController(logger, sessionService)
	analyticsController := controllers.NewAnalyticsController(logger, analyticsService)
	userController := controllers.NewUserController(logger, userService)

	mux := delivery.NewRouter(logger, verifier, authController, sessionController, analyticsController, userController)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, mux))

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
