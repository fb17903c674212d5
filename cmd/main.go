// @title Daily Diet API
// @version 1.0
// @description Backend for tracking meals and diet adherence with cookie sessions

// @host localhost:8080
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	_ "dailydiet/docs" // This is required for swagger
	"dailydiet/internal/config"
	"dailydiet/internal/handlers"
	"dailydiet/internal/middleware"
	"dailydiet/internal/routes"
	"dailydiet/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	// Apply schema migrations before serving
	if err := storage.Migrate(cfg.GetDSN()); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	// Set up the connection pool
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("parse dsn")
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "dailydiet-backend"
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("ping database")
		}
	}

	store := storage.NewPostgres(pool)

	// Initialize handlers and middleware
	usersHandler := handlers.NewUsersHandler(store, &cfg.Session, logger)
	mealsHandler := handlers.NewMealsHandler(store, logger)
	healthHandler := handlers.NewHealthHandler(store)
	guard := middleware.NewSessionGuard(store, &cfg.Session, logger)

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, usersHandler, mealsHandler, healthHandler, guard)

	// CORS and request logging around the whole mux
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	handler := c.Handler(middleware.RequestLogger(logger)(mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for SIGINT, then shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	logger.Info().Msg("server stopped")
}
