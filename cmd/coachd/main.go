// Command coachd runs the fitness coaching API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/config"
	"github.com/fitstack/coachd/internal/httpapi"
	"github.com/fitstack/coachd/internal/middleware"
	"github.com/fitstack/coachd/internal/services/diets"
	"github.com/fitstack/coachd/internal/services/exercises"
	"github.com/fitstack/coachd/internal/services/routines"
	"github.com/fitstack/coachd/internal/services/users"
	"github.com/fitstack/coachd/internal/storage"
	"github.com/fitstack/coachd/internal/storage/memory"
	"github.com/fitstack/coachd/internal/storage/postgres"
	"github.com/fitstack/coachd/pkg/logger"
)

type stores struct {
	users     storage.UserStore
	routines  storage.RoutineStore
	exercises storage.ExerciseStore
	diets     storage.DietStore
	foods     storage.FoodStore
}

func main() {
	configPath := flag.String("config", "config/coachd.yaml", "path to the configuration file")
	flag.Parse()

	// Local development secrets live in .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("coachd").WithError(err).Fatal("loading configuration")
	}

	log := logger.New("coachd", cfg.LogLevel)
	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL())

	st, cleanup, err := openStores(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("opening storage")
	}
	defer cleanup()

	handler := httpapi.New(
		users.New(st.users, issuer, logger.New("users", cfg.LogLevel)),
		routines.New(st.routines, st.users, st.exercises, logger.New("routines", cfg.LogLevel)),
		exercises.New(st.exercises, logger.New("exercises", cfg.LogLevel)),
		diets.New(st.diets, st.foods, st.users, logger.New("diets", cfg.LogLevel)),
		logger.New("httpapi", cfg.LogLevel),
	)

	opts := httpapi.RouterOptions{}
	if cfg.RateLimit.RPS > 0 {
		opts.RateLimit = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Router(issuer, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown incomplete")
	}
}

func openStores(cfg config.Config, log *logger.Logger) (stores, func(), error) {
	if cfg.Database.DSN == "" {
		log.Warn("no database dsn configured, using in-memory storage")
		mem := memory.New()
		return stores{users: mem, routines: mem, exercises: mem, diets: mem, foods: mem}, func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN)
	if err != nil {
		return stores{}, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return stores{}, nil, err
	}

	pg := postgres.New(db)
	log.Info("connected to postgres")
	return stores{users: pg, routines: pg, exercises: pg, diets: pg, foods: pg}, func() { db.Close() }, nil
}
