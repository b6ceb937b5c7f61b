package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/jaekwang-park/task-tracker/internal/auth"
	"github.com/jaekwang-park/task-tracker/internal/config"
	apihttp "github.com/jaekwang-park/task-tracker/internal/http"
	"github.com/jaekwang-park/task-tracker/internal/middleware"
	"github.com/jaekwang-park/task-tracker/internal/repository"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

// userResolverAdapter adapts the auth service to the middleware.UserResolver
// interface, collapsing every identity failure into ErrInvalidSession.
type userResolverAdapter struct {
	svc *service.AuthService
}

func (a *userResolverAdapter) ResolveUserID(ctx context.Context, token string) (int64, error) {
	user, err := a.svc.ResolveToken(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return 0, middleware.ErrInvalidSession
		}
		return 0, err
	}
	return user.ID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"store", cfg.StoreDriver,
		"log_level", cfg.LogLevel,
	)

	// Repositories
	var (
		userRepo     repository.UserRepository
		categoryRepo repository.CategoryRepository
		todoRepo     repository.TodoRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := repository.NewMemoryStore()
		userRepo = store
		categoryRepo = store
		todoRepo = store.Todos()
		logger.Warn("using in-memory store: data is lost on restart")
	default:
		db, err := repository.NewDB(cfg.DB.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("database connected")

		userRepo = repository.NewPostgresUser(db)
		categoryRepo = repository.NewPostgresCategory(db)
		todoRepo = repository.NewPostgresTodo(db)
	}

	// Services
	signer := auth.NewTokenSigner(cfg.Session.Secret, cfg.Session.TTL)
	authSvc := service.NewAuthService(userRepo, signer)
	categorySvc := service.NewCategoryService(categoryRepo)
	todoSvc := service.NewTodoService(todoRepo, categoryRepo)

	// Session middleware
	session := middleware.NewSessionAuth(
		&userResolverAdapter{svc: authSvc},
		cfg.Session.CookieName,
	)

	// HTTP server
	srv := apihttp.NewServer(
		cfg.ServerPort, logger,
		authSvc, categorySvc, todoSvc,
		session, cfg.Session.CookieName, cfg.Session.TTL,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
