package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/middleware"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(
	port string,
	logger *slog.Logger,
	authSvc *service.AuthService,
	categorySvc *service.CategoryService,
	todoSvc *service.TodoService,
	session *middleware.SessionAuth,
	cookieName string,
	cookieTTL time.Duration,
) *Server {
	router := NewRouter(authSvc, categorySvc, todoSvc, cookieName, cookieTTL)

	// Middleware chain: recovery -> logging -> session auth -> router
	chain := middleware.Recovery(logger)(
		middleware.Logging(logger)(
			session.Middleware(router),
		),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
