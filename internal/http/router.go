package http

import (
	"net/http"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/http/handler"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

// NewRouter wires the entry-point routes. Identity enforcement lives in the
// session middleware applied by the server, not here.
func NewRouter(
	authSvc *service.AuthService,
	categorySvc *service.CategoryService,
	todoSvc *service.TodoService,
	cookieName string,
	cookieTTL time.Duration,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handler.NewHealthHandler())

	authHandler := handler.NewAuthHandler(authSvc, cookieName, cookieTTL)
	mux.Handle("/auth/", authHandler)

	categoryHandler := handler.NewCategoryHandler(categorySvc)
	mux.Handle("/category/", categoryHandler)

	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/todo/", todoHandler)

	return mux
}
