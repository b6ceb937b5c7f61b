package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jaekwang-park/task-tracker/internal/middleware"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

// TodoHandler routes /todo/ and /todo/{id}.
type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/todo")
	rest = strings.Trim(rest, "/")

	// /todo/{id}
	if rest != "" {
		todoID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid todo id")
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, todoID)
		case http.MethodPatch:
			h.handlePatch(w, r, todoID)
		case http.MethodDelete:
			h.handleDelete(w, r, todoID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTodoRequest struct {
	CategoryID  int64   `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := h.svc.Create(r.Context(), userID, service.CreateTodoInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	query := r.URL.Query()

	input := service.ListTodosInput{
		Ordering: query.Get("ordering"),
	}

	categoryID, err := strconv.ParseInt(query.Get("category_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid category_id")
		return
	}
	input.CategoryID = categoryID

	if input.Page, err = parsePositiveParam(query.Get("page")); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "page must be a positive integer")
		return
	}
	if input.Limit, err = parsePositiveParam(query.Get("limit")); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "limit must be a positive integer")
		return
	}

	if status := query.Get("status"); status != "" {
		input.Status = &status
	}

	todos, err := h.svc.List(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request, todoID int64) {
	userID := middleware.GetUserID(r)

	todo, err := h.svc.Get(r.Context(), userID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type updateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (h *TodoHandler) handlePatch(w http.ResponseWriter, r *http.Request, todoID int64) {
	userID := middleware.GetUserID(r)

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := h.svc.Patch(r.Context(), userID, todoID, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, todoID int64) {
	userID := middleware.GetUserID(r)

	todo, err := h.svc.Delete(r.Context(), userID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

// parsePositiveParam treats an absent parameter as zero, leaving defaulting
// to the service; an explicit value must be a positive integer.
func parsePositiveParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("value must be >= 1")
	}
	return v, nil
}
