package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jaekwang-park/task-tracker/internal/middleware"
	"github.com/jaekwang-park/task-tracker/internal/service"
)

// CategoryHandler routes /category/ and /category/{id}.
type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/category")
	rest = strings.Trim(rest, "/")

	// /category/{id}
	if rest != "" {
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		categoryID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid category id")
			return
		}
		h.handleGet(w, r, categoryID)
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPatch:
		h.handleRename(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	category, err := h.svc.Create(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	categories, err := h.svc.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleGet(w http.ResponseWriter, r *http.Request, categoryID int64) {
	userID := middleware.GetUserID(r)

	category, err := h.svc.Get(r.Context(), userID, categoryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

type renameCategoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *CategoryHandler) handleRename(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req renameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	category, err := h.svc.Rename(r.Context(), userID, req.ID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

type deleteCategoryRequest struct {
	ID int64 `json:"id"`
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req deleteCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	category, err := h.svc.Delete(r.Context(), userID, req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}
