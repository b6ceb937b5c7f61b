package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jaekwang-park/task-tracker/internal/service"
)

const maxAuthBodySize = 1 << 20 // 1 MB

// AuthHandler routes /auth/* requests: signup, signin and user lookup.
// Signin sets the session cookie the auth middleware consumes.
type AuthHandler struct {
	svc        *service.AuthService
	cookieName string
	cookieTTL  time.Duration
}

func NewAuthHandler(svc *service.AuthService, cookieName string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, cookieName: cookieName, cookieTTL: cookieTTL}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/auth/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "signup":
		h.requirePost(w, r, h.handleSignup)
	case "signin":
		h.requirePost(w, r, h.handleSignin)
	case "user":
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleGetUser(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *AuthHandler) requirePost(w http.ResponseWriter, r *http.Request, handler func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
	handler(w, r)
}

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	TMI      string `json:"tmi"`
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		TMI:      req.TMI,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, token, err := h.svc.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	user, err := h.svc.GetUser(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
