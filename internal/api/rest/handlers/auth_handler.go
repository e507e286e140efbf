package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/authn"
	"github.com/CameronXie/digital-diner/internal/domain"
)

// AuthService registers and signs in users.
type AuthService interface {
	Signup(ctx context.Context, req *authn.SignupRequest) (*authn.Session, error)
	Login(ctx context.Context, req *authn.LoginRequest) (*authn.Session, error)
}

// UserSummary is the public view of a user returned by auth and profile endpoints.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func summarize(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
	Token   string      `json:"token"`
}

// AuthHandler serves POST /auth/signup and POST /auth/login.
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req authn.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	session, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusCreated, SessionResponse{
		Message: "User registered successfully",
		User:    summarize(session.User),
		Token:   session.Token,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authn.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, SessionResponse{
		Message: "Login successful",
		User:    summarize(session.User),
		Token:   session.Token,
	})
}
