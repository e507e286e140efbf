package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/digital-diner/internal/api/rest/middlewares"
	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/authn"
	"github.com/CameronXie/digital-diner/internal/domain"
)

// UserDirectory reads user accounts.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ProfileService changes a user's own profile.
type ProfileService interface {
	UpdateProfile(ctx context.Context, id string, update *authn.ProfileUpdate) (*domain.User, error)
}

// OrderHistory returns the newest orders of a user.
type OrderHistory interface {
	RecentOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// RecentOrder is an order header shown on a user profile.
type RecentOrder struct {
	ID          int64              `json:"id"`
	OrderDate   time.Time          `json:"order_date"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      domain.OrderStatus `json:"status"`
}

// ProfileResponse is the body of GET /users/{id}.
type ProfileResponse struct {
	User         UserSummary   `json:"user"`
	RecentOrders []RecentOrder `json:"recentOrders"`
}

// UserUpdatedResponse is the body of PUT /users/{id}.
type UserUpdatedResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// UserHandler serves user profiles. Users may only read and change their own profile.
type UserHandler struct {
	users    UserDirectory
	profiles ProfileService
	orders   OrderHistory
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users UserDirectory, profiles ProfileService, orders OrderHistory, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		profiles: profiles,
		orders:   orders,
		logger:   logger,
	}
}

// GetProfile handles GET /users/{id}. The user and their recent orders are loaded concurrently.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}

	var (
		user   *domain.User
		orders []domain.Order
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		user, err = h.users.GetUserByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = h.orders.RecentOrdersForUser(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	recent := make([]RecentOrder, 0, len(orders))
	for _, o := range orders {
		recent = append(recent, RecentOrder{
			ID:          o.ID,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
		})
	}

	response.JSONResponse(w, http.StatusOK, ProfileResponse{User: summarize(user), RecentOrders: recent})
}

// UpdateProfile handles PUT /users/{id}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.self(w, r)
	if !ok {
		return
	}

	var req authn.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, UserUpdatedResponse{
		Message: "User updated successfully",
		User:    summarize(user),
	})
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	response.JSONResponse(w, http.StatusOK, users)
}

// self returns the {id} path parameter when it names the authenticated user and answers 403 otherwise.
func (h *UserHandler) self(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")

	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok || userID != id {
		h.logger.InfoContext(r.Context(), "profile_access_denied", "user_id", userID, "target_id", id)
		response.JSONErrorResponse(w, http.StatusForbidden, notAuthorizedMessage)
		return "", false
	}

	return id, true
}
