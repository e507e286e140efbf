package authn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/repository"
	"github.com/CameronXie/digital-diner/internal/validation"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

var _ Authenticator = (*Service)(nil)

// Recorder observes signup and login outcomes.
type Recorder interface {
	AuthAttempt(operation, outcome string)
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate changes profile fields. Empty fields are left unchanged. The password
// changes only when both CurrentPassword and NewPassword are given.
type ProfileUpdate struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=6"`
}

// Session is a signed-in user and their token.
type Session struct {
	User  *domain.User
	Token string
}

// Service implements signup, login and profile changes over a UserStore.
type Service struct {
	users    UserStore
	tokens   *TokenIssuer
	recorder Recorder
	logger   *slog.Logger
}

// NewService creates a new Service instance
func NewService(users UserStore, tokens *TokenIssuer, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
	}
}

// Signup registers a customer account and signs it in. A taken email yields *repository.ConflictError.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := validation.Validate(req); err != nil {
		s.recorder.AuthAttempt("signup", "invalid_input")
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		s.recorder.AuthAttempt("signup", "conflict")
		return nil, &repository.ConflictError{Resource: "user", Key: "email", Value: req.Email}
	}
	var notFoundErr *repository.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleCustomer,
		PasswordHash: hash,
	}

	// The unique index still guards against a concurrent signup with the same email.
	if err := s.users.CreateUser(ctx, user); err != nil {
		var conflictErr *repository.ConflictError
		if errors.As(err, &conflictErr) {
			s.recorder.AuthAttempt("signup", "conflict")
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.recorder.AuthAttempt("signup", "success")
	s.logger.InfoContext(ctx, "user_signed_up", "user_id", user.ID)

	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)

	if err := validation.Validate(req); err != nil {
		s.recorder.AuthAttempt("login", "invalid_input")
		return nil, err
	}

	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.recorder.AuthAttempt("login", "invalid_credentials")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.recorder.AuthAttempt("login", "success")
	s.logger.InfoContext(ctx, "user_logged_in", "user_id", user.ID)

	return &Session{User: user, Token: token}, nil
}

// Authenticate returns the user owning email when password matches its hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile applies update to the user with id and returns the stored user.
func (s *Service) UpdateProfile(ctx context.Context, id string, update *ProfileUpdate) (*domain.User, error) {
	update.Email = normalizeEmail(update.Email)

	if err := validation.Validate(update); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if phone := strings.TrimSpace(update.Phone); phone != "" {
		user.Phone = phone
	}

	if update.CurrentPassword != "" && update.NewPassword != "" {
		ok, err := CheckPassword(user.PasswordHash, update.CurrentPassword)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrIncorrectPassword
		}

		if user.PasswordHash, err = HashPassword(update.NewPassword); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user_updated", "user_id", user.ID)

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
