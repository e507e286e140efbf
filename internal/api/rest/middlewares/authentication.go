package middlewares

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/keyfetcher"
)

const (
	BearerPrefix = "bearer"

	authHeaderMissingMessage       = "not authorized, no token"
	invalidAuthHeaderFormatMessage = "invalid authorization header format"
	invalidTokenMessage            = "not authorized, token failed"
	internalServerErrorMessage     = "internal server error"
)

// JWTConfig holds configuration for JWT authentication middleware
type JWTConfig struct {
	KeyFetcher keyfetcher.PublicKeyFetcher
	Issuer     string
	Audience   string
	ClockSkew  time.Duration // Tolerance for iat and nbf only. Zero means none.
	Logger     *slog.Logger
}

// JWTAuthMiddleware verifies the bearer token and puts its subject on the request context.
type JWTAuthMiddleware struct {
	keyFetcher keyfetcher.PublicKeyFetcher
	parser     *jwt.Parser
	clockSkew  time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewJWTAuthMiddleware creates a new JWT authentication middleware
func NewJWTAuthMiddleware(config JWTConfig) *JWTAuthMiddleware {
	clockSkew := max(config.ClockSkew, 0)

	return &JWTAuthMiddleware{
		keyFetcher: config.KeyFetcher,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(config.Issuer),
			jwt.WithAudience(config.Audience),
			jwt.WithLeeway(clockSkew),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
		clockSkew: clockSkew,
		logger:    config.Logger,
		now:       time.Now,
	}
}

// Handle rejects requests without a valid bearer token with 401.
func (m *JWTAuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractBearerToken(r)
		if err != nil {
			message := invalidAuthHeaderFormatMessage
			if errors.Is(err, errMissingAuthHeader) {
				message = authHeaderMissingMessage
			}
			response.JSONErrorResponse(w, http.StatusUnauthorized, message)
			return
		}

		key, err := m.keyFetcher.FetchPublicKey()
		if err != nil {
			m.logger.ErrorContext(r.Context(), "public_key_fetch_failed", "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
			return
		}

		userID, err := m.subject(tokenString, key)
		if err != nil {
			m.logger.WarnContext(r.Context(), "token_rejected", "error", err)
			response.JSONErrorResponse(w, http.StatusUnauthorized, invalidTokenMessage)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// subject verifies the token signature and registered claims and returns its subject.
func (m *JWTAuthMiddleware) subject(tokenString string, key any) (string, error) {
	claims := new(jwt.RegisteredClaims)
	token, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	// The parser leeway also stretches exp, so expiry is checked again without it.
	if !m.now().Before(claims.ExpiresAt.Time) {
		return "", jwt.ErrTokenExpired
	}

	if claims.Subject == "" {
		return "", errors.New("missing subject claim")
	}

	return claims.Subject, nil
}

var errMissingAuthHeader = errors.New("missing authorization header")

// extractBearerToken extracts JWT token from Authorization header
func extractBearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errMissingAuthHeader
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerPrefix) || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization format")
	}

	return strings.TrimSpace(parts[1]), nil
}

// UserIDFromContext returns the authenticated user id set by JWTAuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
