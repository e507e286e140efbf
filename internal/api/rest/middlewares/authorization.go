package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/enforcer"
)

const forbiddenMessage = "forbidden"

// DecisionRecorder observes authorization outcomes.
type DecisionRecorder interface {
	AuthzDecision(allowed bool)
}

// AuthorizationMiddleware asks the enforcer whether the authenticated user may call the route.
// It must run after JWTAuthMiddleware.
type AuthorizationMiddleware struct {
	enforcer enforcer.Enforcer
	recorder DecisionRecorder
	logger   *slog.Logger
}

// Handle answers 403 when the policy denies the request or cannot be evaluated.
func (m *AuthorizationMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			response.JSONErrorResponse(w, http.StatusUnauthorized, authHeaderMissingMessage)
			return
		}

		allowed, err := m.enforcer.Enforce(
			r.Context(),
			&enforcer.AccessRequest{
				Subject:  userID,
				Resource: resourcePath(r),
				Action:   r.Method,
			},
		)
		m.recorder.AuthzDecision(err == nil && allowed)

		if err != nil {
			m.logger.ErrorContext(r.Context(), "policy_enforcement_failed", "user_id", userID, "error", err)
			response.JSONErrorResponse(w, http.StatusForbidden, forbiddenMessage)
			return
		}

		if !allowed {
			m.logger.InfoContext(
				r.Context(),
				"access_denied",
				"user_id", userID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.JSONErrorResponse(w, http.StatusForbidden, forbiddenMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resourcePath is the request path without a trailing slash, the form chi routes and policies use.
func resourcePath(r *http.Request) string {
	if len(r.URL.Path) > 1 {
		return strings.TrimSuffix(r.URL.Path, "/")
	}
	return r.URL.Path
}

// NewAuthorizationMiddleware returns a Middleware that enforces access policies through e.
func NewAuthorizationMiddleware(e enforcer.Enforcer, recorder DecisionRecorder, logger *slog.Logger) Middleware {
	return &AuthorizationMiddleware{
		enforcer: e,
		recorder: recorder,
		logger:   logger,
	}
}
