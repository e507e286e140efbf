package rest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CameronXie/digital-diner/internal/api/rest/handlers"
	"github.com/CameronXie/digital-diner/internal/api/rest/middlewares"
	"github.com/CameronXie/digital-diner/internal/api/rest/response"
)

// rejectAll stands in for authentication and records that it ran.
type rejectAll struct {
	calls int
}

func (m *rejectAll) Handle(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		m.calls++
		response.JSONErrorResponse(w, http.StatusUnauthorized, "not authorized, no token")
	})
}

type passThrough struct{}

func (passThrough) Handle(next http.Handler) http.Handler { return next }

func newTestRouter(auth middlewares.Middleware, rateLimit int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRouter(&RouterConfig{
		AuthHandler:              handlers.NewAuthHandler(nil, logger),
		MenuHandler:              handlers.NewMenuHandler(nil, logger),
		OrderHandler:             handlers.NewOrderHandler(nil, logger),
		UserHandler:              handlers.NewUserHandler(nil, nil, nil, logger),
		AuthenticationMiddleware: auth,
		AuthorizationMiddleware:  passThrough{},
		RequestObserver:          passThrough{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		CORSOrigins:         []string{"http://localhost:3000", "https://*.netlify.app"},
		AuthRateLimit:       rateLimit,
		AuthRateLimitWindow: time.Minute,
	})
}

func TestNewRouter_PublicRoutes(t *testing.T) {
	cases := map[string]struct {
		path           string
		expectedStatus int
		expectedBody   string
	}{
		"should report api running": {
			path:           "/",
			expectedStatus: http.StatusOK,
			expectedBody:   "Digital Diner API is running",
		},
		"should report healthy": {
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectedBody:   "{\"status\":\"healthy\"}\n",
		},
		"should expose metrics": {
			path:           "/metrics",
			expectedStatus: http.StatusOK,
			expectedBody:   "# metrics",
		},
	}

	router := newTestRouter(passThrough{}, 0)

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedBody, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get(middlewares.RequestIDHeader))
		})
	}
}

func TestNewRouter_ProtectedRoutes(t *testing.T) {
	cases := map[string]struct {
		method string
		path   string
	}{
		"should protect menu creation":      {http.MethodPost, "/api/menu"},
		"should protect menu update":        {http.MethodPut, "/api/menu/item/65f1c0ffee0000000000aaaa"},
		"should protect menu deletion":      {http.MethodDelete, "/api/menu/item/65f1c0ffee0000000000aaaa"},
		"should protect order status":       {http.MethodPut, "/api/orders/7/status"},
		"should protect user profile":       {http.MethodGet, "/api/users/65f1c0ffee0000000000abcd"},
		"should protect user profile edit":  {http.MethodPut, "/api/users/65f1c0ffee0000000000abcd"},
		"should protect listing every user": {http.MethodGet, "/api/users"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			auth := new(rejectAll)
			rr := httptest.NewRecorder()
			newTestRouter(auth, 0).ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}")))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, 1, auth.calls)
		})
	}
}

func TestNewRouter_CORS(t *testing.T) {
	cases := map[string]struct {
		origin        string
		expectAllowed bool
	}{
		"should allow local frontend":       {origin: "http://localhost:3000", expectAllowed: true},
		"should allow netlify preview":      {origin: "https://digital-diner.netlify.app", expectAllowed: true},
		"should not allow unknown frontend": {origin: "https://evil.example.com"},
	}

	router := newTestRouter(passThrough{}, 0)

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/orders", http.NoBody)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if tc.expectAllowed {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestNewRouter_AuthRateLimit(t *testing.T) {
	router := newTestRouter(passThrough{}, 2)

	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		req.RemoteAddr = "203.0.113.7:51000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}
