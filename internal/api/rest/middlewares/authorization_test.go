package middlewares

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CameronXie/digital-diner/internal/enforcer"
)

type mockEnforcer struct {
	mock.Mock
}

func (m *mockEnforcer) Enforce(ctx context.Context, req *enforcer.AccessRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

type mockDecisionRecorder struct {
	decisions []bool
}

func (m *mockDecisionRecorder) AuthzDecision(allowed bool) {
	m.decisions = append(m.decisions, allowed)
}

func TestAuthorizationMiddleware_Handle(t *testing.T) {
	cases := map[string]struct {
		userID            string
		enforceAllowed    bool
		enforceErr        error
		expectedStatus    int
		expectedDecisions []bool
		expectedLog       string
	}{
		"should pass allowed request through": {
			userID:            "u1",
			enforceAllowed:    true,
			expectedStatus:    http.StatusOK,
			expectedDecisions: []bool{true},
		},
		"should forbid denied request": {
			userID:            "u1",
			expectedStatus:    http.StatusForbidden,
			expectedDecisions: []bool{false},
			expectedLog:       `"msg":"access_denied"`,
		},
		"should forbid when policy evaluation fails": {
			userID:            "u1",
			enforceErr:        errors.New("policy unavailable"),
			expectedStatus:    http.StatusForbidden,
			expectedDecisions: []bool{false},
			expectedLog:       `"error":"policy unavailable"`,
		},
		"should reject request without authenticated user": {
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			e := new(mockEnforcer)
			recorder := new(mockDecisionRecorder)
			e.On("Enforce", mock.Anything, &enforcer.AccessRequest{
				Subject:  tc.userID,
				Resource: "/api/orders/42/status",
				Action:   http.MethodPut,
			}).Return(tc.enforceAllowed, tc.enforceErr).Maybe()

			m := NewAuthorizationMiddleware(e, recorder, slog.New(slog.NewJSONHandler(&buf, nil)))

			req := httptest.NewRequest(http.MethodPut, "/api/orders/42/status", http.NoBody)
			if tc.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserIDContextKey, tc.userID))
			}
			rr := httptest.NewRecorder()

			m.Handle(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedDecisions, recorder.decisions)
			if tc.expectedStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"forbidden"}`, rr.Body.String())
			}
			if tc.expectedLog != "" {
				assert.Contains(t, buf.String(), tc.expectedLog)
			}
		})
	}
}

func TestAuthorizationMiddleware_ResourcePath(t *testing.T) {
	cases := map[string]struct {
		method           string
		path             string
		expectedResource string
	}{
		"should pass path unchanged": {
			method:           http.MethodPost,
			path:             "/api/menu",
			expectedResource: "/api/menu",
		},
		"should trim trailing slash from collection path": {
			method:           http.MethodPost,
			path:             "/api/menu/",
			expectedResource: "/api/menu",
		},
		"should trim trailing slash from item path": {
			method:           http.MethodPut,
			path:             "/api/orders/42/status/",
			expectedResource: "/api/orders/42/status",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := new(mockEnforcer)
			e.On("Enforce", mock.Anything, &enforcer.AccessRequest{
				Subject:  "u1",
				Resource: tc.expectedResource,
				Action:   tc.method,
			}).Return(true, nil).Once()

			m := NewAuthorizationMiddleware(e, new(mockDecisionRecorder), discardLogger())

			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			req = req.WithContext(context.WithValue(req.Context(), UserIDContextKey, "u1"))
			rr := httptest.NewRecorder()

			m.Handle(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			e.AssertExpectations(t)
		})
	}
}
