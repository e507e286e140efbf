// Package handlers implements the REST endpoints of the Digital Diner API.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/authn"
	"github.com/CameronXie/digital-diner/internal/ordering"
	"github.com/CameronXie/digital-diner/internal/repository"
	"github.com/CameronXie/digital-diner/internal/validation"
)

const (
	invalidRequestBodyMessage  = "invalid request body"
	invalidCredentialsMessage  = "invalid email or password"
	incorrectPasswordMessage   = "current password is incorrect"
	internalServerErrorMessage = "internal server error"
	notAuthorizedMessage       = "not authorized to access this user"
)

// writeError maps service and store errors onto status codes. Unknown errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validationErr *validation.Error
		inputErr      *ordering.InvalidInputError
		invalidIDErr  *repository.InvalidIDError
		conflictErr   *repository.ConflictError
		notFoundErr   *repository.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		response.JSONFieldErrorResponse(w, validationErr.Error(), fieldErrors(validationErr.Fields))
	case errors.As(err, &inputErr):
		if len(inputErr.Fields) > 0 {
			response.JSONFieldErrorResponse(w, inputErr.Message, fieldErrors(inputErr.Fields))
			return
		}
		response.JSONErrorResponse(w, http.StatusBadRequest, inputErr.Message)
	case errors.As(err, &invalidIDErr):
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidIDErr.Error())
	case errors.As(err, &conflictErr):
		response.JSONErrorResponse(w, http.StatusBadRequest, conflictErr.Error())
	case errors.As(err, &notFoundErr):
		response.JSONErrorResponse(w, http.StatusNotFound, notFoundErr.Resource+" not found")
	case errors.Is(err, authn.ErrInvalidCredentials):
		response.JSONErrorResponse(w, http.StatusUnauthorized, invalidCredentialsMessage)
	case errors.Is(err, authn.ErrIncorrectPassword):
		response.JSONErrorResponse(w, http.StatusBadRequest, incorrectPasswordMessage)
	default:
		logger.ErrorContext(r.Context(), "request_failed", "method", r.Method, "path", r.URL.Path, "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, internalServerErrorMessage)
	}
}

func fieldErrors(in []validation.FieldError) []response.FieldError {
	out := make([]response.FieldError, 0, len(in))
	for _, f := range in {
		out = append(out, response.FieldError{Field: f.Field, Message: f.Message})
	}
	return out
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// pathParam returns a decoded path parameter, falling back to the raw value.
func pathParam(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
