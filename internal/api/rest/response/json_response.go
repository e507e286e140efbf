package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorBody is the JSON shape of every error response. Fields is set for validation failures.
type ErrorBody struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSONResponse writes the given data as a JSON response with the specified status code.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// JSONErrorResponse writes an error message as a JSON response with the specified status code.
func JSONErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, ErrorBody{Error: message})
}

// JSONFieldErrorResponse writes a 400 response listing the rejected fields.
func JSONFieldErrorResponse(w http.ResponseWriter, message string, fields []FieldError) {
	JSONResponse(w, http.StatusBadRequest, ErrorBody{Error: message, Fields: fields})
}
