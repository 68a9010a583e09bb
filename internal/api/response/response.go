package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the error part of a failed response
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorCase maps a domain error kind to an HTTP status code
type ErrorCase struct {
	Kind   domain.ErrorKind
	Status int
}

// ErrorCases is the single table used to turn domain errors into responses
var ErrorCases = []ErrorCase{
	{Kind: domain.KindDuplicateIdentity, Status: http.StatusBadRequest},
	{Kind: domain.KindUnauthenticated, Status: http.StatusUnauthorized},
	{Kind: domain.KindInactiveAccount, Status: http.StatusBadRequest},
	{Kind: domain.KindNotFound, Status: http.StatusNotFound},
	{Kind: domain.KindForbidden, Status: http.StatusForbidden},
	{Kind: domain.KindValidation, Status: http.StatusBadRequest},
}

const codeInternal = "internal_error"

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(resp)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, body ErrorBody) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: false,
		Error:   &body,
	}

	json.NewEncoder(w).Encode(resp)
}

// FromError resolves err against ErrorCases. Errors that are not domain
// errors are logged and reported as a bare 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		for _, cs := range ErrorCases {
			if cs.Kind == de.Kind {
				Error(w, cs.Status, ErrorBody{Code: string(de.Kind), Message: de.Message, Field: de.Field})
				return
			}
		}
	}

	log.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	InternalError(w)
}

// ValidationFailed sends a 400 with one message per offending field
func ValidationFailed(w http.ResponseWriter, fields map[string]string) {
	Error(w, http.StatusBadRequest, ErrorBody{
		Code:    string(domain.KindValidation),
		Message: "request validation failed",
		Fields:  fields,
	})
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: message})
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, ErrorBody{Code: string(domain.KindUnauthenticated), Message: message})
}

// TooManyRequests sends a 429 Too Many Requests response
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, ErrorBody{Code: "rate_limited", Message: "rate limit exceeded"})
}

// ServiceUnavailable sends a 503 Service Unavailable response
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, ErrorBody{Code: "unavailable", Message: message})
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, ErrorBody{Code: codeInternal, Message: "internal server error"})
}
