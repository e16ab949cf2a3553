package internal

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Context utilities for request tracing and authentication

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	requestIDKey contextKey = "requestID"
	subjectKey   contextKey = "subject"
)

// SetRequestIDInContext adds a request ID to the request context
func SetRequestIDInContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext retrieves the request ID, or "" if there is none
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SetSubjectInContext adds the authenticated token subject to the request context
func SetSubjectInContext(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// GetSubjectFromContext retrieves the authenticated token subject
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// requestLogFields returns the request ID and, for authenticated requests,
// the token subject
func requestLogFields(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{"request_id": GetRequestIDFromContext(ctx)}
	if subject, ok := GetSubjectFromContext(ctx); ok {
		fields["subject"] = subject
	}
	return fields
}

// LogRequest logs the request details
func LogRequest(r *http.Request, endpoint, message string) {
	logrus.WithFields(requestLogFields(r.Context())).WithField("endpoint", endpoint).Info(message)
}

// LogResponse logs the response details
func LogResponse(r *http.Request, endpoint, message string, err error) {
	entry := logrus.WithFields(requestLogFields(r.Context())).WithField("endpoint", endpoint)
	if err != nil {
		entry.WithError(err).Warn(message)
		return
	}
	entry.Info(message)
}

// EncodeJSON writes v as a JSON response with the given status
func EncodeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to encode response")
	}
}

// EncodeError writes a JSON error response
func EncodeError(w http.ResponseWriter, message string, statusCode int) {
	response := struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{
		Error:  message,
		Status: statusCode,
	}
	EncodeJSON(w, response, statusCode)
}
