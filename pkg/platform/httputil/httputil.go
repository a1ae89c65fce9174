// Package httputil provides JSON response helpers shared by all handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "registrar/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded domain error onto an HTTP status and a stable
// wire code. Internal failures never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	body := errorBody{Error: code}
	if status < http.StatusInternalServerError {
		body.ErrorDescription = messageOf(err)
	}
	WriteJSON(w, status, body)
}

func statusFor(err error) (int, string) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, "internal_error"
	}
	switch de.Code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest, string(de.Code)
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity, string(de.Code)
	case dErrors.CodeNotFound:
		return http.StatusNotFound, string(de.Code)
	case dErrors.CodeConflict:
		return http.StatusConflict, string(de.Code)
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized, string(de.Code)
	case dErrors.CodeForbidden:
		return http.StatusForbidden, string(de.Code)
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func messageOf(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// preparer is implemented by request types that normalize then validate
// themselves. Validation order: Size -> Required -> Syntax -> Semantic.
type preparer interface {
	Normalize()
	Validate() error
}

// DecodeAndPrepare decodes the request body into T, normalizes it and
// validates it. On any failure it writes the error response and returns
// ok=false; the handler should simply return.
func DecodeAndPrepare[T any, PT interface {
	*T
	preparer
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var body T
	req := PT(&body)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID, "error", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
