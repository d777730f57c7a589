package handlers

import (
	"Inventaris/internal/middleware"
	"Inventaris/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     message,
		Code:      code,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError переводит ошибку сервиса в статус и код.
// Текст ошибок хранилища наружу не уходит, только в лог.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, op string, err error) {
	reqID := chimw.GetReqID(r.Context())
	switch {
	case errors.Is(err, service.ErrConsistency):
		logger.Errorw(op+": consistency failure", "error", err, "request_id", reqID)
		writeError(w, r, "internal consistency failure, operator notified", "CONSISTENCY_ERROR", http.StatusInternalServerError)
	case errors.Is(err, service.ErrValidation):
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, r, "invalid username or password", "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, r, "access denied", "FORBIDDEN", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, service.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.Is(err, service.ErrItemOnLoan):
		writeError(w, r, err.Error(), "ITEM_ON_LOAN", http.StatusConflict)
	case errors.Is(err, service.ErrLoginTaken):
		writeError(w, r, "username already taken", "LOGIN_TAKEN", http.StatusConflict)
	default:
		logger.Errorw(op+": storage failure", "error", err, "request_id", reqID)
		writeError(w, r, "storage unavailable, try again later", "STORAGE_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON читает тело строго, неизвестные поля дают ошибку.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeError(w, r, msg, "VALIDATION_ERROR", http.StatusBadRequest)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// caller достаёт вызывающего; RequireAuth гарантирует, что он есть.
func caller(r *http.Request) service.Caller {
	c, _ := middleware.GetCallerFromContext(r.Context())
	return c
}
