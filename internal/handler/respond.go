package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var (
	errBadJSON      = apperror.New(apperror.KindInvalidInput, "request body must be valid JSON")
	errBadID        = apperror.New(apperror.KindInvalidInput, "path id must be a positive integer")
	errLoginNeeded  = apperror.New(apperror.KindUnauthenticated, "authentication required")
	errInternalFail = errors.New("internal server error")
)

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidState, apperror.KindInsufficientStock, apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInvalidInput:
		return http.StatusBadRequest
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("unhandled error",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, status, errorResponse{Kind: string(apperror.KindUnknown), Message: errInternalFail.Error()})
		return
	}

	writeJSON(w, status, errorResponse{Kind: string(kind), Message: err.Error()})
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, errBadJSON.Message)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, errBadID
	}
	return id, nil
}
