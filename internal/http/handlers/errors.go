package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/http/respond"
	"github.com/imtiaz478/Sellora-full/internal/models/dto"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed input that is not tied to a single field.
var errBadRequest = errors.New("bad request")

// writeError translates service and storage errors into HTTP responses.
// Anything unrecognised is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validation *dto.ValidationError
	switch {
	case errors.As(err, &validation):
		respond.FieldErrors(w, validation.Error(), validation.Fields)
	case errors.Is(err, errBadRequest):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrUnauthorized):
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "username or email already registered")
	default:
		logger.Error("unhandled request error", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body too large", errBadRequest)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", errBadRequest)
		default:
			return fmt.Errorf("%w: invalid JSON payload: %v", errBadRequest, err)
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must contain a single JSON object", errBadRequest)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: transaction id must be a positive integer", errBadRequest)
	}
	return id, nil
}
