package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/processimo/internal/api/middleware"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// requireUser returns the authenticated user id or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not authenticated"))
		return 0, false
	}
	return userID, true
}

// pathID parses the {id} URL parameter
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, errors.BadRequest("Invalid id"))
		return 0, false
	}
	return id, true
}

// decodeAndValidate reads a JSON body into dst and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if validationErrs := val.Validate(dst); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return false
	}
	return true
}

// respondErr logs unexpected failures and writes err in the error envelope
func respondErr(w http.ResponseWriter, log *logger.Logger, err error, msg string) {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInternal, errors.ErrCodeDatabase, errors.ErrCodeProviderAPI:
		log.ErrorWithErr(err, msg)
	}
	utils.WriteAnyError(w, err)
}
