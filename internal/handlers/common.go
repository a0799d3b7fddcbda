// Package handlers provides the HTTP handlers for the buyers backend.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"buyers-backend/pkg/api"
	appErrors "buyers-backend/pkg/errors"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON body into target and runs struct
// validation. It writes the error response itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case appErrors.IsValidation(err):
		api.Error(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		api.Error(w, http.StatusNotFound, err.Error())
	case appErrors.IsUnavailable(err):
		api.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
