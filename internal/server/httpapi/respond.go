package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vpetrenko/realhome/internal/common"
)

// errorBody is the failure envelope every handler error ends up as.
type errorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError is the single error-reporting path: it maps classified errors
// to an HTTP status and message, and everything else to a generic failure.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var validationErr *common.ValidationError
	var notFoundErr *common.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Msg
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusBadRequest
		message = "Username or email already taken"
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Msg
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		message = "Not Found!"
	case errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
		message = "Wrong Credentials!"
	case errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = "Invalid session"
	}

	writeJSON(w, status, errorBody{Success: false, StatusCode: status, Message: message})
}
