package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
)

var errBodyTooLarge = errors.New("request body too large")

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: malformed JSON", common.ErrorValidation)
	}
	return nil
}

// errorResponse maps service errors to a status code and client message.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, services.ErrEmailDeliveryFailed):
		return http.StatusInternalServerError, "Email could not be sent"
	case errors.Is(err, services.ErrAccountNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, "Invalid or expired token"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "Refresh token expired"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorResponse(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "route", routeName(r), "error", err)
	}
	writeMessage(w, status, msg)
}
