// Package handlers maps HTTP requests onto the chat service and translates
// domain errors into status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/plarkin/chatline/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrChatNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotAMember):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyMember), errors.Is(err, domain.ErrUsernameExists):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("handlers: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func chatIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
