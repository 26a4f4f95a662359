package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/plarkin/chatline/internal/chat"
	"github.com/plarkin/chatline/internal/middleware"
	"github.com/plarkin/chatline/internal/models"
)

type RequestHandler struct {
	Service *chat.Service
}

type InviteRequest struct {
	To []string `json:"to"`
}

// Invite reports partial success: invitations may go out even when some of
// the listed usernames don't exist.
func (h *RequestHandler) Invite(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	notFound, err := h.Service.Invite(chatID, middleware.Username(r), req.To)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "All users invited to the group successfully."
	if len(notFound) > 0 {
		message = fmt.Sprintf("Invitations sent. These users were not found: %s", strings.Join(notFound, ", "))
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   message,
		"not_found": notFound,
	})
}

func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	if err := h.Service.AcceptInvite(chatID, middleware.Username(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Request accepted, user added to the group."})
}

func (h *RequestHandler) Decline(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	declined, err := h.Service.DeclineInvite(chatID, middleware.Username(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if !declined {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No request found to decline."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invite request declined."})
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListRequests(middleware.Username(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []models.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}
