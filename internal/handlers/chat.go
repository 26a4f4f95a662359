package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/plarkin/chatline/internal/chat"
	"github.com/plarkin/chatline/internal/middleware"
	"github.com/plarkin/chatline/internal/models"
)

type ChatHandler struct {
	Service *chat.Service
}

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type CreatePrivateChatRequest struct {
	OtherUsername string `json:"other_username"`
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r)

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID, notFound, err := h.Service.CreateGroup(username, req.Name, req.Participants)
	if err != nil {
		writeError(w, err)
		return
	}
	if notFound == nil {
		notFound = []string{}
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"chat_id":   chatID,
		"not_found": notFound,
	})
}

func (h *ChatHandler) CreatePrivateChat(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r)

	var req CreatePrivateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID, alreadyExists, err := h.Service.CreatePrivateChat(username, req.OtherUsername)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if alreadyExists {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]interface{}{
		"chat_id":        chatID,
		"already_exists": alreadyExists,
	})
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Service.ListChats(middleware.Username(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	if err := h.Service.LeaveGroup(chatID, middleware.Username(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully left the group"})
}

func (h *ChatHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	participants, err := h.Service.Participants(chatID, middleware.Username(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}
