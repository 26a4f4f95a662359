package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/plarkin/chatline/internal/chat"
	"github.com/plarkin/chatline/internal/middleware"
	"github.com/plarkin/chatline/internal/models"
)

type MessageHandler struct {
	Service *chat.Service
}

type SendMessageRequest struct {
	Msg string `json:"msg"`
}

func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	messages, err := h.Service.ListMessages(chatID, middleware.Username(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.Service.SendMessage(chatID, middleware.Username(r), req.Msg, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}
