package controllers

import (
	"encoding/json"
	"net/http"

	"sangam_server/services"

	"github.com/gorilla/mux"
)

// MessageController exposes the chat message channel over HTTP.
type MessageController struct {
	MessageService *services.MessageService
}

// NewMessageController initializes the controller.
func NewMessageController(service *services.MessageService) *MessageController {
	return &MessageController{MessageService: service}
}

// HandleSend - persist a new message and notify the receiver.
func (c *MessageController) HandleSend(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	message, err := c.MessageService.Send(r.Context(), request.Sender, request.Receiver, request.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// HandleHistory - full transcript between two users, oldest first.
func (c *MessageController) HandleHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	messages, err := c.MessageService.History(r.Context(), vars["user1"], vars["user2"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleMarkSeen - mark all messages from sender to receiver as seen.
func (c *MessageController) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	modified, err := c.MessageService.MarkSeen(r.Context(), request.Sender, request.Receiver)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Messages marked as seen",
		"modifiedCount": modified,
	})
}
