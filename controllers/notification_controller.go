package controllers

import (
	"net/http"

	"sangam_server/services"

	"github.com/gorilla/mux"
)

// NotificationController exposes the read side of the notification fan-out.
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController initializes the controller.
func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: service}
}

// HandleList - all notifications for a user, newest first.
func (c *NotificationController) HandleList(w http.ResponseWriter, r *http.Request) {
	notifications, err := c.NotificationService.ListForUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// HandleMarkAllRead - bulk-mark a user's unread notifications as read.
func (c *NotificationController) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	modified, err := c.NotificationService.MarkAllRead(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": modified,
	})
}

// HandleDelete - delete a single notification.
func (c *NotificationController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := c.NotificationService.Delete(r.Context(), vars["userId"], vars["notificationId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
