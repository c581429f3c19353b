package routes

import (
	"sangam_server/controllers"
	"sangam_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for notifications under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()

	notificationRouter.HandleFunc("/mark-read/{userId}", controller.HandleMarkAllRead).Methods("PUT")
	notificationRouter.HandleFunc("/{userId}", controller.HandleList).Methods("GET")
	notificationRouter.HandleFunc("/{userId}/{notificationId}", controller.HandleDelete).Methods("DELETE")
}
