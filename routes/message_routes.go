package routes

import (
	"sangam_server/controllers"
	"sangam_server/services"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up routes for chat messages under /api/messages
func RegisterMessageRoutes(r *mux.Router, messageService *services.MessageService) {
	controller := controllers.NewMessageController(messageService)

	messageRouter := r.PathPrefix("/api/messages").Subrouter()

	messageRouter.HandleFunc("", controller.HandleSend).Methods("POST")
	messageRouter.HandleFunc("/mark-seen", controller.HandleMarkSeen).Methods("PUT")
	messageRouter.HandleFunc("/{user1}/{user2}", controller.HandleHistory).Methods("GET")
}
