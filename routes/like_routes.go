package routes

import (
	"sangam_server/controllers"
	"sangam_server/services"

	"github.com/gorilla/mux"
)

// RegisterLikeRoutes sets up routes for like operations under /api/likes
func RegisterLikeRoutes(r *mux.Router, likeService *services.LikeService) {
	controller := controllers.NewLikeController(likeService)

	likeRouter := r.PathPrefix("/api/likes").Subrouter()

	likeRouter.HandleFunc("/toggle", controller.HandleToggle).Methods("POST")
	likeRouter.HandleFunc("/unlike", controller.HandleUnlike).Methods("DELETE")
	likeRouter.HandleFunc("/received/{userId}", controller.HandleReceived).Methods("GET")
	likeRouter.HandleFunc("/sent/{userId}", controller.HandleSent).Methods("GET")
	likeRouter.HandleFunc("/ids/{userId}", controller.HandleSentIDs).Methods("GET")
	likeRouter.HandleFunc("/liked-me/{userId}", controller.HandleReceivedIDs).Methods("GET")
}
