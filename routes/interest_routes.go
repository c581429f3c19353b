package routes

import (
	"sangam_server/controllers"
	"sangam_server/services"

	"github.com/gorilla/mux"
)

// RegisterInterestRoutes sets up routes for interest requests under /api/requests
func RegisterInterestRoutes(r *mux.Router, interestService *services.InterestService) {
	controller := controllers.NewInterestController(interestService)

	requestRouter := r.PathPrefix("/api/requests").Subrouter()

	requestRouter.HandleFunc("", controller.HandleListAll).Methods("GET")
	requestRouter.HandleFunc("", controller.HandleCreate).Methods("POST")
	requestRouter.HandleFunc("/{id}", controller.HandleTransition).Methods("PUT")
	requestRouter.HandleFunc("/sent/{userId}", controller.HandleSent).Methods("GET")
	requestRouter.HandleFunc("/received/{userId}", controller.HandleReceived).Methods("GET")
	requestRouter.HandleFunc("/accepted/{userId}", controller.HandleAccepted).Methods("GET")
	requestRouter.HandleFunc("/denied/{userId}", controller.HandleDenied).Methods("GET")
}
