package routes

import (
	"sangam_server/controllers"
	"sangam_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up the read-only profile routes under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("/{userId}", controller.HandleGet).Methods("GET")
}
