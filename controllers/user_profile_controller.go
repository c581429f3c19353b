package controllers

import (
	"net/http"

	"sangam_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController exposes the read-only view of the external user
// store that the interaction layer consumes.
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes the controller.
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleGet - fetch one profile card.
func (c *UserProfileController) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
