package controllers

import (
	"encoding/json"
	"net/http"

	"sangam_server/services"

	"github.com/gorilla/mux"
)

// LikeController exposes the like toggle engine over HTTP.
type LikeController struct {
	LikeService *services.LikeService
}

// NewLikeController initializes the controller.
func NewLikeController(service *services.LikeService) *LikeController {
	return &LikeController{LikeService: service}
}

// HandleToggle - like if absent, unlike if present.
func (c *LikeController) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var request struct {
		LikedFrom string `json:"likedFrom"`
		LikedTo   string `json:"likedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	liked, err := c.LikeService.Toggle(r.Context(), request.LikedFrom, request.LikedTo)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Unliked successfully"
	status := http.StatusOK
	if liked {
		message = "Liked successfully"
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{"message": message, "liked": liked})
}

// HandleUnlike - explicit delete; 404 when no edge exists.
func (c *LikeController) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		LikedFrom string `json:"likedFrom"`
		LikedTo   string `json:"likedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := c.LikeService.Unlike(r.Context(), request.LikedFrom, request.LikedTo); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unliked successfully"})
}

// HandleReceived - profiles of users who liked this user.
func (c *LikeController) HandleReceived(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.LikeService.ReceivedLikes(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"receivedLikes": profiles})
}

// HandleSent - profiles of users this user has liked.
func (c *LikeController) HandleSent(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.LikeService.SentLikes(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleSentIDs - bare ids this user has liked.
func (c *LikeController) HandleSentIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := c.LikeService.SentLikeIDs(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"likedIds": ids})
}

// HandleReceivedIDs - bare ids of users who liked this user.
func (c *LikeController) HandleReceivedIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := c.LikeService.ReceivedLikeIDs(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"likedBy": ids})
}
