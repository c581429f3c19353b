package controllers

import (
	"encoding/json"
	"net/http"

	"sangam_server/services"

	"github.com/gorilla/mux"
)

// InterestController exposes the interest-request state machine over HTTP.
type InterestController struct {
	InterestService *services.InterestService
}

// NewInterestController initializes the controller.
func NewInterestController(service *services.InterestService) *InterestController {
	return &InterestController{InterestService: service}
}

// HandleCreate - send a new interest request.
func (c *InterestController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		InterestFrom string `json:"interestFrom"`
		InterestTo   string `json:"interestTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	created, err := c.InterestService.Create(r.Context(), request.InterestFrom, request.InterestTo)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleTransition - accept or deny a request.
func (c *InterestController) HandleTransition(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	var request struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := c.InterestService.Transition(r.Context(), requestID, request.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleListAll - every request with both profiles, for debugging.
func (c *InterestController) HandleListAll(w http.ResponseWriter, r *http.Request) {
	requests, err := c.InterestService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleSent - requests sent by a user.
func (c *InterestController) HandleSent(w http.ResponseWriter, r *http.Request) {
	requests, err := c.InterestService.SentBy(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleReceived - pending requests addressed to a user.
func (c *InterestController) HandleReceived(w http.ResponseWriter, r *http.Request) {
	requests, err := c.InterestService.ReceivedPending(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleAccepted - accepted requests involving a user, either direction.
func (c *InterestController) HandleAccepted(w http.ResponseWriter, r *http.Request) {
	requests, err := c.InterestService.AcceptedInvolving(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleDenied - denied requests involving a user, annotated with which
// side denied and showing only the other party.
func (c *InterestController) HandleDenied(w http.ResponseWriter, r *http.Request) {
	views, err := c.InterestService.DeniedInvolving(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
