package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-engine/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: ps,
	}
}

// Register godoc
// @Summary Register for a tournament
// @Tags participants
// @Description The authenticated caller joins the roster while registration is open.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{} "Updated tournament"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Registration closed, already registered or full"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/registrations [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	tournament, err := h.participantService.Register(r.Context(), tournamentID, participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Unregister godoc
// @Summary Withdraw from a tournament
// @Tags participants
// @Param tournamentID path string true "Tournament ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/registrations [delete]
func (h *ParticipantHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	if err := h.participantService.Unregister(r.Context(), tournamentID, participantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
