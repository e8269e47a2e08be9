package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type submitResultInput struct {
	Results []models.GameResult `json:"results"`
}

// StartMatch godoc
// @Summary Mark a match as in progress
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID, e.g. R1M2"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	callerID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	tournament, err := h.matchService.StartMatch(r.Context(), tournamentID, matchID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResult godoc
// @Summary Submit the result of a match
// @Tags matches
// @Description One game result per player. The winner advances; resolving the final completes the tournament.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID, e.g. R1M2"
// @Param input body submitResultInput true "Game results"
// @Success 200 {object} services.MatchResultOutcome
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string "Invalid or undecidable result"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	callerID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	var input submitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.SubmitMatchResult(r.Context(), tournamentID, matchID, callerID, input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
