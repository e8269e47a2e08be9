package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	bracketService    services.BracketService
}

func NewTournamentHandler(ts services.TournamentService, bs services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		bracketService:    bs,
	}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Tags tournaments
// @Description The caller becomes the organizer. The tournament starts in the upcoming state.
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Tournament definition"
// @Success 201 {object} map[string]interface{} "Created tournament"
// @Failure 400 {object} map[string]string "Invalid input, schedule or format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	organizerID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input, organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get a tournament
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseBoolParam(value, name string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New("invalid " + name + " query parameter")
	}
	return b, nil
}

// ListHandler godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param status query string false "upcoming, registration, active, completed or cancelled"
// @Param format query string false "Tournament format"
// @Param organizer_id query string false "Organizer"
// @Param upcoming query bool false "Only tournaments that have not started"
// @Param registration_open query bool false "Only tournaments accepting registrations now"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var input services.ListTournamentsInput
	query := r.URL.Query()

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		if !status.Valid() {
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
		input.Status = &status
	}
	if formatStr := query.Get("format"); formatStr != "" {
		format := models.Format(formatStr)
		if !format.Known() {
			badRequestResponse(w, r, errors.New("invalid format query parameter"))
			return
		}
		input.Format = &format
	}
	if organizerID := query.Get("organizer_id"); organizerID != "" {
		input.OrganizerID = &organizerID
	}

	var err error
	if input.UpcomingOnly, err = parseBoolParam(query.Get("upcoming"), "upcoming"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RegistrationOpenOnly, err = parseBoolParam(query.Get("registration_open"), "registration_open"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input.Limit = defaultListLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > maxListLimit {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		input.Limit = limit
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		input.Offset = offset
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler godoc
// @Summary Start a tournament
// @Tags tournaments
// @Description Closes registration and builds the bracket. Organizer only.
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string "Fewer than two participants"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/start [post]
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	callerID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	tournament, err := h.tournamentService.StartTournament(r.Context(), id, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler godoc
// @Summary Cancel a tournament
// @Tags tournaments
// @Param tournamentID path string true "Tournament ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/cancel [post]
func (h *TournamentHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	callerID, ok := currentParticipant(w, r)
	if !ok {
		return
	}

	if err := h.tournamentService.CancelTournament(r.Context(), id, callerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBracketHandler godoc
// @Summary Get the bracket
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *TournamentHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLeaderboardHandler godoc
// @Summary Get the leaderboard
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/leaderboard [get]
func (h *TournamentHandler) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.tournamentService.GetLeaderboard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if leaderboard == nil {
		leaderboard = []models.StandingEntry{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
