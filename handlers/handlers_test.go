package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/routes"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "handler-test-secret"

var t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testServer struct {
	t           *testing.T
	server      *httptest.Server
	clock       *clock
	tournaments services.TournamentService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := &clock{now: t0}
	deps := services.Deps{
		Repo:   repositories.NewMemoryTournamentRepository(),
		Clock:  clk.Now,
		Logger: logger,
	}
	bracketService := services.NewBracketService(deps, brackets.RegistrationOrderSeeder{})
	tournamentService := services.NewTournamentService(deps, bracketService)
	hub := brackets.NewHub(logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routes.Options{
			Logger:         logger,
			Authenticator:  middleware.NewAuthenticator(testSecret, logger),
			AllowedOrigins: []string{"*"},
		},
		handlers.NewTournamentHandler(tournamentService, bracketService),
		handlers.NewParticipantHandler(services.NewParticipantService(deps)),
		handlers.NewMatchHandler(services.NewMatchService(deps, nil)),
		handlers.NewWebSocketHandler(hub, tournamentService, nil, logger),
		handlers.NewHealthHandler(nil, logger),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{t: t, server: srv, clock: clk, tournaments: tournamentService}
}

func token(t *testing.T, participantID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": participantID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// do sends a request as caller (anonymous when empty) and decodes a JSON body
// into out when out is non-nil.
func (ts *testServer) do(method, path, caller string, body interface{}, out interface{}) int {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	if err != nil {
		ts.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("Authorization", "Bearer "+token(ts.t, caller))
	}

	resp, err := ts.server.Client().Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			ts.t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createInput() services.CreateTournamentInput {
	return services.CreateTournamentInput{
		Name:            "Friday Night Cup",
		Format:          models.FormatSingleElimination,
		MaxParticipants: 8,
		Schedule: models.Schedule{
			RegistrationStart: t0.Add(time.Hour),
			RegistrationEnd:   t0.Add(48 * time.Hour),
			TournamentStart:   t0.Add(72 * time.Hour),
			TournamentEnd:     t0.Add(96 * time.Hour),
		},
	}
}

type tournamentEnvelope struct {
	Tournament models.Tournament `json:"tournament"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (ts *testServer) createTournament(organizer string) string {
	ts.t.Helper()
	var created tournamentEnvelope
	if code := ts.do(http.MethodPost, "/tournaments", organizer, createInput(), &created); code != http.StatusCreated {
		ts.t.Fatalf("create: expected 201, got %d", code)
	}
	return created.Tournament.ID
}

func (ts *testServer) openRegistration() {
	ts.t.Helper()
	ts.clock.Set(t0.Add(2 * time.Hour))
	if _, err := ts.tournaments.Tick(context.Background()); err != nil {
		ts.t.Fatalf("tick: %v", err)
	}
}

func TestCreateTournament(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		caller string
		body   interface{}
		want   int
	}{
		{"anonymous", "", createInput(), http.StatusUnauthorized},
		{"valid", "org", createInput(), http.StatusCreated},
		{"unknown field", "org", map[string]string{"nickname": "x"}, http.StatusBadRequest},
		{"unsupported format", "org", func() services.CreateTournamentInput {
			in := createInput()
			in.Format = models.FormatSwiss
			return in
		}(), http.StatusBadRequest},
		{"schedule out of order", "org", func() services.CreateTournamentInput {
			in := createInput()
			in.Schedule.RegistrationEnd = in.Schedule.TournamentStart.Add(time.Hour)
			return in
		}(), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := ts.do(http.MethodPost, "/tournaments", tt.caller, tt.body, nil); code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
		})
	}
}

func TestGetTournament(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTournament("org")

	var got tournamentEnvelope
	if code := ts.do(http.MethodGet, "/tournaments/"+id, "", nil, &got); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if got.Tournament.Status != models.StatusUpcoming || got.Tournament.Slug != "friday-night-cup" {
		t.Fatalf("unexpected tournament %+v", got.Tournament)
	}

	if code := ts.do(http.MethodGet, "/tournaments/missing", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestListTournamentsQueryValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.createTournament("org")
	ts.createTournament("other")

	tests := []struct {
		query     string
		want      int
		wantCount int
	}{
		{"", http.StatusOK, 2},
		{"?organizer_id=org", http.StatusOK, 1},
		{"?status=upcoming&limit=1", http.StatusOK, 1},
		{"?status=completed", http.StatusOK, 0},
		{"?status=bogus", http.StatusBadRequest, 0},
		{"?format=chess", http.StatusBadRequest, 0},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=101", http.StatusBadRequest, 0},
		{"?offset=-1", http.StatusBadRequest, 0},
		{"?upcoming=maybe", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var out struct {
				Tournaments []models.Tournament `json:"tournaments"`
			}
			code := ts.do(http.MethodGet, "/tournaments"+tt.query, "", nil, &out)
			if code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
			if code == http.StatusOK && len(out.Tournaments) != tt.wantCount {
				t.Fatalf("expected %d tournaments, got %d", tt.wantCount, len(out.Tournaments))
			}
		})
	}
}

func TestRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTournament("org")
	path := "/tournaments/" + id + "/registrations"

	if code := ts.do(http.MethodPost, path, "alice", nil, nil); code != http.StatusConflict {
		t.Fatalf("register before opening: expected 409, got %d", code)
	}

	ts.openRegistration()

	var registered tournamentEnvelope
	if code := ts.do(http.MethodPost, path, "alice", nil, &registered); code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", code)
	}
	if registered.Tournament.Statistics.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant, got %d", registered.Tournament.Statistics.TotalParticipants)
	}
	if code := ts.do(http.MethodPost, path, "alice", nil, nil); code != http.StatusConflict {
		t.Fatalf("duplicate registration: expected 409, got %d", code)
	}
	if code := ts.do(http.MethodPost, path, "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous registration: expected 401, got %d", code)
	}

	if code := ts.do(http.MethodDelete, path, "alice", nil, nil); code != http.StatusNoContent {
		t.Fatalf("unregister: expected 204, got %d", code)
	}
	if code := ts.do(http.MethodDelete, path, "alice", nil, nil); code != http.StatusConflict {
		t.Fatalf("unregister twice: expected 409, got %d", code)
	}
}

func TestTournamentPlaysToCompletion(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTournament("org")
	base := "/tournaments/" + id
	ts.openRegistration()

	for _, p := range []string{"alice", "bob"} {
		if code := ts.do(http.MethodPost, base+"/registrations", p, nil, nil); code != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d", p, code)
		}
	}

	var denied errorEnvelope
	if code := ts.do(http.MethodPost, base+"/start", "alice", nil, &denied); code != http.StatusForbidden {
		t.Fatalf("start by non-organizer: expected 403, got %d", code)
	}
	if denied.Error != "you are not allowed to perform this action" {
		t.Fatalf("unexpected forbidden message %q", denied.Error)
	}

	var started tournamentEnvelope
	if code := ts.do(http.MethodPost, base+"/start", "org", nil, &started); code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", code)
	}
	if started.Tournament.Status != models.StatusActive {
		t.Fatalf("expected active, got %s", started.Tournament.Status)
	}
	if code := ts.do(http.MethodPost, base+"/start", "org", nil, nil); code != http.StatusConflict {
		t.Fatalf("second start: expected 409, got %d", code)
	}

	var bracket struct {
		Bracket models.Bracket `json:"bracket"`
	}
	if code := ts.do(http.MethodGet, base+"/bracket", "", nil, &bracket); code != http.StatusOK {
		t.Fatalf("bracket: expected 200, got %d", code)
	}
	if len(bracket.Bracket.Rounds) != 1 || len(bracket.Bracket.Rounds[0].Matches) != 1 {
		t.Fatalf("expected a single final, got %+v", bracket.Bracket)
	}

	result := base + "/matches/R1M1/result"
	valid := map[string]interface{}{"results": []models.GameResult{
		{ParticipantID: "alice", Score: 10, TimeElapsed: 42.5, Completed: true},
		{ParticipantID: "bob", Score: 5, TimeElapsed: 40, Completed: true},
	}}

	if code := ts.do(http.MethodPost, result, "carol", valid, nil); code != http.StatusForbidden {
		t.Fatalf("outsider result: expected 403, got %d", code)
	}
	if code := ts.do(http.MethodPost, base+"/matches/R9M9/result", "alice", valid, nil); code != http.StatusNotFound {
		t.Fatalf("unknown match: expected 404, got %d", code)
	}
	if code := ts.do(http.MethodPost, base+"/matches/R9M9/result", "carol", valid, nil); code != http.StatusForbidden {
		t.Fatalf("outsider on unknown match: expected 403, got %d", code)
	}
	oneResult := map[string]interface{}{"results": []models.GameResult{{ParticipantID: "alice", Score: 1}}}
	if code := ts.do(http.MethodPost, result, "alice", oneResult, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete result: expected 422, got %d", code)
	}

	var outcome services.MatchResultOutcome
	if code := ts.do(http.MethodPost, result, "bob", valid, &outcome); code != http.StatusOK {
		t.Fatalf("result: expected 200, got %d", code)
	}
	if outcome.Winner != "alice" || !outcome.TournamentComplete {
		t.Fatalf("expected alice to win the tournament, got %+v", outcome)
	}
	if outcome.Tournament.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", outcome.Tournament.Status)
	}
	if code := ts.do(http.MethodPost, result, "alice", valid, nil); code != http.StatusConflict {
		t.Fatalf("resubmission: expected 409, got %d", code)
	}

	var board struct {
		Leaderboard []models.StandingEntry `json:"leaderboard"`
	}
	if code := ts.do(http.MethodGet, base+"/leaderboard", "", nil, &board); code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", code)
	}
	if len(board.Leaderboard) != 2 || board.Leaderboard[0].ParticipantID != "alice" || board.Leaderboard[0].Position != 1 {
		t.Fatalf("unexpected leaderboard %+v", board.Leaderboard)
	}
}

func TestStartWithoutEnoughParticipants(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTournament("org")
	ts.openRegistration()

	if code := ts.do(http.MethodPost, "/tournaments/"+id+"/start", "org", nil, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestCancelTournament(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createTournament("org")
	path := "/tournaments/" + id + "/cancel"

	if code := ts.do(http.MethodPost, path, "mallory", nil, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if code := ts.do(http.MethodPost, path, "org", nil, nil); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}
	if code := ts.do(http.MethodPost, path, "org", nil, nil); code != http.StatusConflict {
		t.Fatalf("second cancel: expected 409, got %d", code)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	var out struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if code := ts.do(http.MethodGet, "/healthz", "", nil, &out); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if out.Status != "ok" || len(out.Checks) != 0 {
		t.Fatalf("unexpected health body %+v", out)
	}
}

func TestHealthzReportsFailingCheck(t *testing.T) {
	h := handlers.NewHealthHandler(map[string]handlers.HealthChecker{
		"postgres": handlers.HealthCheckFunc(func(context.Context) error { return nil }),
		"redis":    handlers.HealthCheckFunc(func(context.Context) error { return context.DeadlineExceeded }),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	h.Healthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var out struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "unavailable" || out.Checks["postgres"] != "ok" || out.Checks["redis"] != "error" {
		t.Fatalf("unexpected health body %+v", out)
	}
}

func TestWebSocketUnknownTournament(t *testing.T) {
	ts := newTestServer(t)
	if code := ts.do(http.MethodGet, "/ws/tournaments/missing", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}
