package services

import (
	"testing"

	"github.com/Dosada05/tournament-engine/models"
)

func ptr(f float64) *float64 { return &f }

func TestRecomputeLeaderboardOrdering(t *testing.T) {
	participants := []models.Participant{
		{ParticipantID: "no-games"},
		{ParticipantID: "low", Stats: models.ParticipantStats{GamesPlayed: 1, TotalScore: 10, BestTime: ptr(5)}},
		{ParticipantID: "high-no-time", Stats: models.ParticipantStats{GamesPlayed: 2, GamesWon: 1, TotalScore: 500}},
		{ParticipantID: "high-fast", Stats: models.ParticipantStats{GamesPlayed: 2, GamesWon: 1, TotalScore: 500, BestTime: ptr(30)}},
		{ParticipantID: "high-better-rate", Stats: models.ParticipantStats{GamesPlayed: 2, GamesWon: 2, TotalScore: 500, BestTime: ptr(90)}},
		{ParticipantID: "high-slow", Stats: models.ParticipantStats{GamesPlayed: 2, GamesWon: 1, TotalScore: 500, BestTime: ptr(45)}},
		{ParticipantID: "no-games-2"},
	}

	got := RecomputeLeaderboard(participants)
	want := []string{"high-better-rate", "high-fast", "high-slow", "high-no-time", "low", "no-games", "no-games-2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ParticipantID != id {
			t.Fatalf("position %d: expected %s, got %s", i+1, id, got[i].ParticipantID)
		}
		if got[i].Position != i+1 {
			t.Fatalf("%s has position %d, want %d", id, got[i].Position, i+1)
		}
	}
	if got[0].WinRate != 1 || got[5].WinRate != 0 {
		t.Fatalf("unexpected win rates: %v, %v", got[0].WinRate, got[5].WinRate)
	}
	if participants[0].ParticipantID != "no-games" {
		t.Fatal("input roster was reordered")
	}
}

func TestRecomputeLeaderboardIsIdempotent(t *testing.T) {
	participants := []models.Participant{
		{ParticipantID: "a", Stats: models.ParticipantStats{GamesPlayed: 1, TotalScore: 7}},
		{ParticipantID: "b", Stats: models.ParticipantStats{GamesPlayed: 1, TotalScore: 7}},
		{ParticipantID: "c", Stats: models.ParticipantStats{GamesPlayed: 1, TotalScore: 7}},
	}
	first := RecomputeLeaderboard(participants)
	second := RecomputeLeaderboard(participants)
	for i := range first {
		if first[i].ParticipantID != second[i].ParticipantID || first[i].ParticipantID != participants[i].ParticipantID {
			t.Fatalf("tie order not stable at %d: %s vs %s", i, first[i].ParticipantID, second[i].ParticipantID)
		}
	}
}

func TestApplyGameStats(t *testing.T) {
	p := &models.Participant{ParticipantID: "p"}
	applyGameStats(p, models.GameResult{Score: 10, TimeElapsed: 30}, true)
	applyGameStats(p, models.GameResult{Score: 20, TimeElapsed: 60}, false)
	applyGameStats(p, models.GameResult{Score: 5, TimeElapsed: 0}, true)

	s := p.Stats
	if s.GamesPlayed != 3 || s.GamesWon != 2 || s.TotalScore != 35 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.AverageTime != 30 {
		t.Fatalf("expected running mean 30, got %v", s.AverageTime)
	}
	if s.BestTime == nil || *s.BestTime != 30 {
		t.Fatalf("expected best time 30, got %v", s.BestTime)
	}
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to models.TournamentStatus
		want     bool
	}{
		{models.StatusUpcoming, models.StatusRegistration, true},
		{models.StatusUpcoming, models.StatusActive, false},
		{models.StatusRegistration, models.StatusActive, true},
		{models.StatusActive, models.StatusCompleted, true},
		{models.StatusActive, models.StatusRegistration, false},
		{models.StatusUpcoming, models.StatusCancelled, true},
		{models.StatusActive, models.StatusCancelled, true},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusActive, false},
	}
	for _, tt := range tests {
		if got := isValidStatusTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
