package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

// BracketArchiver stores the final bracket of a completed tournament and
// returns where it can be fetched.
type BracketArchiver interface {
	ArchiveBracket(ctx context.Context, t *models.Tournament) (string, error)
}

type MatchResultOutcome struct {
	Tournament         *models.Tournament `json:"tournament"`
	Winner             string             `json:"winner"`
	TournamentComplete bool               `json:"tournament_complete"`
}

type MatchService interface {
	SubmitMatchResult(ctx context.Context, tournamentID, matchID, callerID string, results []models.GameResult) (*MatchResultOutcome, error)
	StartMatch(ctx context.Context, tournamentID, matchID, callerID string) (*models.Tournament, error)
}

type matchService struct {
	Deps
	archiver BracketArchiver
}

// NewMatchService builds the match resolver. archiver may be nil.
func NewMatchService(deps Deps, archiver BracketArchiver) MatchService {
	return &matchService{Deps: deps.withDefaults(), archiver: archiver}
}

// locateMatch runs the checks shared by every match command, in order:
// tournament active, caller on the roster or the organizer, match exists,
// caller is a player of that match or the organizer. Callers outside the
// tournament are refused before the match id is looked up.
func locateMatch(t *models.Tournament, matchID, callerID string) (int, int, error) {
	if t.Status != models.StatusActive {
		return 0, 0, fmt.Errorf("%w: tournament %s is %s", ErrTournamentNotActive, t.ID, t.Status)
	}
	if callerID != t.OrganizerID && t.ParticipantIndex(callerID) < 0 {
		return 0, 0, ErrNotAuthorized
	}
	r, m, ok := t.Bracket.Locate(matchID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	match := &t.Bracket.Rounds[r].Matches[m]
	if callerID != t.OrganizerID && !match.HasPlayer(callerID) {
		return 0, 0, ErrNotAuthorized
	}
	if match.Status.Resolved() {
		return 0, 0, fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
	}
	if !match.Ready() {
		return 0, 0, fmt.Errorf("%w: %s", ErrMatchNotReady, matchID)
	}
	return r, m, nil
}

func (s *matchService) SubmitMatchResult(ctx context.Context, tournamentID, matchID, callerID string, results []models.GameResult) (*MatchResultOutcome, error) {
	var (
		outcome  brackets.Outcome
		byes     []string
		complete bool
	)

	t, err := s.mutate(ctx, "match.submit_result", tournamentID, func(t *models.Tournament, now time.Time) error {
		var err error
		outcome, byes, complete, err = resolveMatch(t, matchID, callerID, results, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "Match resolved",
		slog.String("tournament_id", t.ID),
		slog.String("match_id", matchID),
		slog.String("winner", outcome.Winner),
		slog.Any("byes", byes),
		slog.Bool("tournament_complete", complete))

	event := s.newEvent(t, models.EventMatchCompleted)
	event.MatchID = matchID
	event.WinnerID = outcome.Winner
	events := []models.TournamentEvent{event}

	if complete {
		done := s.newEvent(t, models.EventTournamentCompleted)
		done.WinnerID = outcome.Winner
		done.ArchiveURL = s.archive(ctx, t)
		events = append(events, done)
	}
	s.publish(ctx, events...)

	return &MatchResultOutcome{Tournament: t, Winner: outcome.Winner, TournamentComplete: complete}, nil
}

// archive is best effort; a failure only costs the archive URL.
func (s *matchService) archive(ctx context.Context, t *models.Tournament) string {
	if s.archiver == nil {
		return ""
	}
	url, err := s.archiver.ArchiveBracket(ctx, t)
	if err != nil {
		s.Logger.WarnContext(ctx, "Failed to archive completed bracket",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return ""
	}
	return url
}

// resolveMatch applies one result to the aggregate: winner and stats,
// advancement or completion, and a fresh leaderboard.
func resolveMatch(t *models.Tournament, matchID, callerID string, results []models.GameResult, now time.Time) (brackets.Outcome, []string, bool, error) {
	r, m, err := locateMatch(t, matchID, callerID)
	if err != nil {
		return brackets.Outcome{}, nil, false, err
	}
	match := &t.Bracket.Rounds[r].Matches[m]

	outcome, err := brackets.DetermineWinner(match, results)
	if err != nil {
		return brackets.Outcome{}, nil, false, err
	}
	brackets.RecordOutcome(match, outcome, now)
	t.Statistics.CompletedMatches++

	winner := t.Participant(outcome.Winner)
	loser := t.Participant(outcome.Loser)
	if winner == nil || loser == nil {
		return brackets.Outcome{}, nil, false, fmt.Errorf("match %s references a participant missing from the roster", matchID)
	}
	applyGameStats(winner, outcome.WinnerResult, true)
	applyGameStats(loser, outcome.LoserResult, false)
	loser.Status = models.ParticipantEliminated

	var byes []string
	complete := brackets.IsFinalRound(&t.Bracket, r)
	if complete {
		if err := transition(t, models.StatusCompleted); err != nil {
			return brackets.Outcome{}, nil, false, err
		}
		t.Schedule.TournamentEnd = now
		winner.Status = models.ParticipantWinner
		id := outcome.Winner
		t.WinnerID = &id
	} else {
		byes, err = brackets.Advance(&t.Bracket, r, m, outcome.Winner, now)
		if err != nil {
			return brackets.Outcome{}, nil, false, fmt.Errorf("failed to advance winner of %s: %w", matchID, err)
		}
		t.Statistics.ByeMatches += len(byes)
		t.Statistics.CompletedMatches += len(byes)
	}

	t.Leaderboard = RecomputeLeaderboard(t.Participants)
	return outcome, byes, complete, nil
}

func (s *matchService) StartMatch(ctx context.Context, tournamentID, matchID, callerID string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, "match.start", tournamentID, func(t *models.Tournament, now time.Time) error {
		r, m, err := locateMatch(t, matchID, callerID)
		if err != nil {
			return err
		}
		match := &t.Bracket.Rounds[r].Matches[m]
		if match.Status != models.MatchPending {
			return fmt.Errorf("%w: match %s is already %s", ErrInvalidState, matchID, match.Status)
		}
		start := now
		match.Status = models.MatchInProgress
		match.StartTime = &start
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := s.newEvent(t, models.EventMatchStarted)
	event.MatchID = matchID
	s.publish(ctx, event)
	return t, nil
}
