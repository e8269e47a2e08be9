package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// bracketSnapshot is the archived record of a finished tournament.
type bracketSnapshot struct {
	TournamentID string                 `json:"tournament_id"`
	Name         string                 `json:"name"`
	WinnerID     *string                `json:"winner_id,omitempty"`
	CompletedAt  time.Time              `json:"completed_at"`
	Statistics   models.Statistics      `json:"statistics"`
	Bracket      models.Bracket         `json:"bracket"`
	Leaderboard  []models.StandingEntry `json:"leaderboard"`
}

// BracketArchiver writes the final bracket of a completed tournament to
// object storage.
type BracketArchiver struct {
	uploader ObjectUploader
}

func NewBracketArchiver(uploader ObjectUploader) *BracketArchiver {
	return &BracketArchiver{uploader: uploader}
}

func BracketKey(t *models.Tournament) string {
	name := t.Slug
	if name == "" {
		return fmt.Sprintf("tournaments/%s/bracket.json", t.ID)
	}
	return fmt.Sprintf("tournaments/%s-%s/bracket.json", name, t.ID)
}

// ArchiveBracket uploads the snapshot and returns its public URL.
func (a *BracketArchiver) ArchiveBracket(ctx context.Context, t *models.Tournament) (string, error) {
	if !t.Bracket.Built() {
		return "", errors.New("tournament has no bracket to archive")
	}

	body, err := json.Marshal(bracketSnapshot{
		TournamentID: t.ID,
		Name:         t.Name,
		WinnerID:     t.WinnerID,
		CompletedAt:  t.Schedule.TournamentEnd,
		Statistics:   t.Statistics,
		Bracket:      t.Bracket,
		Leaderboard:  t.Leaderboard,
	})
	if err != nil {
		return "", fmt.Errorf("marshal bracket snapshot: %w", err)
	}

	result, err := a.uploader.Upload(ctx, BracketKey(t), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
