package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// Feeders returns how many matches of the previous round feed the match at
// (roundIdx, matchIdx). Round 1 slots are seeded directly and count as 2.
func Feeders(b *models.Bracket, roundIdx, matchIdx int) int {
	if roundIdx == 0 {
		return 2
	}
	prev := len(b.Rounds[roundIdx-1].Matches)
	return min(2, prev-2*matchIdx)
}

// IsFinalRound reports whether roundIdx is the last round of the bracket.
func IsFinalRound(b *models.Bracket, roundIdx int) bool {
	return roundIdx == len(b.Rounds)-1
}

// Advance places winner of (roundIdx, matchIdx) into match matchIdx/2 of the
// next round, filling player1 first. A next-round match with a single feeder
// turns into a bye as soon as its player arrives and advances again. It
// returns the ids of the bye matches resolved on the way.
func Advance(b *models.Bracket, roundIdx, matchIdx int, winner string, now time.Time) ([]string, error) {
	if IsFinalRound(b, roundIdx) {
		return nil, nil
	}

	nr, nm := roundIdx+1, matchIdx/2
	next := &b.Rounds[nr].Matches[nm]

	w := winner
	switch {
	case next.Player1 == nil:
		next.Player1 = &w
	case next.Player2 == nil:
		if *next.Player1 == winner {
			return nil, fmt.Errorf("%w: %s already holds %s", errSlotConflict, next.MatchID, winner)
		}
		next.Player2 = &w
	default:
		return nil, fmt.Errorf("%w: %s has both slots filled", errSlotConflict, next.MatchID)
	}

	if Feeders(b, nr, nm) == 1 {
		return ResolveBye(b, nr, nm, now)
	}
	return nil, nil
}

// ResolveBye completes the match at (roundIdx, matchIdx) in favour of its only
// player and advances that player.
func ResolveBye(b *models.Bracket, roundIdx, matchIdx int, now time.Time) ([]string, error) {
	match := &b.Rounds[roundIdx].Matches[matchIdx]
	if match.Player1 == nil || match.Player2 != nil {
		return nil, fmt.Errorf("%w: %s is not a single-player match", errSlotConflict, match.MatchID)
	}

	winner := *match.Player1
	end := now
	match.Status = models.MatchBye
	match.Winner = &winner
	match.EndTime = &end

	more, err := Advance(b, roundIdx, matchIdx, winner, now)
	if err != nil {
		return nil, err
	}
	return append([]string{match.MatchID}, more...), nil
}
