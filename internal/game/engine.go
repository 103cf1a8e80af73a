// internal/game/engine.go
//
// Game engine for a single Color Trainer round.
// Responsibilities:
//   - Create rounds with a random (or fixed) target color.
//   - Gate and score guesses with the color package.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - A guess must be exactly 6 hex digits (one leading '#' is tolerated).
//     Rejected guesses do not consume an attempt.
//   - MaxAttempts == 0 gives free play: the round only ends on a win.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/colortrainer/internal/color"
)

const (
	DefaultMaxAttempts = 6
	DefaultWinScore    = 98.0
)

// ErrFinished is returned when guessing on a round that is over.
var ErrFinished = errors.New("game finished")

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// New constructs a round. If target is empty a random color is chosen;
// otherwise it must decode.
func New(target color.Hex, opts Options) (*Game, error) {
	if target == "" {
		target = color.Random()
	}
	if _, err := color.Decode(target); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if opts.Mode == "" {
		opts.Mode = ModeNormal
	}
	if opts.WinScore <= 0 || opts.WinScore > 100 {
		opts.WinScore = DefaultWinScore
	}
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	t := now()
	return &Game{
		ID:          uuid.NewString(),
		Owner:       opts.Owner,
		Mode:        opts.Mode,
		Target:      target.Normalize(),
		MaxAttempts: opts.MaxAttempts,
		WinScore:    opts.WinScore,
		Attempts:    []Attempt{},
		StartedAt:   t,
		UpdatedAt:   t,
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the round.
// Returns the scored attempt, the new state, or an error. Errors from the
// color package (*color.ValidationError, color.ErrIncompleteGuess) reach the
// caller unchanged.
func (g *Game) ApplyGuess(raw string) (Attempt, State, error) {
	if g.Finished {
		return Attempt{}, g.State(), ErrFinished
	}
	guess := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if err := color.Complete(guess); err != nil {
		return Attempt{}, g.State(), err
	}
	hex := color.Hex(guess).Normalize()
	score, err := color.Similarity(g.Target, hex)
	if err != nil {
		return Attempt{}, g.State(), err
	}

	a := Attempt{Guess: hex, Score: score, At: now()}
	g.Attempts = append(g.Attempts, a)
	g.UpdatedAt = a.At
	if score > g.Best {
		g.Best = score
	}

	if score >= g.WinScore {
		g.Finished, g.Won = true, true
	} else if g.MaxAttempts > 0 && len(g.Attempts) >= g.MaxAttempts {
		g.Finished = true
	}
	return a, g.State(), nil
}

// State reports the coarse state of the round.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Remaining reports attempts left, or -1 for free play.
func (g *Game) Remaining() int {
	if g.MaxAttempts == 0 {
		return -1
	}
	if n := g.MaxAttempts - len(g.Attempts); n > 0 {
		return n
	}
	return 0
}

// Last returns the most recent attempt, if any.
func (g *Game) Last() (Attempt, bool) {
	if len(g.Attempts) == 0 {
		return Attempt{}, false
	}
	return g.Attempts[len(g.Attempts)-1], true
}
