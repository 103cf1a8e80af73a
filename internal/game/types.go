// internal/game/types.go
//
// Core type definitions for a Color Trainer round.
// Defines:
//   - State: coarse round state (playing/won/lost).
//   - Attempt: one scored guess.
//   - Game: the explicit state of a single round, threaded through handlers
//     instead of living in shared globals.

package game

import (
	"time"

	"github.com/robalobadob/colortrainer/internal/color"
)

// State is the coarse lifecycle of a round.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Mode tells how the target was chosen.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// Attempt is a single scored guess.
type Attempt struct {
	Guess color.Hex `json:"guess"` // normalized, no '#'
	Score float64   `json:"score"` // 0..100, two decimals
	At    time.Time `json:"at"`
}

// Game holds the state of one round.
type Game struct {
	ID          string    `json:"id"`          // uuid
	Owner       string    `json:"owner"`       // user id or anonymous id
	Mode        Mode      `json:"mode"`        // normal | daily
	Target      color.Hex `json:"target"`      // normalized, no '#'
	MaxAttempts int       `json:"maxAttempts"` // 0 = unlimited
	WinScore    float64   `json:"winScore"`    // score needed to win
	Attempts    []Attempt `json:"attempts"`
	Best        float64   `json:"best"`
	Finished    bool      `json:"finished"`
	Won         bool      `json:"won"`
	StartedAt   time.Time `json:"startedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Options configure a new round.
type Options struct {
	Owner       string
	Mode        Mode
	MaxAttempts int
	WinScore    float64
}
