// internal/httpserver/routes_game.go
//
// Round endpoints:
//   - POST /game/new   → start a round with a random (or fixed) target
//   - POST /game/guess → score a guess against the round's target
//   - GET  /game/{id}  → current round state
//
// Rounds belong to the caller (user id, or anonymous cookie id for guests);
// another caller's round answers 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colortrainer/internal/color"
	"github.com/robalobadob/colortrainer/internal/game"
	"github.com/robalobadob/colortrainer/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Get("/game/{id}", s.handleGetGame)
}

// newGameReq/Res payloads for POST /game/new. Target stays untyped so a
// non-string value reaches the codec's type guard.
type newGameReq struct {
	Target any `json:"target,omitempty"` // optional fixed target (testing)
}
type newGameRes struct {
	GameID      string  `json:"gameId"`
	Target      string  `json:"target"` // "#rrggbb", rendered as the swatch
	MaxAttempts int     `json:"maxAttempts"`
	WinScore    float64 `json:"winScore"`
	State       string  `json:"state"`
}

// handleNewGame creates and stores a round owned by the caller.
// An empty body or a missing/null target picks a random one; a target that
// is present must be a valid hex color string.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	var target color.Hex
	if req.Target != nil {
		h, err := color.ParseValue(req.Target)
		if err != nil {
			writeColorError(w, err)
			return
		}
		if h == "" {
			writeColorError(w, fmt.Errorf("%w: empty target", color.ErrMalformedLength))
			return
		}
		target = h
	}

	g, err := game.New(target, s.gameOptions(s.ownerID(w, r), game.ModeNormal))
	if err != nil {
		writeColorError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	hlog.FromRequest(r).Debug().Str("gameId", g.ID).Str("mode", string(g.Mode)).Msg("round started")
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:      g.ID,
		Target:      g.Target.Display(),
		MaxAttempts: g.MaxAttempts,
		WinScore:    g.WinScore,
		State:       string(g.State()),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Score     float64          `json:"score"`
	Best      float64          `json:"best"`
	State     string           `json:"state"` // "playing" | "won" | "lost"
	Attempts  int              `json:"attempts"`
	Remaining int              `json:"remaining"` // -1 in free play
	Preview   string           `json:"preview"`   // "#rrggbb" of the guess, for the second swatch
	Hint      color.HintResult `json:"hint"`
	Target    string           `json:"target,omitempty"` // revealed once the round is over
}

// handleGuess applies a guess to the caller's round and persists it.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	owner := s.ownerID(w, r)

	s.guessMu.Lock()
	defer s.guessMu.Unlock()

	g, ok := s.loadOwned(w, r, req.GameID, owner)
	if !ok {
		return
	}
	a, state, err := g.ApplyGuess(req.Guess)
	if errors.Is(err, game.ErrFinished) {
		writeError(w, http.StatusConflict, "game_finished", err.Error())
		return
	}
	if err != nil {
		writeColorError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", g.ID).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}

	hint, err := color.Hint(g.Target, a.Guess)
	if err != nil {
		// both colors were decoded while scoring
		hlog.FromRequest(r).Warn().Err(err).Msg("hint")
	}
	res := guessRes{
		Score:     a.Score,
		Best:      g.Best,
		State:     string(state),
		Attempts:  len(g.Attempts),
		Remaining: g.Remaining(),
		Preview:   a.Guess.Display(),
		Hint:      hint,
	}
	if g.Finished {
		res.Target = g.Target.Display()
		hlog.FromRequest(r).Info().Str("gameId", g.ID).Str("state", res.State).
			Float64("best", g.Best).Int("attempts", res.Attempts).Msg("round finished")
	}
	writeJSON(w, http.StatusOK, res)
}

type gameView struct {
	GameID      string         `json:"gameId"`
	Mode        string         `json:"mode"`
	Target      string         `json:"target"`
	State       string         `json:"state"`
	Best        float64        `json:"best"`
	MaxAttempts int            `json:"maxAttempts"`
	Remaining   int            `json:"remaining"`
	Attempts    []game.Attempt `json:"attempts"`
	StartedAt   string         `json:"startedAt"`
}

func viewOf(g *game.Game) gameView {
	return gameView{
		GameID:      g.ID,
		Mode:        string(g.Mode),
		Target:      g.Target.Display(),
		State:       string(g.State()),
		Best:        g.Best,
		MaxAttempts: g.MaxAttempts,
		Remaining:   g.Remaining(),
		Attempts:    g.Attempts,
		StartedAt:   g.StartedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadOwned(w, r, chi.URLParam(r, "id"), s.ownerID(w, r))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

// loadOwned fetches a round and checks ownership; it writes the 404 itself.
func (s *Server) loadOwned(w http.ResponseWriter, r *http.Request, id, owner string) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && g.Owner != owner) {
		writeError(w, http.StatusNotFound, "not_found", "game "+id)
		return nil, false
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return nil, false
	}
	return g, true
}

func (s *Server) gameOptions(owner string, mode game.Mode) game.Options {
	return game.Options{
		Owner:       owner,
		Mode:        mode,
		MaxAttempts: s.cfg.MaxAttempts,
		WinScore:    s.cfg.WinScore,
	}
}
