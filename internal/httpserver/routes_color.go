// internal/httpserver/routes_color.go
//
// Stateless routes over the color core. Any front end (web, CLI, desktop)
// can call these directly:
//   - POST /color/validate → per-keystroke Input Validator
//   - POST /color/score    → Similarity Scorer for an arbitrary pair
//   - GET  /color/decode   → Color Codec
//   - GET  /color/random   → a fresh random target

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/colortrainer/internal/color"
)

func (s *Server) mountColor(r chi.Router) {
	r.Route("/color", func(r chi.Router) {
		r.Post("/validate", handleValidate)
		r.Post("/score", handleScore)
		r.Get("/decode", handleDecode)
		r.Get("/random", handleRandom)
	})
}

type validateReq struct {
	Value string `json:"value"`
}

// handleValidate answers {"ok":true} or {"ok":false,"message":...}.
// A failed validation is advisory and still returns 200.
func handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, color.Validate(req.Value))
}

// scoreReq keeps both fields untyped so that non-string values reach the
// codec's type guard instead of failing inside the JSON decoder.
type scoreReq struct {
	Target any `json:"target"`
	Guess  any `json:"guess"`
}

type scoreRes struct {
	Target string  `json:"target"`
	Guess  string  `json:"guess"`
	Score  float64 `json:"score"`
}

func handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	target, err := color.ParseValue(req.Target)
	if err != nil {
		writeColorError(w, err)
		return
	}
	guess, err := color.ParseValue(req.Guess)
	if err != nil {
		writeColorError(w, err)
		return
	}
	score, err := color.Similarity(target, guess)
	if err != nil {
		writeColorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{Target: target.Display(), Guess: guess.Display(), Score: score})
}

type decodeRes struct {
	Hex string `json:"hex"`
	RGB [3]int `json:"rgb"`
}

func handleDecode(w http.ResponseWriter, r *http.Request) {
	h := color.Hex(r.URL.Query().Get("hex"))
	rgb, err := color.Decode(h)
	if err != nil {
		writeColorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decodeRes{Hex: h.Display(), RGB: rgb.Array()})
}

func handleRandom(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"color": color.Random().Display()})
}

// colorErrorCode maps codec and validator errors to stable API codes.
func colorErrorCode(err error) (int, string) {
	var ve *color.ValidationError
	switch {
	case errors.Is(err, color.ErrInvalidInputType):
		return http.StatusBadRequest, "invalid_input_type"
	case errors.Is(err, color.ErrMalformedLength):
		return http.StatusBadRequest, "malformed_length"
	case errors.Is(err, color.ErrInvalidHexDigit):
		return http.StatusBadRequest, "invalid_hex_digit"
	case errors.Is(err, color.ErrIncompleteGuess):
		return http.StatusBadRequest, "incomplete_guess"
	case errors.As(err, &ve):
		return http.StatusBadRequest, "invalid_guess"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeColorError(w http.ResponseWriter, err error) {
	status, code := colorErrorCode(err)
	writeError(w, status, code, err.Error())
}
