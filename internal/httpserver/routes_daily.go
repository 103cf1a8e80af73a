// internal/httpserver/routes_daily.go
//
// "Color of the day" mode. Exposes:
//   - POST /daily/new → start (or resume) today's daily round
//
// Every caller gets the same target on a given UTC date (HMAC of date + salt).
// Guesses go through the regular POST /game/guess. One daily round per
// caller per date is kept in memory; nothing is ranked or shared.

package httpserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colortrainer/internal/daily"
	"github.com/robalobadob/colortrainer/internal/game"
)

// dailyServer tracks which round each caller is playing today.
type dailyServer struct {
	srv    *Server
	salt   string
	rounds map[string]string // owner|date → game id
	mu     sync.Mutex        // guards rounds
	now    func() time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:    s,
		salt:   s.cfg.DailySalt,
		rounds: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
	})
}

// newRes is returned by /daily/new.
type newRes struct {
	GameID  string `json:"gameId"`
	Date    string `json:"date"`
	Target  string `json:"target"`
	Resumed bool   `json:"resumed"`
}

// handleNew creates or reuses the caller's daily round for the current date.
// A remembered round that the store no longer has (swept) is replaced.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.ownerID(w, r)
	now := d.now()
	date := daily.DateKey(now)
	key := owner + "|" + date

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)

	if id, ok := d.rounds[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), id); err == nil && g.Owner == owner {
			writeJSON(w, http.StatusOK, newRes{GameID: g.ID, Date: date, Target: g.Target.Display(), Resumed: true})
			return
		}
	}

	g, err := game.New(daily.Target(now, d.salt), d.srv.gameOptions(owner, game.ModeDaily))
	if err != nil {
		writeColorError(w, err)
		return
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save daily game")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	d.rounds[key] = g.ID
	writeJSON(w, http.StatusOK, newRes{GameID: g.ID, Date: date, Target: g.Target.Display()})
}

// pruneLocked forgets rounds from previous dates. d.mu must be held.
func (d *dailyServer) pruneLocked(today string) {
	for k := range d.rounds {
		if !strings.HasSuffix(k, "|"+today) {
			delete(d.rounds, k)
		}
	}
}

// reassign moves remembered daily rounds from one owner to another. When
// the account already has a daily round for that date, the account's round
// is kept and the guest's is forgotten.
func (d *dailyServer) reassign(from, to string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, id := range d.rounds {
		owner, date, ok := strings.Cut(k, "|")
		if !ok || owner != from {
			continue
		}
		delete(d.rounds, k)
		if _, taken := d.rounds[to+"|"+date]; !taken {
			d.rounds[to+"|"+date] = id
		}
	}
}
