package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robalobadob/colortrainer/assets"
	"github.com/robalobadob/colortrainer/internal/config"
	"github.com/robalobadob/colortrainer/internal/db"
	"github.com/robalobadob/colortrainer/internal/store"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "ct_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "test_salt",
		MaxAttempts:    3,
		WinScore:       99,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(context.Background(), conn, assets.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ts := httptest.NewServer(New(testConfig(), store.NewMemoryStore(), conn).Router())
	t.Cleanup(ts.Close)
	return ts
}

// client is one browser: it keeps its own cookies.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, _ := cookiejar.New(nil)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

// raw sends body verbatim, for payloads json.Encoder would not produce.
func (c *client) raw(method, path, body string, out any) int {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *client) send(req *http.Request, out any) int {
	c.t.Helper()
	res, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", req.Method, req.URL.Path, err)
		}
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var out map[string]bool
	if code := c.do("GET", "/health", nil, &out); code != 200 || !out["ok"] {
		t.Fatalf("health code=%d out=%v", code, out)
	}
	var nf errorRes
	if code := c.do("GET", "/nope", nil, &nf); code != 404 || nf.Error != "not_found" {
		t.Fatalf("404 code=%d out=%+v", code, nf)
	}
}

func TestColorValidate(t *testing.T) {
	c := newClient(t, newTestServer(t))
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"a1b2c3", true},
		{"a1b2c3d", false},
		{"zzzzzz", false},
	}
	for _, tc := range tests {
		var out struct {
			OK      bool   `json:"ok"`
			Message string `json:"message"`
		}
		if code := c.do("POST", "/color/validate", validateReq{Value: tc.value}, &out); code != 200 {
			t.Fatalf("validate(%q) code=%d", tc.value, code)
		}
		if out.OK != tc.ok || (!tc.ok && out.Message == "") || (tc.ok && out.Message != "") {
			t.Fatalf("validate(%q)=%+v", tc.value, out)
		}
	}
}

func TestColorScore(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var out scoreRes
	if code := c.do("POST", "/color/score", map[string]any{"target": "#000000", "guess": "ffffff"}, &out); code != 200 {
		t.Fatalf("code=%d", code)
	}
	if out.Score != 0 || out.Guess != "#ffffff" {
		t.Fatalf("out=%+v", out)
	}
	if c.do("POST", "/color/score", map[string]any{"target": "#808080", "guess": "#000000"}, &out); out.Score != 49.8 {
		t.Fatalf("mid gray=%v", out.Score)
	}

	errs := []struct {
		body map[string]any
		code string
	}{
		{map[string]any{"target": []int{255, 0, 0}, "guess": "#000000"}, "invalid_input_type"},
		{map[string]any{"target": "#000000", "guess": 255}, "invalid_input_type"},
		{map[string]any{"target": "#000000", "guess": "#fff"}, "malformed_length"},
		{map[string]any{"target": "#0000zz", "guess": "#000000"}, "invalid_hex_digit"},
	}
	for _, tc := range errs {
		var e errorRes
		if code := c.do("POST", "/color/score", tc.body, &e); code != 400 || e.Error != tc.code {
			t.Fatalf("body=%v code=%d err=%+v want %s", tc.body, code, e, tc.code)
		}
	}
}

func TestColorDecodeAndRandom(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var out decodeRes
	if code := c.do("GET", "/color/decode?hex=%23ff8000", nil, &out); code != 200 {
		t.Fatalf("code=%d", code)
	}
	if out.RGB != [3]int{255, 128, 0} || out.Hex != "#ff8000" {
		t.Fatalf("out=%+v", out)
	}
	var e errorRes
	if code := c.do("GET", "/color/decode?hex=abc", nil, &e); code != 400 || e.Error != "malformed_length" {
		t.Fatalf("code=%d err=%+v", code, e)
	}
	var rnd map[string]string
	c.do("GET", "/color/random", nil, &rnd)
	if len(rnd["color"]) != 7 || rnd["color"][0] != '#' {
		t.Fatalf("random=%v", rnd)
	}
}

func TestGameFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var ng newGameRes
	if code := c.do("POST", "/game/new", newGameReq{Target: "#FF8000"}, &ng); code != 200 {
		t.Fatalf("new code=%d", code)
	}
	if ng.GameID == "" || ng.Target != "#ff8000" || ng.MaxAttempts != 3 || ng.State != "playing" {
		t.Fatalf("new=%+v", ng)
	}

	var g1 guessRes
	if code := c.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: "000000"}, &g1); code != 200 {
		t.Fatalf("guess code=%d", code)
	}
	if g1.State != "playing" || g1.Attempts != 1 || g1.Remaining != 2 || g1.Preview != "#000000" || g1.Target != "" {
		t.Fatalf("guess1=%+v", g1)
	}
	if g1.Hint.Lightness != "lighter" {
		t.Fatalf("hint=%+v", g1.Hint)
	}

	var g2 guessRes
	c.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: "#ff8000"}, &g2)
	if g2.Score != 100 || g2.State != "won" || g2.Best != 100 || g2.Target != "#ff8000" {
		t.Fatalf("guess2=%+v", g2)
	}

	var e errorRes
	if code := c.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: "ff8000"}, &e); code != 409 || e.Error != "game_finished" {
		t.Fatalf("after win code=%d err=%+v", code, e)
	}

	var view gameView
	if code := c.do("GET", "/game/"+ng.GameID, nil, &view); code != 200 {
		t.Fatalf("get code=%d", code)
	}
	if view.State != "won" || len(view.Attempts) != 2 || view.Attempts[1].Score != 100 {
		t.Fatalf("view=%+v", view)
	}
}

func TestGuessRejections(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var ng newGameRes
	c.do("POST", "/game/new", nil, &ng)

	cases := []struct {
		guess string
		code  string
	}{
		{"zzzzzz", "invalid_guess"},
		{"1234567", "invalid_guess"},
		{"abc", "incomplete_guess"},
		{"", "incomplete_guess"},
	}
	for _, tc := range cases {
		var e errorRes
		if code := c.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: tc.guess}, &e); code != 400 || e.Error != tc.code {
			t.Fatalf("guess %q code=%d err=%+v want %s", tc.guess, code, e, tc.code)
		}
	}
	var view gameView
	c.do("GET", "/game/"+ng.GameID, nil, &view)
	if len(view.Attempts) != 0 {
		t.Fatalf("rejected guesses were recorded: %+v", view.Attempts)
	}

	targets := []struct {
		body string
		code string
	}{
		{`{"target":"#12345"}`, "malformed_length"},
		{`{"target":""}`, "malformed_length"},
		{`{"target":"#gg0000"}`, "invalid_hex_digit"},
		{`{"target":[255,0,0]}`, "invalid_input_type"},
		{`{"target":16711680}`, "invalid_input_type"},
		{`{"target":"#ff8000"`, "bad_json"},
		{`not json`, "bad_json"},
	}
	for _, tc := range targets {
		var e errorRes
		if code := c.raw("POST", "/game/new", tc.body, &e); code != 400 || e.Error != tc.code {
			t.Fatalf("new %s code=%d err=%+v want %s", tc.body, code, e, tc.code)
		}
	}
	var ok newGameRes
	if code := c.raw("POST", "/game/new", `{"target":null}`, &ok); code != 200 || ok.Target == "" {
		t.Fatalf("null target code=%d %+v", code, ok)
	}
}

func TestGameOwnership(t *testing.T) {
	ts := newTestServer(t)
	alice, mallory := newClient(t, ts), newClient(t, ts)

	var ng newGameRes
	alice.do("POST", "/game/new", nil, &ng)

	var e errorRes
	if code := mallory.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: "000000"}, &e); code != 404 {
		t.Fatalf("foreign guess code=%d", code)
	}
	if code := mallory.do("GET", "/game/"+ng.GameID, nil, &e); code != 404 {
		t.Fatalf("foreign get code=%d", code)
	}
	if code := alice.do("GET", "/game/"+ng.GameID, nil, &gameView{}); code != 200 {
		t.Fatalf("own get code=%d", code)
	}
}

func TestDailyRound(t *testing.T) {
	ts := newTestServer(t)
	a, b := newClient(t, ts), newClient(t, ts)

	var first, again, other newRes
	a.do("POST", "/daily/new", nil, &first)
	a.do("POST", "/daily/new", nil, &again)
	b.do("POST", "/daily/new", nil, &other)

	if first.GameID == "" || first.Resumed {
		t.Fatalf("first=%+v", first)
	}
	if again.GameID != first.GameID || !again.Resumed {
		t.Fatalf("again=%+v first=%+v", again, first)
	}
	if other.GameID == first.GameID || other.Target != first.Target || other.Date != first.Date {
		t.Fatalf("other=%+v first=%+v", other, first)
	}

	var view gameView
	a.do("GET", "/game/"+first.GameID, nil, &view)
	if view.Mode != "daily" {
		t.Fatalf("mode=%q", view.Mode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	var e errorRes
	if code := c.do("GET", "/auth/me", nil, &e); code != 401 {
		t.Fatalf("me before login code=%d", code)
	}

	// play as a guest first; the round must follow the account
	var ng newGameRes
	c.do("POST", "/game/new", nil, &ng)

	var su map[string]any
	if code := c.do("POST", "/auth/signup", signupReq{Username: "painter", Password: "correct horse"}, &su); code != 200 {
		t.Fatalf("signup code=%d", code)
	}
	var me authUser
	if code := c.do("GET", "/auth/me", nil, &me); code != 200 || me.Username != "painter" {
		t.Fatalf("me code=%d me=%+v", code, me)
	}
	var mine []gameView
	if code := c.do("GET", "/games/mine", nil, &mine); code != 200 || len(mine) != 1 || mine[0].GameID != ng.GameID {
		t.Fatalf("mine code=%d %+v", code, mine)
	}
	if code := c.do("POST", "/game/guess", guessReq{GameID: ng.GameID, Guess: "123456"}, &guessRes{}); code != 200 {
		t.Fatalf("guess on claimed round code=%d", code)
	}

	if code := c.do("POST", "/auth/signup", signupReq{Username: "Painter", Password: "another pass"}, &e); code != 409 {
		t.Fatalf("duplicate signup code=%d", code)
	}
	if code := c.do("POST", "/auth/signup", signupReq{Username: "x", Password: "short"}, &e); code != 400 {
		t.Fatalf("invalid signup code=%d", code)
	}

	c.do("POST", "/auth/logout", nil, nil)
	if code := c.do("GET", "/auth/me", nil, &e); code != 401 {
		t.Fatalf("me after logout code=%d", code)
	}

	other := newClient(t, ts)
	if code := other.do("POST", "/auth/login", loginReq{Username: "painter", Password: "wrong password"}, &e); code != 401 {
		t.Fatalf("bad login code=%d", code)
	}
	if code := other.do("POST", "/auth/login", loginReq{Username: "PAINTER", Password: "correct horse"}, &map[string]any{}); code != 200 {
		t.Fatalf("login code=%d", code)
	}
	if code := other.do("GET", "/games/mine", nil, &mine); code != 200 || len(mine) != 1 {
		t.Fatalf("mine after login code=%d %+v", code, mine)
	}
}

func TestDailyRoundFollowsAccount(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient(t, ts)

	var before newRes
	guest.do("POST", "/daily/new", nil, &before)
	if code := guest.do("POST", "/auth/signup", signupReq{Username: "daily_fan", Password: "password123"}, nil); code != 200 {
		t.Fatalf("signup code=%d", code)
	}
	var after newRes
	guest.do("POST", "/daily/new", nil, &after)
	if !after.Resumed || after.GameID != before.GameID {
		t.Fatalf("after signup=%+v before=%+v", after, before)
	}

	// a second browser plays today's color as a guest, then logs into the
	// same account: the account keeps the round it already had
	laptop := newClient(t, ts)
	var other newRes
	laptop.do("POST", "/daily/new", nil, &other)
	if other.GameID == before.GameID {
		t.Fatalf("guests share a daily round")
	}
	if code := laptop.do("POST", "/auth/login", loginReq{Username: "daily_fan", Password: "password123"}, nil); code != 200 {
		t.Fatalf("login code=%d", code)
	}
	var resumed newRes
	laptop.do("POST", "/daily/new", nil, &resumed)
	if !resumed.Resumed || resumed.GameID != before.GameID {
		t.Fatalf("after login=%+v want round %s", resumed, before.GameID)
	}
}

func TestInsertUserUniqueViolation(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(context.Background(), conn, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	srv := New(testConfig(), store.NewMemoryStore(), conn)
	ctx := context.Background()

	if _, err := srv.createUser(ctx, "racer", "password123"); err != nil {
		t.Fatalf("createUser: %v", err)
	}
	// a concurrent signup that passed the lookup before the first insert
	if _, err := srv.insertUser(ctx, "RACER", "hash"); !errors.Is(err, errUsernameTaken) {
		t.Fatalf("insertUser duplicate err=%v, want errUsernameTaken", err)
	}
	if _, err := srv.createUser(ctx, "x", "password123"); !errors.Is(err, errInvalidSignup) {
		t.Fatalf("createUser invalid err=%v", err)
	}
}

func TestBearerToken(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.do("POST", "/auth/signup", signupReq{Username: "bearer_user", Password: "password123"}, nil)

	srv := &Server{cfg: testConfig()}
	tok, _, err := srv.signJWT("no-such-user", "ghost")
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest("GET", ts.URL+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != 401 {
		t.Fatalf("token for deleted user code=%d", res.StatusCode)
	}
}
