// internal/store/sql.go
//
// SQLite-backed Store. Each round is one row in `sessions`; the full round
// is kept as a JSON document and overwritten on every Save, so only the
// current state survives. Timestamps are unix milliseconds so that range
// queries compare numerically.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/colortrainer/internal/game"
)

type sqlStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store over db. The `sessions` table must exist
// (see assets/sql).
func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) Save(ctx context.Context, g *game.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, owner, mode, state, started_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            owner=excluded.owner,
            state=excluded.state,
            updated_at=excluded.updated_at`,
		g.ID, g.Owner, string(g.Mode), string(doc), g.StartedAt.UnixMilli(), g.UpdatedAt.UnixMilli(),
	)
	return err
}

func (s *sqlStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var owner, doc string
	err := s.db.QueryRowContext(ctx, `SELECT owner, state FROM sessions WHERE id=?`, id).Scan(&owner, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeGame(owner, doc)
}

func (s *sqlStore) ListByOwner(ctx context.Context, owner string) ([]*game.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT owner, state FROM sessions
        WHERE owner=?
        ORDER BY started_at DESC
        LIMIT ?`, owner, ListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*game.Game{}
	for rows.Next() {
		var o, doc string
		if err := rows.Scan(&o, &doc); err != nil {
			return nil, err
		}
		g, err := decodeGame(o, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Reassign updates the owner column only; decodeGame treats the column as
// authoritative over the JSON copy.
func (s *sqlStore) Reassign(ctx context.Context, from, to string) (int, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET owner=? WHERE owner=?`, to, from)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *sqlStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func decodeGame(owner, doc string) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	g.Owner = owner
	if g.Attempts == nil {
		g.Attempts = []game.Attempt{}
	}
	return &g, nil
}
