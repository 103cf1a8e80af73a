// internal/store/memory.go
//
// Session store for active Color Trainer rounds.
// This file defines the Store interface and the in-memory implementation,
// used in development/testing or when durability is not required.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied on Save/Get so callers never share a round.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/colortrainer/internal/game"
)

// ErrNotFound is returned by Get for unknown round IDs.
var ErrNotFound = errors.New("not found")

// ListLimit caps the number of rounds ListByOwner returns.
const ListLimit = 50

// Store defines the persistence interface for active rounds.
// It holds current round state only; rounds idle past the TTL are swept.
type Store interface {
	// Save persists or replaces a round.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// ListByOwner returns at most ListLimit of the owner's rounds, most
	// recently started first.
	ListByOwner(ctx context.Context, owner string) ([]*game.Game, error)

	// Reassign moves every round owned by from to to.
	Reassign(ctx context.Context, from, to string) (int, error)

	// Sweep deletes rounds last updated before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = clone(g)
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return clone(g), nil
	}
	return nil, ErrNotFound
}

func (m *memory) ListByOwner(ctx context.Context, owner string) ([]*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*game.Game{}
	for _, g := range m.games {
		if g.Owner == owner {
			out = append(out, clone(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > ListLimit {
		out = out[:ListLimit]
	}
	return out, nil
}

func (m *memory) Reassign(ctx context.Context, from, to string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range m.games {
		if g.Owner == from {
			g.Owner = to
			n++
		}
	}
	return n, nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}

// clone copies a round including its attempts slice.
func clone(g *game.Game) *game.Game {
	c := *g
	c.Attempts = append([]game.Attempt{}, g.Attempts...)
	return &c
}
