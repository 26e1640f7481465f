// Package manager implements BoardManager: the name→board registry that
// lazily loads boards from a BoardStore, keeps a non-owning weak reference
// to each board's live Dispatcher, and autosaves on a schedule.
package manager

import (
	"context"
	"fmt"
	"sync"
	"weak"

	"github.com/oe149499/whiteboard/internal/boardstate"
	"github.com/oe149499/whiteboard/internal/dispatch"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/store"
)

// entryState discriminates an entry's two lifecycle phases.
type entryState int

const (
	stateUnloaded entryState = iota
	stateLoaded
)

// entry is BoardManager's bookkeeping for one named board: the retained
// canvas (kept even after the dispatcher is gone, so a reload doesn't
// re-read the store) and, while loaded, a weak reference to its
// Dispatcher.
type entry struct {
	mu    sync.Mutex
	state entryState
	board *boardstate.BoardState // retained across unload, nil only before first load
	disp  weak.Pointer[dispatch.Dispatcher]
}

// Manager is the board registry. Safe for concurrent use.
type Manager struct {
	store        store.BoardStore
	workers      int
	createOnMiss bool
	metrics      *metrics.Metrics

	mu      sync.Mutex
	entries map[string]*entry

	// strong holds a reference keeping each loaded Dispatcher alive as
	// long as at least one BoardHandle-holding caller is plausibly still
	// around; cleared by Unload. Without this, nothing would keep even a
	// freshly-launched Dispatcher's goroutines running since the weak
	// pointer alone never extends a lifetime.
	strongMu sync.Mutex
	strong   map[string]*dispatch.Dispatcher
}

// New returns a BoardManager reading/writing boards through st, launching
// workersPerBoard workers per dispatcher (0 selects dispatch.DefaultWorkers).
// m may be nil, in which case every dispatcher launched runs without
// instrumentation.
func New(st store.BoardStore, workersPerBoard int, createOnMiss bool, m *metrics.Metrics) *Manager {
	return &Manager{
		store:        st,
		workers:      workersPerBoard,
		createOnMiss: createOnMiss,
		metrics:      m,
		entries:      make(map[string]*entry),
		strong:       make(map[string]*dispatch.Dispatcher),
	}
}

// LoadBoard returns a BoardHandle for name, loading or relaunching the
// board's dispatcher as needed:
//   - absent + CreateOnMiss: create a fresh empty board
//   - Loaded, weak upgrade succeeds: reuse the live dispatcher
//   - Loaded, weak upgrade fails (no workers alive): rebuild from the
//     retained canvas without re-reading the store
//   - Unloaded: read the canvas from the store and launch fresh workers
func (m *Manager) LoadBoard(ctx context.Context, name string) (*dispatch.BoardHandle, error) {
	e := m.entryFor(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateLoaded:
		if d := e.disp.Value(); d != nil {
			return d.NewBoardHandle(), nil
		}
		logger.Warn("dispatcher weak reference expired, rebuilding from retained canvas", logger.KeyBoard, name)
		d := dispatch.Launch(ctx, e.board, m.workers, m.metrics)
		e.disp = weak.Make(d)
		m.keepAlive(name, d)
		return d.NewBoardHandle(), nil

	default: // stateUnloaded
		board, err := m.loadOrCreate(name)
		if err != nil {
			return nil, err
		}
		e.board = board
		d := dispatch.Launch(ctx, board, m.workers, m.metrics)
		e.disp = weak.Make(d)
		e.state = stateLoaded
		m.keepAlive(name, d)
		return d.NewBoardHandle(), nil
	}
}

func (m *Manager) loadOrCreate(name string) (*boardstate.BoardState, error) {
	board := boardstate.New(name, m.metrics)
	items, err := m.store.Load(name)
	switch {
	case err == nil:
		board.RestoreFrom(items)
	case store.IsNotFound(err) && m.createOnMiss:
		logger.Info("creating new board", logger.KeyBoard, name)
	case store.IsNotFound(err):
		return nil, fmt.Errorf("board %q does not exist: %w", name, err)
	default:
		return nil, fmt.Errorf("load board %q: %w", name, err)
	}
	return board, nil
}

func (m *Manager) entryFor(name string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[name]
	if !ok {
		e = &entry{state: stateUnloaded}
		m.entries[name] = e
	}
	return e
}

func (m *Manager) keepAlive(name string, d *dispatch.Dispatcher) {
	m.strongMu.Lock()
	m.strong[name] = d
	m.strongMu.Unlock()
}

// Unload releases BoardManager's strong reference to name's dispatcher,
// shuts its workers down, and leaves the entry Loaded-but-weakly-expired
// so the next LoadBoard rebuilds from the retained canvas. Exposed mainly
// for tests exercising the reattach path without waiting on GC.
func (m *Manager) Unload(name string) {
	m.mu.Lock()
	e, found := m.entries[name]
	m.mu.Unlock()
	if found {
		e.mu.Lock()
		e.disp = weak.Pointer[dispatch.Dispatcher]{}
		e.mu.Unlock()
	}

	m.strongMu.Lock()
	d, ok := m.strong[name]
	delete(m.strong, name)
	m.strongMu.Unlock()
	if ok {
		d.Shutdown()
	}
}

// Autosave iterates every entry and, for each Loaded one, saves its
// current canvas through the store.
func (m *Manager) Autosave(ctx context.Context) {
	m.mu.Lock()
	names := make([]string, 0, len(m.entries))
	for name, e := range m.entries {
		e.mu.Lock()
		if e.state == stateLoaded {
			names = append(names, name)
		}
		e.mu.Unlock()
	}
	m.mu.Unlock()

	for _, name := range names {
		e := m.entryFor(name)
		e.mu.Lock()
		board := e.board
		e.mu.Unlock()
		if board == nil {
			continue
		}

		if err := m.store.Save(name, board.Canvas); err != nil {
			logger.Error("autosave failed", logger.KeyBoard, name, logger.KeyError, err.Error())
			continue
		}
		logger.Info("autosaved board", logger.KeyBoard, name)
	}
}
