package manager

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oe149499/whiteboard/internal/canvas"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/store"
	"github.com/oe149499/whiteboard/internal/wire"
)

// memStore is an in-memory store.BoardStore double for testing Manager
// without touching the filesystem.
type memStore struct {
	mu    sync.Mutex
	saved map[string]map[ids.ItemID]wire.Item
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]map[ids.ItemID]wire.Item)}
}

func (s *memStore) Load(name string) (map[ids.ItemID]wire.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.saved[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return items, nil
}

func (s *memStore) Save(name string, c *canvas.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[ids.ItemID]wire.Item)
	c.Scan(func(id ids.ItemID, item wire.Item) { items[id] = item })
	s.saved[name] = items
	return nil
}

func (s *memStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.saved))
	for n := range s.saved {
		names = append(names, n)
	}
	return names, nil
}

func TestManager_LoadBoardCreatesOnMiss(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, true, nil)

	handle, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)
	require.NotNil(t, handle)
}

func TestManager_LoadBoardFailsWithoutCreateOnMiss(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, false, nil)

	_, err := m.LoadBoard(context.Background(), "missing")
	assert.Error(t, err)
}

func TestManager_LoadBoardReusesLiveDispatcher(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, true, nil)

	h1, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)
	h2, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)

	// Both handles enqueue onto the same live dispatcher: a session
	// request through either one must succeed.
	reply1 := h1.RequestSession(wire.ClientInfo{Name: "a"})
	reply2 := h2.RequestSession(wire.ClientInfo{Name: "b"})
	assert.NotEqual(t, reply1.ClientID, reply2.ClientID)
}

func TestManager_AutosavePersistsLoadedBoards(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, true, nil)

	handle, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)
	reply := handle.RequestSession(wire.ClientInfo{})
	_ = reply

	m.Autosave(context.Background())

	_, loadErr := st.Load("board-a")
	assert.NoError(t, loadErr)
}

func TestManager_UnloadShutsDownDispatcher(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, true, nil)

	_, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)

	assert.NotPanics(t, func() { m.Unload("board-a") })
}

func TestManager_LoadBoardRebuildsAfterUnload(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	m := New(st, 1, true, nil)

	h1, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)
	h1.RequestSession(wire.ClientInfo{Name: "a"})
	m.Unload("board-a")

	h2, err := m.LoadBoard(context.Background(), "board-a")
	require.NoError(t, err)
	require.NotNil(t, h2)
}
