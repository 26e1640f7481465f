// Package boardstate implements the concurrency-safe aggregate that backs
// one board: its canvas, its connected clients, the selection/ownership
// algorithm, in-progress paths, and every Method/Iterate handler defined
// on the wire protocol.
package boardstate

import (
	"sync"

	"github.com/oe149499/whiteboard/internal/activepath"
	"github.com/oe149499/whiteboard/internal/canvas"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/wire"
)

// BoardState is the full in-memory state of one board. It is safe for
// concurrent use by the dispatcher's worker pool: the canvas is internally
// lock-striped, the selection index is guarded by its own mutex, client_ids is guarded by its own
// mutex, and the active-path map is guarded by its own mutex protecting a
// map of independently-locked paths.
type BoardState struct {
	Name    string
	Canvas  *canvas.Canvas
	metrics *metrics.Metrics

	selection *SelectionIndex

	clientsMu sync.RWMutex
	clients   map[ids.ClientID]*ClientState
	clientIDs []ids.ClientID // ordered, append-only except on exit

	clientAlloc  ids.ClientAlloc
	sessionAlloc ids.SessionAlloc

	pathsMu   sync.RWMutex
	paths     map[ids.PathID]*activepath.ActivePath
	pathAlloc ids.PathAlloc
}

// New creates an empty BoardState for a freshly-loaded or freshly-created
// board named name. m may be nil, in which case BoardState runs without
// instrumentation.
func New(name string, m *metrics.Metrics) *BoardState {
	return &BoardState{
		Name:      name,
		Canvas:    canvas.New(),
		metrics:   m,
		selection: NewSelectionIndex(),
		clients:   make(map[ids.ClientID]*ClientState),
		paths:     make(map[ids.PathID]*activepath.ActivePath),
	}
}

// RestoreFrom rebuilds the canvas side of BoardState from a loaded
// snapshot (used by BoardManager.LoadBoard). Each item is inserted under
// its own id; the allocator is bumped past the highest id so it never
// reissues one.
func (b *BoardState) RestoreFrom(items map[ids.ItemID]wire.Item) {
	var highest ids.ItemID
	for id, item := range items {
		b.Canvas.Insert(id, item)
		b.selection.Insert(id)
		if id > highest {
			highest = id
		}
	}
	b.Canvas.Reseed(highest)
	b.sampleItemCount()
}

// sampleItemCount publishes the canvas's current population to the items
// gauge. Called after every operation that adds or removes items.
func (b *BoardState) sampleItemCount() {
	b.metrics.SetItemCount(b.Name, b.Canvas.Len())
}

// sampleActivePaths publishes the current number of in-progress paths to
// the active-paths gauge. Called after every path begin/end.
func (b *BoardState) sampleActivePaths() {
	b.pathsMu.RLock()
	n := len(b.paths)
	b.pathsMu.RUnlock()
	b.metrics.SetActivePaths(b.Name, n)
}

// CreateSession allocates a fresh ClientID and SessionID, registers info
// under the ClientID, appends it to the broadcast order, and announces the
// join. This is the board-side half of SessionRegistry.Create: the
// registry asks the board to allocate, then records the SessionID→
// (ClientID, BoardHandle) binding itself.
func (b *BoardState) CreateSession(info wire.ClientInfo) (ids.ClientID, ids.SessionID) {
	clientID := b.clientAlloc.Next()
	sessionID := b.sessionAlloc.Next()
	state := NewClientState(info)

	b.clientsMu.Lock()
	b.clients[clientID] = state
	b.clientIDs = append(b.clientIDs, clientID)
	b.clientsMu.Unlock()

	logger.Info("client joined", logger.KeyBoard, b.Name, logger.KeyClientID, uint32(clientID))
	b.Broadcast(wire.NewNotify(string(wire.NotifyClientJoined), wire.ClientJoinedPayload{
		ClientID: clientID,
		Info:     info,
	}))
	return clientID, sessionID
}

// Client looks up a client's state.
func (b *BoardState) Client(id ids.ClientID) (*ClientState, bool) {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	c, ok := b.clients[id]
	return c, ok
}

// ClientIDs returns a snapshot of every client id ever joined, in join
// order — the deterministic order Broadcast delivers in.
func (b *BoardState) ClientIDs() []ids.ClientID {
	b.clientsMu.RLock()
	defer b.clientsMu.RUnlock()
	return append([]ids.ClientID(nil), b.clientIDs...)
}

// Connect attaches a transport link to an existing client (by id), used
// when a socket connects to an already-created session.
func (b *BoardState) Connect(id ids.ClientID, l *link.ClientLink) bool {
	c, ok := b.Client(id)
	if !ok {
		return false
	}
	c.SetLink(l)
	b.Broadcast(wire.NewNotify(string(wire.NotifyClientConnected), wire.ClientConnectedPayload{ClientID: id}))
	return true
}

// Disconnect clears a client's transport link without destroying its
// session state. Outstanding frames from this client already queued still
// run; their sends simply no-op against the now-nil link.
func (b *BoardState) Disconnect(id ids.ClientID) {
	c, ok := b.Client(id)
	if !ok {
		return
	}
	c.SetLink(nil)
	b.Broadcast(wire.NewNotify(string(wire.NotifyClientDisconnected), wire.ClientDisconnectedPayload{ClientID: id}))
}

// Broadcast serializes msg once and fans it out to every connected
// client's link, in ClientIDs order. A link refusing (or absent) is logged
// and skipped — backpressure from one client must never stall the board.
func (b *BoardState) Broadcast(msg any) {
	payload, err := wire.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal broadcast", logger.KeyBoard, b.Name, logger.KeyError, err.Error())
		return
	}
	for _, id := range b.ClientIDs() {
		c, ok := b.Client(id)
		if !ok {
			continue
		}
		l := c.Link()
		if l == nil {
			continue
		}
		if err := l.SendPayload(payload); err != nil {
			logger.Warn("broadcast send failed", logger.KeyBoard, b.Name, logger.KeyClientID, uint32(id))
		}
	}
}

// activePath looks up an in-progress path.
func (b *BoardState) activePath(id ids.PathID) (*activepath.ActivePath, bool) {
	b.pathsMu.RLock()
	defer b.pathsMu.RUnlock()
	p, ok := b.paths[id]
	return p, ok
}

// addActivePath registers a newly-begun path.
func (b *BoardState) addActivePath(p *activepath.ActivePath) {
	b.pathsMu.Lock()
	b.paths[p.ID] = p
	b.pathsMu.Unlock()
	b.sampleActivePaths()
}

// removeActivePath drops a closed path from the board-wide map.
func (b *BoardState) removeActivePath(id ids.PathID) {
	b.pathsMu.Lock()
	delete(b.paths, id)
	b.pathsMu.Unlock()
	b.sampleActivePaths()
}
