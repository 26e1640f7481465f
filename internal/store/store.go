// Package store defines BoardStore, the board engine's persistence
// boundary, and fsstore, a reference filesystem-backed implementation
// using atomic temp-file-plus-rename replacement.
package store

import (
	"errors"

	"github.com/oe149499/whiteboard/internal/canvas"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/wire"
)

// ErrNotFound is returned by Load when the named board has never been
// saved. Wrapped, not returned bare, so callers can still use errors.Is.
var ErrNotFound = errors.New("board not found")

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// BoardStore is the external collaborator BoardManager reads/writes board
// canvases through. This package's fsstore.Store is a reference
// implementation; a production deployment may back it with anything that
// can durably hold a name→canvas mapping.
type BoardStore interface {
	// Load returns the persisted item set for name, keyed by the ids the
	// items held when they were saved. Returns an error satisfying
	// IsNotFound if name has never been saved.
	Load(name string) (map[ids.ItemID]wire.Item, error)
	// Save atomically replaces name's persisted snapshot with c's current
	// contents.
	Save(name string, c *canvas.Canvas) error
	// List returns every board name currently persisted.
	List() ([]string, error)
}
