// Package fsstore is the reference BoardStore implementation: each board
// is a JSON document under a root directory, written via a temp file plus
// os.Rename so a reader never observes a half-written snapshot.
package fsstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/oe149499/whiteboard/internal/canvas"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/store"
	"github.com/oe149499/whiteboard/internal/wire"
)

var storeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists boards as JSON documents under Root.
type Store struct {
	Root string
}

// New returns a Store rooted at dir. The directory must already exist;
// New neither creates it nor checks that it exists, so a missing directory
// only surfaces as an error from Save, Load or List.
func New(dir string) *Store {
	return &Store{Root: dir}
}

// snapshotEntry is one item's on-disk record: its id alongside its
// tagged-union item payload.
type snapshotEntry struct {
	ID   ids.ItemID   `json:"id"`
	Item wire.RawItem `json:"item"`
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Root, name+".json")
}

// Load reads name's snapshot, decoding each entry's item payload.
func (s *Store) Load(name string) (map[ids.ItemID]wire.Item, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, store.ErrNotFound)
		}
		return nil, fmt.Errorf("read board %q: %w", name, err)
	}

	var entries []snapshotEntry
	if err := storeJSON.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode board %q: %w", name, err)
	}

	items := make(map[ids.ItemID]wire.Item, len(entries))
	for _, e := range entries {
		item, err := e.Item.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode item %d in board %q: %w", e.ID, name, err)
		}
		items[e.ID] = item
	}
	return items, nil
}

// Save writes c's current contents to name's snapshot, atomically
// replacing whatever was there: the new document is written to a
// uuid-suffixed temp file in the same directory, then renamed into place
// so a concurrent reader only ever sees the old or the new document, never
// a partial one.
func (s *Store) Save(name string, c *canvas.Canvas) error {
	entries := make([]snapshotEntry, 0, c.Len())
	var encodeErr error
	c.Scan(func(id ids.ItemID, item wire.Item) {
		if encodeErr != nil {
			return
		}
		raw, err := wire.NewRawItem(item)
		if err != nil {
			encodeErr = fmt.Errorf("encode item %d: %w", id, err)
			return
		}
		entries = append(entries, snapshotEntry{ID: id, Item: raw})
	})
	if encodeErr != nil {
		return encodeErr
	}

	data, err := storeJSON.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode board %q: %w", name, err)
	}

	tmpPath := filepath.Join(s.Root, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot for %q: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot for %q: %w", name, err)
	}
	return nil
}

// List returns every board name with a persisted snapshot under Root.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".json")])
	}
	return names, nil
}
