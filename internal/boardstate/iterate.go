package boardstate

import (
	"github.com/oe149499/whiteboard/internal/wire"
)

// getFullItemsFlushThreshold mirrors wire.GetFullItemsFlushThreshold as a
// package variable so tests can shrink it without touching the wire
// package's public constant.
var getFullItemsFlushThreshold = wire.GetFullItemsFlushThreshold

// GetFullItems streams a lookup result for every requested ItemID,
// flushing every 16 items and sending exactly one terminal part.
func (b *BoardState) GetFullItems(p wire.GetFullItemsParams, handle *IterateHandle[wire.FullItemResult]) {
	for i, id := range p.IDs {
		var result wire.FullItemResult
		result.ID = id

		item, ok := b.Canvas.Get(id)
		if !ok {
			result.Result = wire.Err[wire.RawItem](wire.NewError(wire.ErrNotFound, ""))
		} else {
			raw, err := wire.NewRawItem(item)
			if err != nil {
				result.Result = wire.Err[wire.RawItem](wire.NewError(wire.ErrInternal, "encode failure"))
			} else {
				result.Result = wire.Ok(raw)
			}
		}

		handle.Push([]wire.FullItemResult{result})
		if (i+1)%getFullItemsFlushThreshold == 0 {
			handle.FlushResponse()
		}
	}
	handle.Finalize()
}

// GetActivePath attaches handle to the named in-progress path, seeding it
// with the nodes accumulated so far. Further points and the terminal part
// are delivered by ContinuePath/EndPath as the path continues.
func (b *BoardState) GetActivePath(p wire.GetActivePathParams, handle *IterateHandle[wire.SplineNode]) {
	path, ok := b.activePath(p.PathID)
	if !ok {
		handle.Reject(wire.LevelWarning, wire.NonExistentID("PathID", uint32(p.PathID)))
		return
	}
	path.Attach(handle)
}
