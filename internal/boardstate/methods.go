package boardstate

import (
	"runtime"
	"strconv"
	"time"

	"github.com/oe149499/whiteboard/internal/activepath"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/wire"
)

// pathFlushInterval is the 750ms cadence ContinuePath uses to push
// buffered points out to attached GetActivePath listeners. A package
// variable (not a const) so tests can shrink it.
var pathFlushInterval = 750 * time.Millisecond

// checkOwned reports whether client owns item, logging a warning on
// failure. Callers that need to distinguish NonExistentID from
// ResourceNotOwned use rejectIfNotOwned instead.
func (b *BoardState) checkOwned(client ids.ClientID, item ids.ItemID) bool {
	if b.selection.CheckOwned(client, item) {
		return true
	}
	logger.Warn("ownership check failed", logger.KeyBoard, b.Name, logger.KeyClientID, uint32(client), logger.KeyItemID, uint32(item))
	return false
}

// rejectIfNotOwned runs CheckOwned and, on failure, sends the reject:
// NonExistentID when item has no selection-index entry at all,
// ResourceNotOwned when it exists but belongs to someone else (or no one).
// level lets callers that abort the whole request on failure use Error
// while callers reporting a per-item partial failure stay at Warning.
// Returns true iff the caller may proceed.
func (b *BoardState) rejectIfNotOwned(client ids.ClientID, item ids.ItemID, level wire.RejectLevel, handle *MethodHandle) bool {
	owned, exists := b.selection.checkOwnedDetail(client, item)
	if owned {
		return true
	}
	if !exists {
		handle.Reject(level, wire.NonExistentID("ItemID", uint32(item)))
	} else {
		handle.Reject(level, wire.ResourceNotOwned(wire.ResourceItem, uint32(item)))
	}
	return false
}

// ============================================================================
// SelectionAddItems
// ============================================================================

// SelectionAddItems claims new_sits for client, verifies old_sits are
// still held, and updates the client's selection-group transform.
func (b *BoardState) SelectionAddItems(client ids.ClientID, p wire.SelectionAddItemsParams, handle *MethodHandle) {
	for _, pair := range p.OldSits {
		if !b.checkOwned(client, pair.ID) {
			logger.Warn("old_sits entry no longer owned", logger.KeyBoard, b.Name, logger.KeyItemID, uint32(pair.ID))
		}
	}

	results := make([]wire.Result[struct{}], len(p.NewSits))
	var successful []ids.ItemID
	merged := make(map[ids.ItemID]wire.Transform, len(p.NewSits))

	for i, pair := range p.NewSits {
		switch b.selection.TakeItem(client, pair.ID) {
		case Successful, AlreadyOwned:
			results[i] = wire.Ok(struct{}{})
			successful = append(successful, pair.ID)
			merged[pair.ID] = pair.Transform
		case Occupied:
			results[i] = wire.Err[struct{}](wire.NewError(wire.ErrNotAvailable, ""))
		case NonExistent:
			results[i] = wire.Err[struct{}](wire.NewError(wire.ErrNotFound, ""))
		}
	}

	if c, ok := b.Client(client); ok {
		c.MergeSelection(merged)
		c.SetOwnTransform(p.NewSRT)
	}

	handle.Respond(wire.SelectionAddItemsResponse{Results: results})
	b.Broadcast(wire.NewNotify(string(wire.NotifySelectionItemsAdded), wire.SelectionItemsAddedPayload{
		ClientID: client,
		Items:    successful,
		NewSRT:   p.NewSRT,
	}))
}

// ============================================================================
// SelectionRemoveItems
// ============================================================================

// SelectionRemoveItems relocates and releases each owned item, rejecting
// location updates of the wrong family via Item.ApplyLocationUpdate.
func (b *BoardState) SelectionRemoveItems(client ids.ClientID, p wire.SelectionRemoveItemsParams, handle *MethodHandle) {
	var applied []wire.ItemUpdatePair
	anyFailure := false

	for _, pair := range p.Items {
		if !b.checkOwned(client, pair.ID) {
			anyFailure = true
			continue
		}

		item, ok := b.Canvas.Get(pair.ID)
		if !ok {
			anyFailure = true
			continue
		}

		okApply, current := item.ApplyLocationUpdate(pair.Update)
		if !okApply {
			anyFailure = true
			handle.Reject(wire.LevelWarning, wire.IncorrectType(strconv.Itoa(int(pair.ID)), current.TypeDescriptor(), pair.Update.TypeDescriptor()))
			continue
		}

		b.Canvas.Mutate(pair.ID, func(wire.Item) wire.Item { return item })
		b.selection.Release(client, pair.ID)
		if c, ok := b.Client(client); ok {
			c.DropSelection(pair.ID)
		}
		applied = append(applied, wire.ItemUpdatePair{ID: pair.ID, Update: current})
	}

	if anyFailure {
		handle.Respond(wire.Err[struct{}](wire.NewError(wire.ErrBadData, "")))
	} else {
		handle.Respond(wire.Ok(struct{}{}))
	}

	b.Broadcast(wire.NewNotify(string(wire.NotifySelectionRemoved), wire.SelectionItemsRemovedPayload{
		ClientID: client,
		Items:    applied,
	}))
}

// ============================================================================
// SelectionMove
// ============================================================================

// SelectionMove updates the client's selection-group transform, keeping
// only the new_sits entries the client already owns.
func (b *BoardState) SelectionMove(client ids.ClientID, p wire.SelectionMoveParams, handle *MethodHandle) {
	var kept []wire.ItemTransformPair
	merged := make(map[ids.ItemID]wire.Transform)

	for _, pair := range p.NewSits {
		if b.selection.CheckOwned(client, pair.ID) {
			kept = append(kept, pair)
			merged[pair.ID] = pair.Transform
		}
	}

	if c, ok := b.Client(client); ok {
		c.SetOwnTransform(p.NewSRT)
		c.MergeSelection(merged)
	}

	handle.Respond(struct{}{})
	b.Broadcast(wire.NewNotify(string(wire.NotifySelectionMoved), wire.SelectionMovedPayload{
		ClientID:  client,
		Transform: p.NewSRT,
		NewSits:   kept,
	}))
}

// ============================================================================
// EditSingleItem / EditBatchItems
// ============================================================================

// EditSingleItem replaces one owned item's content in place.
func (b *BoardState) EditSingleItem(client ids.ClientID, p wire.EditSingleItemParams, handle *MethodHandle) {
	item, err := p.Item.Decode()
	if err != nil {
		handle.Reject(wire.LevelError, wire.MalformedMessage("item"))
		return
	}

	if !b.rejectIfNotOwned(client, p.ItemID, wire.LevelError, handle) {
		return
	}

	b.Canvas.Mutate(p.ItemID, func(wire.Item) wire.Item { return item })
	handle.Respond(wire.Ok(struct{}{}))

	b.Broadcast(wire.NewNotify(string(wire.NotifySingleItemEdited), wire.SingleItemEditedPayload{
		ItemID: p.ItemID,
		Item:   p.Item,
	}))
}

// EditBatchItems replaces every owned item named in the batch, reporting a
// per-item Result rather than aborting on the first ownership failure.
func (b *BoardState) EditBatchItems(client ids.ClientID, p wire.EditBatchItemsParams, handle *MethodHandle) {
	results := make([]wire.Result[struct{}], len(p.Items))

	for i, pair := range p.Items {
		item, err := pair.Item.Decode()
		if err != nil {
			results[i] = wire.Err[struct{}](wire.NewError(wire.ErrBadData, "malformed item"))
			continue
		}
		if !b.checkOwned(client, pair.ID) {
			results[i] = wire.Err[struct{}](wire.NewError(wire.ErrNotAvailable, ""))
			continue
		}

		b.Canvas.Mutate(pair.ID, func(wire.Item) wire.Item { return item })
		results[i] = wire.Ok(struct{}{})

		b.Broadcast(wire.NewNotify(string(wire.NotifySingleItemEdited), wire.SingleItemEditedPayload{
			ItemID: pair.ID,
			Item:   pair.Item,
		}))
	}

	handle.Respond(wire.EditBatchItemsResponse{Results: results})
}

// ============================================================================
// DeleteItems / CreateItem
// ============================================================================

// DeleteItems removes every owned item named, silently skipping ids the
// caller doesn't own.
func (b *BoardState) DeleteItems(client ids.ClientID, p wire.DeleteItemsParams, handle *MethodHandle) {
	var removed []ids.ItemID
	for _, id := range p.IDs {
		if !b.checkOwned(client, id) {
			continue
		}
		b.selection.Remove(id)
		b.Canvas.Delete(id)
		if c, ok := b.Client(client); ok {
			c.DropSelection(id)
		}
		removed = append(removed, id)
	}

	b.sampleItemCount()
	handle.Respond(struct{}{})
	b.Broadcast(wire.NewNotify(string(wire.NotifyItemsDeleted), wire.ItemsDeletedPayload{IDs: removed}))
}

// CreateItem inserts a brand-new, unselected item into the canvas.
func (b *BoardState) CreateItem(client ids.ClientID, p wire.CreateItemParams, handle *MethodHandle) {
	item, err := p.Item.Decode()
	if err != nil {
		handle.Reject(wire.LevelError, wire.MalformedMessage("item"))
		return
	}

	id := b.Canvas.AddItem(item)
	b.selection.Insert(id)
	b.sampleItemCount()

	handle.Respond(id)
	b.Broadcast(wire.NewNotify(string(wire.NotifyItemCreated), wire.ItemCreatedPayload{
		ClientID: client,
		ItemID:   id,
		Item:     p.Item,
	}))
}

// ============================================================================
// BeginPath / ContinuePath / EndPath
// ============================================================================

// BeginPath allocates a PathID and starts tracking a fresh ActivePath for
// client.
func (b *BoardState) BeginPath(client ids.ClientID, p wire.BeginPathParams, handle *MethodHandle) {
	id := b.pathAlloc.Next()
	path := activepath.New(id, client, p.Stroke)
	b.addActivePath(path)

	if c, ok := b.Client(client); ok {
		c.AddActivePath(id)
	}

	handle.Respond(id)
	b.Broadcast(wire.NewNotify(string(wire.NotifyPathStarted), wire.PathStartedPayload{
		ClientID: client,
		Stroke:   p.Stroke,
		PathID:   id,
	}))
}

// ContinuePath appends newly-drawn points to an in-progress path owned by
// client. The response is sent before points are pushed to any attached
// GetActivePath listener, and exactly one cooperative yield point follows
// the append so a burst of small ContinuePath calls can't starve other
// workers.
func (b *BoardState) ContinuePath(client ids.ClientID, p wire.ContinuePathParams, handle *MethodHandle) {
	path, ok := b.activePath(p.PathID)
	if !ok {
		handle.Reject(wire.LevelWarning, wire.NonExistentID("PathID", uint32(p.PathID)))
		return
	}
	if path.Owner != client {
		handle.Reject(wire.LevelWarning, wire.ResourceNotOwned(wire.ResourcePath, uint32(p.PathID)))
		return
	}

	handle.Respond(struct{}{})

	path.Append(p.Points)
	runtime.Gosched()

	if path.ShouldFlush(pathFlushInterval) {
		path.FlushListeners()
	}
}

// EndPath closes an owned ActivePath, synthesizing a PathItem when it
// accumulated at least one node.
func (b *BoardState) EndPath(client ids.ClientID, p wire.EndPathParams, handle *MethodHandle) {
	path, ok := b.activePath(p.PathID)
	if !ok {
		handle.Reject(wire.LevelWarning, wire.NonExistentID("PathID", uint32(p.PathID)))
		return
	}
	if path.Owner != client {
		handle.Reject(wire.LevelWarning, wire.ResourceNotOwned(wire.ResourcePath, uint32(p.PathID)))
		return
	}

	b.removeActivePath(p.PathID)
	if c, ok := b.Client(client); ok {
		c.RemoveActivePath(p.PathID)
	}
	path.Close()

	nodes := path.Nodes()
	if len(nodes) == 0 {
		handle.Respond(wire.Err[ids.ItemID](wire.NewError(wire.ErrEmptyPath, "")))
		return
	}

	item := &wire.PathItem{
		Transform: wire.IdentityTransform(),
		Path:      wire.Spline{Points: nodes},
		Stroke:    path.Stroke,
	}
	id := b.Canvas.AddItem(item)
	b.selection.Insert(id)
	b.sampleItemCount()

	raw, err := wire.NewRawItem(item)
	if err != nil {
		logger.Error("failed to encode synthesized path item", logger.KeyBoard, b.Name, logger.KeyError, err.Error())
	}

	handle.Respond(wire.Ok(id))
	b.Broadcast(wire.NewNotify(string(wire.NotifyItemCreated), wire.ItemCreatedPayload{
		ClientID: client,
		ItemID:   id,
		Item:     raw,
	}))
}

// ============================================================================
// Listings
// ============================================================================

// GetAllItemIDs responds with every live ItemID.
func (b *BoardState) GetAllItemIDs(handle *MethodHandle) {
	handle.Respond(b.Canvas.IDs())
}

// GetAllClientIDs responds with every client id that has ever joined.
func (b *BoardState) GetAllClientIDs(handle *MethodHandle) {
	handle.Respond(b.ClientIDs())
}

// GetClientState responds with a snapshot of the named client's info,
// in-progress paths, and selection.
func (b *BoardState) GetClientState(p wire.GetClientStateParams, handle *MethodHandle) {
	c, ok := b.Client(p.ClientID)
	if !ok {
		handle.Reject(wire.LevelError, wire.NonExistentID("ClientID", uint32(p.ClientID)))
		return
	}

	handle.Respond(wire.GetClientStateResponse{
		Info:        c.Info,
		ActivePaths: c.ActivePaths(),
		Selection: wire.SelectionSnapshot{
			OwnTransform: c.OwnTransform(),
			Items:        c.Selection(),
		},
	})
}
