package wire

import "github.com/oe149499/whiteboard/internal/ids"

// Method names the closed set of client→server RPCs expecting one response.
type Method string

const (
	MethodSelectionAddItems    Method = "SelectionAddItems"
	MethodSelectionRemoveItems Method = "SelectionRemoveItems"
	MethodSelectionMove        Method = "SelectionMove"
	MethodEditBatchItems       Method = "EditBatchItems"
	MethodEditSingleItem       Method = "EditSingleItem"
	MethodDeleteItems          Method = "DeleteItems"
	MethodCreateItem           Method = "CreateItem"
	MethodBeginPath            Method = "BeginPath"
	MethodContinuePath         Method = "ContinuePath"
	MethodEndPath              Method = "EndPath"
	MethodGetAllItemIDs        Method = "GetAllItemIDs"
	MethodGetAllClientIDs      Method = "GetAllClientIDs"
	MethodGetClientState       Method = "GetClientState"
)

// ItemTransformPair is the (id, transform) tuple threaded through the
// selection methods.
type ItemTransformPair struct {
	ID        ids.ItemID `json:"id"`
	Transform Transform  `json:"transform"`
}

// ItemUpdatePair is the (id, LocationUpdate) tuple SelectionRemoveItems
// uses to both identify and relocate an item being released.
type ItemUpdatePair struct {
	ID     ids.ItemID     `json:"id"`
	Update LocationUpdate `json:"update"`
}

// SelectionAddItemsParams is the params struct for MethodSelectionAddItems.
type SelectionAddItemsParams struct {
	NewSRT  Transform           `json:"new_srt"`
	OldSits []ItemTransformPair `json:"old_sits"`
	NewSits []ItemTransformPair `json:"new_sits"`
}

// SelectionAddItemsResponse carries one Result[()] per entry of NewSits, in
// the same order.
type SelectionAddItemsResponse struct {
	Results []Result[struct{}] `json:"results"`
}

// SelectionRemoveItemsParams is the params struct for
// MethodSelectionRemoveItems.
type SelectionRemoveItemsParams struct {
	Items []ItemUpdatePair `json:"items"`
}

// SelectionMoveParams is the params struct for MethodSelectionMove.
type SelectionMoveParams struct {
	NewSRT  Transform           `json:"new_srt"`
	NewSits []ItemTransformPair `json:"new_sits,omitempty"`
}

// EditSingleItemParams is the params struct for MethodEditSingleItem.
type EditSingleItemParams struct {
	ItemID ids.ItemID `json:"item_id"`
	Item   RawItem    `json:"item"`
}

// ItemPair is the (id, item) tuple used by EditBatchItems.
type ItemPair struct {
	ID   ids.ItemID `json:"id"`
	Item RawItem    `json:"item"`
}

// EditBatchItemsParams is the params struct for MethodEditBatchItems.
type EditBatchItemsParams struct {
	Items []ItemPair `json:"items"`
}

// EditBatchItemsResponse carries one Result[()] per entry of Items, in the
// same order as the request.
type EditBatchItemsResponse struct {
	Results []Result[struct{}] `json:"results"`
}

// DeleteItemsParams is the params struct for MethodDeleteItems.
type DeleteItemsParams struct {
	IDs []ids.ItemID `json:"ids"`
}

// CreateItemParams is the params struct for MethodCreateItem.
type CreateItemParams struct {
	Item RawItem `json:"item"`
}

// BeginPathParams is the params struct for MethodBeginPath.
type BeginPathParams struct {
	Stroke Stroke `json:"stroke"`
}

// ContinuePathParams is the params struct for MethodContinuePath.
type ContinuePathParams struct {
	PathID ids.PathID   `json:"path_id"`
	Points []SplineNode `json:"points"`
}

// EndPathParams is the params struct for MethodEndPath.
type EndPathParams struct {
	PathID ids.PathID `json:"path_id"`
}

// GetClientStateParams is the params struct for MethodGetClientState.
type GetClientStateParams struct {
	ClientID ids.ClientID `json:"client_id"`
}

// SelectionSnapshot is the selection half of GetClientStateResponse: the
// client's own_transform plus the items it currently holds.
type SelectionSnapshot struct {
	OwnTransform Transform           `json:"own_transform"`
	Items        []ItemTransformPair `json:"items"`
}

// GetClientStateResponse is the success payload of MethodGetClientState.
type GetClientStateResponse struct {
	Info        ClientInfo        `json:"info"`
	ActivePaths []ids.PathID      `json:"active_paths"`
	Selection   SelectionSnapshot `json:"selection"`
}

// RawItem wraps a not-yet-decoded Item payload, deferring decoding to
// UnmarshalItem so method param structs don't need to know which of the
// nine variants they're holding until the handler looks at the
// discriminant. Call Decode to resolve it to a concrete Item once the
// handler is ready to apply it.
type RawItem struct {
	data []byte
}

// MarshalJSON passes the captured bytes through unchanged.
func (r RawItem) MarshalJSON() ([]byte, error) {
	if r.data == nil {
		return []byte("null"), nil
	}
	return r.data, nil
}

// UnmarshalJSON captures the raw bytes for later decoding via Decode.
func (r *RawItem) UnmarshalJSON(data []byte) error {
	r.data = append([]byte(nil), data...)
	return nil
}

// Decode resolves the captured bytes to a concrete Item.
func (r RawItem) Decode() (Item, error) {
	return UnmarshalItem(r.data)
}
