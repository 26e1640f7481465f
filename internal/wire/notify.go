package wire

import "github.com/oe149499/whiteboard/internal/ids"

// NotifyName names the closed set of server→client broadcasts.
type NotifyName string

const (
	NotifyClientJoined        NotifyName = "ClientJoined"
	NotifyClientConnected     NotifyName = "ClientConnected"
	NotifyClientDisconnected  NotifyName = "ClientDisconnected"
	NotifyClientExited        NotifyName = "ClientExited"
	NotifySelectionItemsAdded NotifyName = "SelectionItemsAdded"
	NotifySelectionRemoved    NotifyName = "SelectionItemsRemoved"
	NotifySelectionMoved      NotifyName = "SelectionMoved"
	NotifySingleItemEdited    NotifyName = "SingleItemEdited"
	NotifyItemsDeleted        NotifyName = "ItemsDeleted"
	NotifyItemCreated         NotifyName = "ItemCreated"
	NotifyPathStarted         NotifyName = "PathStarted"
)

// ClientJoinedPayload announces a new session on the board.
type ClientJoinedPayload struct {
	ClientID ids.ClientID `json:"client_id"`
	Info     ClientInfo   `json:"info"`
}

// ClientConnectedPayload announces a session's socket attaching.
type ClientConnectedPayload struct {
	ClientID ids.ClientID `json:"client_id"`
}

// ClientDisconnectedPayload announces a session's socket detaching. The
// session itself is preserved; only the transport link is gone.
type ClientDisconnectedPayload struct {
	ClientID ids.ClientID `json:"client_id"`
}

// ClientExitedPayload announces a client leaving the board permanently.
type ClientExitedPayload struct {
	ClientID ids.ClientID `json:"client_id"`
}

// SelectionItemsAddedPayload mirrors a successful SelectionAddItems call.
type SelectionItemsAddedPayload struct {
	ClientID ids.ClientID `json:"id"`
	Items    []ids.ItemID `json:"items"`
	NewSRT   Transform    `json:"new_srt"`
}

// SelectionItemsRemovedPayload mirrors a SelectionRemoveItems call.
type SelectionItemsRemovedPayload struct {
	ClientID ids.ClientID     `json:"id"`
	Items    []ItemUpdatePair `json:"items"`
}

// SelectionMovedPayload mirrors a SelectionMove call.
type SelectionMovedPayload struct {
	ClientID  ids.ClientID        `json:"id"`
	Transform Transform           `json:"transform"`
	NewSits   []ItemTransformPair `json:"new_sits,omitempty"`
}

// SingleItemEditedPayload announces one item's content being replaced,
// emitted once per EditSingleItem call and once per successfully-edited
// item in an EditBatchItems call.
type SingleItemEditedPayload struct {
	ItemID ids.ItemID `json:"item_id"`
	Item   RawItem    `json:"item"`
}

// ItemsDeletedPayload lists the ids actually removed by DeleteItems —
// ownership failures are silently excluded rather than padding the list
// with ids that were never deleted.
type ItemsDeletedPayload struct {
	IDs []ids.ItemID `json:"ids"`
}

// ItemCreatedPayload announces a new item, from either CreateItem or a
// successful EndPath.
type ItemCreatedPayload struct {
	ClientID ids.ClientID `json:"client"`
	ItemID   ids.ItemID   `json:"id"`
	Item     RawItem      `json:"item"`
}

// PathStartedPayload announces a new ActivePath.
type PathStartedPayload struct {
	ClientID ids.ClientID `json:"client"`
	Stroke   Stroke       `json:"stroke"`
	PathID   ids.PathID   `json:"path"`
}
