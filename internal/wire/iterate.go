package wire

import (
	"time"

	"github.com/oe149499/whiteboard/internal/ids"
)

// IterateName names the closed set of client→server RPCs expecting a
// stream of response parts terminated by complete=true.
type IterateName string

const (
	IterateGetFullItems  IterateName = "GetFullItems"
	IterateGetActivePath IterateName = "GetActivePath"
)

// GetFullItemsParams is the params struct for IterateGetFullItems.
type GetFullItemsParams struct {
	IDs []ids.ItemID `json:"ids"`
}

// FullItemResult is one element of a GetFullItems stream: either the
// looked-up item or a NotFound error, keeping the requested id alongside
// so a client can match parts back to its request list.
type FullItemResult struct {
	ID     ids.ItemID `json:"id"`
	Result Result[RawItem] `json:"result"`
}

// GetFullItemsFlushThreshold is how many resolved items accumulate before
// the handle flushes a Response-Part, matching the 16-item batching the
// spec calls out so a large id list doesn't buffer unboundedly before the
// first part reaches the client.
const GetFullItemsFlushThreshold = 16

// GetActivePathParams is the params struct for IterateGetActivePath.
type GetActivePathParams struct {
	PathID ids.PathID `json:"path_id"`
}

// GetActivePathFlushInterval is the default path-flush cadence: how often
// ContinuePath pushes buffered nodes to an attached GetActivePath listener.
const GetActivePathFlushInterval = 750 * time.Millisecond
