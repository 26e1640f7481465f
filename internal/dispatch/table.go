package dispatch

import (
	"github.com/oe149499/whiteboard/internal/boardstate"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/wire"
)

// dispatchMethod decodes msg's params against the Method named in it and
// invokes the matching BoardState handler. An unrecognized name or a
// params decode failure both produce a MalformedMessage reject rather
// than a panic, since both are client-supplied data.
func dispatchMethod(board *boardstate.BoardState, client ids.ClientID, msg *wire.MsgRecv, out *link.ClientLink, m *metrics.Metrics) {
	handle := boardstate.NewMethodHandle(client, msg.ID, out, m)

	switch wire.Method(msg.Name) {
	case wire.MethodSelectionAddItems:
		var p wire.SelectionAddItemsParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.SelectionAddItems(client, p, handle)

	case wire.MethodSelectionRemoveItems:
		var p wire.SelectionRemoveItemsParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.SelectionRemoveItems(client, p, handle)

	case wire.MethodSelectionMove:
		var p wire.SelectionMoveParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.SelectionMove(client, p, handle)

	case wire.MethodEditSingleItem:
		var p wire.EditSingleItemParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.EditSingleItem(client, p, handle)

	case wire.MethodEditBatchItems:
		var p wire.EditBatchItemsParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.EditBatchItems(client, p, handle)

	case wire.MethodDeleteItems:
		var p wire.DeleteItemsParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.DeleteItems(client, p, handle)

	case wire.MethodCreateItem:
		var p wire.CreateItemParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.CreateItem(client, p, handle)

	case wire.MethodBeginPath:
		var p wire.BeginPathParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.BeginPath(client, p, handle)

	case wire.MethodContinuePath:
		var p wire.ContinuePathParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.ContinuePath(client, p, handle)

	case wire.MethodEndPath:
		var p wire.EndPathParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.EndPath(client, p, handle)

	case wire.MethodGetAllItemIDs:
		board.GetAllItemIDs(handle)

	case wire.MethodGetAllClientIDs:
		board.GetAllClientIDs(handle)

	case wire.MethodGetClientState:
		var p wire.GetClientStateParams
		if !decodeParams(msg, &p, handle) {
			return
		}
		board.GetClientState(p, handle)

	default:
		handle.Reject(wire.LevelError, wire.MalformedMessage("name"))
	}
}

// dispatchIterate decodes msg's params against the Iterate name and
// invokes the matching BoardState streaming handler.
func dispatchIterate(board *boardstate.BoardState, client ids.ClientID, msg *wire.MsgRecv, out *link.ClientLink, m *metrics.Metrics) {
	switch wire.IterateName(msg.Name) {
	case wire.IterateGetFullItems:
		handle := boardstate.NewIterateHandle[wire.FullItemResult](msg.ID, out, m)
		var p wire.GetFullItemsParams
		if !decodeIterateParams(msg, &p, handle) {
			return
		}
		board.GetFullItems(p, handle)

	case wire.IterateGetActivePath:
		handle := boardstate.NewIterateHandle[wire.SplineNode](msg.ID, out, m)
		var p wire.GetActivePathParams
		if !decodeIterateParams(msg, &p, handle) {
			return
		}
		board.GetActivePath(p, handle)

	default:
		logger.Warn("unknown iterate name", logger.KeyMethod, msg.Name)
	}
}

// decodeParams unmarshals msg's object into dst, rejecting with
// MalformedMessage on failure. Returns whether the caller should proceed.
func decodeParams(msg *wire.MsgRecv, dst any, handle *boardstate.MethodHandle) bool {
	if err := msg.ParamsInto(dst); err != nil {
		logger.Warn("malformed method params", logger.KeyMethod, msg.Name, logger.KeyError, err.Error())
		handle.Reject(wire.LevelError, wire.MalformedMessage("params"))
		return false
	}
	return true
}

// rejecter is satisfied by both IterateHandle instantiations, letting
// decodeIterateParams reject without knowing the item type parameter.
type rejecter interface {
	Reject(level wire.RejectLevel, reason wire.RejectReason)
}

func decodeIterateParams(msg *wire.MsgRecv, dst any, handle rejecter) bool {
	if err := msg.ParamsInto(dst); err != nil {
		logger.Warn("malformed iterate params", logger.KeyMethod, msg.Name, logger.KeyError, err.Error())
		handle.Reject(wire.LevelError, wire.MalformedMessage("params"))
		return false
	}
	return true
}
