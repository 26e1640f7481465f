package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oe149499/whiteboard/internal/boardstate"
	"github.com/oe149499/whiteboard/internal/ids"
	"github.com/oe149499/whiteboard/internal/link"
	"github.com/oe149499/whiteboard/internal/logger"
	"github.com/oe149499/whiteboard/internal/metrics"
	"github.com/oe149499/whiteboard/internal/wire"
)

// DefaultWorkers is the default worker-pool size per board, matching
// Config.Boards.WorkersPerBoard's documented default.
const DefaultWorkers = 4

// QueueDepth is the inbound channel's buffer size.
const QueueDepth = 256

// Dispatcher owns one board's inbound queue and worker pool. Each worker
// pulls frames off the shared channel and invokes the matching BoardState
// operation; a panic inside a handler is recovered, logged with a stack
// trace, and the worker exits — BoardManager's weak-handle reattach path
// is what makes the board self-healing after that.
type Dispatcher struct {
	board   *boardstate.BoardState
	queue   chan BoardMessage
	cancel  context.CancelFunc
	group   *errgroup.Group
	metrics *metrics.Metrics
}

// NewBoardHandle returns a BoardHandle enqueueing onto this dispatcher.
func (d *Dispatcher) NewBoardHandle() *BoardHandle {
	return &BoardHandle{queue: d.queue}
}

// Board exposes the underlying BoardState, used by BoardManager for
// autosave scanning.
func (d *Dispatcher) Board() *boardstate.BoardState {
	return d.board
}

// Launch starts workers goroutines pulling from board's inbound queue.
// The returned Dispatcher's context is cancelled by Shutdown, at which
// point workers drain whatever is already queued and exit. m may be nil,
// in which case every metric recorded through it is a no-op.
func Launch(ctx context.Context, board *boardstate.BoardState, workers int, m *metrics.Metrics) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	d := &Dispatcher{
		board:   board,
		queue:   make(chan BoardMessage, QueueDepth),
		cancel:  cancel,
		group:   group,
		metrics: m,
	}

	for i := 0; i < workers; i++ {
		workerID := i
		group.Go(func() error {
			d.runWorker(ctx, workerID)
			return nil
		})
	}

	return d
}

// Shutdown closes the inbound queue's context and waits for every worker
// to drain and exit.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	_ = d.group.Wait()
}

func (d *Dispatcher) runWorker(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case msg := <-d.queue:
					if d.handle(msg, workerID) {
						return
					}
				default:
					return
				}
			}
		case msg := <-d.queue:
			if d.handle(msg, workerID) {
				return
			}
		}
	}
}

// handle runs one message and reports whether its handler panicked.
func (d *Dispatcher) handle(msg BoardMessage, workerID int) (panicked bool) {
	d.metrics.SetQueueDepth(d.board.Name, len(d.queue))
	d.metrics.IncMessage(d.board.Name, msg.Kind.String())

	defer func() {
		if r := recover(); r != nil {
			panicked = true
			logger.Error("worker panic",
				logger.KeyBoard, d.board.Name,
				logger.KeyWorker, workerID,
				logger.KeyReason, fmt.Sprint(r),
				logger.KeyError, string(debug.Stack()),
			)
		}
	}()

	switch msg.Kind {
	case KindClientMessage:
		d.dispatchClientMessage(msg.ClientID, msg.Msg)
	case KindSessionRequest:
		clientID, sessionID := d.board.CreateSession(msg.Info)
		if msg.Reply != nil {
			msg.Reply <- SessionReply{ClientID: clientID, SessionID: sessionID}
		}
	case KindClientConnected:
		d.board.Connect(msg.ClientID, msg.Link)
	case KindClientDisconnected:
		d.board.Disconnect(msg.ClientID)
	}
}

func (d *Dispatcher) dispatchClientMessage(client ids.ClientID, msg *wire.MsgRecv) {
	switch msg.Protocol {
	case wire.ProtocolMethod:
		start := time.Now()
		dispatchMethod(d.board, client, msg, d.clientOutbound(client), d.metrics)
		d.metrics.ObserveMethodDuration(msg.Name, time.Since(start))
	case wire.ProtocolIterate:
		dispatchIterate(d.board, client, msg, d.clientOutbound(client), d.metrics)
	default:
		logger.Warn("unknown protocol", logger.KeyBoard, d.board.Name, logger.KeyProtocol, string(msg.Protocol))
	}
}

func (d *Dispatcher) clientOutbound(client ids.ClientID) *link.ClientLink {
	c, ok := d.board.Client(client)
	if !ok {
		return nil
	}
	return c.Link()
}
