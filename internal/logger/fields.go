package logger

// Standard field keys for structured logging across the board engine.
// Use these consistently so log aggregation and querying stay uniform
// between the dispatcher, handlers, and session layers.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Board & Session Identity
	// ========================================================================
	KeyBoard     = "board"      // Board name
	KeyClientID  = "client_id"  // ClientID of the connection issuing the request
	KeySessionID = "session_id" // SessionID bound to the client
	KeyClientIP  = "client_ip"  // Remote address of the socket, if known

	// ========================================================================
	// Wire Protocol
	// ========================================================================
	KeyProtocol  = "protocol"   // Method, Iterate, Notify-C, Reject, Response
	KeyMethod    = "method"     // Method/Iterate name: CreateItem, GetFullItems, etc.
	KeyRequestID = "request_id" // Client-supplied request id (u32)
	KeyPart      = "part"       // Iterate response part number

	// ========================================================================
	// Canvas & Selection
	// ========================================================================
	KeyItemID   = "item_id"   // ItemID involved in the operation
	KeyPathID   = "path_id"   // PathID of an active freehand stroke
	KeyEditSeq  = "edit_seq"  // Canvas edit counter at the time of the log line
	KeyReason   = "reason"    // RejectReason / Error code
	KeyOutcome  = "outcome"   // Successful, Occupied, AlreadyOwned, NonExistent, ...

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyWorker     = "worker"      // Dispatcher worker index
	KeyQueueDepth = "queue_depth" // Pending frames on the board's inbound queue
)
