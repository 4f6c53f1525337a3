package transport

import "github.com/videoflow/transport/cmn/debug"

// ReaderResultKind tags the variant returned by Reader.Receive (spec §4.E).
type ReaderResultKind int

const (
	ResultMessage ReaderResultKind = iota
	ResultEndOfStream
	ResultTimeout
	ResultPrefixMismatch
	ResultRoutingIDMismatch
	ResultTooShort
)

// ReaderResult is the tagged result of Reader.Receive. Only the fields
// relevant to Kind are populated; see spec §4.E for the variant shapes.
type ReaderResult struct {
	Kind       ReaderResultKind
	Topic      []byte
	RoutingID  []byte // nil when the socket role carries no routing identity
	Meta       Meta
	Extra      [][]byte
	FrameCount int // populated for ResultTooShort
}

// Reader is the blocking reader state machine (§4.E): construction binds
// or connects the underlying socket per its config; Receive blocks up to
// the configured receive timeout for the next frame, applies topic and
// routing-id filtering, and (for Reply/Router roles) acknowledges accepted
// frames back to the peer.
type Reader struct {
	cfg    *ReaderConfig
	sock   Socket
	filter *RoutingIDFilter
}

// NewReader performs the Unbound -> Bound transition of §4.E: URI parse is
// already done (cfg was produced by a ReaderConfigBuilder), so this only
// prepares IPC filesystem preconditions, creates the socket, sets its
// options, subscribes (for Subscriber roles), and binds/connects.
func NewReader(cfg *ReaderConfig, provider SocketProvider) (*Reader, error) {
	debug.Assert(cfg.Role.IsReader(), "config role ", cfg.Role, " is not a reader role")

	sock, err := provider.NewSocket(cfg.Role)
	if err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}

	if err := sock.SetRcvHWM(cfg.RecvHWM); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if err := sock.SetRcvTimeout(cfg.RecvTimeout); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if err := sock.SetLinger(cfg.Linger); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if cfg.Role == RoleSub {
		if err := sock.Subscribe(cfg.TopicPrefix.subscribePrefix()); err != nil {
			return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
		}
	}

	bind := cfg.URI.Bind != nil && *cfg.URI.Bind
	if bind {
		if err := prepareIPCDir(cfg.URI.Endpoint); err != nil {
			return nil, err
		}
		if err := sock.Bind(cfg.URI.Endpoint); err != nil {
			return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
		}
		if err := setIPCPermissions(cfg.URI.Endpoint, cfg.IPCPermissions); err != nil {
			return nil, err
		}
	} else {
		if err := sock.Connect(cfg.URI.Endpoint); err != nil {
			return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
		}
	}

	filter, err := NewRoutingIDFilter(cfg.RoutingIDCacheSize)
	if err != nil {
		return nil, err
	}

	return &Reader{cfg: cfg, sock: sock, filter: filter}, nil
}

// Receive blocks for up to the configured receive timeout and returns the
// next filtered result (§4.E). A nil error always accompanies every
// defined ReaderResult variant, including Timeout/PrefixMismatch/
// RoutingIdMismatch/TooShort, which are results, not errors (spec §7); a
// non-nil error indicates an unexpected transport failure.
func (r *Reader) Receive() (ReaderResult, error) {
	frames, err := r.sock.RecvMultipart(NoFlag)
	if err == ErrWouldBlock {
		return ReaderResult{Kind: ResultTimeout}, nil
	}
	if err != nil {
		return ReaderResult{}, err
	}

	var routingID []byte
	if r.cfg.Role == RoleRouter {
		if len(frames) < 1 {
			return ReaderResult{Kind: ResultTooShort, FrameCount: len(frames)}, nil
		}
		debug.Assert(frames[0] != nil, "router routing-id frame must not be nil")
		routingID = frames[0]
		rest := frames[1:]
		if len(rest) > 0 && len(rest[0]) == 0 {
			rest = rest[1:] // optional empty delimiter, consumed silently (spec §9 open question)
		}
		frames = rest
	}

	if len(frames) < 2 {
		return ReaderResult{Kind: ResultTooShort, FrameCount: len(frames)}, nil
	}
	topic := frames[0]
	metaRaw := frames[1]
	extra := frames[2:]

	meta, err := decodeMeta(metaRaw)
	if err != nil {
		return ReaderResult{Kind: ResultTooShort, FrameCount: len(frames)}, nil
	}

	if !r.cfg.TopicPrefix.Matches(topic) {
		return ReaderResult{Kind: ResultPrefixMismatch, Topic: topic}, nil
	}
	if !r.filter.Allow(topic, routingID) {
		return ReaderResult{Kind: ResultRoutingIDMismatch, Topic: topic, RoutingID: routingID}, nil
	}

	r.ack(topic, routingID)

	if meta.IsEOS {
		return ReaderResult{Kind: ResultEndOfStream, Topic: topic, RoutingID: routingID}, nil
	}
	return ReaderResult{Kind: ResultMessage, Topic: topic, RoutingID: routingID, Meta: meta, Extra: extra}, nil
}

// ack implements the Reply/Router acknowledgment of §4.E: a failure to
// send it back is logged but not surfaced — the caller is still handed the
// message.
func (r *Reader) ack(topic, routingID []byte) {
	switch r.cfg.Role {
	case RoleRep:
		if err := r.sock.Send(ackMessage, NoFlag); err != nil {
			log.WithError(err).Warnf("failed to ack rep topic %q", topic)
		}
	case RoleRouter:
		if err := r.sock.SendMultipart([][]byte{routingID, {}, ackMessage}, NoFlag); err != nil {
			log.WithError(err).Warnf("failed to ack router topic %q", topic)
		}
	}
}

// Close releases the socket with the configured linger, bounding the
// teardown window (spec §3 Lifecycles).
func (r *Reader) Close() error {
	return r.sock.Close()
}

// ackMessage is the literal "OK" acknowledgment frame (spec §6).
var ackMessage = []byte("OK")
