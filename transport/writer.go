package transport

import (
	"time"

	"github.com/videoflow/transport/cmn/debug"
)

// WriterResultKind tags the variant returned by SendMessage/SendEOS (§4.F).
type WriterResultKind int

const (
	// ResultSuccess: sent without awaiting any acknowledgment (Publisher
	// or Dealer role, data frame).
	ResultSuccess WriterResultKind = iota
	// ResultAck: sent and the peer's acknowledgment was received.
	ResultAck
)

// WriterResult reports how a send completed and at what retry cost.
type WriterResult struct {
	Kind                WriterResultKind
	SendRetriesSpent    int
	ReceiveRetriesSpent int
	Elapsed             time.Duration
}

// Writer is the blocking writer state machine (§4.F): construction binds
// or connects the underlying socket per its config; SendMessage/SendEOS
// assemble frames per role, send with bounded retry, and for confirmed
// roles await an acknowledgment with bounded retry.
type Writer struct {
	cfg  *WriterConfig
	sock Socket
}

// NewWriter mirrors NewReader's construction sequence for the writer side:
// IPC preconditions, socket creation, option setting, bind/connect. Writers
// never subscribe and never set receive HWM/timeout beyond what an ack
// round-trip needs.
func NewWriter(cfg *WriterConfig, provider SocketProvider) (*Writer, error) {
	debug.Assert(cfg.Role.IsWriter(), "config role ", cfg.Role, " is not a writer role")

	sock, err := provider.NewSocket(cfg.Role)
	if err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}

	if err := sock.SetSndHWM(cfg.SendHWM); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if err := sock.SetSndTimeout(cfg.SendTimeout); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if err := sock.SetRcvTimeout(cfg.AckRecvTimeout); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}
	if err := sock.SetLinger(cfg.Linger); err != nil {
		return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
	}

	bind := cfg.URI.Bind != nil && *cfg.URI.Bind
	if bind {
		if err := prepareIPCDir(cfg.URI.Endpoint); err != nil {
			return nil, err
		}
		if err := sock.Bind(cfg.URI.Endpoint); err != nil {
			return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
		}
	} else {
		if err := sock.Connect(cfg.URI.Endpoint); err != nil {
			return nil, &SocketCreateError{Endpoint: cfg.URI.Endpoint, Cause: err}
		}
	}

	return &Writer{cfg: cfg, sock: sock}, nil
}

// confirms reports whether this writer's role awaits an acknowledgment for
// a regular data send. Request sockets always do; Publisher and Dealer
// never do for data, but both still await one for end-of-stream (spec §4.F,
// §9 open question — EOS must be confirmed delivered even on roles whose
// ordinary traffic is fire-and-forget).
func (w *Writer) confirms() bool {
	return w.cfg.Role == RoleReq
}

// SendMessage assembles and sends a data frame for topic/meta/extra,
// retrying the send up to SendRetries times on a transient ErrWouldBlock.
// Confirmed roles (Request) additionally await an acknowledgment, retrying
// the receive up to AckRecvRetries times before returning AckTimeoutError.
func (w *Writer) SendMessage(topic string, meta Meta, extra [][]byte) (WriterResult, error) {
	return w.send(topic, meta, extra, w.confirms())
}

// SendEOS sends an end-of-stream marker for topic. Unlike regular data
// frames, EOS is always confirmed, even on Publisher/Dealer roles, so the
// writer's Close (or a peer's shutdown) cannot race an unflushed marker
// (spec §4.F, §9).
func (w *Writer) SendEOS(topic string, seqID uint64) (WriterResult, error) {
	return w.send(topic, eosMeta(seqID), nil, true)
}

func (w *Writer) send(topic string, meta Meta, extra [][]byte, confirm bool) (WriterResult, error) {
	start := time.Now()

	metaRaw, err := encodeMeta(meta)
	if err != nil {
		return WriterResult{}, err
	}
	frames := w.assembleFrames(topic, metaRaw, extra)

	sendRetries := 0
	for {
		err := w.sock.SendMultipart(frames, NoFlag)
		if err == nil {
			break
		}
		if err != ErrWouldBlock {
			return WriterResult{}, &SendFailedError{Topic: topic, RetriesSpent: sendRetries, Cause: err}
		}
		if sendRetries >= w.cfg.SendRetries {
			return WriterResult{}, &SendFailedError{Topic: topic, RetriesSpent: sendRetries, Cause: err}
		}
		sendRetries++
	}

	if !confirm {
		return WriterResult{Kind: ResultSuccess, SendRetriesSpent: sendRetries, Elapsed: time.Since(start)}, nil
	}

	ackRetries := 0
	for {
		_, err := w.sock.RecvMultipart(NoFlag)
		if err == nil {
			return WriterResult{
				Kind:                ResultAck,
				SendRetriesSpent:    sendRetries,
				ReceiveRetriesSpent: ackRetries,
				Elapsed:             time.Since(start),
			}, nil
		}
		if err != ErrWouldBlock {
			return WriterResult{}, &AckTimeoutError{Topic: topic, RetriesSpent: ackRetries, Cause: err}
		}
		if ackRetries >= w.cfg.AckRecvRetries {
			return WriterResult{}, &AckTimeoutError{Topic: topic, RetriesSpent: ackRetries, Cause: err}
		}
		ackRetries++
	}
}

// assembleFrames builds the wire frame list per role (§3 frame layouts):
// Dealer prepends the configured source and an empty delimiter, matching
// the delimiter a Router peer expects to consume; the other writer roles
// send just [topic, meta, extra...].
func (w *Writer) assembleFrames(topic string, metaRaw []byte, extra [][]byte) [][]byte {
	frames := make([][]byte, 0, len(extra)+4)
	if w.cfg.Role == RoleDealer {
		source := ""
		if w.cfg.Source != nil {
			source = *w.cfg.Source
		}
		frames = append(frames, []byte(source), []byte{})
	}
	frames = append(frames, []byte(topic), metaRaw)
	frames = append(frames, extra...)
	return frames
}

// Close releases the socket with the configured linger.
func (w *Writer) Close() error {
	return w.sock.Close()
}
