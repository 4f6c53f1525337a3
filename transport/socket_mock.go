package transport

import (
	"sync"
	"time"
)

// Responder is the mock socket's injected reply policy (§4.C, §9): given
// the frames just sent, it returns the frames that should be read back —
// e.g. synthesizing an "OK" acknowledgment — without any network involved.
// Returning no frames means nothing is read back for that send.
// It is applied only in single-socket "self-reply" mode (peer == nil); a
// mock socket wired to a Peer instead delivers its sends verbatim to the
// peer's inbox, the way two real sockets would exchange frames.
type Responder func(sent [][]byte) [][]byte

// NoopResponder returns sent unchanged, so a self-reply socket reads back
// its own sends; NewMockSocket uses it when given a nil responder.
func NoopResponder(sent [][]byte) [][]byte { return sent }

// MockSocket is the deterministic in-memory Socket used by every test in
// this package (§4.C, §9): no real ZeroMQ context, no network. It can run
// in either of two modes:
//
//   - self-reply: constructed with a Responder, used standalone (e.g. to
//     unit-test a Writer's ack retry logic without a reader on the other
//     end) — Send* rewrites its own buffer via the responder and that
//     becomes what the next RecvMultipart returns.
//   - wired: linked to a peer MockSocket via LinkMockSockets, used for the
//     req/rep and dealer/router integration scenarios —
//     Send* delivers directly into the peer's inbox.
type MockSocket struct {
	mu         sync.Mutex
	responder  Responder
	peer       *MockSocket
	inbox      chan [][]byte
	rcvTimeout time.Duration
	closed     bool
}

var _ Socket = (*MockSocket)(nil)

// NewMockSocket constructs a MockSocket in self-reply mode. Pass nil for
// responder to get NoopResponder.
func NewMockSocket(responder Responder) *MockSocket {
	if responder == nil {
		responder = NoopResponder
	}
	return &MockSocket{
		responder:  responder,
		inbox:      make(chan [][]byte, 64),
		rcvTimeout: time.Second,
	}
}

// LinkMockSockets wires a and b together bidirectionally so that frames
// sent on one are received on the other, as a real ZeroMQ pair would.
func LinkMockSockets(a, b *MockSocket) {
	a.peer = b
	b.peer = a
}

func (s *MockSocket) Bind(string) error    { return nil }
func (s *MockSocket) Connect(string) error { return nil }

func (s *MockSocket) Send(data []byte, flags Flag) error {
	return s.SendMultipart([][]byte{data}, flags)
}

func (s *MockSocket) SendMultipart(frames [][]byte, _ Flag) error {
	cp := cloneFrames(frames)
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()
	if peer != nil {
		select {
		case peer.inbox <- cp:
			return nil
		default:
			return ErrWouldBlock
		}
	}
	s.mu.Lock()
	out := s.responder(cp)
	s.mu.Unlock()
	if len(out) == 0 {
		return nil
	}
	select {
	case s.inbox <- cloneFrames(out):
		return nil
	default:
		return ErrWouldBlock
	}
}

func (s *MockSocket) RecvMultipart(flags Flag) ([][]byte, error) {
	s.mu.Lock()
	timeout := s.rcvTimeout
	s.mu.Unlock()
	if flags&DontWait != 0 {
		timeout = 0
	}
	if timeout <= 0 {
		select {
		case f := <-s.inbox:
			return f, nil
		default:
			return nil, ErrWouldBlock
		}
	}
	select {
	case f := <-s.inbox:
		return f, nil
	case <-time.After(timeout):
		return nil, ErrWouldBlock
	}
}

func (s *MockSocket) SetRcvHWM(int) error { return nil }
func (s *MockSocket) SetSndHWM(int) error { return nil }

func (s *MockSocket) SetRcvTimeout(d time.Duration) error {
	s.mu.Lock()
	s.rcvTimeout = d
	s.mu.Unlock()
	return nil
}

func (*MockSocket) SetSndTimeout(time.Duration) error { return nil }
func (*MockSocket) SetLinger(time.Duration) error     { return nil }
func (*MockSocket) Subscribe([]byte) error            { return nil }

func (s *MockSocket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Deliver injects frames into the socket's inbox directly, as if a peer had
// sent them; used by tests that don't wire two MockSockets together.
func (s *MockSocket) Deliver(frames [][]byte) {
	s.inbox <- cloneFrames(frames)
}

func cloneFrames(frames [][]byte) [][]byte {
	out := make([][]byte, len(frames))
	for i, f := range frames {
		cp := make([]byte, len(f))
		copy(cp, f)
		out[i] = cp
	}
	return out
}

// mockProvider is the SocketProvider backed by MockSocket, each new socket
// constructed in self-reply mode with the given responder; callers that
// need wired pairs construct MockSocket directly and link them.
type mockProvider struct {
	responder Responder
}

// NewMockProvider returns a SocketProvider that creates MockSocket
// instances parameterized by responder (nil for NoopResponder).
func NewMockProvider(responder Responder) SocketProvider {
	return mockProvider{responder: responder}
}

func (p mockProvider) NewSocket(SocketRole) (Socket, error) {
	return NewMockSocket(p.responder), nil
}
