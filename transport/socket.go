package transport

import (
	"errors"
	"time"
)

// Flag is the uniform send/recv flag surface exposed by Socket, independent
// of the concrete binding beneath it.
type Flag int

const (
	NoFlag   Flag = 0
	DontWait Flag = 1 << iota
)

// ErrWouldBlock is returned by Send/SendMultipart when the send cannot
// complete immediately (DontWait) or within the send timeout, or by
// RecvMultipart when the configured receive timeout elapses with no frame
// available. Reader.Receive translates the latter into ReaderResult{Kind:
// ResultTimeout}; Writer's retry loop translates the former into a retry.
var ErrWouldBlock = errors.New("transport: socket would block")

// Socket is the small, uniform surface (§4.C) that both the real ZeroMQ
// binding and the in-memory mock implement, so that readers and writers
// are written once against an interface and exercised in tests without a
// network.
type Socket interface {
	Bind(endpoint string) error
	Connect(endpoint string) error
	Send(data []byte, flags Flag) error
	SendMultipart(frames [][]byte, flags Flag) error
	RecvMultipart(flags Flag) ([][]byte, error)

	SetRcvHWM(n int) error
	SetSndHWM(n int) error
	SetRcvTimeout(d time.Duration) error
	SetSndTimeout(d time.Duration) error
	SetLinger(d time.Duration) error
	Subscribe(prefix []byte) error

	Close() error
}

// SocketProvider constructs a Socket for a given role; implementations
// substitute a real ZeroMQ socket or a deterministic in-memory mock without
// the surrounding reader/writer logic having to change (§4.C, §9).
type SocketProvider interface {
	NewSocket(role SocketRole) (Socket, error)
}
