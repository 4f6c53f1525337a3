package transport

import (
	"errors"
	"strings"
	"syscall"
	"time"

	"github.com/pebbe/zmq4"
)

// RealSocket delegates every operation to the underlying ZeroMQ socket via
// pebbe/zmq4, the de-facto Go binding over libzmq.
type RealSocket struct {
	sock *zmq4.Socket
}

var _ Socket = (*RealSocket)(nil)

var roleToZmqType = map[SocketRole]zmq4.Type{
	RoleSub:    zmq4.SUB,
	RoleRouter: zmq4.ROUTER,
	RoleRep:    zmq4.REP,
	RolePub:    zmq4.PUB,
	RoleDealer: zmq4.DEALER,
	RoleReq:    zmq4.REQ,
}

// NewRealSocket constructs a ZeroMQ socket of the type implied by role on
// the process-wide context.
func NewRealSocket(role SocketRole) (*RealSocket, error) {
	ctx, err := globalZmqContext()
	if err != nil {
		return nil, err
	}
	zt, ok := roleToZmqType[role]
	if !ok {
		return nil, errString("unsupported socket role for real socket")
	}
	sock, err := ctx.NewSocket(zt)
	if err != nil {
		return nil, err
	}
	return &RealSocket{sock: sock}, nil
}

func (s *RealSocket) Bind(endpoint string) error    { return s.sock.Bind(endpoint) }
func (s *RealSocket) Connect(endpoint string) error { return s.sock.Connect(endpoint) }

func (s *RealSocket) Send(data []byte, flags Flag) error {
	_, err := s.sock.SendBytes(data, toZmqFlag(flags))
	return wouldBlock(err)
}

func (s *RealSocket) SendMultipart(frames [][]byte, flags Flag) error {
	base := toZmqFlag(flags)
	for i, frame := range frames {
		f := base
		if i < len(frames)-1 {
			f |= zmq4.SNDMORE
		}
		if _, err := s.sock.SendBytes(frame, f); err != nil {
			return wouldBlock(err)
		}
	}
	return nil
}

func (s *RealSocket) RecvMultipart(flags Flag) ([][]byte, error) {
	frames, err := s.sock.RecvMessageBytes(toZmqFlag(flags))
	if err != nil {
		return nil, wouldBlock(err)
	}
	return frames, nil
}

func (s *RealSocket) SetRcvHWM(n int) error               { return s.sock.SetRcvhwm(n) }
func (s *RealSocket) SetSndHWM(n int) error               { return s.sock.SetSndhwm(n) }
func (s *RealSocket) SetRcvTimeout(d time.Duration) error { return s.sock.SetRcvtimeo(d) }
func (s *RealSocket) SetSndTimeout(d time.Duration) error { return s.sock.SetSndtimeo(d) }
func (s *RealSocket) SetLinger(d time.Duration) error     { return s.sock.SetLinger(d) }
func (s *RealSocket) Subscribe(prefix []byte) error       { return s.sock.SetSubscribe(string(prefix)) }
func (s *RealSocket) Close() error                        { return s.sock.Close() }

func toZmqFlag(f Flag) zmq4.Flag {
	if f&DontWait != 0 {
		return zmq4.DONTWAIT
	}
	return 0
}

// wouldBlock normalizes libzmq's EAGAIN-on-timeout behavior (both for
// DONTWAIT and for RCVTIMEO/SNDTIMEO expiry) into ErrWouldBlock so callers
// never have to special-case the zmq4 error string/errno.
func wouldBlock(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EAGAIN) || strings.Contains(err.Error(), "resource temporarily unavailable") {
		return ErrWouldBlock
	}
	return err
}

// zmqProvider is the SocketProvider backed by real ZeroMQ sockets.
type zmqProvider struct{}

// NewZmqProvider returns a SocketProvider that creates real ZeroMQ sockets
// on the process-wide context.
func NewZmqProvider() SocketProvider { return zmqProvider{} }

func (zmqProvider) NewSocket(role SocketRole) (Socket, error) { return NewRealSocket(role) }
