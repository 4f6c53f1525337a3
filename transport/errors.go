// Package transport implements the reliable, URI-driven ZeroMQ messaging
// core that carries framed video-analytics messages between producer and
// consumer processes.
package transport

import "fmt"

// error taxonomy (see cmn/cos.ErrNotFound/ErrSignal for the pattern this follows:
// typed structs, an Error() method, stdlib errors.Is/As via Unwrap)

type (
	// InvalidUriError is returned by ParseURI on any grammar, role, direction,
	// transport, or source-on-reader violation.
	InvalidUriError struct {
		URI    string
		Reason string
	}
	// InvalidConfigError is returned by a config builder's Build() on any
	// validation-rule violation.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
	// IpcPrepError wraps a failure to create parent directories or set
	// permissions on an ipc:// socket file.
	IpcPrepError struct {
		Endpoint string
		Cause    error
	}
	// SocketCreateError wraps a failure to construct, configure, bind, or
	// connect the underlying socket.
	SocketCreateError struct {
		Endpoint string
		Cause    error
	}
	// SendFailedError is returned when a writer exhausts its send retries.
	SendFailedError struct {
		Topic        string
		RetriesSpent int
		Cause        error
	}
	// AckTimeoutError is returned when a Request/EOS acknowledgment's receive
	// retries are exhausted without an "OK" reply.
	AckTimeoutError struct {
		Topic        string
		RetriesSpent int
		Cause        error
	}
)

func (e *InvalidUriError) Error() string {
	return fmt.Sprintf("invalid zmq socket uri %q: %s", e.URI, e.Reason)
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

func (e *IpcPrepError) Error() string {
	return fmt.Sprintf("ipc prep failed for %q: %v", e.Endpoint, e.Cause)
}
func (e *IpcPrepError) Unwrap() error { return e.Cause }

func (e *SocketCreateError) Error() string {
	return fmt.Sprintf("socket create failed for %q: %v", e.Endpoint, e.Cause)
}
func (e *SocketCreateError) Unwrap() error { return e.Cause }

func (e *SendFailedError) Error() string {
	return fmt.Sprintf("send failed for topic %q after %d retries: %v", e.Topic, e.RetriesSpent, e.Cause)
}
func (e *SendFailedError) Unwrap() error { return e.Cause }

func (e *AckTimeoutError) Error() string {
	return fmt.Sprintf("ack timeout for topic %q after %d retries: %v", e.Topic, e.RetriesSpent, e.Cause)
}
func (e *AckTimeoutError) Unwrap() error { return e.Cause }
