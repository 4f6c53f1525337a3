package transport

import (
	"os"
	"time"
)

// Validated, immutable-after-construction reader configuration (spec
// §3 "Reader config", §4.H).
type ReaderConfig struct {
	URI                *URI
	Role               SocketRole
	RecvTimeout        time.Duration
	RecvHWM            int
	TopicPrefix        TopicPrefixSpec
	IPCPermissions     *os.FileMode
	RoutingIDCacheSize int
	Linger             time.Duration
}

// ReaderConfigBuilder accumulates and validates reader options; construct
// with NewReaderConfig.
type ReaderConfigBuilder struct {
	rawURL             string
	topicPrefix        TopicPrefixSpec
	recvTimeoutMs      int
	recvHWM            int
	ipcPermissions     *os.FileMode
	routingIDCacheSize int
	lingerMs           int
}

// NewReaderConfig returns a builder pre-populated with spec §6 defaults.
func NewReaderConfig() *ReaderConfigBuilder {
	return &ReaderConfigBuilder{
		topicPrefix:        AnyTopic(),
		recvTimeoutMs:      1000,
		recvHWM:            50,
		routingIDCacheSize: 512,
		lingerMs:           100,
	}
}

func (b *ReaderConfigBuilder) URL(uri string) *ReaderConfigBuilder {
	b.rawURL = uri
	return b
}

func (b *ReaderConfigBuilder) WithTopicPrefixSpec(s TopicPrefixSpec) *ReaderConfigBuilder {
	b.topicPrefix = s
	return b
}

func (b *ReaderConfigBuilder) WithReceiveTimeout(ms int) *ReaderConfigBuilder {
	b.recvTimeoutMs = ms
	return b
}

func (b *ReaderConfigBuilder) WithReceiveHWM(n int) *ReaderConfigBuilder {
	b.recvHWM = n
	return b
}

// WithFixIPCPermissions enables setting the ipc socket file's permissions
// after bind; pass nil to disable the feature, or a mode (default 0o777,
// spec §6) to enable it.
func (b *ReaderConfigBuilder) WithFixIPCPermissions(mode *os.FileMode) *ReaderConfigBuilder {
	b.ipcPermissions = mode
	return b
}

func (b *ReaderConfigBuilder) WithRoutingIDCacheSize(n int) *ReaderConfigBuilder {
	b.routingIDCacheSize = n
	return b
}

func (b *ReaderConfigBuilder) WithLinger(ms int) *ReaderConfigBuilder {
	b.lingerMs = ms
	return b
}

// Build validates the accumulated options (spec §4.H) and returns the
// immutable config, or an InvalidConfigError / InvalidUriError on the
// first violation found.
func (b *ReaderConfigBuilder) Build() (*ReaderConfig, error) {
	if b.rawURL == "" {
		return nil, &InvalidConfigError{Field: "url", Reason: "must be set"}
	}
	uri, err := ParseURI(b.rawURL)
	if err != nil {
		return nil, err
	}
	role := uri.Role
	if role == RoleNone {
		role = RoleSub
	} else if !role.IsReader() {
		return nil, &InvalidConfigError{Field: "url", Reason: "role " + role.String() + " is not a reader role"}
	}
	if b.recvTimeoutMs <= 0 {
		return nil, &InvalidConfigError{Field: "receive_timeout", Reason: "must be > 0"}
	}
	if b.recvHWM <= 0 {
		return nil, &InvalidConfigError{Field: "receive_hwm", Reason: "must be > 0"}
	}
	if b.routingIDCacheSize <= 0 {
		return nil, &InvalidConfigError{Field: "routing_id_cache_size", Reason: "must be > 0"}
	}
	if b.lingerMs < 0 {
		return nil, &InvalidConfigError{Field: "linger", Reason: "must be >= 0"}
	}
	return &ReaderConfig{
		URI:                uri,
		Role:               role,
		RecvTimeout:        time.Duration(b.recvTimeoutMs) * time.Millisecond,
		RecvHWM:            b.recvHWM,
		TopicPrefix:        b.topicPrefix,
		IPCPermissions:     b.ipcPermissions,
		RoutingIDCacheSize: b.routingIDCacheSize,
		Linger:             time.Duration(b.lingerMs) * time.Millisecond,
	}, nil
}

// Validated, immutable-after-construction writer configuration (spec
// §3 "Writer config", §4.H).
type WriterConfig struct {
	URI               *URI
	Role              SocketRole
	SendTimeout       time.Duration
	AckRecvTimeout    time.Duration
	SendHWM           int
	SendRetries       int
	AckRecvRetries    int
	Linger            time.Duration
	Source            *string
}

// WriterConfigBuilder accumulates and validates writer options; construct
// with NewWriterConfig.
type WriterConfigBuilder struct {
	rawURL            string
	sendTimeoutMs     int
	ackRecvTimeoutMs  int
	sendHWM           int
	sendRetries       int
	ackRecvRetries    int
	lingerMs          int
}

// NewWriterConfig returns a builder pre-populated with spec §6 defaults.
func NewWriterConfig() *WriterConfigBuilder {
	return &WriterConfigBuilder{
		sendTimeoutMs:    5000,
		ackRecvTimeoutMs: 5000,
		sendHWM:          50,
		sendRetries:      3,
		ackRecvRetries:   3,
		lingerMs:         100,
	}
}

func (b *WriterConfigBuilder) URL(uri string) *WriterConfigBuilder {
	b.rawURL = uri
	return b
}

func (b *WriterConfigBuilder) WithSendTimeout(ms int) *WriterConfigBuilder {
	b.sendTimeoutMs = ms
	return b
}

func (b *WriterConfigBuilder) WithAckReceiveTimeout(ms int) *WriterConfigBuilder {
	b.ackRecvTimeoutMs = ms
	return b
}

func (b *WriterConfigBuilder) WithSendHWM(n int) *WriterConfigBuilder {
	b.sendHWM = n
	return b
}

func (b *WriterConfigBuilder) WithSendRetries(n int) *WriterConfigBuilder {
	b.sendRetries = n
	return b
}

func (b *WriterConfigBuilder) WithAckReceiveRetries(n int) *WriterConfigBuilder {
	b.ackRecvRetries = n
	return b
}

func (b *WriterConfigBuilder) WithLinger(ms int) *WriterConfigBuilder {
	b.lingerMs = ms
	return b
}

// Build validates the accumulated options (spec §4.H) and returns the
// immutable config, or an InvalidConfigError / InvalidUriError on the
// first violation found.
func (b *WriterConfigBuilder) Build() (*WriterConfig, error) {
	if b.rawURL == "" {
		return nil, &InvalidConfigError{Field: "url", Reason: "must be set"}
	}
	uri, err := ParseURI(b.rawURL)
	if err != nil {
		return nil, err
	}
	role := uri.Role
	if role == RoleNone {
		role = RolePub
	} else if !role.IsWriter() {
		return nil, &InvalidConfigError{Field: "url", Reason: "role " + role.String() + " is not a writer role"}
	}
	if b.sendTimeoutMs <= 0 {
		return nil, &InvalidConfigError{Field: "send_timeout", Reason: "must be > 0"}
	}
	if b.ackRecvTimeoutMs <= 0 {
		return nil, &InvalidConfigError{Field: "ack_receive_timeout", Reason: "must be > 0"}
	}
	if b.sendHWM <= 0 {
		return nil, &InvalidConfigError{Field: "send_hwm", Reason: "must be > 0"}
	}
	if b.sendRetries < 0 {
		return nil, &InvalidConfigError{Field: "send_retries", Reason: "must be >= 0"}
	}
	if b.ackRecvRetries < 0 {
		return nil, &InvalidConfigError{Field: "ack_receive_retries", Reason: "must be >= 0"}
	}
	if b.lingerMs < 0 {
		return nil, &InvalidConfigError{Field: "linger", Reason: "must be >= 0"}
	}
	return &WriterConfig{
		URI:            uri,
		Role:           role,
		SendTimeout:    time.Duration(b.sendTimeoutMs) * time.Millisecond,
		AckRecvTimeout: time.Duration(b.ackRecvTimeoutMs) * time.Millisecond,
		SendHWM:        b.sendHWM,
		SendRetries:    b.sendRetries,
		AckRecvRetries: b.ackRecvRetries,
		Linger:         time.Duration(b.lingerMs) * time.Millisecond,
		Source:         uri.Source,
	}, nil
}
