package transport

import "bytes"

type topicPrefixKind int

const (
	prefixKindAny topicPrefixKind = iota
	prefixKindExact
	prefixKindPrefix
)

// TopicPrefixSpec is the tagged variant readers use to filter inbound
// traffic by topic (spec §3, §4.E).
type TopicPrefixSpec struct {
	kind  topicPrefixKind
	value []byte
}

// AnyTopic matches every byte string unconditionally.
func AnyTopic() TopicPrefixSpec { return TopicPrefixSpec{kind: prefixKindAny} }

// ExactTopic matches a topic iff it is byte-exact equal to s.
func ExactTopic(s string) TopicPrefixSpec {
	return TopicPrefixSpec{kind: prefixKindExact, value: []byte(s)}
}

// PrefixTopic matches a topic iff it is byte-prefixed by s.
func PrefixTopic(s string) TopicPrefixSpec {
	return TopicPrefixSpec{kind: prefixKindPrefix, value: []byte(s)}
}

// Matches reports whether topic passes this spec.
func (s TopicPrefixSpec) Matches(topic []byte) bool {
	switch s.kind {
	case prefixKindExact:
		return bytes.Equal(topic, s.value)
	case prefixKindPrefix:
		return bytes.HasPrefix(topic, s.value)
	default:
		return true
	}
}

// subscribePrefix is what a Subscriber role should pass to Socket.Subscribe:
// empty for Any (subscribe to everything), the literal value for Prefix and
// Exact (ZeroMQ subscription filters are themselves prefix matches, so an
// exact match still subscribes on its own bytes as a prefix).
func (s TopicPrefixSpec) subscribePrefix() []byte {
	if s.kind == prefixKindAny {
		return nil
	}
	return s.value
}
