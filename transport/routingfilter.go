package transport

import (
	"bytes"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// expiredKey is the (topic, routing-id) pair retained in the LRU once a
// newer routing id has been observed for that topic.
type expiredKey struct {
	topic     string
	routingID string
}

// RoutingIDFilter is the bounded, per-topic deduplicator of §4.D: it
// tracks one current authoritative routing identity per topic and a
// globally bounded LRU of (topic, id) pairs that have since gone stale, so
// that stragglers from a crashed prior peer instance are rejected while
// the first new identity seen per topic is accepted. Owned by exactly one
// Reader; the internal mutex makes a single instance goroutine-safe.
type RoutingIDFilter struct {
	mu      sync.Mutex
	current map[string][]byte
	expired *lru.Cache[expiredKey, struct{}]
}

// NewRoutingIDFilter constructs a filter whose expired set holds at most
// capacity entries (default 512, per spec §6).
func NewRoutingIDFilter(capacity int) (*RoutingIDFilter, error) {
	if capacity <= 0 {
		return nil, &InvalidConfigError{Field: "routing_id_cache_size", Reason: "must be > 0"}
	}
	c, err := lru.New[expiredKey, struct{}](capacity)
	if err != nil {
		return nil, err
	}
	return &RoutingIDFilter{
		current: make(map[string][]byte),
		expired: c,
	}, nil
}

// Allow implements the policy from spec §4.D:
//
//  1. routingID == nil (non-routed sockets): always allowed.
//  2. no current identity recorded for topic: record and allow.
//  3. routingID equals the current identity for topic: allow.
//  4. (topic, routingID) is in the expired set: deny (stale peer).
//  5. otherwise routingID is new for topic: evict the previous current
//     identity into the expired set, adopt routingID as current, allow.
func (f *RoutingIDFilter) Allow(topic, routingID []byte) bool {
	if routingID == nil {
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tkey := string(topic)
	cur, ok := f.current[tkey]
	if !ok {
		f.current[tkey] = cloneBytes(routingID)
		return true
	}
	if bytes.Equal(cur, routingID) {
		return true
	}
	// Contains, not Get: a membership check must not itself promote the
	// entry to most-recently-used, or a stale peer that keeps retrying
	// would keep refreshing its own expired-set entry and never age out
	// (spec §4.D: "eviction requires >= N distinct identity changes").
	if f.expired.Contains(expiredKey{topic: tkey, routingID: string(routingID)}) {
		return false
	}
	f.expired.Add(expiredKey{topic: tkey, routingID: string(cur)}, struct{}{})
	f.current[tkey] = cloneBytes(routingID)
	return true
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
