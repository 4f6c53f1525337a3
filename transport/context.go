package transport

import (
	"sync"

	"github.com/pebbe/zmq4"
)

// process-wide messaging-library context, created lazily and shared by
// every real socket; safe to use across goroutines (spec §5, §9). Mirrors
// the teacher's own singleton idiom — e.g. cmn/nlog's onceInitFiles and
// transport's package-level gc *collector, both sync.Once-guarded globals.
var (
	zctxOnce sync.Once
	zctx     *zmq4.Context
	zctxErr  error
)

func globalZmqContext() (*zmq4.Context, error) {
	zctxOnce.Do(func() {
		zctx, zctxErr = zmq4.NewContext()
	})
	return zctx, zctxErr
}
