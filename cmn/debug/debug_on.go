//go:build debug

package debug

import (
	"fmt"
	"sync"
)

func ON() bool { return true }

func Infof(format string, a ...any) { fmt.Printf("[DEBUG] "+format+"\n", a...) }

func Func(f func()) { f() }

func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprint(args...))
	}
}

func AssertFunc(f func() bool, args ...any) { Assert(f(), args...) }
func AssertNoErr(err error)                 { Assert(err == nil, err) }
func Assertf(cond bool, format string, a ...any) {
	if !cond {
		panic(fmt.Sprintf(format, a...))
	}
}

func AssertNotPstr(v any) { Assert(v != nil, "unexpected nil pointer") }
func FailTypeCast(v any)  { panic(fmt.Sprintf("unexpected type %T", v)) }

// AssertMutexLocked and its RWMutex counterparts use sync.Mutex's internal
// state only indirectly, via TryLock: if the lock is free, it was not held.
func AssertMutexLocked(m *sync.Mutex) {
	Assert(!m.TryLock(), "mutex not locked")
}
func AssertRWMutexLocked(m *sync.RWMutex) {
	Assert(!m.TryLock(), "rwmutex not locked")
}
func AssertRWMutexRLocked(m *sync.RWMutex) {
	locked := m.TryLock()
	if locked {
		m.Unlock()
	}
	Assert(!locked, "rwmutex not r-locked")
}
