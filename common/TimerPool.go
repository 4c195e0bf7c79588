package common

import (
	"sync"
	"time"

	"github.com/Qthai16/go-deque/utils"
)

var _TimerPool sync.Pool

// BorrowTimer returns a stopped-and-drained timer from the pool reset to d,
// or a new one.
func BorrowTimer(d time.Duration) *time.Timer {
	x := _TimerPool.Get()
	if x == nil {
		return time.NewTimer(d)
	}
	t := x.(*time.Timer)
	if t.Reset(d) {
		utils.LogFatal("[timer_pool] pool returned an active timer")
	}
	return t
}

// ReturnTimer stops t, drains a pending tick and puts it back in the pool.
func ReturnTimer(t *time.Timer) {
	if !t.Stop() && len(t.C) != 0 {
		<-t.C
	}
	_TimerPool.Put(t)
}
