package session

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc schedules on the runtime timer heap.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// reverter holds at most one pending switch back to the brush. Scheduling replaces
// the pending one; a callback that was already running when it got replaced finds
// its generation stale and does nothing.
type reverter struct {
	sched Scheduler
	timer Timer
	gen   uint64
}

func newReverter(sched Scheduler) *reverter {
	return &reverter{sched: sched}
}

func (r *reverter) schedule(d time.Duration, fire func(gen uint64)) {
	r.cancel()
	gen := r.gen
	r.timer = r.sched(d, func() { fire(gen) })
}

func (r *reverter) cancel() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *reverter) current(gen uint64) bool {
	return r.timer != nil && gen == r.gen
}
