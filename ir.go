// Package irengine is the IR remote-control signal engine: it decodes button
// presses from consumer remotes into protocol-agnostic commands and encodes
// outgoing commands to drive other equipment, a dozen-plus mutually
// incompatible encoding schemes at a time, without blocking in interrupt
// context.
//
// The split of labor: edge interrupts timestamp transitions on the receiver
// pin and push pulses into a lock-free queue; a periodically called Task
// drains it through every protocol decoder in parallel and hands completed
// commands to subscribers; a recurring alarm steps one outgoing transmission
// at a time. Protocol knowledge itself lives in the irproto subpackage.
package irengine

import "time"

// Clock returns monotonic time in microseconds. Everything in the engine is
// timed against one of these.
type Clock func() uint64

// DefaultClock derives a microsecond clock from the runtime's monotonic
// time.
func DefaultClock() Clock {
	start := time.Now()
	return func() uint64 {
		return uint64(time.Since(start) / time.Microsecond)
	}
}

// Alarm schedules a single callback some microseconds from now. The
// transmit scheduler re-arms it from inside the callback to pace a
// transmission.
type Alarm interface {
	Schedule(us uint32, fn func())
}

// TimerAlarm is the default Alarm, backed by the runtime timer. Hardware
// alarm wrappers can replace it where tighter jitter is needed.
type TimerAlarm struct{}

func (TimerAlarm) Schedule(us uint32, fn func()) {
	time.AfterFunc(time.Duration(us)*time.Microsecond, fn)
}
