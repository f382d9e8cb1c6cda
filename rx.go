package irengine

import (
	"sync/atomic"

	"github.com/sparques/irengine/irproto"
)

const (
	// DefaultIdleTimeout is how long the line must be quiet before the
	// receiver synthesizes an end-of-pulse at the maximum duration. It must
	// exceed the longest legal in-frame silence of any protocol (a Lutron
	// run of zero slots approaches 80ms).
	DefaultIdleTimeout = 100_000

	DefaultPulseBuffer   = 64
	DefaultCommandBuffer = 8
)

// Receiver owns the receive half: the edge sampler feeding the pulse queue
// from interrupt context, and the task-context pipeline that drains it
// through every protocol decoder in parallel.
type Receiver struct {
	clock       Clock
	queue       *PulseQueue
	handlers    []*irproto.Handler
	repeat      irproto.RepeatState
	cmds        *cmdQueue
	subs        []subscriber
	rawSubs     []func(irproto.Pulse)
	idleTimeout uint32

	enabled uint32
	txBusy  *uint32 // transmitter's running flag, to ignore self-reception

	// edge sampler state, written by interrupt context and read by Task.
	// All access is atomic; the pulse queue itself is written only by
	// OnEdge, which keeps it at exactly one producer.
	lastEdge uint64
	level    uint32
	primed   uint32

	// synthEdge is the lastEdge value whose trailing silence Task has
	// already synthesized. OnEdge skips closing an interval that matches
	// it, so the same silence is never counted twice.
	synthEdge uint64
}

type subscriber struct {
	fn     func(irproto.Received)
	filter []irproto.Command
}

// NewReceiver assembles a receiver. Most callers go through Configure.
func NewReceiver(clock Clock, handlers []*irproto.Handler, pulseBuf, cmdBuf int) *Receiver {
	return &Receiver{
		clock:       clock,
		queue:       NewPulseQueue(pulseBuf),
		handlers:    handlers,
		cmds:        newCmdQueue(cmdBuf),
		idleTimeout: DefaultIdleTimeout,
		synthEdge:   ^uint64(0),
	}
}

// Enable arms reception. Edges arriving while disabled are ignored.
func (r *Receiver) Enable() {
	atomic.StoreUint32(&r.primed, 0)
	atomic.StoreUint32(&r.enabled, 1)
}

// Disable disarms reception and abandons any partial decodes.
func (r *Receiver) Disable() {
	atomic.StoreUint32(&r.enabled, 0)
	for _, h := range r.handlers {
		h.Reset()
	}
	r.repeat.Invalidate()
}

// OnEdge is the edge interrupt handler: level is the demodulated input
// after the transition, true while the carrier is seen (mark). It closes
// the pulse the transition ends and opens the next one. Work here is
// limited to timestamping, arithmetic and one queue write.
func (r *Receiver) OnEdge(level bool) {
	now := r.clock()
	if atomic.LoadUint32(&r.enabled) == 0 {
		atomic.StoreUint32(&r.primed, 0)
		return
	}
	if r.txBusy != nil && atomic.LoadUint32(r.txBusy) != 0 {
		// our own transmission reflecting off the room
		atomic.StoreUint32(&r.primed, 0)
		return
	}
	lv := uint32(0)
	if level {
		lv = 1
	}
	if atomic.LoadUint32(&r.primed) != 0 {
		prev := atomic.LoadUint32(&r.level)
		if lv == prev {
			return // spurious interrupt, no transition
		}
		last := atomic.LoadUint64(&r.lastEdge)
		if atomic.LoadUint64(&r.synthEdge) != last {
			d := now - last
			if d > irproto.MaxPulse {
				d = irproto.MaxPulse
			}
			r.queue.Write(irproto.Pulse{Duration: uint32(d), Mark: prev == 1})
		}
	}
	atomic.StoreUint32(&r.level, lv)
	atomic.StoreUint64(&r.lastEdge, now)
	atomic.StoreUint32(&r.primed, 1)
}

// Task runs the receive pipeline and must be called periodically from task
// context: it drains the pulse queue through every decoder, expires the idle
// timeout, and dispatches completed commands to subscribers. With no
// subscribers, commands stay queued for ReadCommand.
func (r *Receiver) Task() {
	for {
		p, ok := r.queue.Read()
		if !ok {
			break
		}
		r.dispatchPulse(p)
	}

	if atomic.LoadUint32(&r.enabled) != 0 && atomic.LoadUint32(&r.primed) != 0 {
		edge := atomic.LoadUint64(&r.lastEdge)
		if atomic.LoadUint64(&r.synthEdge) != edge &&
			r.clock()-edge >= uint64(r.idleTimeout) {
			// nothing more is coming; hand the decoders the silence they
			// are waiting on. The synthesized pulse bypasses the queue so
			// the interrupt side stays its only producer. An edge racing
			// the deadline check at worst duplicates a silence pulse; it
			// never drops a real one.
			atomic.StoreUint64(&r.synthEdge, edge)
			mark := atomic.LoadUint32(&r.level) == 1
			r.dispatchPulse(irproto.Pulse{Duration: irproto.MaxPulse, Mark: mark})
		}
	}

	if len(r.subs) == 0 {
		return
	}
	for {
		rc, ok := r.cmds.read()
		if !ok {
			return
		}
		for _, s := range r.subs {
			if s.matches(rc) {
				s.fn(rc)
			}
		}
	}
}

func (r *Receiver) dispatchPulse(p irproto.Pulse) {
	for _, fn := range r.rawSubs {
		fn(p)
	}
	for _, h := range r.handlers {
		h.Pulse(r, p)
	}
}

func (s *subscriber) matches(rc irproto.Received) bool {
	if len(s.filter) == 0 {
		return true
	}
	for _, c := range s.filter {
		if c.Eq(rc.Command) {
			return true
		}
	}
	return false
}

// Subscribe registers fn for decoded commands, optionally scoped to a set
// of command descriptors. Once any subscriber exists, Task dispatches
// commands instead of queueing them for ReadCommand.
func (r *Receiver) Subscribe(fn func(irproto.Received), filter ...irproto.Command) {
	r.subs = append(r.subs, subscriber{fn: fn, filter: filter})
}

// SubscribeRaw registers fn for every pulse ahead of decoding.
func (r *Receiver) SubscribeRaw(fn func(irproto.Pulse)) {
	r.rawSubs = append(r.rawSubs, fn)
}

// ReadCommand pulls the next decoded command, the manual alternative to
// subscriptions.
func (r *Receiver) ReadCommand() (irproto.Received, bool) {
	return r.cmds.read()
}

// Now implements irproto.Reporter.
func (r *Receiver) Now() uint64 { return r.clock() }

// Repeat implements irproto.Reporter: the repeat-detection register shared
// by every protocol decoder.
func (r *Receiver) Repeat() *irproto.RepeatState { return &r.repeat }

// Publish implements irproto.Reporter. Command queue overflow drops the
// newest command; bounded memory wins over completeness under overload.
func (r *Receiver) Publish(rc irproto.Received) {
	r.cmds.write(rc)
}
