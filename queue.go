package irengine

import (
	"sync/atomic"

	"github.com/sparques/irengine/irproto"
)

// PulseQueue is a fixed-capacity single-producer/single-consumer ring of
// pulses between the edge interrupt and the decode task. No lock is used or
// needed: the writer owns the write index, the reader owns the read index,
// and overlap is a plain integer comparison. When full, the newest sample is
// dropped; the producer never blocks and never overwrites.
type PulseQueue struct {
	buf  []irproto.Pulse
	widx uint32
	ridx uint32
}

// NewPulseQueue returns a queue holding up to capacity pulses.
func NewPulseQueue(capacity int) *PulseQueue {
	return &PulseQueue{buf: make([]irproto.Pulse, capacity+1)}
}

// Write enqueues one pulse. It reports false, dropping the pulse, when the
// queue is full. Interrupt-safe against a concurrent reader.
func (q *PulseQueue) Write(p irproto.Pulse) bool {
	w := atomic.LoadUint32(&q.widx)
	next := w + 1
	if next == uint32(len(q.buf)) {
		next = 0
	}
	if next == atomic.LoadUint32(&q.ridx) {
		return false
	}
	q.buf[w] = p
	atomic.StoreUint32(&q.widx, next)
	return true
}

// Read dequeues the next pulse in strict FIFO order, reporting false when
// the queue is empty.
func (q *PulseQueue) Read() (irproto.Pulse, bool) {
	r := atomic.LoadUint32(&q.ridx)
	if r == atomic.LoadUint32(&q.widx) {
		return irproto.Pulse{}, false
	}
	p := q.buf[r]
	r++
	if r == uint32(len(q.buf)) {
		r = 0
	}
	atomic.StoreUint32(&q.ridx, r)
	return p, true
}

// Len reports the number of buffered pulses.
func (q *PulseQueue) Len() int {
	w := int(atomic.LoadUint32(&q.widx))
	r := int(atomic.LoadUint32(&q.ridx))
	if w < r {
		w += len(q.buf)
	}
	return w - r
}

// cmdQueue is the same ring for completed commands, between the decode task
// and whichever task polls ReadCommand.
type cmdQueue struct {
	buf  []irproto.Received
	widx uint32
	ridx uint32
}

func newCmdQueue(capacity int) *cmdQueue {
	return &cmdQueue{buf: make([]irproto.Received, capacity+1)}
}

func (q *cmdQueue) write(rc irproto.Received) bool {
	w := atomic.LoadUint32(&q.widx)
	next := w + 1
	if next == uint32(len(q.buf)) {
		next = 0
	}
	if next == atomic.LoadUint32(&q.ridx) {
		return false
	}
	q.buf[w] = rc
	atomic.StoreUint32(&q.widx, next)
	return true
}

func (q *cmdQueue) read() (irproto.Received, bool) {
	r := atomic.LoadUint32(&q.ridx)
	if r == atomic.LoadUint32(&q.widx) {
		return irproto.Received{}, false
	}
	rc := q.buf[r]
	r++
	if r == uint32(len(q.buf)) {
		r = 0
	}
	atomic.StoreUint32(&q.ridx, r)
	return rc, true
}
