package irengine

import (
	"errors"
	"sync/atomic"

	"github.com/sparques/irengine/irproto"
)

var (
	// ErrBadButton is returned for an out-of-range virtual button slot.
	ErrBadButton = errors.New("no such virtual button")
	// ErrNotProgrammed is returned when an empty button slot is pressed.
	ErrNotProgrammed = errors.New("button not programmed")
	// ErrQueueFull is returned when the ad-hoc command queue is full.
	ErrQueueFull = errors.New("transmit queue full")
)

const (
	DefaultButtons = 32
	DefaultTxQueue = 8
	noButton       = -1
)

// Transmitter is the transmit scheduler: a virtual remote whose current
// pressed button, or failing that a queue of ad-hoc commands, drives one
// transmission at a time through a recurring alarm. A transmission in
// progress always runs to completion, protocol minimum repeats included; a
// press or release meanwhile only changes what the scheduler picks up next.
type Transmitter struct {
	carrier irproto.Carrier
	alarm   Alarm

	// running is the single-owner gate on the transmit state: set in task
	// context when a transmission starts, cleared only by the alarm
	// callback when it completes. The receiver watches it to ignore
	// self-reception.
	running uint32

	buttons []buttonSlot
	cur     int32 // atomic: pressed button slot, or noButton

	reqs        []txRequest
	reqWidx     uint32
	reqRidx     uint32
	adhocToggle bool

	ts     irproto.TxState
	params *irproto.Params
}

type buttonSlot struct {
	cmd        irproto.Command
	toggle     bool
	programmed bool
}

type txRequest struct {
	cmd   irproto.Command
	count int
	held  func() bool
}

// NewTransmitter assembles a transmit scheduler over a carrier output and
// an alarm. Most callers go through Configure.
func NewTransmitter(carrier irproto.Carrier, alarm Alarm, buttons, queue int) *Transmitter {
	return &Transmitter{
		carrier: carrier,
		alarm:   alarm,
		buttons: make([]buttonSlot, buttons),
		cur:     noButton,
		reqs:    make([]txRequest, queue+1),
	}
}

// Busy reports whether a transmission is in progress.
func (t *Transmitter) Busy() bool { return atomic.LoadUint32(&t.running) != 0 }

// busyFlag hands the receiver the running gate for self-reception
// suppression.
func (t *Transmitter) busyFlag() *uint32 { return &t.running }

// ProgramButton stores a command descriptor in a virtual button slot.
func (t *Transmitter) ProgramButton(id int, cmd irproto.Command) error {
	if id < 0 || id >= len(t.buttons) {
		return ErrBadButton
	}
	if irproto.ByID(cmd.Protocol) == nil {
		return irproto.ErrUnknownProtocol
	}
	t.buttons[id] = buttonSlot{cmd: cmd, programmed: true}
	return nil
}

// PushButton presses or releases a virtual button. Pressing makes the slot
// current and flips its toggle bit (a new press, not a repeat); releasing
// clears it if still current. Neither interrupts an in-flight transmission.
func (t *Transmitter) PushButton(id int, pressed bool) error {
	if id < 0 || id >= len(t.buttons) {
		return ErrBadButton
	}
	if !pressed {
		atomic.CompareAndSwapInt32(&t.cur, int32(id), noButton)
		return nil
	}
	if !t.buttons[id].programmed {
		return ErrNotProgrammed
	}
	t.buttons[id].toggle = !t.buttons[id].toggle
	atomic.StoreInt32(&t.cur, int32(id))
	t.kick()
	return nil
}

// QueueCommand enqueues an ad-hoc transmission of cmd, sent count times (the
// protocol minimum still applies). The queue is a bounded FIFO consulted
// whenever no virtual button is pressed.
func (t *Transmitter) QueueCommand(cmd irproto.Command, count int) error {
	return t.enqueue(txRequest{cmd: cmd, count: count})
}

// QueueHeld enqueues a transmission that keeps repeating for as long as held
// returns true, the ad-hoc equivalent of holding a button down.
func (t *Transmitter) QueueHeld(cmd irproto.Command, held func() bool) error {
	return t.enqueue(txRequest{cmd: cmd, count: 1, held: held})
}

func (t *Transmitter) enqueue(req txRequest) error {
	if irproto.ByID(req.cmd.Protocol) == nil {
		return irproto.ErrUnknownProtocol
	}
	w := atomic.LoadUint32(&t.reqWidx)
	next := w + 1
	if next == uint32(len(t.reqs)) {
		next = 0
	}
	if next == atomic.LoadUint32(&t.reqRidx) {
		return ErrQueueFull
	}
	t.reqs[w] = req
	atomic.StoreUint32(&t.reqWidx, next)
	t.kick()
	return nil
}

func (t *Transmitter) dequeue() (txRequest, bool) {
	r := atomic.LoadUint32(&t.reqRidx)
	if r == atomic.LoadUint32(&t.reqWidx) {
		return txRequest{}, false
	}
	req := t.reqs[r]
	r++
	if r == uint32(len(t.reqs)) {
		r = 0
	}
	atomic.StoreUint32(&t.reqRidx, r)
	return req, true
}

// kick starts the scheduler if it is idle. Once running, it keeps itself
// going from the alarm callback until no work remains. Losing the swap is
// fine: whoever holds the gate re-checks for work before releasing it.
func (t *Transmitter) kick() {
	for atomic.CompareAndSwapUint32(&t.running, 0, 1) {
		if t.startNext() {
			return
		}
		atomic.StoreUint32(&t.running, 0)
		if !t.hasWork() {
			return
		}
	}
}

func (t *Transmitter) hasWork() bool {
	return atomic.LoadInt32(&t.cur) != noButton ||
		atomic.LoadUint32(&t.reqRidx) != atomic.LoadUint32(&t.reqWidx)
}

// retire releases the running gate after a completed transmission. A press
// or enqueue that raced in between the scheduler's empty check and the
// release would find the gate still held and sleep forever, so look again
// once it is down.
func (t *Transmitter) retire() {
	atomic.StoreUint32(&t.running, 0)
	if t.hasWork() {
		t.kick()
	}
}

// startNext picks the next unit of work, in priority order: the current
// virtual button, then the ad-hoc queue. It initializes the transmit state,
// selects the protocol's carrier frequency and arms the alarm for the
// pre-transmission silence.
func (t *Transmitter) startNext() bool {
	for {
		t.ts = irproto.TxState{}
		if id := atomic.LoadInt32(&t.cur); id != noButton {
			slot := &t.buttons[id]
			t.ts.Cmd = slot.cmd
			t.ts.Toggle = slot.toggle
			t.ts.Pressed = func() bool { return atomic.LoadInt32(&t.cur) == id }
		} else if req, ok := t.dequeue(); ok {
			t.adhocToggle = !t.adhocToggle
			t.ts.Cmd = req.cmd
			t.ts.Toggle = t.adhocToggle
			t.ts.Count = req.count
			t.ts.Pressed = req.held
		} else {
			return false
		}

		p := irproto.ByID(t.ts.Cmd.Protocol)
		if p == nil {
			// descriptors are validated on the way in; don't wedge the
			// scheduler if one slips through anyway
			continue
		}
		t.params = p
		lead := p.TXStart(&t.ts)
		t.carrier.SetFrequency(p.Freq)
		t.carrier.SetDuty(0)
		t.alarm.Schedule(lead, t.step)
		return true
	}
}

// step is the recurring alarm callback: one TXStep per timed action, re-armed
// for the returned delay until the transmission completes, at which point
// the scheduler re-evaluates pending work.
func (t *Transmitter) step() {
	for {
		d := t.params.TXStep(&t.ts, t.carrier)
		if d > 0 {
			t.alarm.Schedule(uint32(d), t.step)
			return
		}
		if d == 0 {
			continue
		}
		// transmission complete
		if t.startNext() {
			return
		}
		t.retire()
		return
	}
}
