package irengine

import (
	"errors"
	"log/slog"

	"github.com/sparques/irengine/irproto"
)

var ErrNoCarrier = errors.New("transmit requires a carrier")

// Config describes an engine: which clock to read, and which of the receive
// and transmit sides to bring up. A nil ReceiveConfig or TransmitConfig
// leaves that side out.
type Config struct {
	// Clock returns monotonic microseconds. Defaults to DefaultClock().
	Clock Clock
	// Log receives configuration and lifecycle messages, never per-pulse
	// traffic. Defaults to slog.Default().
	Log *slog.Logger

	Receive  *ReceiveConfig
	Transmit *TransmitConfig
}

// ReceiveConfig sizes the receive side. Zero values take defaults.
type ReceiveConfig struct {
	// PulseBuffer is the capacity of the interrupt-to-task pulse queue.
	PulseBuffer int
	// CommandBuffer is the capacity of the decoded command queue.
	CommandBuffer int
	// IdleTimeout is how long the line must be quiet before Task
	// synthesizes a line-idle pulse, in microseconds.
	IdleTimeout uint32
	// Protocols lists the decoders to run. Defaults to one per registered
	// protocol.
	Protocols []*irproto.Handler
}

// TransmitConfig sizes the transmit side. Carrier is required; everything
// else defaults.
type TransmitConfig struct {
	Carrier irproto.Carrier
	// Alarm schedules transmit steps. Defaults to TimerAlarm.
	Alarm Alarm
	// Buttons is the number of virtual button slots.
	Buttons int
	// Queue is the capacity of the ad-hoc command queue.
	Queue int
}

// Engine bundles a receiver and a transmitter built from one Config. Either
// side may be nil when the config left it out or its setup failed.
type Engine struct {
	RX *Receiver
	TX *Transmitter

	log *slog.Logger
}

// Configure builds an Engine. Setup is fail-soft per side: a transmit
// misconfiguration is logged and reported but does not take the receive
// side down with it, and vice versa. The returned error joins whatever
// went wrong.
func Configure(cfg Config) (*Engine, error) {
	if cfg.Clock == nil {
		cfg.Clock = DefaultClock()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	e := &Engine{log: cfg.Log}

	var errs []error
	if rc := cfg.Receive; rc != nil {
		if rc.PulseBuffer <= 0 {
			rc.PulseBuffer = DefaultPulseBuffer
		}
		if rc.CommandBuffer <= 0 {
			rc.CommandBuffer = DefaultCommandBuffer
		}
		handlers := rc.Protocols
		if handlers == nil {
			handlers = irproto.Handlers()
		}
		e.RX = NewReceiver(cfg.Clock, handlers, rc.PulseBuffer, rc.CommandBuffer)
		if rc.IdleTimeout != 0 {
			e.RX.idleTimeout = rc.IdleTimeout
		}
		cfg.Log.Info("receive configured",
			"protocols", len(handlers),
			"pulseBuffer", rc.PulseBuffer,
			"commandBuffer", rc.CommandBuffer)
	}
	if tc := cfg.Transmit; tc != nil {
		if tc.Carrier == nil {
			cfg.Log.Error("transmit not configured", "err", ErrNoCarrier)
			errs = append(errs, ErrNoCarrier)
		} else {
			if tc.Alarm == nil {
				tc.Alarm = TimerAlarm{}
			}
			if tc.Buttons <= 0 {
				tc.Buttons = DefaultButtons
			}
			if tc.Queue <= 0 {
				tc.Queue = DefaultTxQueue
			}
			e.TX = NewTransmitter(tc.Carrier, tc.Alarm, tc.Buttons, tc.Queue)
			cfg.Log.Info("transmit configured",
				"buttons", tc.Buttons,
				"queue", tc.Queue)
		}
	}
	if e.RX != nil && e.TX != nil {
		e.RX.txBusy = e.TX.busyFlag()
	}
	return e, errors.Join(errs...)
}

// ErrNoReceiver is returned by receive operations on a transmit-only engine.
var ErrNoReceiver = errors.New("receive not configured")

// Task runs the receive side's deferred work. Call it from the main loop.
func (e *Engine) Task() {
	if e.RX != nil {
		e.RX.Task()
	}
}

// Enable arms reception.
func (e *Engine) Enable() {
	if e.RX != nil {
		e.RX.Enable()
	}
}

// Disable disarms reception.
func (e *Engine) Disable() {
	if e.RX != nil {
		e.RX.Disable()
	}
}

// Subscribe registers fn for decoded commands, optionally filtered.
func (e *Engine) Subscribe(fn func(irproto.Received), filter ...irproto.Command) error {
	if e.RX == nil {
		return ErrNoReceiver
	}
	e.RX.Subscribe(fn, filter...)
	return nil
}

// SubscribeRaw registers fn for every pulse ahead of decoding.
func (e *Engine) SubscribeRaw(fn func(irproto.Pulse)) error {
	if e.RX == nil {
		return ErrNoReceiver
	}
	e.RX.SubscribeRaw(fn)
	return nil
}

// ReadCommand pulls the next decoded command.
func (e *Engine) ReadCommand() (irproto.Received, bool) {
	if e.RX == nil {
		return irproto.Received{}, false
	}
	return e.RX.ReadCommand()
}

// ProgramButton stores a command descriptor in a virtual button slot.
func (e *Engine) ProgramButton(id int, cmd irproto.Command) error {
	if e.TX == nil {
		return ErrNoCarrier
	}
	return e.TX.ProgramButton(id, cmd)
}

// PushButton presses or releases a virtual button.
func (e *Engine) PushButton(id int, pressed bool) error {
	if e.TX == nil {
		return ErrNoCarrier
	}
	return e.TX.PushButton(id, pressed)
}

// QueueHeld enqueues a transmission that repeats while held returns true.
func (e *Engine) QueueHeld(cmd irproto.Command, held func() bool) error {
	if e.TX == nil {
		return ErrNoCarrier
	}
	return e.TX.QueueHeld(cmd, held)
}

// Send queues an ad-hoc transmission, count frames minimum.
func (e *Engine) Send(cmd irproto.Command, count int) error {
	if e.TX == nil {
		return ErrNoCarrier
	}
	return e.TX.QueueCommand(cmd, count)
}

// SendString parses a command string and queues it for transmission.
func (e *Engine) SendString(s string, count int) error {
	cmd, err := irproto.ParseCommand(s)
	if err != nil {
		return err
	}
	return e.Send(cmd, count)
}
