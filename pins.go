//go:build tinygo

package irengine

import (
	. "machine"

	"github.com/sparques/pwm"
)

// AttachReceiverPin routes edge interrupts from a demodulating IR receiver
// into r. Set inverted when the receiver idles high and pulls low for a
// mark, which is how most demodulator modules behave.
func AttachReceiverPin(pin Pin, r *Receiver, inverted bool) {
	pin.Configure(PinConfig{Mode: PinInput})
	if inverted {
		pin.SetInterrupt(PinFalling|PinRising, func(p Pin) {
			r.OnEdge(!p.Get())
		})
		return
	}
	pin.SetInterrupt(PinFalling|PinRising, func(p Pin) {
		r.OnEdge(p.Get())
	})
}

// DetachReceiverPin removes the edge interrupt handler.
func DetachReceiverPin(pin Pin) {
	pin.SetInterrupt(PinFalling|PinRising, nil)
}

// PWMCarrier drives an IR LED from a hardware PWM channel: frequency set per
// protocol, duty switched between 0 and MarkDuty as the transmit scheduler
// keys the carrier.
type PWMCarrier struct {
	pgroup pwm.Group
	ch     uint8
	duty   float32
}

// NewPWMCarrier claims the PWM group and channel for pin and leaves the
// output off.
func NewPWMCarrier(pin Pin) *PWMCarrier {
	pin.Configure(PinConfig{Mode: PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(PWMConfig{Period: uint64(1e9) / 38000})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	return &PWMCarrier{
		pgroup: pgroup,
		ch:     ch,
	}
}

func (c *PWMCarrier) SetFrequency(hz uint32) {
	c.pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(hz)})
	c.apply()
}

func (c *PWMCarrier) SetDuty(duty float32) {
	c.duty = duty
	c.apply()
}

func (c *PWMCarrier) apply() {
	c.pgroup.Set(c.ch, uint32(float32(c.pgroup.Top())*c.duty))
}
