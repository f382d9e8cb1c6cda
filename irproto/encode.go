package irproto

// Encoding is the mirror of the decode FSM: TXStart converts the canonical
// code into a protocol-ordered bitstream and renders one frame of pulses;
// TXStep plays it out one timed carrier action per call.

// Carrier is the modulated output abstraction: a PWM channel at the
// protocol's carrier frequency whose duty cycle gates the IR LED.
type Carrier interface {
	SetFrequency(hz uint32)
	SetDuty(d float32)
}

// MarkDuty is the carrier duty cycle used during a mark. A third keeps LED
// current down without starving the receiver's AGC.
const MarkDuty = 1.0 / 3.0

// maxFramePulses bounds one rendered frame: 64 data bits at two pulses per
// bit plus header and stop.
const maxFramePulses = 2*64 + 4

// TxState is the per-transmission record. It has exactly one owner, the
// transmit scheduler, which fills Cmd/Toggle/Count/Pressed before TXStart.
type TxState struct {
	Cmd    Command
	Toggle bool
	// Count is the requested number of sends; the protocol minimum still
	// applies. 0 means 1.
	Count int
	// Pressed, when non-nil, keeps the transmission repeating as long as it
	// returns true ("virtual button still down").
	Pressed func() bool

	frame []Pulse
	idx   int
	sends int
	buf   [maxFramePulses]Pulse
}

// TXStart renders the first frame and returns the pre-transmission silence
// in microseconds. The caller must have set the carrier frequency already.
func (p *Params) TXStart(t *TxState) uint32 {
	t.sends = 0
	t.idx = 0
	t.frame = p.buildFrame(t.buf[:0], t.Cmd, t.Toggle, FrameFirst)
	lead := p.LeadIn
	if lead == 0 {
		lead = p.MinGap
	}
	return lead
}

// TXStep performs one timed action: assert or clear the carrier, or remain
// silent. It returns the microseconds until the next call, 0 to be called
// again immediately, or a negative value when the transmission is complete.
// At each frame boundary it consults the protocol's minimum send count and
// the caller's still-pressed flag to decide whether to loop.
func (p *Params) TXStep(t *TxState, c Carrier) int32 {
	if t.idx < len(t.frame) {
		pu := t.frame[t.idx]
		t.idx++
		if pu.Mark {
			c.SetDuty(MarkDuty)
		} else {
			c.SetDuty(0)
		}
		if pu.Duration == 0 {
			return 0
		}
		return int32(pu.Duration)
	}

	c.SetDuty(0)
	t.sends++
	want := t.Count
	if m := p.minSends(); m > want {
		want = m
	}
	more := t.sends < want || (t.Pressed != nil && t.Pressed())
	if !more {
		return -1
	}

	kind := FrameRepeat
	if t.Cmd.UseDittos && p.DittoMark != 0 {
		kind = FrameDitto
	}
	t.frame = p.buildFrame(t.buf[:0], t.Cmd, t.Toggle, kind)
	t.idx = 0
	return int32(p.RepeatGap)
}

// buildFrame renders one frame of cmd into dst. Repeat frames of ditto
// protocols are the short ditto signature instead of a full restatement;
// headerless-repeat protocols drop the header from their repeat frames.
func (p *Params) buildFrame(dst []Pulse, cmd Command, toggle bool, kind FrameKind) []Pulse {
	f := frameWriter{dst: dst}

	if kind == FrameDitto {
		f.add(p.DittoMark, true)
		f.add(p.DittoSpace, false)
		stop := p.StopMark
		if stop == 0 {
			stop = p.BitMark
		}
		f.add(stop, true)
		return f.dst
	}

	raw := cmd.Code
	if p.Pack != nil {
		raw = p.Pack(cmd, toggle, kind)
	}

	header := p.HeaderMark != 0 && !(kind == FrameRepeat && p.HeaderlessRepeat)
	if header {
		f.add(p.HeaderMark, true)
		f.add(p.HeaderSpace, false)
	}

	for i := 0; i < p.Bits; i++ {
		one := p.bitAt(raw, i)
		switch p.Coding {
		case CodingSpaceLength:
			f.add(p.BitMark, true)
			if one {
				f.add(p.OneSpace, false)
			} else {
				f.add(p.ZeroSpace, false)
			}
		case CodingMarkLength:
			if one {
				f.add(p.OneMark, true)
			} else {
				f.add(p.ZeroMark, true)
			}
			if i < p.Bits-1 {
				f.add(p.BitSpace, false)
			}
		case CodingManchester:
			w := p.HalfBit * p.halfWidth(i)
			lead := one == p.MarkFirstOne
			f.add(w, lead)
			f.add(w, !lead)
		case CodingAsync:
			f.add(p.Slot, one)
		}
	}

	if p.Coding == CodingSpaceLength && p.StopMark != 0 {
		f.add(p.StopMark, true)
	}
	return f.trimmed()
}

// frameWriter merges adjacent same-level intervals, which Manchester and
// async runs produce constantly.
type frameWriter struct {
	dst []Pulse
}

func (f *frameWriter) add(d uint32, mark bool) {
	if d == 0 {
		return
	}
	if n := len(f.dst); n > 0 && f.dst[n-1].Mark == mark {
		f.dst[n-1].Duration += d
		return
	}
	if len(f.dst) == 0 && !mark {
		// a leading space is indistinguishable from the pre-frame silence
		return
	}
	f.dst = append(f.dst, Pulse{Duration: d, Mark: mark})
}

// trimmed drops a trailing space, which merges into the inter-frame gap.
func (f *frameWriter) trimmed() []Pulse {
	if n := len(f.dst); n > 0 && !f.dst[n-1].Mark {
		return f.dst[:n-1]
	}
	return f.dst
}

func (p *Params) bitAt(raw uint64, i int) bool {
	if p.LSBFirst {
		return raw>>i&1 == 1
	}
	return raw>>(p.Bits-1-i)&1 == 1
}
