package irproto

// Decode is one generalized finite-state machine parameterized by Params.
// States run Idle -> HeaderMark -> HeaderSpace -> Data -> StopMark ->
// End-of-Code and back, with ditto-header and headerless-repeat side paths.
// A pulse outside the tolerance window of the expected reference length
// silently returns the handler to idle: most handlers reject most traffic,
// and that is the normal outcome, not a fault.

type decodeState uint8

const (
	stIdle decodeState = iota
	stHeaderSpace
	stMark  // space-length: expecting a bit mark; mark-length: expecting a 0/1 mark
	stSpace // space-length: expecting a 0/1 space; mark-length: expecting the bit space
	stData  // Manchester / async slot accumulation
	stStop  // expecting the trailing stop mark
	stEOC   // frame complete, awaiting inter-code silence
	stDittoStop
)

// Pulse feeds one pulse to the decoder. Completed commands are classified
// and published through rx.
func (h *Handler) Pulse(rx Reporter, p Pulse) {
	if p.Mark {
		h.markPulse(rx, p.Duration)
	} else {
		h.spacePulse(rx, p.Duration)
	}
}

func (h *Handler) markPulse(rx Reporter, d uint32) {
	p := h.p
	switch h.state {
	case stIdle:
		if !h.sawGap {
			return
		}
		h.sawGap = false
		if p.HeaderMark != 0 {
			if p.inTol(d, p.HeaderMark) {
				h.state = stHeaderSpace
				return
			}
			if p.HeaderlessRepeat && p.inTol(d, p.BitMark) && h.repeatArmed(rx) {
				// repeat frame restating the data with no new header;
				// this mark is already the first bit mark
				h.beginData()
				h.state = stSpace
			}
			return
		}
		// headerless protocols open directly on data
		switch p.Coding {
		case CodingSpaceLength:
			if p.inTol(d, p.BitMark) {
				h.beginData()
				h.state = stSpace
			}
		case CodingManchester:
			if !p.OpenMidBit {
				return
			}
			// the frame opens mid-bit: the leading space half of the
			// first bit is indistinguishable from idle
			h.beginData()
			h.phase, h.firstMark = 1, false
			h.manchPulse(rx, d, true)
		}

	case stHeaderSpace, stSpace:
		// expected a space
		h.reset(false)

	case stMark:
		switch p.Coding {
		case CodingSpaceLength:
			if p.inTol(d, p.BitMark) {
				h.state = stSpace
			} else {
				h.reset(false)
			}
		case CodingMarkLength:
			switch {
			case p.inTol(d, p.ZeroMark):
				h.pushBit(false)
			case p.inTol(d, p.OneMark):
				h.pushBit(true)
			default:
				h.reset(false)
				return
			}
			if h.bit == p.Bits {
				h.complete(rx, false)
			} else {
				h.state = stSpace
			}
		default:
			h.reset(false)
		}

	case stData:
		switch p.Coding {
		case CodingManchester:
			h.manchPulse(rx, d, true)
		case CodingAsync:
			h.asyncPulse(rx, d, true)
		default:
			h.reset(false)
		}

	case stStop:
		if p.inTol(d, p.StopMark) {
			h.complete(rx, false)
		} else {
			h.reset(false)
		}

	case stDittoStop:
		stop := p.StopMark
		if stop == 0 {
			stop = p.BitMark
		}
		if p.inTol(d, stop) {
			h.completeDitto()
		} else {
			h.reset(false)
		}

	case stEOC:
		// a mark before sufficient silence: this frame was a prefix of
		// somebody else's longer frame
		h.reset(false)
	}
}

func (h *Handler) spacePulse(rx Reporter, d uint32) {
	p := h.p
	switch h.state {
	case stIdle:
		if d >= p.MinGap {
			h.sawGap = true
		}

	case stHeaderSpace:
		// ditto frames are told apart at the header space
		if p.DittoSpace != 0 && p.inTol(d, p.DittoSpace) {
			h.state = stDittoStop
			return
		}
		if p.inTol(d, p.HeaderSpace) {
			h.beginData()
			return
		}
		if p.Coding == CodingAsync && d > p.HeaderSpace {
			// leading zero bits merge into the spacer slot
			n := int((d - p.HeaderSpace + p.Slot/2) / p.Slot)
			if n > 0 && n < p.Bits && p.inTol(d, p.HeaderSpace+uint32(n)*p.Slot) {
				h.beginData()
				for i := 0; i < n; i++ {
					h.pushBit(false)
				}
				return
			}
		}
		if p.Coding == CodingManchester {
			// undelimited header: when the first bit leads with a space
			// half, that half runs directly into the header space
			w := p.HalfBit * p.halfWidth(0)
			if p.inTol(d, p.HeaderSpace+w) {
				h.beginData()
				h.phase, h.firstMark = 1, false
				return
			}
		}
		h.reset(d >= p.MinGap)

	case stMark, stStop, stDittoStop:
		// expected a mark
		h.reset(d >= p.MinGap)

	case stSpace:
		switch p.Coding {
		case CodingSpaceLength:
			switch {
			case p.inTol(d, p.ZeroSpace):
				h.pushBit(false)
			case p.inTol(d, p.OneSpace):
				h.pushBit(true)
			default:
				h.reset(d >= p.MinGap)
				return
			}
			if h.bit == p.Bits {
				h.state = stStop
			} else {
				h.state = stMark
			}
		case CodingMarkLength:
			if p.inTol(d, p.BitSpace) {
				h.state = stMark
			} else {
				h.reset(d >= p.MinGap)
			}
		default:
			h.reset(d >= p.MinGap)
		}

	case stData:
		switch p.Coding {
		case CodingManchester:
			h.manchPulse(rx, d, false)
		case CodingAsync:
			h.asyncPulse(rx, d, false)
		}

	case stEOC:
		if d >= p.MinGap {
			h.report(rx)
			h.reset(true)
		} else {
			h.reset(false)
		}
	}
}

func (h *Handler) beginData() {
	h.raw = 0
	h.bit = 0
	h.phase = 0
	switch h.p.Coding {
	case CodingSpaceLength, CodingMarkLength:
		h.state = stMark
	default:
		h.state = stData
	}
}

// manchPulse consumes a pulse as a run of equal-level half-bit slots. A bit
// completes on its second half, which must be the opposite level of its
// first; two same-level halves inside one bit can only come from one pulse,
// so the check is local.
func (h *Handler) manchPulse(rx Reporter, d uint32, mark bool) {
	p := h.p
	rem := int64(d)
	for {
		w := int64(p.HalfBit * p.halfWidth(h.bit))
		tol := int64(p.tolOf(uint32(w)))
		if rem < w-tol {
			if rem > tol {
				h.reset(false)
			}
			return
		}
		if h.phase == 0 {
			h.firstMark = mark
			h.phase = 1
		} else {
			if mark == h.firstMark {
				h.reset(false)
				return
			}
			h.pushBit(h.firstMark == p.MarkFirstOne)
			h.phase = 0
			if h.bit == p.Bits {
				// only a residual space long enough to be the inter-code
				// silence confirms the frame boundary here; a bare half
				// still has to earn its gap
				h.complete(rx, !mark && rem-w >= int64(p.MinGap))
				return
			}
		}
		rem -= w
		if rem <= tol {
			return
		}
	}
}

// asyncPulse consumes a pulse as one or more fixed time slots, one bit per
// slot, mark=1. A long final space is trailing zero bits running into the
// inter-code silence.
func (h *Handler) asyncPulse(rx Reporter, d uint32, mark bool) {
	p := h.p
	n := int((d + p.Slot/2) / p.Slot)
	if n < 1 {
		h.reset(false)
		return
	}
	if !p.inTol(d, uint32(n)*p.Slot) {
		if mark || d < uint32(n)*p.Slot || h.bit+n < p.Bits {
			h.reset(false)
			return
		}
		n = p.Bits - h.bit
	}
	if h.bit+n > p.Bits {
		if mark {
			h.reset(false)
			return
		}
		n = p.Bits - h.bit
	}
	for i := 0; i < n; i++ {
		h.pushBit(mark)
	}
	if h.bit == p.Bits {
		gap := !mark && d >= uint32(n)*p.Slot &&
			d-uint32(n)*p.Slot >= p.MinGap
		h.complete(rx, gap)
	}
}

// complete runs the protocol's validation/unpack over the accumulated bits.
// A consistency failure silently discards the candidate. Otherwise the
// command is held pending until inter-code silence confirms the frame
// boundary (gapImplied short-circuits that when the closing silence has
// already been observed), so a protocol whose frame is a prefix of a longer
// protocol's frame never misfires.
func (h *Handler) complete(rx Reporter, gapImplied bool) {
	p := h.p
	code, meta, ok := h.raw, Meta{}, true
	if p.Unpack != nil {
		code, meta, ok = p.Unpack(h.raw)
	}
	if !ok {
		h.reset(false)
		return
	}
	h.pending = Received{
		Command:   Command{Protocol: p.ID, Code: code},
		HasToggle: meta.HasToggle,
		Toggle:    meta.Toggle,
		Position:  meta.Position,
		HasDitto:  p.DittoSpace != 0,
	}
	h.havePending = true
	if gapImplied {
		h.report(rx)
		h.reset(true)
		return
	}
	h.state = stEOC
}

// completeDitto stages a data-free repeat frame. The code is filled in from
// the shared repeat register at classification time.
func (h *Handler) completeDitto() {
	h.pending = Received{
		Command:  Command{Protocol: h.p.ID},
		HasDitto: true,
		Ditto:    true,
	}
	h.havePending = true
	h.state = stEOC
}

func (h *Handler) report(rx Reporter) {
	if !h.havePending {
		return
	}
	rc := h.pending
	h.havePending = false
	if !rx.Repeat().classify(h.p, &rc, rx.Now()) {
		return
	}
	rx.Publish(rc)
}

// repeatArmed reports whether the previous report was this protocol, recent
// enough for a headerless repeat frame to belong to it.
func (h *Handler) repeatArmed(rx Reporter) bool {
	reg := rx.Repeat()
	return reg.valid && reg.last.Protocol == h.p.ID &&
		rx.Now()-reg.when <= h.p.repeatWindow()
}
