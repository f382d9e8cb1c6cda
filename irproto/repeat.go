package irproto

// DefaultRepeatWindow is the elapsed-time ceiling, in microseconds, under
// which a matching command is classified as an auto-repeat when the protocol
// gives no better signal. 250 ms comfortably covers every supported
// protocol's frame period.
const DefaultRepeatWindow = 250_000

// RepeatState is the repeat-detection register: the one previous report,
// shared across all protocols. Every successful report from any handler
// updates it, so each strategy compares against the immediately preceding
// decode regardless of which protocol produced it.
type RepeatState struct {
	last      Command
	hasToggle bool
	toggle    bool
	pos       Position
	when      uint64 // microsecond timestamp of the last report
	valid     bool
}

// Last returns the previous reported command and its timestamp.
func (rs *RepeatState) Last() (Command, uint64, bool) {
	return rs.last, rs.when, rs.valid
}

// Invalidate clears the register, e.g. across a receiver disable.
func (rs *RepeatState) Invalidate() { rs.valid = false }

// classify runs the protocol's repeat strategy over a pending report,
// setting AutoRepeat and Elapsed, then funnels into the one register update.
// It returns false when the report must be discarded (a ditto frame with no
// antecedent to copy the code from).
func (rs *RepeatState) classify(p *Params, rc *Received, now uint64) bool {
	elapsed := now - rs.when
	inWindow := rs.valid && elapsed <= p.repeatWindow()
	samePrev := inWindow && rs.last.Protocol == rc.Protocol

	switch p.Repeat {
	case RepeatDitto:
		if rc.Ditto {
			// data-free repeat frame: the code rides along from the
			// register
			if !samePrev {
				return false
			}
			rc.Code = rs.last.Code
			rc.UseDittos = true
			rc.AutoRepeat = true
		}

	case RepeatToggle:
		rc.AutoRepeat = samePrev && rs.last.Code == rc.Code &&
			rs.hasToggle && rc.HasToggle && rs.toggle == rc.Toggle

	case RepeatPosition:
		switch rc.Position {
		case PosFirst:
			// an explicit first frame is never a repeat
		case PosMiddle, PosLast:
			rc.AutoRepeat = samePrev && rs.pos != PosLast &&
				(p.RepeatCodeMayVary || rs.last.Code == rc.Code)
		}

	default: // RepeatTimeWindow
		rc.AutoRepeat = samePrev && rs.last.Code == rc.Code
	}

	if rs.valid {
		rc.Elapsed = elapsed
	}

	rs.last = rc.Command
	rs.hasToggle = rc.HasToggle
	rs.toggle = rc.Toggle
	rs.pos = rc.Position
	rs.when = now
	rs.valid = true
	return true
}
