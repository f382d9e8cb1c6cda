// Package irproto implements the protocol layer of the IR engine: the
// command model, the coding-family state machines that turn mark/space pulse
// streams into commands and back, and the auto-repeat classification that
// distinguishes a held button from a re-pressed one.
//
// Every supported protocol is one row in the protocol table: a Params struct
// naming its coding family, timing constants, and pack/unpack hooks. One
// generic decoder runs them all; there is no per-protocol state machine code
// beyond the hooks.
package irproto

// Pulse is one timed interval of the demodulated IR signal. Mark is IR-on.
// Durations are microseconds, clamped to MaxPulse by the edge sampler.
type Pulse struct {
	Duration uint32
	Mark     bool
}

// MaxPulse is the longest representable pulse in microseconds. The receiver
// synthesizes a space of this length when the line goes quiet, so decoders
// always see an end-of-frame pulse even when no further edge ever comes.
// It is longer than any legal in-frame interval of any supported protocol.
const MaxPulse = 131068

// ProtocolID identifies one protocol variant. IDs are stable; they appear in
// the persisted command string form.
type ProtocolID uint8

const (
	ProtocolNone ProtocolID = iota
	ProtocolNEC32
	ProtocolRCA24
	ProtocolJVC16
	ProtocolSamsung32
	ProtocolSamsung36
	ProtocolKaseikyo48
	ProtocolDenon15
	ProtocolSony12
	ProtocolSony15
	ProtocolSony20
	ProtocolRC5
	ProtocolRC6
	ProtocolOrtekMCE
	ProtocolLutron36
	ProtocolHexbug9
)

func (id ProtocolID) String() string {
	if p := ByID(id); p != nil {
		return p.Name
	}
	return "none"
}

// Coding selects the per-bit encoding family.
type Coding uint8

const (
	// CodingSpaceLength: fixed-length mark, two space lengths mean 0/1.
	CodingSpaceLength Coding = iota
	// CodingMarkLength: fixed-length space, two mark lengths mean 0/1.
	CodingMarkLength
	// CodingManchester: each bit is two half-bit slots of opposite level;
	// the level of the first half encodes the bit.
	CodingManchester
	// CodingAsync: fixed time slots, mark=1/space=0, several bits per pulse.
	CodingAsync
)

// RepeatKind selects the auto-repeat classification strategy.
type RepeatKind uint8

const (
	// RepeatTimeWindow: same protocol and code within the repeat window.
	RepeatTimeWindow RepeatKind = iota
	// RepeatDitto: a structurally distinct repeat frame signals repetition.
	RepeatDitto
	// RepeatToggle: repetition iff protocol, code and toggle bit all match.
	RepeatToggle
	// RepeatPosition: an explicit first/middle/last marker in the bits.
	RepeatPosition
)

// FrameKind distinguishes the first frame of a press from the frames that
// restate it while the button stays down.
type FrameKind uint8

const (
	FrameFirst FrameKind = iota
	FrameRepeat
	FrameDitto
)

// Meta carries the ephemeral per-transmission values an Unpack hook extracts
// alongside the code.
type Meta struct {
	HasToggle bool
	Toggle    bool
	Position  Position
}

// Params is the complete parameterization of one protocol: one row of the
// protocol table. Timing fields are microseconds; zero means "absent".
type Params struct {
	ID   ProtocolID
	Name string
	Freq uint32 // carrier frequency, Hz

	Coding   Coding
	Bits     int  // data bits on the wire, structural bits included
	CodeBits int  // significant bits of Command.Code
	LSBFirst bool // wire bit order
	Tol      int  // tolerance window, percent of the reference length

	HeaderMark  uint32
	HeaderSpace uint32

	// space-length family; BitMark doubles as the stop mark length
	BitMark   uint32
	ZeroSpace uint32
	OneSpace  uint32
	StopMark  uint32 // 0 = no stop mark

	// mark-length family
	BitSpace uint32
	ZeroMark uint32
	OneMark  uint32

	// Manchester family
	HalfBit      uint32
	MarkFirstOne bool // a logical 1 leads with a mark half
	OpenMidBit   bool // frame opens mid-bit; the leading space half is idle
	// HalfWidth returns the width of bit i's halves in half-bit units,
	// for protocols with non-uniform bit widths. nil means all 1.
	HalfWidth func(bit int) uint32

	// async family
	Slot uint32

	// ditto repeat framing (data-free)
	DittoMark  uint32
	DittoSpace uint32

	// HeaderlessRepeat: within the repeat window, a repeat frame restates
	// the data bits with no new header.
	HeaderlessRepeat bool

	// MinGap is the inter-code silence required before a new header is
	// recognized, and after a frame before it is reported.
	MinGap uint32

	// RepeatWindow is the receive-side auto-repeat window; 0 selects
	// DefaultRepeatWindow.
	RepeatWindow uint32

	// RepeatCodeMayVary permits position-coded repeat classification to
	// ignore payload mismatches (buttons whose payload bits change while
	// held).
	RepeatCodeMayVary bool

	Repeat RepeatKind

	// transmit side
	LeadIn    uint32 // silence before the first frame
	RepeatGap uint32 // silence between frames of one press
	MinSends  int    // minimum transmissions per press; 0 means 1

	// Unpack validates a completed raw bit accumulation and extracts the
	// canonical code. ok=false silently discards the candidate.
	// nil means code = raw, no validation.
	Unpack func(raw uint64) (code uint64, meta Meta, ok bool)
	// Pack is the inverse: rebuild the wire bits from a code, reinserting
	// structural and derivable bits. nil means raw = code.
	Pack func(cmd Command, toggle bool, kind FrameKind) uint64
}

func (p *Params) minSends() int {
	if p.MinSends < 1 {
		return 1
	}
	return p.MinSends
}

func (p *Params) repeatWindow() uint64 {
	if p.RepeatWindow == 0 {
		return DefaultRepeatWindow
	}
	return uint64(p.RepeatWindow)
}

func (p *Params) halfWidth(bit int) uint32 {
	if p.HalfWidth == nil {
		return 1
	}
	return p.HalfWidth(bit)
}

// inTol reports whether d is within the tolerance window around ref.
// ref==0 never matches.
func (p *Params) inTol(d, ref uint32) bool {
	if ref == 0 {
		return false
	}
	tol := ref * uint32(p.Tol) / 100
	return d >= ref-tol && d <= ref+tol
}

func (p *Params) tolOf(ref uint32) uint32 {
	return ref * uint32(p.Tol) / 100
}

// Reporter is the receive pipeline's side of a decode: a microsecond clock,
// the repeat-detection register shared by every protocol, and the publish
// sink for completed commands.
type Reporter interface {
	Now() uint64
	Repeat() *RepeatState
	Publish(Received)
}

// Handler is one long-lived protocol decoder instance. It persists decode
// state across pulses because a code spans many of them. All registered
// handlers observe every pulse; a pulse that does not fit simply returns the
// handler to idle, which is the normal fate of traffic meant for another
// protocol.
type Handler struct {
	p *Params

	state     decodeState
	sawGap    bool
	raw       uint64
	bit       int
	phase     int  // Manchester: halves consumed of the current bit
	firstMark bool // Manchester: level of the current bit's first half

	pending     Received
	havePending bool
}

// NewHandler returns a decoder for the given parameter row. It starts
// gap-armed: an idle line counts as inter-code silence. Most callers want
// Handlers() instead.
func NewHandler(p *Params) *Handler {
	return &Handler{p: p, sawGap: true}
}

// Params returns the handler's parameter row.
func (h *Handler) Params() *Params { return h.p }

// Idle reports whether the decoder is in its idle state with no partial
// frame in progress.
func (h *Handler) Idle() bool { return h.state == stIdle && !h.havePending }

// Reset abandons any partial decode and re-arms on the assumption the line
// is idle, such as across a receiver disable.
func (h *Handler) Reset() { h.reset(true) }

func (h *Handler) reset(sawGap bool) {
	h.state = stIdle
	h.sawGap = sawGap
	h.raw = 0
	h.bit = 0
	h.phase = 0
	h.havePending = false
}

func (h *Handler) pushBit(one bool) {
	if h.p.LSBFirst {
		if one {
			h.raw |= 1 << h.bit
		}
	} else {
		h.raw <<= 1
		if one {
			h.raw |= 1
		}
	}
	h.bit++
}
