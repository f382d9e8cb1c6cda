package irproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRx is a Reporter with a settable clock and a captured report stream.
type fakeRx struct {
	now    uint64
	repeat RepeatState
	out    []Received
}

func (f *fakeRx) Now() uint64          { return f.now }
func (f *fakeRx) Repeat() *RepeatState { return &f.repeat }
func (f *fakeRx) Publish(rc Received)  { f.out = append(f.out, rc) }

// feed runs pulses through h, bracketed by line-idle silence on both sides,
// the way the receive pipeline delivers a lone transmission.
func feed(h *Handler, rx Reporter, pulses []Pulse) {
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	for _, p := range pulses {
		h.Pulse(rx, p)
	}
	h.Pulse(rx, Pulse{Duration: MaxPulse})
}

func firstFrame(t *testing.T, cmd Command, toggle bool) []Pulse {
	t.Helper()
	p := ByID(cmd.Protocol)
	require.NotNil(t, p)
	frame := p.buildFrame(nil, cmd, toggle, FrameFirst)
	require.NotEmpty(t, frame)
	return frame
}

// One representative command per protocol, chosen with mixed bit patterns.
var roundTripCommands = []Command{
	{Protocol: ProtocolNEC32, Code: 0x00FF12ED},
	{Protocol: ProtocolRCA24, Code: 0xA57},
	{Protocol: ProtocolJVC16, Code: 0xC5A8},
	{Protocol: ProtocolSamsung32, Code: 0xE0E040BF},
	{Protocol: ProtocolSamsung36, Code: 0xBADC0FFE5},
	{Protocol: ProtocolKaseikyo48, Code: 0x0123456789},
	{Protocol: ProtocolDenon15, Code: 0x4ABC},
	{Protocol: ProtocolSony12, Code: 0x543},
	{Protocol: ProtocolSony15, Code: 0x5A43},
	{Protocol: ProtocolSony20, Code: 0x81234},
	{Protocol: ProtocolRC5, Code: 0x42B},
	{Protocol: ProtocolRC6, Code: 0x770B},
	{Protocol: ProtocolOrtekMCE, Code: 0x1A8F},
	{Protocol: ProtocolLutron36, Code: 0x8DEADBEEF},
	{Protocol: ProtocolHexbug9, Code: 0x41},
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, cmd := range roundTripCommands {
		p := ByID(cmd.Protocol)
		t.Run(p.Name, func(t *testing.T) {
			rx := &fakeRx{now: 1_000_000}
			h := NewHandler(p)
			feed(h, rx, firstFrame(t, cmd, true))

			require.Len(t, rx.out, 1)
			got := rx.out[0]
			assert.Equal(t, cmd.Protocol, got.Protocol)
			assert.Equal(t, cmd.Code, got.Code)
			assert.False(t, got.AutoRepeat)
			assert.False(t, got.Ditto)
			if p.Repeat == RepeatToggle {
				assert.True(t, got.HasToggle)
				assert.True(t, got.Toggle)
			}
			assert.True(t, h.Idle())
		})
	}
}

// Every frame fed to every decoder at once: exactly one decoder may reach a
// terminal decode, and it must be the right one. This is the property that
// lets the receive pipeline run all protocols in parallel.
func TestDecodeDiscrimination(t *testing.T) {
	for _, cmd := range roundTripCommands {
		p := ByID(cmd.Protocol)
		t.Run(p.Name, func(t *testing.T) {
			rx := &fakeRx{now: 1_000_000}
			handlers := Handlers()
			frame := firstFrame(t, cmd, false)
			for _, h := range handlers {
				feed(h, rx, frame)
			}
			require.Len(t, rx.out, 1)
			assert.Equal(t, cmd.Protocol, rx.out[0].Protocol)
			assert.Equal(t, cmd.Code, rx.out[0].Code)
		})
	}
}

// An unmatchable mark must leave every decoder idle with nothing reported.
func TestDecodeRejectsStray(t *testing.T) {
	rx := &fakeRx{now: 1_000_000}
	for _, h := range Handlers() {
		feed(h, rx, []Pulse{{Duration: 6000, Mark: true}})
		assert.True(t, h.Idle(), h.Params().Name)
	}
	assert.Empty(t, rx.out)
}

func TestDecodeToleranceEdges(t *testing.T) {
	p := ByID(ProtocolNEC32)
	cmd := Command{Protocol: ProtocolNEC32, Code: 0x00FF12ED}
	frame := firstFrame(t, cmd, false)

	// stretch every interval to +20%, still inside the 25% window
	stretched := make([]Pulse, len(frame))
	for i, pu := range frame {
		stretched[i] = Pulse{Duration: pu.Duration * 120 / 100, Mark: pu.Mark}
	}
	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	feed(h, rx, stretched)
	require.Len(t, rx.out, 1)
	assert.Equal(t, cmd.Code, rx.out[0].Code)

	// +40% is out of tolerance everywhere
	broken := make([]Pulse, len(frame))
	for i, pu := range frame {
		broken[i] = Pulse{Duration: pu.Duration * 140 / 100, Mark: pu.Mark}
	}
	rx2 := &fakeRx{now: 1_000_000}
	h2 := NewHandler(p)
	feed(h2, rx2, broken)
	assert.Empty(t, rx2.out)
}

func TestDecodeNECDitto(t *testing.T) {
	p := ByID(ProtocolNEC32)
	cmd := Command{Protocol: ProtocolNEC32, Code: 0x00FF12ED}
	full := p.buildFrame(nil, cmd, false, FrameFirst)
	ditto := p.buildFrame(nil, cmd, false, FrameDitto)
	require.Len(t, ditto, 3)

	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	for _, pu := range full {
		h.Pulse(rx, pu)
	}
	h.Pulse(rx, Pulse{Duration: p.RepeatGap})
	for _, pu := range ditto {
		h.Pulse(rx, pu)
	}
	h.Pulse(rx, Pulse{Duration: MaxPulse})

	require.Len(t, rx.out, 2)
	first, rep := rx.out[0], rx.out[1]
	assert.Equal(t, cmd.Code, first.Code)
	assert.True(t, first.HasDitto)
	assert.False(t, first.Ditto)
	assert.False(t, first.AutoRepeat)

	assert.Equal(t, cmd.Code, rep.Code)
	assert.True(t, rep.Ditto)
	assert.True(t, rep.AutoRepeat)
	assert.True(t, rep.UseDittos)
}

// A ditto frame with no antecedent carries no code and must be dropped.
func TestDecodeOrphanDitto(t *testing.T) {
	p := ByID(ProtocolNEC32)
	ditto := p.buildFrame(nil, Command{Protocol: ProtocolNEC32}, false, FrameDitto)
	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	feed(h, rx, ditto)
	assert.Empty(t, rx.out)
}

func TestDecodeJVCHeaderlessRepeat(t *testing.T) {
	p := ByID(ProtocolJVC16)
	cmd := Command{Protocol: ProtocolJVC16, Code: 0xC5A8}
	full := p.buildFrame(nil, cmd, false, FrameFirst)
	rep := p.buildFrame(nil, cmd, false, FrameRepeat)
	require.Less(t, len(rep), len(full), "repeat frame drops the header")

	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	for _, pu := range full {
		h.Pulse(rx, pu)
	}
	h.Pulse(rx, Pulse{Duration: p.RepeatGap})
	rx.now += uint64(p.RepeatGap)
	for _, pu := range rep {
		h.Pulse(rx, pu)
	}
	h.Pulse(rx, Pulse{Duration: MaxPulse})

	require.Len(t, rx.out, 2)
	assert.False(t, rx.out[0].AutoRepeat)
	assert.True(t, rx.out[1].AutoRepeat)
	assert.Equal(t, cmd.Code, rx.out[1].Code)
}

// A headerless restatement with no recent antecedent must not decode: cold,
// it is indistinguishable from line noise.
func TestDecodeJVCHeaderlessRepeatUnarmed(t *testing.T) {
	p := ByID(ProtocolJVC16)
	rep := p.buildFrame(nil, Command{Protocol: ProtocolJVC16, Code: 0xC5A8}, false, FrameRepeat)
	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	feed(h, rx, rep)
	assert.Empty(t, rx.out)
}

// Leading zero bits of an async frame merge into the header's spacer slot;
// trailing zeros merge into the inter-code silence. Both must be recovered.
func TestDecodeLutronZeroRuns(t *testing.T) {
	cmds := []Command{
		{Protocol: ProtocolLutron36, Code: 0x00012345E0}, // leading and trailing zeros
		{Protocol: ProtocolLutron36, Code: 0x8DEADBEEF},
		{Protocol: ProtocolLutron36, Code: 0x000000001}, // maximal zero runs
	}
	p := ByID(ProtocolLutron36)
	for _, cmd := range cmds {
		rx := &fakeRx{now: 1_000_000}
		h := NewHandler(p)
		feed(h, rx, firstFrame(t, cmd, false))
		require.Len(t, rx.out, 1, "%#x", cmd.Code)
		assert.Equal(t, cmd.Code, rx.out[0].Code)
	}
}

// Corrupted derivable bits must discard the frame, not report a bad code.
func TestDecodeValidationRejects(t *testing.T) {
	tests := []struct {
		name string
		pid  ProtocolID
		raw  uint64
	}{
		{"rca bad complement", ProtocolRCA24, 0xA57A57},
		{"kaseikyo bad checksum", ProtocolKaseikyo48, 0xFF0123456789 & 0xFFFF_FFFF_FFFF},
		{"hexbug bad parity", ProtocolHexbug9, 0x041},
		{"rc5 bad start bits", ProtocolRC5, 0x042B},
		{"rc6 bad mode", ProtocolRC6, 1<<20 | 1<<17 | 0x770B},
		{"ortek bad checksum", ProtocolOrtekMCE, 0x1A8F},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ByID(tt.pid)
			require.NotNil(t, p.Unpack)
			_, _, ok := p.Unpack(tt.raw)
			assert.False(t, ok)
		})
	}
}

// The 32-bit Samsung decoder must not misfire on the longer 36-bit frame it
// is a strict prefix of.
func TestDecodePrefixAmbiguity(t *testing.T) {
	cmd := Command{Protocol: ProtocolSamsung36, Code: 0xBADC0FFE5}
	frame := firstFrame(t, cmd, false)

	rx := &fakeRx{now: 1_000_000}
	h32 := NewHandler(ByID(ProtocolSamsung32))
	h36 := NewHandler(ByID(ProtocolSamsung36))
	feed(h32, rx, frame)
	feed(h36, rx, frame)

	require.Len(t, rx.out, 1)
	assert.Equal(t, ProtocolSamsung36, rx.out[0].Protocol)
	assert.Equal(t, cmd.Code, rx.out[0].Code)
}

func TestHandlersFreshPerCall(t *testing.T) {
	a := Handlers()
	b := Handlers()
	require.Equal(t, len(table), len(a))
	for i := range a {
		assert.NotSame(t, a[i], b[i])
		assert.Same(t, a[i].Params(), b[i].Params())
	}
}

// A Manchester frame whose last bit closes on a bare space half has not
// seen the inter-code silence yet; a mark arriving instead of the gap means
// the candidate was a fragment of something longer and must be discarded.
func TestDecodeManchesterAwaitsGap(t *testing.T) {
	p := ByID(ProtocolRC6)
	cmd := Command{Protocol: ProtocolRC6, Code: 0x770B}
	frame := firstFrame(t, cmd, false)

	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	for _, pu := range frame {
		h.Pulse(rx, pu)
	}
	// closing space half of the final bit, then a mark where only
	// silence would confirm the frame
	h.Pulse(rx, Pulse{Duration: p.HalfBit, Mark: false})
	h.Pulse(rx, Pulse{Duration: p.HeaderMark, Mark: true})
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	assert.Empty(t, rx.out, "no report without inter-code silence")

	// the same frame followed by real silence reports
	rx2 := &fakeRx{now: 1_000_000}
	feed(NewHandler(p), rx2, frame)
	require.Len(t, rx2.out, 1)
	assert.Equal(t, cmd.Code, rx2.out[0].Code)
}

// Same boundary rule for async slots: trailing zero bits that exactly fill
// the frame do not imply the gap on their own.
func TestDecodeAsyncAwaitsGap(t *testing.T) {
	p := ByID(ProtocolLutron36)
	cmd := Command{Protocol: ProtocolLutron36, Code: 0x00012345E0}
	frame := firstFrame(t, cmd, false)

	rx := &fakeRx{now: 1_000_000}
	h := NewHandler(p)
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	for _, pu := range frame {
		h.Pulse(rx, pu)
	}
	// the five trailing zero slots as an exact space run, then a mark
	h.Pulse(rx, Pulse{Duration: 5 * p.Slot, Mark: false})
	h.Pulse(rx, Pulse{Duration: p.HeaderMark, Mark: true})
	h.Pulse(rx, Pulse{Duration: MaxPulse})
	assert.Empty(t, rx.out, "no report without inter-code silence")
}
