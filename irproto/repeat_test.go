package irproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTimeWindow(t *testing.T) {
	p := ByID(ProtocolSony12)
	cmd := Command{Protocol: ProtocolSony12, Code: 0x543}
	var rs RepeatState
	now := uint64(1_000_000)

	rc := Received{Command: cmd}
	require.True(t, rs.classify(p, &rc, now))
	assert.False(t, rc.AutoRepeat)
	assert.Zero(t, rc.Elapsed)

	rc = Received{Command: cmd}
	require.True(t, rs.classify(p, &rc, now+100_000))
	assert.True(t, rc.AutoRepeat)
	assert.Equal(t, uint64(100_000), rc.Elapsed)

	// outside the window it is a fresh press
	rc = Received{Command: cmd}
	require.True(t, rs.classify(p, &rc, now+100_000+300_000))
	assert.False(t, rc.AutoRepeat)
	assert.Equal(t, uint64(300_000), rc.Elapsed)

	// a different code is never a repeat
	rc = Received{Command: Command{Protocol: ProtocolSony12, Code: 0x544}}
	require.True(t, rs.classify(p, &rc, now+100_000+300_000+50_000))
	assert.False(t, rc.AutoRepeat)
}

func TestClassifyCrossProtocol(t *testing.T) {
	var rs RepeatState
	now := uint64(1_000_000)

	rc := Received{Command: Command{Protocol: ProtocolNEC32, Code: 0x42}}
	rs.classify(ByID(ProtocolNEC32), &rc, now)

	// same code, different protocol, well inside the window
	rc = Received{Command: Command{Protocol: ProtocolSony12, Code: 0x42}}
	require.True(t, rs.classify(ByID(ProtocolSony12), &rc, now+10_000))
	assert.False(t, rc.AutoRepeat)
	assert.Equal(t, uint64(10_000), rc.Elapsed)
}

func TestClassifyToggle(t *testing.T) {
	p := ByID(ProtocolRC5)
	cmd := Command{Protocol: ProtocolRC5, Code: 0x42B}
	var rs RepeatState
	now := uint64(1_000_000)

	press := func(toggle bool, at uint64) Received {
		rc := Received{Command: cmd, HasToggle: true, Toggle: toggle}
		require.True(t, rs.classify(p, &rc, at))
		return rc
	}

	assert.False(t, press(false, now).AutoRepeat)
	assert.True(t, press(false, now+110_000).AutoRepeat)
	// the toggle flips on a re-press even when it lands inside the window
	assert.False(t, press(true, now+220_000).AutoRepeat)
	assert.True(t, press(true, now+330_000).AutoRepeat)
}

func TestClassifyPosition(t *testing.T) {
	p := ByID(ProtocolOrtekMCE)
	cmd := Command{Protocol: ProtocolOrtekMCE, Code: 0x1A8F}
	var rs RepeatState
	now := uint64(1_000_000)

	frame := func(c Command, pos Position, at uint64) Received {
		rc := Received{Command: c, Position: pos}
		require.True(t, rs.classify(p, &rc, at))
		return rc
	}

	assert.False(t, frame(cmd, PosFirst, now).AutoRepeat)
	assert.True(t, frame(cmd, PosMiddle, now+30_000).AutoRepeat)
	assert.True(t, frame(cmd, PosLast, now+60_000).AutoRepeat)
	// after an explicit last frame the run is over
	assert.False(t, frame(cmd, PosMiddle, now+90_000).AutoRepeat)

	// payload bits may vary while held; this protocol repeats regardless
	varied := Command{Protocol: ProtocolOrtekMCE, Code: 0x1A9F &^ 0x60}
	assert.True(t, frame(varied, PosMiddle, now+120_000).AutoRepeat)
}

func TestClassifyDittoOrphan(t *testing.T) {
	p := ByID(ProtocolNEC32)
	var rs RepeatState

	rc := Received{
		Command:  Command{Protocol: ProtocolNEC32},
		HasDitto: true,
		Ditto:    true,
	}
	assert.False(t, rs.classify(p, &rc, 1_000_000))
}

func TestClassifyDittoCopiesCode(t *testing.T) {
	p := ByID(ProtocolNEC32)
	cmd := Command{Protocol: ProtocolNEC32, Code: 0x00FF12ED}
	var rs RepeatState
	now := uint64(1_000_000)

	rc := Received{Command: cmd, HasDitto: true}
	require.True(t, rs.classify(p, &rc, now))

	rc = Received{Command: Command{Protocol: ProtocolNEC32}, HasDitto: true, Ditto: true}
	require.True(t, rs.classify(p, &rc, now+40_000))
	assert.Equal(t, cmd.Code, rc.Code)
	assert.True(t, rc.UseDittos)
	assert.True(t, rc.AutoRepeat)

	// the register now carries the copied code, so a chain of dittos works
	rc = Received{Command: Command{Protocol: ProtocolNEC32}, HasDitto: true, Ditto: true}
	require.True(t, rs.classify(p, &rc, now+80_000))
	assert.Equal(t, cmd.Code, rc.Code)
	assert.True(t, rc.AutoRepeat)
}

func TestRepeatStateInvalidate(t *testing.T) {
	var rs RepeatState
	rc := Received{Command: Command{Protocol: ProtocolNEC32, Code: 0x42}}
	rs.classify(ByID(ProtocolNEC32), &rc, 1_000_000)

	_, _, ok := rs.Last()
	require.True(t, ok)

	rs.Invalidate()
	_, _, ok = rs.Last()
	assert.False(t, ok)

	// post-invalidation, an identical command is a fresh press
	rc = Received{Command: Command{Protocol: ProtocolNEC32, Code: 0x42}}
	require.True(t, rs.classify(ByID(ProtocolNEC32), &rc, 1_010_000))
	assert.False(t, rc.AutoRepeat)
	assert.Zero(t, rc.Elapsed)
}
