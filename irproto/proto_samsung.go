package irproto

import "math/bits"

// Samsung's main TV protocol is NEC coding with a symmetric 4.5ms/4.5ms
// header and no ditto frames; a held button re-sends the full code. Codes
// read high-byte-first (the familiar E0E0xxxx form), address byte sent
// twice, then cmd and ~cmd.
var samsung32Params = Params{
	ID:       ProtocolSamsung32,
	Name:     "Samsung32",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     32,
	CodeBits: 32,
	LSBFirst: true,
	Tol:      25,

	HeaderMark:  4500,
	HeaderSpace: 4500,
	BitMark:     560,
	ZeroSpace:   560,
	OneSpace:    1690,
	StopMark:    560,

	MinGap:    8000,
	RepeatGap: 45000,
	Repeat:    RepeatTimeWindow,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		return uint64(bits.ReverseBytes32(uint32(raw))), Meta{}, true
	},
	Pack: func(cmd Command, _ bool, _ FrameKind) uint64 {
		return uint64(bits.ReverseBytes32(uint32(cmd.Code)))
	},
}

// The 36-bit variant used by soundbars and some BD players. Same timing,
// four more bits; the 32-bit decoder never misfires on it because a frame is
// only reported once inter-code silence confirms its end.
var samsung36Params = Params{
	ID:       ProtocolSamsung36,
	Name:     "Samsung36",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     36,
	CodeBits: 36,
	LSBFirst: true,
	Tol:      25,

	HeaderMark:  4500,
	HeaderSpace: 4500,
	BitMark:     560,
	ZeroSpace:   560,
	OneSpace:    1690,
	StopMark:    560,

	MinGap:    8000,
	RepeatGap: 45000,
	Repeat:    RepeatTimeWindow,
}
