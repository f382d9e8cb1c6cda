package irproto

import "math/bits"

// NEC is the most common consumer scheme: 9ms/4.5ms header, 562us bit marks,
// space length picks the bit, 32 data bits LSB-first in byte order
// addr, addr2, cmd, ~cmd. A held button re-sends a short data-free ditto
// frame (9ms mark, 2.25ms space, stop mark) rather than the full code.
//
// Code byte order is addr . addr2 . cmd . ~cmd reading from the high byte,
// so the familiar published form (e.g. 00FF12ED) is the code. Extended NEC
// uses addr2 as a second address byte instead of ~addr, so no complement
// check is enforced on the address half; cmd complement failures are seen in
// the wild on protocol-abusing remotes, so the full 32 bits stay in the code
// rather than being rejected or derived.
var nec32Params = Params{
	ID:       ProtocolNEC32,
	Name:     "NEC32",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     32,
	CodeBits: 32,
	LSBFirst: true,
	Tol:      25,

	HeaderMark:  9000,
	HeaderSpace: 4500,
	BitMark:     562,
	ZeroSpace:   562,
	OneSpace:    1687,
	StopMark:    562,

	DittoMark:  9000,
	DittoSpace: 2250,

	MinGap:    8000,
	RepeatGap: 40000,
	Repeat:    RepeatDitto,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		return uint64(bits.ReverseBytes32(uint32(raw))), Meta{}, true
	},
	Pack: func(cmd Command, _ bool, _ FrameKind) uint64 {
		return uint64(bits.ReverseBytes32(uint32(cmd.Code)))
	},
}
