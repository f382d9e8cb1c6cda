package irproto

// RCA: 56kHz carrier, 4ms/4ms header, 24 bits MSB-first holding a 4-bit
// address and 8-bit command followed by both fields complemented. The
// complemented half is derivable, so the code is just addr<<8|cmd and the
// mirror bits are rebuilt on transmit.
var rca24Params = Params{
	ID:       ProtocolRCA24,
	Name:     "RCA24",
	Freq:     56000,
	Coding:   CodingSpaceLength,
	Bits:     24,
	CodeBits: 12,
	Tol:      25,

	HeaderMark:  4000,
	HeaderSpace: 4000,
	BitMark:     500,
	ZeroSpace:   1000,
	OneSpace:    2000,
	StopMark:    500,

	MinGap:    4000,
	RepeatGap: 8000,
	MinSends:  2,
	Repeat:    RepeatTimeWindow,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		addr := raw >> 20 & 0xF
		cmd := raw >> 12 & 0xFF
		if raw>>8&0xF != addr^0xF || raw&0xFF != cmd^0xFF {
			return 0, Meta{}, false
		}
		return addr<<8 | cmd, Meta{}, true
	},
	Pack: func(cmd Command, _ bool, _ FrameKind) uint64 {
		addr := cmd.Code >> 8 & 0xF
		fn := cmd.Code & 0xFF
		return addr<<20 | fn<<12 | (addr^0xF)<<8 | fn^0xFF
	},
}
