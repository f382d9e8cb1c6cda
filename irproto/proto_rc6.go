package irproto

// Philips RC6 mode 0: Manchester at a 444us half-bit with a 2.666ms/889us
// header. 21 bits MSB-first: a start bit (1), three mode bits (0), the
// toggle bit at double width, then 8 address and 8 command bits. Unlike
// RC5, a logical 1 leads with its mark half.
var rc6Params = Params{
	ID:       ProtocolRC6,
	Name:     "RC6",
	Freq:     36000,
	Coding:   CodingManchester,
	Bits:     21,
	CodeBits: 16,
	Tol:      25,

	HeaderMark:   2666,
	HeaderSpace:  889,
	HalfBit:      444,
	MarkFirstOne: true,
	HalfWidth: func(bit int) uint32 {
		// the toggle bit's halves are twice as wide
		if bit == 4 {
			return 2
		}
		return 1
	},

	MinGap:    2700,
	RepeatGap: 83000,
	Repeat:    RepeatToggle,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		if raw>>20&1 != 1 || raw>>17&7 != 0 {
			return 0, Meta{}, false
		}
		m := Meta{HasToggle: true, Toggle: raw>>16&1 == 1}
		return raw & 0xFFFF, m, true
	},
	Pack: func(cmd Command, toggle bool, _ FrameKind) uint64 {
		raw := 1<<20 | cmd.Code&0xFFFF
		if toggle {
			raw |= 1 << 16
		}
		return raw
	},
}
