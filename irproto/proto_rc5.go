package irproto

// Philips RC5: pure Manchester at an 889us half-bit, no header. 14 bits
// MSB-first: two start bits (always 1), the toggle bit, 5 address and
// 6 command bits. A logical 1 leads with its space half, so the frame's
// first observable mark is already the back half of the first start bit;
// the decoder opens mid-bit.
//
// The toggle bit flips on each new press and is the repeat discriminator:
// it is zeroed in the code and carried separately.
var rc5Params = Params{
	ID:       ProtocolRC5,
	Name:     "RC5",
	Freq:     36000,
	Coding:   CodingManchester,
	Bits:     14,
	CodeBits: 11,
	Tol:      25,

	HalfBit:    889,
	OpenMidBit: true,

	MinGap:    3600,
	RepeatGap: 89000,
	Repeat:    RepeatToggle,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		if raw>>13&1 != 1 || raw>>12&1 != 1 {
			return 0, Meta{}, false
		}
		m := Meta{HasToggle: true, Toggle: raw>>11&1 == 1}
		return raw & 0x7FF, m, true
	},
	Pack: func(cmd Command, toggle bool, _ FrameKind) uint64 {
		raw := 3<<12 | cmd.Code&0x7FF
		if toggle {
			raw |= 1 << 11
		}
		return raw
	},
}
