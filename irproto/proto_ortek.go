package irproto

import "math/bits"

// Ortek MCE remotes: Manchester at a 480us half-bit, 4-unit/1-unit header,
// 17 bits LSB-first: 5 device bits, a 2-bit position code (0=first,
// 1=middle, 2=last), 6 function bits and a 4-bit checksum (the count of one
// bits in the rest plus 3). Position is the repeat discriminator.
//
// These remotes intentionally vary payload bits while a button is held
// (direction pads fold movement state into the function field), so repeat
// classification here ignores payload mismatches. That exception is
// specific to this protocol and must not spread to the others.
//
// Tolerance runs tighter than the rest of the table: at 25% a Sony header
// mark lands exactly on this header's acceptance boundary.
var ortekMCEParams = Params{
	ID:       ProtocolOrtekMCE,
	Name:     "OrtekMCE",
	Freq:     38600,
	Coding:   CodingManchester,
	Bits:     17,
	CodeBits: 13,
	LSBFirst: true,
	Tol:      20,

	HeaderMark:  1920,
	HeaderSpace: 480,
	HalfBit:     480,

	MinGap:            6000,
	RepeatGap:         34000,
	Repeat:            RepeatPosition,
	RepeatCodeMayVary: true,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		if raw>>13&0xF != uint64(ortekCheck(raw&0x1FFF)) {
			return 0, Meta{}, false
		}
		var m Meta
		switch raw >> 5 & 3 {
		case 0:
			m.Position = PosFirst
		case 1:
			m.Position = PosMiddle
		case 2:
			m.Position = PosLast
		default:
			return 0, Meta{}, false
		}
		return raw & 0x1F9F, m, true
	},
	Pack: func(cmd Command, _ bool, kind FrameKind) uint64 {
		raw := cmd.Code & 0x1F9F
		if kind != FrameFirst {
			raw |= 1 << 5 // middle
		}
		return raw | uint64(ortekCheck(raw))<<13
	},
}

func ortekCheck(raw uint64) uint8 {
	return uint8(3+bits.OnesCount64(raw&0x1FFF)) & 0xF
}
