package irproto

import "math/bits"

// HEXBUG BattleBots toy remotes. Headerless space-length coding at 38kHz:
// 350us marks, a short space is 0 and a ~1ms space is 1, 9 bits LSB-first
// (6 buttons, 2 channel bits, odd parity). The parity bit is derivable so
// the code is the low 8 bits. The transmitter doubles up solitary presses,
// hence the minimum of 2 sends.
var hexbug9Params = Params{
	ID:       ProtocolHexbug9,
	Name:     "Hexbug9",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     9,
	CodeBits: 8,
	LSBFirst: true,
	Tol:      25,

	BitMark:   350,
	ZeroSpace: 350,
	OneSpace:  1000,
	StopMark:  350,

	MinGap:    1400,
	RepeatGap: 6000,
	MinSends:  2,
	Repeat:    RepeatTimeWindow,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		// an odd count of ones across all 9 bits is the parity check
		if bits.OnesCount64(raw&0x1FF)&1 != 1 {
			return 0, Meta{}, false
		}
		return raw & 0xFF, Meta{}, true
	},
	Pack: func(cmd Command, _ bool, _ FrameKind) uint64 {
		raw := cmd.Code & 0xFF
		if bits.OnesCount64(raw)&1 == 0 {
			raw |= 1 << 8
		}
		return raw
	},
}

// Hexbug button and channel masks, for picking apart Hexbug9 codes.
const (
	HexbugFwd       = 0b00000001
	HexbugBack      = 0b00000010
	HexbugLeft      = 0b00000100
	HexbugRight     = 0b00001000
	HexbugRightWeap = 0b00010000
	HexbugLeftWeap  = 0b00100000
	HexbugButtons   = 0b00111111
	HexbugChannel   = 0b11000000

	HexbugCH1 = 0b00000000
	HexbugCH2 = 0b01000000
	HexbugCH3 = 0b11000000 // not a mistake, go figure
	HexbugCH4 = 0b10000000
)
