package irproto

// Kaseikyo, the Japanese manufacturers' association scheme (Panasonic et
// al.): 48 bits LSB-first at a 432us unit. The final byte is an XOR checksum
// over bytes 2..4, so it is derivable and excluded from the code; the code
// is the low 40 bits (vendor id and payload).
var kaseikyo48Params = Params{
	ID:       ProtocolKaseikyo48,
	Name:     "Kaseikyo48",
	Freq:     37000,
	Coding:   CodingSpaceLength,
	Bits:     48,
	CodeBits: 40,
	LSBFirst: true,
	Tol:      25,

	HeaderMark:  3456,
	HeaderSpace: 1728,
	BitMark:     432,
	ZeroSpace:   432,
	OneSpace:    1296,
	StopMark:    432,

	MinGap:    6000,
	RepeatGap: 40000,
	Repeat:    RepeatTimeWindow,

	Unpack: func(raw uint64) (uint64, Meta, bool) {
		if uint8(raw>>40) != kaseikyoCheck(raw) {
			return 0, Meta{}, false
		}
		return raw & 0xFF_FFFF_FFFF, Meta{}, true
	},
	Pack: func(cmd Command, _ bool, _ FrameKind) uint64 {
		return cmd.Code | uint64(kaseikyoCheck(cmd.Code))<<40
	},
}

func kaseikyoCheck(raw uint64) uint8 {
	return uint8(raw>>16) ^ uint8(raw>>24) ^ uint8(raw>>32)
}
