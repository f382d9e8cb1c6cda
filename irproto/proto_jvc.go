package irproto

// JVC: NEC-like timing scaled down, 16 bits (8 address + 8 command)
// LSB-first. The quirk is its repeat framing: while a button is held the
// data bits are re-sent with no new header, so the decoder re-enters data
// directly off a bit mark when the previous report was ours and recent.
var jvc16Params = Params{
	ID:       ProtocolJVC16,
	Name:     "JVC16",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     16,
	CodeBits: 16,
	LSBFirst: true,
	Tol:      25,

	HeaderMark:  8400,
	HeaderSpace: 4200,
	BitMark:     526,
	ZeroSpace:   524,
	OneSpace:    1574,
	StopMark:    526,

	HeaderlessRepeat: true,

	MinGap:    6000,
	RepeatGap: 25000,
	Repeat:    RepeatTimeWindow,
}
