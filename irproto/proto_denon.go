package irproto

// Denon (and Sharp) A/V gear: no header at all, the frame opens straight on
// the first 275us bit mark after sufficient silence. 15 bits LSB-first
// (5 address, 8 command, 2 control).
var denon15Params = Params{
	ID:       ProtocolDenon15,
	Name:     "Denon15",
	Freq:     38000,
	Coding:   CodingSpaceLength,
	Bits:     15,
	CodeBits: 15,
	LSBFirst: true,
	Tol:      25,

	BitMark:   275,
	ZeroSpace: 775,
	OneSpace:  1900,
	StopMark:  275,

	MinGap:    6000,
	RepeatGap: 45000,
	Repeat:    RepeatTimeWindow,
}
