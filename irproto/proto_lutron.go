package irproto

// Lutron lighting controls: the one async bit-slot protocol in the table.
// After a 4-slot header mark and one spacer slot, every 2.28ms slot is a
// bit, light on = 1, so a run of equal bits arrives as one long pulse and
// the decoder extracts several bits from it. Trailing zero bits simply merge
// into the inter-code silence and are filled in when it arrives.
var lutron36Params = Params{
	ID:       ProtocolLutron36,
	Name:     "Lutron36",
	Freq:     40000,
	Coding:   CodingAsync,
	Bits:     36,
	CodeBits: 36,
	Tol:      25,

	HeaderMark:  9120,
	HeaderSpace: 2280,
	Slot:        2280,

	MinGap:    12000,
	RepeatGap: 30000,
	Repeat:    RepeatTimeWindow,
}
