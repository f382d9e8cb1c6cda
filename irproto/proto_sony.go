package irproto

// Sony SIRC is the textbook mark-length family: 2.4ms/600us header, fixed
// 600us spaces, and the mark picks the bit (600us=0, 1.2ms=1). LSB-first,
// 7 command bits then 5/8/13 of address/extension depending on variant.
// Sony receivers expect every code at least three times, so the transmit
// side enforces a minimum of 3 sends even if the button is released at once.

func sonyParams(id ProtocolID, name string, nbits int) Params {
	return Params{
		ID:       id,
		Name:     name,
		Freq:     40000,
		Coding:   CodingMarkLength,
		Bits:     nbits,
		CodeBits: nbits,
		LSBFirst: true,
		Tol:      25,

		HeaderMark:  2400,
		HeaderSpace: 600,
		BitSpace:    600,
		ZeroMark:    600,
		OneMark:     1200,

		MinGap:    6000,
		RepeatGap: 25000,
		MinSends:  3,
		Repeat:    RepeatTimeWindow,
	}
}

var (
	sony12Params = sonyParams(ProtocolSony12, "Sony12", 12)
	sony15Params = sonyParams(ProtocolSony15, "Sony15", 15)
	sony20Params = sonyParams(ProtocolSony20, "Sony20", 20)
)
