package irproto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrBadCommandString is returned when a command string does not have the
	// "pp.ff.code" shape or one of its fields is not valid hex.
	ErrBadCommandString = errors.New("malformed command string")
	// ErrUnknownProtocol is returned when a command names a protocol id that
	// is not in the protocol table.
	ErrUnknownProtocol = errors.New("unknown protocol id")
	// ErrCodeRange is returned when a code has more significant bits than the
	// protocol carries.
	ErrCodeRange = errors.New("code out of range for protocol")
)

// command string flag bits
const (
	flagUseDittos = 0x02
)

// Command is the canonical, protocol-agnostic form of one remote control
// command. Code packs the protocol's meaningful data bits in a fixed,
// protocol-specific order; structural bits (headers, start bits, derivable
// checksum bytes) are never part of it, and any toggle or position bits are
// zeroed. Two Commands are the same button iff protocol and code match.
type Command struct {
	Protocol  ProtocolID
	Code      uint64
	UseDittos bool
}

// Eq reports whether two commands name the same button. UseDittos is a
// transmission preference, not part of command identity.
func (c Command) Eq(o Command) bool {
	return c.Protocol == o.Protocol && c.Code == o.Code
}

// String renders the command in the canonical "pp.ff.code" hex form used in
// persisted configuration. Flag bit 0x02 means "use ditto repeats".
// ParseCommand(c.String()) always returns c for a valid command.
func (c Command) String() string {
	flags := 0
	if c.UseDittos {
		flags |= flagUseDittos
	}
	width := 4
	if p := ByID(c.Protocol); p != nil {
		if w := (p.CodeBits + 3) / 4; w > width {
			width = w
		}
	}
	return fmt.Sprintf("%02x.%02x.%0*x", uint8(c.Protocol), flags, width, c.Code)
}

// ParseCommand parses the canonical "pp.ff.code" hex form. The protocol must
// be one of the supported ids and the code must fit the protocol's data bits.
func ParseCommand(s string) (Command, error) {
	var cmd Command
	parts := strings.Split(s, ".")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 ||
		len(parts[2]) < 4 || len(parts[2]) > 16 {
		return cmd, fmt.Errorf("%w: %q", ErrBadCommandString, s)
	}
	proto, err := strconv.ParseUint(parts[0], 16, 8)
	if err != nil {
		return cmd, fmt.Errorf("%w: %q", ErrBadCommandString, s)
	}
	flags, err := strconv.ParseUint(parts[1], 16, 8)
	if err != nil {
		return cmd, fmt.Errorf("%w: %q", ErrBadCommandString, s)
	}
	code, err := strconv.ParseUint(parts[2], 16, 64)
	if err != nil {
		return cmd, fmt.Errorf("%w: %q", ErrBadCommandString, s)
	}
	p := ByID(ProtocolID(proto))
	if p == nil {
		return cmd, fmt.Errorf("%w: %02x", ErrUnknownProtocol, proto)
	}
	if p.CodeBits < 64 && code>>p.CodeBits != 0 {
		return cmd, fmt.Errorf("%w: %s has %d code bits", ErrCodeRange, p.Name, p.CodeBits)
	}
	cmd.Protocol = ProtocolID(proto)
	cmd.Code = code
	cmd.UseDittos = flags&flagUseDittos != 0
	return cmd, nil
}

// Position is the explicit first/middle/last marker some protocols embed in
// their bit stream.
type Position uint8

const (
	PosNone Position = iota
	PosFirst
	PosMiddle
	PosLast
)

func (p Position) String() string {
	switch p {
	case PosFirst:
		return "first"
	case PosMiddle:
		return "middle"
	case PosLast:
		return "last"
	}
	return "none"
}

// Received is a decoded command plus the ephemeral attributes of the one
// transmission that carried it. HasToggle/HasDitto gate the corresponding
// value fields; protocols without the feature leave them false.
type Received struct {
	Command

	HasToggle bool
	Toggle    bool
	HasDitto  bool
	Ditto     bool
	Position  Position

	// AutoRepeat is derived by the protocol's repeat classification, never
	// carried on the wire.
	AutoRepeat bool

	// Elapsed is the time in microseconds since the previous reported
	// command, from any protocol.
	Elapsed uint64
}
