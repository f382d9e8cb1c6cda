package irproto

// The protocol table. Supporting a new protocol means writing its Params row
// (and hooks, if the generic defaults don't fit) in a proto_*.go file and
// adding the row here.
var table = []*Params{
	&nec32Params,
	&rca24Params,
	&jvc16Params,
	&samsung32Params,
	&samsung36Params,
	&kaseikyo48Params,
	&denon15Params,
	&sony12Params,
	&sony15Params,
	&sony20Params,
	&rc5Params,
	&rc6Params,
	&ortekMCEParams,
	&lutron36Params,
	&hexbug9Params,
}

var byID [256]*Params

func init() {
	for _, p := range table {
		byID[p.ID] = p
	}
}

// ByID returns the parameter row for a protocol id, or nil.
func ByID(id ProtocolID) *Params { return byID[id] }

// Protocols returns the parameter rows of every supported protocol, in table
// order.
func Protocols() []*Params {
	out := make([]*Params, len(table))
	copy(out, table)
	return out
}

// Handlers returns one fresh decoder per supported protocol, in table order.
// The receive pipeline runs them all in parallel against the same pulse
// stream; protocols are structurally distinguishable, so at most one reaches
// a terminal decode for any real transmission.
func Handlers() []*Handler {
	out := make([]*Handler, len(table))
	for i, p := range table {
		out[i] = NewHandler(p)
	}
	return out
}
