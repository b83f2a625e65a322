package core

// NodeView is a read-only snapshot of one arena entry, exported so that
// collaborators outside this package (the compiler, snapshot codecs) can
// walk the node graph without reaching into unexported Arena internals.
type NodeView struct {
	Kind        NodeKind
	Left, Right NodeID
	Channel     ChannelID
	Opcode      uint16
	Payload     *Payload
	Duration    uint64
	Channels    ChannelSet
}

// Node returns a NodeView of id.
func (a *Arena) Node(id NodeID) (NodeView, error) {
	n, err := a.get(id)
	if err != nil {
		return NodeView{}, err
	}
	return NodeView{
		Kind:     n.kind,
		Left:     n.left,
		Right:    n.right,
		Channel:  n.channel,
		Opcode:   n.opcode,
		Payload:  n.payload,
		Duration: n.duration,
		Channels: n.channels,
	}, nil
}
