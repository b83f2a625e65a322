package core

import "fmt"

// ErrUnknownNode indicates that a NodeID passed to an arena operation was
// not produced by that arena (or is out of range). This is always a program
// bug; there is no recovery.
type ErrUnknownNode struct {
	ID NodeID
}

func (e *ErrUnknownNode) Error() string {
	return fmt.Sprintf("catseq: unknown node id %d", e.ID)
}

// ErrChannelOverlap indicates that ParallelCompose was asked to combine two
// operands whose channel sets intersect. Channels carries the offending
// identifiers so the caller can report them in a domain-specific message.
type ErrChannelOverlap struct {
	Channels []ChannelID
}

func (e *ErrChannelOverlap) Error() string {
	return fmt.Sprintf("catseq: channel overlap on %v", e.Channels)
}
