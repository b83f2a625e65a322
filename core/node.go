package core

// NodeID is a stable, lightweight identifier for a node stored in an Arena.
// It is a plain integer index: small, trivially copyable, and carries no
// ownership. Two NodeIDs are equal iff they name the same node.
type NodeID uint32

// NodeKind discriminates the three node variants described by the model.
type NodeKind uint8

const (
	// NodeAtomic is a leaf: a single hardware operation on one channel.
	NodeAtomic NodeKind = iota
	// NodeSerial is a@b: first a, then b. Duration sums, channels union.
	NodeSerial
	// NodeParallel is a|b: a and b simultaneously. Duration is the max of
	// the two; the channel sets must be disjoint.
	NodeParallel
)

// node is the tagged-union representation of a single arena entry. Duration
// and the channel set are precomputed at construction so that dur() and
// channels() are O(1) lookups requiring no traversal.
type node struct {
	kind NodeKind

	// Atomic-only fields.
	channel ChannelID
	opcode  uint16
	payload *Payload

	// Serial/Parallel-only fields.
	left, right NodeID

	// Precomputed for every kind.
	duration uint64
	channels ChannelSet
}
