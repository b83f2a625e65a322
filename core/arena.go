// Package core implements the arena-based morphism representation at the
// heart of catseq's algebraic compilation engine: node identifiers, the
// three node variants (atomic, serial, parallel), and the two composition
// operators that build them.
//
// An Arena owns every node created during a compilation session in a single
// contiguous table. Nodes are never mutated or freed individually; the
// table only grows, which is what lets a NodeID stay valid and cheap to
// compare for the session's whole lifetime and lets the same subtree be
// safely referenced from many parents.
package core

import "fmt"

// Arena stores all nodes for one compilation session and hands out stable
// NodeIDs. It is append-only: existing nodes are never mutated, so a NodeID
// handed to a caller remains valid (and its dur()/channels() answers
// unchanged) for the arena's whole lifetime.
//
// An Arena is not safe for concurrent use; a single logical builder owns it
// (see parallelcompile for the one place this repository compiles
// concurrently, which never mutates an Arena from more than one goroutine).
type Arena struct {
	nodes []node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewArenaWithCapacity creates an empty arena preallocated to hold at least
// capacity nodes without reallocating its backing table.
func NewArenaWithCapacity(capacity int) *Arena {
	return &Arena{nodes: make([]node, 0, capacity)}
}

// NodeCount returns the number of nodes constructed so far.
func (a *Arena) NodeCount() int {
	return len(a.nodes)
}

func (a *Arena) get(id NodeID) (*node, error) {
	if int(id) >= len(a.nodes) {
		return nil, &ErrUnknownNode{ID: id}
	}
	return &a.nodes[id], nil
}

// Atomic allocates a new leaf node: a single operation of the given
// duration and opcode on channel, carrying payload verbatim. Duration zero
// is permitted and models an instantaneous trigger.
func (a *Arena) Atomic(channel ChannelID, duration uint64, opcode uint16, payload []byte) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{
		kind:     NodeAtomic,
		channel:  channel,
		opcode:   opcode,
		payload:  NewPayload(payload),
		duration: duration,
		channels: newChannelSet(channel),
	})
	return id
}

// Compose builds the serial node a@b: first a, then b. Duration is the sum
// of the two operands' durations; the channel set is their union. Serial
// composition is always structurally valid — it performs no check beyond
// that a and b name existing nodes.
func (a *Arena) Compose(left, right NodeID) (NodeID, error) {
	l, err := a.get(left)
	if err != nil {
		return 0, err
	}
	r, err := a.get(right)
	if err != nil {
		return 0, err
	}

	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{
		kind:     NodeSerial,
		left:     left,
		right:    right,
		duration: l.duration + r.duration,
		channels: l.channels.Union(r.channels),
	})
	return id, nil
}

// ParallelCompose builds the parallel node a|b: a and b starting together.
// Duration is max(dur(a), dur(b)); the shorter operand is not padded. Fails
// with ErrChannelOverlap if a and b share any channel.
func (a *Arena) ParallelCompose(left, right NodeID) (NodeID, error) {
	l, err := a.get(left)
	if err != nil {
		return 0, err
	}
	r, err := a.get(right)
	if err != nil {
		return 0, err
	}

	if !l.channels.Disjoint(r.channels) {
		return 0, &ErrChannelOverlap{Channels: l.channels.Intersection(r.channels)}
	}

	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{
		kind:     NodeParallel,
		left:     left,
		right:    right,
		duration: max64(l.duration, r.duration),
		channels: l.channels.Union(r.channels),
	})
	return id, nil
}

// ComposeMany builds a balanced serial composition over ids so that
// compilation depth is O(log N) rather than O(N). ok is false (with a zero
// id and a nil error) when ids is empty; the caller decides whether that is an
// error in context. A single-element list returns that element unchanged.
func (a *Arena) ComposeMany(ids []NodeID) (id NodeID, ok bool, err error) {
	return a.composeManyBalanced(ids, a.Compose)
}

// ParallelComposeMany builds a balanced parallel composition over ids,
// failing if any two operands share a channel. Same empty/singleton
// handling as ComposeMany.
func (a *Arena) ParallelComposeMany(ids []NodeID) (id NodeID, ok bool, err error) {
	return a.composeManyBalanced(ids, a.ParallelCompose)
}

func (a *Arena) composeManyBalanced(ids []NodeID, combine func(left, right NodeID) (NodeID, error)) (NodeID, bool, error) {
	switch len(ids) {
	case 0:
		return 0, false, nil
	case 1:
		return ids[0], true, nil
	}

	mid := len(ids) / 2
	left, _, err := a.composeManyBalanced(ids[:mid], combine)
	if err != nil {
		return 0, false, err
	}
	right, _, err := a.composeManyBalanced(ids[mid:], combine)
	if err != nil {
		return 0, false, err
	}

	id, err := combine(left, right)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// DurationOf returns the precomputed duration of id in clock cycles.
func (a *Arena) DurationOf(id NodeID) (uint64, error) {
	n, err := a.get(id)
	if err != nil {
		return 0, err
	}
	return n.duration, nil
}

// ChannelsOf returns the precomputed, sorted channel set of id.
func (a *Arena) ChannelsOf(id NodeID) (ChannelSet, error) {
	n, err := a.get(id)
	if err != nil {
		return nil, err
	}
	return append(ChannelSet(nil), n.channels...), nil
}

// Describe returns a short human-readable summary of id, useful in CLI
// output and error messages; it performs no validation beyond the lookup.
func (a *Arena) Describe(id NodeID) (string, error) {
	n, err := a.get(id)
	if err != nil {
		return "", err
	}
	switch n.kind {
	case NodeAtomic:
		return fmt.Sprintf("atomic(channel=%d, dur=%d, op=%#x)", n.channel, n.duration, n.opcode), nil
	case NodeSerial:
		return fmt.Sprintf("serial(%d @ %d, dur=%d)", n.left, n.right, n.duration), nil
	case NodeParallel:
		return fmt.Sprintf("parallel(%d | %d, dur=%d)", n.left, n.right, n.duration), nil
	default:
		return "", fmt.Errorf("catseq: unrecognised node kind %d", n.kind)
	}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
