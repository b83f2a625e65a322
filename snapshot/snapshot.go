// Package snapshot captures an Arena's node table as a CBOR-encoded byte
// stream and rebuilds an equivalent Arena from one.
//
// This is a debugging/benchmarking convenience for the algebraic core
// itself — not the "persistence" layer spec.md excludes, which refers to
// persisting programs authored by the (out of scope) front-end/program
// layer. A Snapshot only ever round-trips an Arena's own node
// representation, replaying the exact sequence of Atomic/Compose/
// ParallelCompose calls that produced it so the rebuilt arena's NodeIDs
// line up with the original.
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/hirobumii/catseq/core"
)

// NodeRecord is the wire shape of one arena entry.
type NodeRecord struct {
	Kind     uint8  `cbor:"k"`
	Channel  uint32 `cbor:"c"`
	Opcode   uint16 `cbor:"o"`
	Payload  []byte `cbor:"p"`
	Left     uint32 `cbor:"l"`
	Right    uint32 `cbor:"r"`
	Duration uint64 `cbor:"d"`
}

// Snapshot is a captured arena node table.
type Snapshot struct {
	Nodes []NodeRecord `cbor:"nodes"`
}

// Capture walks every node in arena (in identifier order, which Arena's
// append-only discipline guarantees is construction order) into a
// Snapshot.
func Capture(arena *core.Arena) (*Snapshot, error) {
	count := arena.NodeCount()
	nodes := make([]NodeRecord, count)
	for i := 0; i < count; i++ {
		id := core.NodeID(i)
		view, err := arena.Node(id)
		if err != nil {
			return nil, err
		}
		nodes[i] = NodeRecord{
			Kind:     uint8(view.Kind),
			Channel:  uint32(view.Channel),
			Opcode:   view.Opcode,
			Payload:  view.Payload.Bytes(),
			Left:     uint32(view.Left),
			Right:    uint32(view.Right),
			Duration: view.Duration,
		}
	}
	return &Snapshot{Nodes: nodes}, nil
}

// Marshal encodes s as CBOR.
func (s *Snapshot) Marshal() ([]byte, error) {
	return cbor.Marshal(s)
}

// Unmarshal decodes a Snapshot previously produced by Marshal.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &s, nil
}

// Rebuild replays s into a fresh Arena, reproducing the original NodeIDs.
// It fails if the recorded node order violates the arena's own invariants
// (e.g. a child id that is not strictly smaller than its parent's, or two
// parallel operands whose channels overlap) — which can only happen if the
// snapshot was hand-edited or corrupted, since Capture never produces such
// an ordering.
func (s *Snapshot) Rebuild() (*core.Arena, error) {
	arena := core.NewArenaWithCapacity(len(s.Nodes))
	for i, rec := range s.Nodes {
		var (
			id  core.NodeID
			err error
		)
		switch core.NodeKind(rec.Kind) {
		case core.NodeAtomic:
			id = arena.Atomic(core.ChannelID(rec.Channel), rec.Duration, rec.Opcode, rec.Payload)
		case core.NodeSerial:
			id, err = arena.Compose(core.NodeID(rec.Left), core.NodeID(rec.Right))
		case core.NodeParallel:
			id, err = arena.ParallelCompose(core.NodeID(rec.Left), core.NodeID(rec.Right))
		default:
			return nil, fmt.Errorf("snapshot: node %d has unrecognised kind %d", i, rec.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot: rebuilding node %d: %w", i, err)
		}
		if int(id) != i {
			return nil, fmt.Errorf("snapshot: node %d rebuilt at unexpected id %d", i, id)
		}
	}
	return arena, nil
}
