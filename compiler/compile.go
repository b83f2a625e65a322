package compiler

import (
	"github.com/hirobumii/catseq/core"
	"github.com/hirobumii/catseq/model"
)

// Compiler walks an Arena's node graph and produces flat event streams,
// memoising per-node results in a Cache keyed by NodeID.
//
// Compilation itself is infallible given a validly built arena (§7): the
// only errors Compile can return are ErrUnknownNode, which means the caller
// passed a NodeID this Compiler's Arena never produced.
type Compiler struct {
	arena *core.Arena
	cache *Cache
}

// New creates a Compiler over arena with a fresh, enabled cache.
func New(arena *core.Arena) *Compiler {
	return &Compiler{arena: arena, cache: NewCache()}
}

// Cache returns the compiler's memoisation cache, for stats inspection or
// explicit enable/disable/clear control.
func (c *Compiler) Cache() *Cache {
	return c.cache
}

// Compile produces the flat, time-sorted event stream for root, with
// absolute times rooted at zero.
func (c *Compiler) Compile(root core.NodeID) (model.Stream, error) {
	return c.compile(root)
}

// CompileByBoard compiles root and buckets the resulting events by the high
// 16 bits of their channel identifier, preserving within-bucket order. It
// carries no invariant beyond that projection.
func (c *Compiler) CompileByBoard(root core.NodeID) (map[uint16]model.Stream, error) {
	events, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	return events.ByBoard(), nil
}

// frame is one entry in the explicit work stack that replaces recursion.
// spec.md §4.3 calls this out explicitly: compose_many balances its tree so
// recursion depth stays O(log N) in practice, but an implementation meant
// to survive an adversarial, deliberately right-leaning input should not
// rely on that — so compile walks the graph with its own stack instead of
// the Go call stack.
type frame struct {
	id             core.NodeID
	childrenQueued bool
}

func (c *Compiler) compile(root core.NodeID) (model.Stream, error) {
	results := make(map[core.NodeID]model.Stream)
	stack := []frame{{id: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		id := top.id

		if _, done := results[id]; done {
			stack = stack[:len(stack)-1]
			continue
		}
		if events, ok := c.cache.lookup(id); ok {
			results[id] = events
			stack = stack[:len(stack)-1]
			continue
		}

		view, err := c.arena.Node(id)
		if err != nil {
			return nil, err
		}

		switch view.Kind {
		case core.NodeAtomic:
			events := model.Stream{{
				Time:    0,
				Channel: view.Channel,
				Opcode:  view.Opcode,
				Payload: view.Payload,
			}}
			results[id] = events
			c.cache.store(id, events)
			stack = stack[:len(stack)-1]

		case core.NodeSerial, core.NodeParallel:
			if !top.childrenQueued {
				top.childrenQueued = true
				stack = append(stack, frame{id: view.Right}, frame{id: view.Left})
				continue
			}

			lhs := results[view.Left]
			rhs := results[view.Right]

			var events model.Stream
			if view.Kind == core.NodeSerial {
				offset, err := c.arena.DurationOf(view.Left)
				if err != nil {
					return nil, err
				}
				events = shiftAndAppend(lhs, rhs, offset)
			} else {
				events = sortedMerge(lhs, rhs)
			}

			results[id] = events
			c.cache.store(id, events)
			stack = stack[:len(stack)-1]
		}
	}

	return results[root], nil
}

// ShiftAndAppend is the exported form of shiftAndAppend, used by compilers
// outside this package (parallelcompile) that need the same serial-join
// step without duplicating its logic.
func ShiftAndAppend(lhs, rhs model.Stream, offset uint64) model.Stream {
	return shiftAndAppend(lhs, rhs, offset)
}

// shiftAndAppend concatenates lhs with rhs shifted forward by offset, the
// serial-composition step: rhs's events, relative to its own origin, are
// rebased to start right after lhs ends.
func shiftAndAppend(lhs, rhs model.Stream, offset uint64) model.Stream {
	out := make(model.Stream, 0, len(lhs)+len(rhs))
	out = append(out, lhs...)
	for _, e := range rhs {
		e.Time += offset
		out = append(out, e)
	}
	return out
}
