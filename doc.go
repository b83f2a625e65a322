// Package catseq implements the algebraic compilation core of a hardware
// sequencing framework for real-time quantum-control hardware.
//
// A sequence is built by composing small typed "morphisms" — single-channel
// operations called atomic nodes — with two algebraic operators: serial
// composition (a @ b, "first a, then b") and parallel composition (a | b,
// "a and b starting together, on disjoint channels"). The resulting
// expression tree is lowered into a flat, time-stamped event stream grouped
// by hardware board.
//
// # Architecture Overview
//
// The core consists of four packages, leaves first:
//
//   - core: the Arena (append-only node table, stable NodeIDs), the three
//     node variants (atomic/serial/parallel), and the Compose/
//     ParallelCompose/ComposeMany/ParallelComposeMany builders.
//   - model: the flat Event a compiled node produces, and the Stream it
//     lives in.
//   - compiler: the memoising compile algorithm and the block-copy sorted
//     merge that make deep nesting tractable.
//   - snapshot: CBOR capture/rebuild of an arena's node table, a debugging
//     and benchmarking convenience independent of any front-end program
//     format.
//
// # Performance Characteristics
//
//   - O(1) duration and channel-set reads: both are precomputed at node
//     construction, never recomputed by traversal.
//   - O(log N) compile depth for batch-composed chains: ComposeMany and
//     ParallelComposeMany build a balanced tree, and Compile itself walks
//     an explicit work stack rather than the Go call stack, so depth stays
//     bounded even on an adversarial, deliberately unbalanced input.
//   - Memoised compilation: a node compiled more than once (shared
//     subtrees, or repeated calls on overlapping roots) is compiled once;
//     the cache stores node-relative time so a shared subtree serves every
//     consumer correctly regardless of where it is reused.
//   - Block-copy merge: serial composition's right operand always starts
//     no earlier than the left operand ends, so the merge that joins them
//     is a bulk append rather than an element-by-element interleave.
//     Parallel composition often hits the same fast path when operands
//     have clearly different durations.
//
// # Basic Usage
//
//	arena := core.NewArena()
//	on := arena.Atomic(0, 1, 0x01, []byte{0x01})
//	wait := arena.Atomic(0, 2500, 0x00, nil)
//	off := arena.Atomic(0, 1, 0x02, []byte{0x00})
//
//	onWait, err := arena.Compose(on, wait)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root, err := arena.Compose(onWait, off)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := compiler.New(arena).Compile(root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Package Structure
//
//   - core: the arena, node model, composition operators, channel sets
//   - model: the flat event and event stream
//   - compiler: memoising compile, sorted merge, board grouping
//   - parallelcompile: opt-in concurrent compilation of a node's two
//     child subtrees, sharing one concurrency-safe memoisation cache
//   - snapshot: CBOR (de)serialisation of an arena's node table
//   - cmd/catseqc: a demonstrator CLI exercising the library against this
//     package's literal example scenarios
//
// Out of scope for this module: the front-end DSL and its operator
// overloading, opcode semantics, hardware-specific code emission, lowering
// beyond the flat event stream, and the "program" layer (loops,
// conditionals, runtime variables) that would eventually feed morphism
// trees into this core.
//
// For more information, see the project repository at
// https://github.com/hirobumii/catseq
package catseq
