package main

import (
	"fmt"

	"github.com/hirobumii/catseq/core"
)

// buildScenario reproduces one of this package's literal example trees by
// name, returning the arena that built it and its root node. Scenario "c"
// is special-cased in the demo command: it demonstrates a construction
// failure, not a compilable tree.
func buildScenario(name string) (*core.Arena, core.NodeID, error) {
	switch name {
	case "a":
		return scenarioA()
	case "b":
		return scenarioB()
	case "d":
		return scenarioD(10000)
	case "e":
		return scenarioE(100)
	case "f":
		return scenarioF()
	default:
		return nil, 0, fmt.Errorf("catseqc: unknown scenario %q (want one of a, b, d, e, f; c is construction-only, see \"catseqc demo --scenario=c\")", name)
	}
}

// scenarioA: simple serial pulse on one channel — (ON @ WAIT) @ OFF.
func scenarioA() (*core.Arena, core.NodeID, error) {
	a := core.NewArena()
	on := a.Atomic(0, 1, 0x01, []byte{0x01})
	wait := a.Atomic(0, 2500, 0x00, nil)
	off := a.Atomic(0, 1, 0x02, []byte{0x00})

	onWait, err := a.Compose(on, wait)
	if err != nil {
		return nil, 0, err
	}
	root, err := a.Compose(onWait, off)
	if err != nil {
		return nil, 0, err
	}
	return a, root, nil
}

// scenarioB: parallel of two different-duration operands on disjoint
// channels — A | B.
func scenarioB() (*core.Arena, core.NodeID, error) {
	a := core.NewArena()
	opA := a.Atomic(1, 100, 0xAA, nil)
	opB := a.Atomic(2, 50, 0xBB, nil)

	root, err := a.ParallelCompose(opA, opB)
	if err != nil {
		return nil, 0, err
	}
	return a, root, nil
}

// scenarioC demonstrates the construction-time ChannelOverlap failure: two
// atomics on the same channel cannot be parallel-composed. It returns the
// error itself rather than a root, since none is ever built.
func scenarioC() error {
	a := core.NewArena()
	opA := a.Atomic(7, 10, 1, nil)
	opB := a.Atomic(7, 10, 2, nil)
	_, err := a.ParallelCompose(opA, opB)
	return err
}

// scenarioD: a chain of n atomic operations on the same channel, built
// through ComposeMany so the resulting tree is balanced.
func scenarioD(n int) (*core.Arena, core.NodeID, error) {
	a := core.NewArena()
	ids := make([]core.NodeID, n)
	for i := range ids {
		ids[i] = a.Atomic(0, 1, uint16(i%0xFFFF), nil)
	}
	root, ok, err := a.ComposeMany(ids)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("catseqc: ComposeMany returned no root for %d operands", n)
	}
	return a, root, nil
}

// scenarioE: n roots of the form S @ atomic(...), all sharing the serial
// subtree S, built in one arena. Only the last root is returned; the other
// roots stay in the arena, and compiling several of them with one Compiler
// reuses the cached entry for S.
func scenarioE(n int) (*core.Arena, core.NodeID, error) {
	a := core.NewArena()
	s1 := a.Atomic(1, 100, 1, []byte("x"))
	s2 := a.Atomic(1, 100, 2, []byte("y"))
	s, err := a.Compose(s1, s2)
	if err != nil {
		return nil, 0, err
	}

	var root core.NodeID
	for i := 0; i < n; i++ {
		tail := a.Atomic(1, 1, uint16(i), []byte{byte(i)})
		root, err = a.Compose(s, tail)
		if err != nil {
			return nil, 0, err
		}
	}
	return a, root, nil
}

// scenarioF: a single atomic X referenced twice by the same Compose call —
// X @ X — demonstrating that the cache entry for a shared subtree is
// correctly re-offset on its second use.
func scenarioF() (*core.Arena, core.NodeID, error) {
	a := core.NewArena()
	x := a.Atomic(0, 100, 5, nil)
	root, err := a.Compose(x, x)
	if err != nil {
		return nil, 0, err
	}
	return a, root, nil
}
