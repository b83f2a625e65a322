package compiler

import "github.com/hirobumii/catseq/model"

// sortedMerge combines two event lists, each already sorted by time, into a
// single sorted list. Ties are broken by taking a's event before b's, which
// reproduces "insertion order within the subtree": a is always the operand
// whose events were produced first by the caller. The one exception is
// block-copy case 2 below, where all of b comes first even if b's last
// event ties a's first.
//
// Before falling back to an interleaved merge, two O(1) checks cover the
// case where the intervals provably do not interleave:
//
//  1. a's last event is no later than b's first: the result is a followed
//     by b, a single bulk append.
//  2. b's last event is no later than a's first: symmetric.
//
// Parallel composition of operands with clearly different durations often
// lands in one of these cases, so many merges are a bulk copy rather than a
// comparison-driven interleave. Serial composition does not go through this
// merge: shiftAndAppend joins its operands with a plain append.
// SortedMerge is the exported form of sortedMerge, used by compilers outside
// this package (parallelcompile) that need the same block-copy-optimised
// merge without duplicating its logic.
func SortedMerge(a, b model.Stream) model.Stream {
	return sortedMerge(a, b)
}

func sortedMerge(a, b model.Stream) model.Stream {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	if a[len(a)-1].Time <= b[0].Time {
		return blockAppend(a, b)
	}
	if b[len(b)-1].Time <= a[0].Time {
		return blockAppend(b, a)
	}

	return interleave(a, b)
}

func blockAppend(first, second model.Stream) model.Stream {
	out := make(model.Stream, 0, len(first)+len(second))
	out = append(out, first...)
	out = append(out, second...)
	return out
}

func interleave(a, b model.Stream) model.Stream {
	out := make(model.Stream, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Time <= b[j].Time {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
