package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hirobumii/catseq/core"
	"github.com/hirobumii/catseq/model"
)

// Scenario A — simple serial pulse on one channel (spec.md §8).
func TestScenarioASimpleSerialPulse(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	on := a.Atomic(0, 1, 0x01, []byte{0x01})
	wait := a.Atomic(0, 2500, 0x00, nil)
	off := a.Atomic(0, 1, 0x02, []byte{0x00})

	onWait, err := a.Compose(on, wait)
	require.NoError(t, err)
	root, err := a.Compose(onWait, off)
	require.NoError(t, err)

	events, err := New(a).Compile(root)
	require.NoError(t, err)

	want := model.Stream{
		{Time: 0, Channel: 0, Opcode: 0x01, Payload: core.NewPayload([]byte{0x01})},
		{Time: 1, Channel: 0, Opcode: 0x00, Payload: core.NewPayload(nil)},
		{Time: 2501, Channel: 0, Opcode: 0x02, Payload: core.NewPayload([]byte{0x00})},
	}
	requireSameEvents(t, want, events)

	dur, err := a.DurationOf(root)
	require.NoError(t, err)
	require.Equal(t, uint64(2502), dur)
}

// Scenario B — parallel of two different-duration operands on disjoint channels.
func TestScenarioBParallelDifferentDurations(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	left := a.Atomic(1, 100, 0xAA, nil)
	right := a.Atomic(2, 50, 0xBB, nil)

	root, err := a.ParallelCompose(left, right)
	require.NoError(t, err)

	events, err := New(a).Compile(root)
	require.NoError(t, err)

	want := model.Stream{
		{Time: 0, Channel: 1, Opcode: 0xAA, Payload: core.NewPayload(nil)},
		{Time: 0, Channel: 2, Opcode: 0xBB, Payload: core.NewPayload(nil)},
	}
	requireSameEvents(t, want, events)

	dur, err := a.DurationOf(root)
	require.NoError(t, err)
	require.Equal(t, uint64(100), dur)
}

// Scenario C — parallel composition of overlapping channels is rejected at
// construction; compilation is never reached.
func TestScenarioCChannelOverlapRejected(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	left := a.Atomic(7, 10, 1, nil)
	right := a.Atomic(7, 10, 2, nil)

	_, err := a.ParallelCompose(left, right)
	require.Error(t, err)

	var overlap *core.ErrChannelOverlap
	require.ErrorAs(t, err, &overlap)
	require.Equal(t, []core.ChannelID{7}, overlap.Channels)
}

// Scenario D — block-copy fast path on nested serial: a 10000-element chain
// built through ComposeMany must compile to exactly 10000 monotonically
// time-ordered events.
func TestScenarioDBlockCopyNestedSerial(t *testing.T) {
	t.Parallel()

	const n = 10000
	a := core.NewArena()
	ids := make([]core.NodeID, n)
	for i := range ids {
		ids[i] = a.Atomic(0, 1, uint16(i%0xFFFF), nil)
	}
	root, ok, err := a.ComposeMany(ids)
	require.NoError(t, err)
	require.True(t, ok)

	events, err := New(a).Compile(root)
	require.NoError(t, err)
	require.Len(t, events, n)

	for i := 1; i < len(events); i++ {
		require.LessOrEqual(t, events[i-1].Time, events[i].Time)
	}
	for i, e := range events {
		require.Equal(t, uint64(i), e.Time)
	}
}

// Scenario E — cache reuse: compiling 100 roots that each append to a
// shared subtree S must compile S exactly once (99 cache hits).
func TestScenarioECacheReuse(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	s1 := a.Atomic(1, 100, 1, []byte("x"))
	s2 := a.Atomic(1, 100, 2, []byte("y"))
	s, err := a.Compose(s1, s2)
	require.NoError(t, err)

	c := New(a)
	var cached []model.Stream
	for i := 0; i < 100; i++ {
		tail := a.Atomic(1, 1, uint16(i), []byte{byte(i)})
		root, err := a.Compose(s, tail)
		require.NoError(t, err)

		events, err := c.Compile(root)
		require.NoError(t, err)
		cached = append(cached, events)
	}

	// S is the only node referenced from more than one root, so every hit
	// recorded by the cache must be a hit on S: 99 hits, one per reuse.
	stats := c.Cache().Stats()
	require.Equal(t, int64(99), stats.Hits)

	// Compare against a cache-disabled compilation of the same roots.
	noCache := New(a)
	noCache.Cache().Disable()
	for i, want := range cached {
		tail := a.Atomic(1, 1, uint16(i), []byte{byte(i)})
		root, err := a.Compose(s, tail)
		require.NoError(t, err)
		got, err := noCache.Compile(root)
		require.NoError(t, err)
		requireSameEvents(t, want, got)
	}
}

// Scenario F — shared subtree with distinct parents: the same NodeID passed
// twice to Compose must have its cached relative-time entry correctly
// re-offset on its second use.
func TestScenarioFSharedSubtreeDistinctParents(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	x := a.Atomic(0, 100, 5, nil)
	root, err := a.Compose(x, x)
	require.NoError(t, err)

	events, err := New(a).Compile(root)
	require.NoError(t, err)

	want := model.Stream{
		{Time: 0, Channel: 0, Opcode: 5, Payload: core.NewPayload(nil)},
		{Time: 100, Channel: 0, Opcode: 5, Payload: core.NewPayload(nil)},
	}
	requireSameEvents(t, want, events)
}

func TestSerialAssociativity(t *testing.T) {
	t.Parallel()

	build := func() (arena *core.Arena, leftAssoc, rightAssoc core.NodeID) {
		arena = core.NewArena()
		x := arena.Atomic(0, 10, 1, []byte("a"))
		y := arena.Atomic(0, 20, 2, []byte("b"))
		z := arena.Atomic(0, 5, 3, []byte("c"))

		ab, err := arena.Compose(x, y)
		require.NoError(t, err)
		abc1, err := arena.Compose(ab, z)
		require.NoError(t, err)

		bc, err := arena.Compose(y, z)
		require.NoError(t, err)
		abc2, err := arena.Compose(x, bc)
		require.NoError(t, err)

		return arena, abc1, abc2
	}

	arena, left, right := build()
	c := New(arena)

	leftEvents, err := c.Compile(left)
	require.NoError(t, err)
	rightEvents, err := c.Compile(right)
	require.NoError(t, err)

	requireSameEvents(t, leftEvents, rightEvents)
}

func TestParallelAssociativityAndCommutativity(t *testing.T) {
	t.Parallel()

	newLeaves := func(arena *core.Arena) (x, y, z core.NodeID) {
		x = arena.Atomic(1, 10, 1, []byte("x"))
		y = arena.Atomic(2, 20, 2, []byte("y"))
		z = arena.Atomic(3, 5, 3, []byte("z"))
		return
	}

	arena1 := core.NewArena()
	x1, y1, z1 := newLeaves(arena1)
	xy1, err := arena1.ParallelCompose(x1, y1)
	require.NoError(t, err)
	xyz1, err := arena1.ParallelCompose(xy1, z1)
	require.NoError(t, err)

	arena2 := core.NewArena()
	x2, y2, z2 := newLeaves(arena2)
	yz2, err := arena2.ParallelCompose(y2, z2)
	require.NoError(t, err)
	xyz2, err := arena2.ParallelCompose(x2, yz2)
	require.NoError(t, err)

	arena3 := core.NewArena()
	x3, y3, z3 := newLeaves(arena3)
	cx3, err := arena3.ParallelCompose(z3, x3)
	require.NoError(t, err)
	xyz3, err := arena3.ParallelCompose(cx3, y3)
	require.NoError(t, err)

	e1, err := New(arena1).Compile(xyz1)
	require.NoError(t, err)
	e2, err := New(arena2).Compile(xyz2)
	require.NoError(t, err)
	e3, err := New(arena3).Compile(xyz3)
	require.NoError(t, err)

	requireSameEvents(t, e1, e2)
	requireSameEvents(t, e1, e3)
}

func TestShiftHomogeneity(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	x1 := a.Atomic(5, 30, 9, []byte("p"))
	x2 := a.Atomic(5, 30, 9, []byte("p"))

	identity := a.Atomic(1, 40, 0, nil) // a different channel than x; d=40
	shifted, err := a.Compose(identity, x1)
	require.NoError(t, err)

	c := New(a)
	plain, err := c.Compile(x2)
	require.NoError(t, err)
	withShift, err := c.Compile(shifted)
	require.NoError(t, err)

	// Events on x's channel should be shifted by 40; the identity's own
	// event on channel 1 is additional.
	var onX model.Stream
	for _, e := range withShift {
		if e.Channel == 5 {
			onX = append(onX, e)
		}
	}
	require.Len(t, onX, len(plain))
	for i := range plain {
		require.Equal(t, plain[i].Time+40, onX[i].Time)
	}
}

func TestCompileByBoard(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	board0ch := core.ChannelID(0x0000_0001)
	board1ch := core.ChannelID(0x0001_0002)

	left := a.Atomic(board0ch, 10, 1, nil)
	right := a.Atomic(board1ch, 10, 2, nil)
	root, err := a.ParallelCompose(left, right)
	require.NoError(t, err)

	byBoard, err := New(a).CompileByBoard(root)
	require.NoError(t, err)

	require.Len(t, byBoard[0], 1)
	require.Len(t, byBoard[1], 1)
	require.Equal(t, board0ch, byBoard[0][0].Channel)
	require.Equal(t, board1ch, byBoard[1][0].Channel)
}

func TestCompileUnknownNode(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	_ = a.Atomic(0, 1, 0, nil)

	_, err := New(a).Compile(core.NodeID(99))
	require.Error(t, err)
	var unknown *core.ErrUnknownNode
	require.ErrorAs(t, err, &unknown)
}

func TestAtomicZeroDurationCompilesToSingleEvent(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	id := a.Atomic(0, 0, 9, nil)

	events, err := New(a).Compile(id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, uint64(0), events[0].Time)
}

func TestParallelWithZeroDurationOperand(t *testing.T) {
	t.Parallel()

	a := core.NewArena()
	x := a.Atomic(1, 50, 1, []byte("x"))
	trigger := a.Atomic(2, 0, 2, []byte("t"))

	root, err := a.ParallelCompose(x, trigger)
	require.NoError(t, err)

	events, err := New(a).Compile(root)
	require.NoError(t, err)

	xArena := core.NewArena()
	xOnlyID := xArena.Atomic(1, 50, 1, []byte("x"))
	xEvents, err := New(xArena).Compile(xOnlyID)
	require.NoError(t, err)

	var onChannel1 model.Stream
	var triggerEvent *model.Event
	for i := range events {
		e := events[i]
		if e.Channel == 1 {
			onChannel1 = append(onChannel1, e)
		} else {
			triggerEvent = &e
		}
	}
	requireSameEvents(t, xEvents, onChannel1)
	require.NotNil(t, triggerEvent)
	require.Equal(t, uint64(0), triggerEvent.Time)
}

func requireSameEvents(t *testing.T, want, got model.Stream) {
	t.Helper()
	if diff := cmp.Diff(want.AsTuples(), got.AsTuples()); diff != "" {
		t.Fatalf("event stream mismatch (-want +got):\n%s", diff)
	}
}
