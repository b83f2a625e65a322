package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirobumii/catseq/compiler"
	"github.com/hirobumii/catseq/core"
)

func TestBuildScenarioUnknownName(t *testing.T) {
	t.Parallel()

	_, _, err := buildScenario("z")
	require.Error(t, err)
}

func TestScenarioARootDuration(t *testing.T) {
	t.Parallel()

	arena, root, err := buildScenario("a")
	require.NoError(t, err)
	dur, err := arena.DurationOf(root)
	require.NoError(t, err)
	require.Equal(t, uint64(2502), dur)
}

func TestScenarioCFailsConstruction(t *testing.T) {
	t.Parallel()

	require.Error(t, scenarioC())
}

func TestScenarioDProducesRequestedEventCount(t *testing.T) {
	t.Parallel()

	arena, root, err := scenarioD(500)
	require.NoError(t, err)
	events, err := compiler.New(arena).Compile(root)
	require.NoError(t, err)
	require.Len(t, events, 500)
}

func TestScenarioECacheHitsAcrossRoots(t *testing.T) {
	t.Parallel()

	arena, _, err := scenarioE(50)
	require.NoError(t, err)
	c := compiler.New(arena)
	// scenarioE returns only its last root. Every serial node in the arena
	// is S or one of the roots built on it, so compiling them all with one
	// Compiler reuses the cached entry for S.
	for i := 0; i < arena.NodeCount(); i++ {
		id := core.NodeID(i)
		view, err := arena.Node(id)
		require.NoError(t, err)
		if view.Kind != core.NodeSerial {
			continue
		}
		_, err = c.Compile(id)
		require.NoError(t, err)
	}
	require.Greater(t, c.Cache().Stats().Hits, int64(0))
}

func TestScenarioFSharedSubtree(t *testing.T) {
	t.Parallel()

	arena, root, err := scenarioF()
	require.NoError(t, err)
	events, err := compiler.New(arena).Compile(root)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, uint64(0), events[0].Time)
	require.Equal(t, uint64(100), events[1].Time)
}

func TestBuildChainRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()

	_, _, err := buildChain(0, false)
	require.Error(t, err)
}

func TestBuildChainUnbalancedMatchesBalanced(t *testing.T) {
	t.Parallel()

	balancedArena, balancedRoot, err := buildChain(200, false)
	require.NoError(t, err)
	unbalancedArena, unbalancedRoot, err := buildChain(200, true)
	require.NoError(t, err)

	balanced, err := compiler.New(balancedArena).Compile(balancedRoot)
	require.NoError(t, err)
	unbalanced, err := compiler.New(unbalancedArena).Compile(unbalancedRoot)
	require.NoError(t, err)

	require.Equal(t, balanced.AsTuples(), unbalanced.AsTuples())
}
