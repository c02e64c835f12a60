package main

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kinds(ops []noop.Op) []noop.OpKind {
	out := make([]noop.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func TestReplayReorder(t *testing.T) {
	sc, err := LoadScenario("testdata/reorder.yaml")
	require.NoError(t, err)
	assert.Equal(t, "reorder", sc.Name)

	results, err := sc.Run(quiet())
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "abc", results[0].Text)
	assert.Equal(t, []noop.OpKind{noop.OpAppendChild, noop.OpAppendChild}, kinds(results[1].Ops))
	assert.Equal(t, "cab", results[1].Text)
	assert.Equal(t, []noop.OpKind{noop.OpAppendChild, noop.OpAppendChild}, kinds(results[2].Ops))
	assert.Equal(t, "bca", results[2].Text)
	assert.Equal(t, []noop.OpKind{noop.OpRemoveChild, noop.OpRemoveChild}, kinds(results[3].Ops))
	assert.Equal(t, 3, results[3].Live)

	for _, res := range results {
		assert.Equal(t, 1, res.Passes)
		assert.Equal(t, scheduler.ImmediatePriority, res.Priority)
	}

	var out bytes.Buffer
	report(&out, sc, results, true)
	assert.Contains(t, out.String(), "== reorder")
	assert.Contains(t, out.String(), "4 steps")
	assert.Contains(t, out.String(), "3 live nodes")
	assert.Contains(t, out.String(), "container(1)")
}

func TestReplayPriorities(t *testing.T) {
	sc, err := LoadScenario("testdata/priorities.yaml")
	require.NoError(t, err)

	results, err := sc.Run(quiet())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, scheduler.NormalPriority, results[0].Priority)
	assert.Equal(t, "ab", results[0].Text)
	assert.Equal(t, "bac", results[1].Text)
	assert.Contains(t, results[1].Tree, "ol")
	assert.Equal(t, "", results[2].Text)
	assert.Equal(t, 1, results[2].Live)
}

func TestParseScenario(t *testing.T) {
	t.Run("no steps", func(t *testing.T) {
		_, err := ParseScenario([]byte("name: empty\n"))
		assert.ErrorIs(t, err, errNoSteps)
	})

	t.Run("bad priority", func(t *testing.T) {
		_, err := ParseScenario([]byte("steps:\n  - keys: [a]\n    priority: urgent\n"))
		assert.ErrorContains(t, err, `step 1: unknown priority "urgent"`)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := ParseScenario([]byte("steps: ["))
		assert.Error(t, err)
	})

	t.Run("name defaults to file name", func(t *testing.T) {
		sc, err := LoadScenario("testdata/priorities.yaml")
		require.NoError(t, err)
		assert.Equal(t, "priorities", sc.Name)
	})
}
