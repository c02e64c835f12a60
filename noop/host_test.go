package noop_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHostMutations(t *testing.T) {
	h := noop.NewHost(quiet())
	c := &noop.Container{Name: "t"}

	div := h.CreateInstance("div", ui.Props{"id": 1, ui.ChildrenProp: "x"}).(*noop.Instance)
	assert.Equal(t, ui.Props{"id": 1}, div.Props, "children are not a host prop")
	text := h.CreateTextInstance("x").(*noop.TextInstance)
	h.AppendInitialChild(div, text)

	a := h.CreateInstance("a", nil).(*noop.Instance)
	b := h.CreateInstance("b", nil).(*noop.Instance)
	h.AppendChildToContainer(c, div)
	h.AppendChildToContainer(c, a)
	h.InsertChildToContainer(c, b, a)
	assert.Equal(t, []noop.Node{div, b, a}, c.Children())
	assert.Equal(t, 4, h.Live())

	t.Run("append moves an attached node", func(t *testing.T) {
		h.AppendChildToContainer(c, div)
		assert.Equal(t, []noop.Node{b, a, div}, c.Children())
	})

	t.Run("insert moves an attached node", func(t *testing.T) {
		h.InsertChildToContainer(c, div, b)
		assert.Equal(t, []noop.Node{div, b, a}, c.Children())
		assert.Equal(t, noop.Parent(c), div.Parent())
	})

	t.Run("updates", func(t *testing.T) {
		h.CommitUpdate(div, reconciler.UpdatePayload{
			Changed: ui.Props{"class": "x", "id": 2},
			Removed: []string{"title"},
		}, nil, nil)
		assert.Equal(t, ui.Props{"id": 2, "class": "x"}, div.Props)
		h.CommitTextUpdate(text, "x", "y")
		assert.Equal(t, "y", text.Text)

		ops := h.OpsOf(noop.OpCommitUpdate, noop.OpCommitText)
		require.Len(t, ops, 2)
		assert.Equal(t, "commitUpdate div#1 changed=[class id] removed=[title]", ops[0].String())
		assert.Equal(t, `commitTextUpdate text#2("y") "x" -> "y"`, ops[1].String())
	})

	t.Run("removing a subtree forgets every node in it", func(t *testing.T) {
		h.RemoveChild(c, div)
		assert.Equal(t, []noop.Node{b, a}, c.Children())
		assert.Nil(t, div.Parent())
		assert.False(t, h.IsLive(div.ID()))
		assert.False(t, h.IsLive(text.ID()))
		assert.True(t, h.IsLive(a.ID()))
		assert.Equal(t, 2, h.Live())
	})

	t.Run("reset keeps the tree", func(t *testing.T) {
		assert.NotEmpty(t, h.Ops())
		h.Reset()
		assert.Empty(t, h.Ops())
		assert.Len(t, c.Children(), 2)
	})
}

func TestHostIgnoresForeignValues(t *testing.T) {
	h := noop.NewHost(quiet())
	c := &noop.Container{Name: "t"}
	h.AppendChildToContainer(c, "not a node")
	h.RemoveChild(42, h.CreateTextInstance("x"))
	h.CommitTextUpdate("nope", "a", "b")

	assert.Empty(t, c.Children())
	assert.Equal(t, []noop.OpKind{noop.OpCreateText}, kindsOf(h.Ops()))
}

func TestContainerViews(t *testing.T) {
	r := noop.New(noop.Options{Logger: quiet()})
	root := r.CreateRoot()
	require.NoError(t, root.RenderSync(ui.H("div", ui.Props{"id": "app", "onClick": func() {}},
		ui.H("p", ui.Props{"title": `say "hi"`}, "a < b"),
		ui.H("span", nil, 7),
	)))

	t.Run("text", func(t *testing.T) {
		assert.Equal(t, "a < b7", root.Container.Text())
	})

	t.Run("html", func(t *testing.T) {
		assert.Equal(t,
			`<div id="app"><p title="say &quot;hi&quot;">a &lt; b</p><span>7</span></div>`,
			root.Container.HTML(),
		)
	})

	t.Run("tree", func(t *testing.T) {
		tree := root.Container.Tree()
		assert.Contains(t, tree, "container(1)")
		assert.Contains(t, tree, "div id=app onClick={fn}")
		assert.Contains(t, tree, `p title=say "hi"`)
		assert.Contains(t, tree, `"a < b"`)
	})

	t.Run("snapshot", func(t *testing.T) {
		snap, ok := root.Snapshot().(*ui.Element)
		require.True(t, ok)
		assert.Equal(t, ui.Tag("div"), snap.Type)
		children, ok := snap.Props.Children().([]any)
		require.True(t, ok)
		require.Len(t, children, 2)
		p := children[0].(*ui.Element)
		assert.Equal(t, "a < b", p.Props.Children())
	})

	t.Run("find", func(t *testing.T) {
		assert.Equal(t, "span", root.Find("span").Type)
		assert.Nil(t, root.Find("table"))
	})
}

func TestFingerprint(t *testing.T) {
	r := noop.New(noop.Options{Logger: quiet()})
	root := r.CreateRoot()
	render := func(el any) uint64 {
		require.NoError(t, root.RenderSync(el))
		return root.Container.Fingerprint()
	}

	first := render(ui.H("div", ui.Props{"n": 1}, "x"))
	assert.Equal(t, first, render(ui.H("div", ui.Props{"n": 1}, "x")), "patching nothing keeps the hash")
	assert.NotEqual(t, first, render(ui.H("div", ui.Props{"n": 2}, "x")), "props are hashed")

	patched := render(ui.H("div", ui.Props{"n": 1}, "x"))
	rebuilt := render(ui.H("section", ui.Props{"n": 1}, "x"))
	render(ui.H("div", ui.Props{"n": 1}, "x"))
	assert.NotEqual(t, patched, root.Container.Fingerprint(), "fresh instances hash differently")
	assert.NotEqual(t, patched, rebuilt)
}

func TestEventPriority(t *testing.T) {
	for eventType, want := range map[string]string{
		"click":     "immediate",
		"keydown":   "immediate",
		"scroll":    "user-blocking",
		"mousemove": "user-blocking",
		"load":      "normal",
	} {
		t.Run(eventType, func(t *testing.T) {
			assert.Equal(t, want, noop.EventPriority(eventType).String())
		})
	}
}

func TestDispatch(t *testing.T) {
	r := noop.New(noop.Options{Logger: quiet()})
	root := r.CreateRoot()
	var seen []string
	record := func(name string) noop.Handler {
		return func(e *noop.Event) {
			seen = append(seen, name+":"+e.CurrentTarget.Type)
		}
	}
	require.NoError(t, root.RenderSync(ui.H("main", ui.Props{"onKeyupCapture": record("capture")},
		ui.H("form", ui.Props{"onKeyup": record("bubble")},
			ui.H("input", ui.Props{"onKeyup": func(e *noop.Event) {
				seen = append(seen, "target:"+e.Target.Type)
			}}),
		),
	)))

	e := r.Dispatch(root.Find("input"), "keyup")
	assert.False(t, e.Stopped())
	assert.Equal(t, []string{"capture:main", "target:input", "bubble:form"}, seen)

	seen = nil
	r.Dispatch(nil, "keyup")
	r.Dispatch(root.Find("main"), "click")
	assert.Empty(t, seen)
}

func kindsOf(ops []noop.Op) []noop.OpKind {
	out := make([]noop.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}
