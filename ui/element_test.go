package ui_test

import (
	"testing"

	"github.com/delaneyj/fiberparty/ui"
	"github.com/stretchr/testify/assert"
)

func TestHBuildsElement(t *testing.T) {
	ref := &ui.Ref{}
	el := ui.H("div", ui.Props{"id": "x", "key": 7, "ref": ref}, "a", "b")

	assert.Equal(t, ui.Tag("div"), el.Type)
	assert.Equal(t, "7", el.Key)
	assert.Same(t, ref, el.Ref)
	assert.Equal(t, "x", el.Props["id"])
	assert.NotContains(t, el.Props, "key")
	assert.NotContains(t, el.Props, "ref")
	assert.Equal(t, []any{"a", "b"}, el.Props.Children())
}

func TestHSingleChildIsNotWrapped(t *testing.T) {
	el := ui.H("span", nil, 42)
	assert.Equal(t, 42, el.Props.Children())
	assert.Nil(t, ui.H("span", nil).Props.Children())
}

func TestComponentIdentity(t *testing.T) {
	render := func(ui.Hooks, ui.Props) (any, error) { return nil, nil }
	a := ui.FC("Same", render)
	b := ui.FC("Same", render)
	assert.NotSame(t, a, b)
	assert.Equal(t, ui.Type(a), ui.H(a, nil).Type)
}

func TestFragments(t *testing.T) {
	f := ui.Frag("a", "b")
	assert.True(t, ui.IsFragment(f))
	assert.False(t, ui.IsFragment(ui.H("div", nil)))
	assert.False(t, ui.IsFragment("text"))
}

func TestTextContent(t *testing.T) {
	for _, c := range []struct {
		in   any
		want string
		ok   bool
	}{
		{"hi", "hi", true},
		{12, "12", true},
		{int64(-3), "-3", true},
		{1.5, "1.5", true},
		{nil, "", false},
		{true, "", false},
		{ui.H("div", nil), "", false},
	} {
		got, ok := ui.TextContent(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.Equal(t, c.want, got)
	}
}

type fakeHooks struct {
	state  any
	action any
}

func (f *fakeHooks) State(initial any) (any, ui.Dispatch) {
	if f.state == nil {
		if init, ok := initial.(ui.Initializer); ok {
			f.state = init()
		} else {
			f.state = initial
		}
	}
	return f.state, func(a any) { f.action = a }
}
func (f *fakeHooks) Effect(ui.EffectCallback, []any) {}
func (f *fakeHooks) Transition() (bool, func(func())) { return false, func(fn func()) { fn() } }
func (f *fakeHooks) Ref(initial any) *ui.Ref { return &ui.Ref{Current: initial} }

func TestTypedStateHelpers(t *testing.T) {
	h := &fakeHooks{}
	v, set := ui.UseState(h, 3)
	assert.Equal(t, 3, v)

	set.Set(4)
	assert.Equal(t, 4, h.action)

	set.Update(func(prev int) int { return prev * 10 })
	updater, ok := h.action.(ui.Updater)
	if assert.True(t, ok) {
		assert.Equal(t, 30, updater(3))
		assert.Equal(t, 0, updater(nil))
	}

	lazy, _ := ui.UseLazyState(&fakeHooks{}, func() string { return "init" })
	assert.Equal(t, "init", lazy)
	assert.Equal(t, []any{}, ui.Deps())
}
