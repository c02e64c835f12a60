package ui

// Updater is a state action that transforms the previous state. Any other
// action value replaces the state outright.
type Updater func(prev any) any

// Initializer lazily computes an initial state on first render.
type Initializer func() any

type Dispatch func(action any)

// EffectCallback runs after commit and may return a destroy function that
// runs before the next create or on unmount.
type EffectCallback func() (destroy func())

// Hooks is the render-time capability handed to a component. Calls must
// happen during the render, unconditionally and in the same order every
// time the component renders.
type Hooks interface {
	State(initial any) (any, Dispatch)
	// Effect with nil deps runs after every commit; with an empty, non-nil
	// slice only after the first.
	Effect(create EffectCallback, deps []any)
	Transition() (pending bool, start func(fn func()))
	Ref(initial any) *Ref
}

// Deps builds a non-nil dependency list.
func Deps(values ...any) []any {
	return append([]any{}, values...)
}

type Setter[T any] struct {
	dispatch Dispatch
}

func (s Setter[T]) Set(v T) {
	s.dispatch(v)
}

func (s Setter[T]) Update(fn func(prev T) T) {
	s.dispatch(Updater(func(prev any) any {
		return fn(as[T](prev))
	}))
}

func (s Setter[T]) Dispatch() Dispatch {
	return s.dispatch
}

func UseState[T any](h Hooks, initial T) (T, Setter[T]) {
	v, dispatch := h.State(initial)
	return as[T](v), Setter[T]{dispatch: dispatch}
}

func UseLazyState[T any](h Hooks, init func() T) (T, Setter[T]) {
	v, dispatch := h.State(Initializer(func() any { return init() }))
	return as[T](v), Setter[T]{dispatch: dispatch}
}

func UseEffect(h Hooks, create EffectCallback, deps []any) {
	h.Effect(create, deps)
}

func UseTransition(h Hooks) (bool, func(fn func())) {
	return h.Transition()
}

func UseRef(h Hooks, initial any) *Ref {
	return h.Ref(initial)
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
