package reconciler

import (
	"fmt"

	"github.com/delaneyj/fiberparty/ui"
)

const textContentProp = "content"

// Fiber is one position of the description tree. Every position owns at most
// two Fibers, current and work-in-progress, linked through alternate and
// swapped on every commit.
type Fiber struct {
	tag         WorkTag
	key         string
	elementType ui.Type
	stateNode   any

	parent  *Fiber // "return"
	child   *Fiber
	sibling *Fiber
	index   int
	ref     *ui.Ref

	pendingProps  ui.Props
	memoizedProps ui.Props
	memoizedState any
	updateQueue   any

	alternate    *Fiber
	flags        Flags
	subtreeFlags Flags
	deletions    []*Fiber
}

func newFiber(tag WorkTag, pendingProps ui.Props, key string) *Fiber {
	return &Fiber{
		tag:          tag,
		key:          key,
		pendingProps: pendingProps,
	}
}

func (f *Fiber) Tag() WorkTag        { return f.tag }
func (f *Fiber) Key() string         { return f.key }
func (f *Fiber) StateNode() any      { return f.stateNode }
func (f *Fiber) Child() *Fiber       { return f.child }
func (f *Fiber) Sibling() *Fiber     { return f.sibling }
func (f *Fiber) Parent() *Fiber      { return f.parent }
func (f *Fiber) Alternate() *Fiber   { return f.alternate }
func (f *Fiber) Flags() Flags        { return f.flags }
func (f *Fiber) SubtreeFlags() Flags { return f.subtreeFlags }
func (f *Fiber) Props() ui.Props     { return f.memoizedProps }

func (f *Fiber) String() string {
	name := f.tag.String()
	if f.elementType != nil {
		name = fmt.Sprintf("%s(%v)", name, f.elementType)
	}
	if f.key != "" {
		name += "#" + f.key
	}
	return name
}

// createWorkInProgress returns the alternate of current prepared for a new
// pass. The alternate is allocated once and reused by every later pass.
func createWorkInProgress(current *Fiber, pendingProps ui.Props) *Fiber {
	wip := current.alternate
	if wip == nil {
		wip = newFiber(current.tag, pendingProps, current.key)
		wip.stateNode = current.stateNode
		wip.alternate = current
		current.alternate = wip
	} else {
		wip.pendingProps = pendingProps
		wip.flags = NoFlags
		wip.subtreeFlags = NoFlags
		wip.deletions = nil
	}
	wip.elementType = current.elementType
	wip.updateQueue = current.updateQueue
	wip.child = current.child
	wip.sibling = current.sibling
	wip.index = current.index
	wip.ref = current.ref
	wip.memoizedProps = current.memoizedProps
	wip.memoizedState = current.memoizedState
	return wip
}

func tagOfType(t ui.Type) WorkTag {
	switch t.(type) {
	case ui.Tag:
		return HostComponent
	case *ui.Component:
		return FunctionComponent
	}
	if t == ui.Fragment {
		return Fragment
	}
	return UnknownTag
}

func createFiberFromElement(el *ui.Element) *Fiber {
	props := el.Props
	tag := tagOfType(el.Type)
	if tag == Fragment {
		props = ui.Props{ui.ChildrenProp: el.Props.Children()}
	}
	f := newFiber(tag, props, el.Key)
	f.elementType = el.Type
	f.ref = el.Ref
	return f
}

func createFiberFromFragment(children any, key string) *Fiber {
	f := newFiber(Fragment, ui.Props{ui.ChildrenProp: children}, key)
	f.elementType = ui.Fragment
	return f
}

func createFiberFromText(content string) *Fiber {
	return newFiber(HostText, ui.Props{textContentProp: content}, "")
}

func textOf(props ui.Props) string {
	s, _ := props[textContentProp].(string)
	return s
}
