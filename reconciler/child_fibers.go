package reconciler

import (
	"fmt"
	"log/slog"

	"github.com/delaneyj/fiberparty/ui"
)

// childReconciler diffs the children of one fiber. With track off (first
// mount of the parent) it records no Placement or ChildDeletion, the whole
// subtree is new and gets inserted by its nearest placed ancestor.
type childReconciler struct {
	logger *slog.Logger
	track  bool
}

// childKey identifies an old child for reuse: its explicit key, otherwise
// its position.
type childKey struct {
	key   string
	index int
}

func keyOf(key string, index int) childKey {
	if key != "" {
		return childKey{key: key, index: -1}
	}
	return childKey{index: index}
}

func (c childReconciler) reconcile(parent, current *Fiber, newChild any) *Fiber {
	if el, ok := newChild.(*ui.Element); ok && el != nil && el.Type == ui.Fragment && el.Key == "" {
		newChild = el.Props.Children()
	}

	switch v := newChild.(type) {
	case []any:
		return c.reconcileChildrenArray(parent, current, v)
	case []*ui.Element:
		children := make([]any, len(v))
		for i, el := range v {
			children[i] = el
		}
		return c.reconcileChildrenArray(parent, current, children)
	case *ui.Element:
		if v != nil {
			return c.placeSingleChild(c.reconcileSingleElement(parent, current, v))
		}
	case nil, bool:
	default:
		if text, ok := ui.TextContent(v); ok {
			return c.placeSingleChild(c.reconcileSingleText(parent, current, text))
		}
		c.logger.Warn("unimplemented child kind", "parent", parent.String(), "child", fmt.Sprintf("%T", v))
	}

	c.deleteRemainingChildren(parent, current)
	return nil
}

func (c childReconciler) deleteChild(parent, child *Fiber) {
	if !c.track {
		return
	}
	parent.deletions = append(parent.deletions, child)
	parent.flags |= ChildDeletion
}

func (c childReconciler) deleteRemainingChildren(parent, first *Fiber) {
	if !c.track {
		return
	}
	for child := first; child != nil; child = child.sibling {
		c.deleteChild(parent, child)
	}
}

func (c childReconciler) reconcileSingleElement(parent, current *Fiber, el *ui.Element) *Fiber {
	for current != nil {
		if current.key != el.Key {
			c.deleteChild(parent, current)
			current = current.sibling
			continue
		}
		if sameType(current.elementType, el.Type) {
			existing := useFiber(current, elementProps(el))
			existing.ref = el.Ref
			existing.parent = parent
			c.deleteRemainingChildren(parent, current.sibling)
			return existing
		}
		// same key, different kind: nothing after it can match either
		c.deleteRemainingChildren(parent, current)
		break
	}

	f := createFiberFromElement(el)
	f.parent = parent
	return f
}

func (c childReconciler) reconcileSingleText(parent, current *Fiber, text string) *Fiber {
	for current != nil {
		if current.tag == HostText {
			existing := useFiber(current, ui.Props{textContentProp: text})
			existing.parent = parent
			c.deleteRemainingChildren(parent, current.sibling)
			return existing
		}
		c.deleteChild(parent, current)
		current = current.sibling
	}

	f := createFiberFromText(text)
	f.parent = parent
	return f
}

func (c childReconciler) placeSingleChild(f *Fiber) *Fiber {
	if c.track && f.alternate == nil {
		f.flags |= Placement
	}
	return f
}

func (c childReconciler) reconcileChildrenArray(parent, first *Fiber, children []any) *Fiber {
	existing := map[childKey]*Fiber{}
	for old := first; old != nil; old = old.sibling {
		existing[keyOf(old.key, old.index)] = old
	}

	var firstNew, lastNew *Fiber
	lastPlacedIndex := 0
	for i, child := range children {
		f := c.updateFromMap(existing, i, child)
		if f == nil {
			continue
		}
		f.index = i
		f.parent = parent

		if lastNew == nil {
			firstNew = f
		} else {
			lastNew.sibling = f
		}
		lastNew = f

		if !c.track {
			continue
		}
		if current := f.alternate; current != nil {
			if current.index < lastPlacedIndex {
				f.flags |= Placement
				continue
			}
			lastPlacedIndex = current.index
		} else {
			f.flags |= Placement
		}
	}

	// delete in old sibling order so host removals are deterministic
	for old := first; old != nil; old = old.sibling {
		if existing[keyOf(old.key, old.index)] == old {
			c.deleteChild(parent, old)
		}
	}
	return firstNew
}

func (c childReconciler) updateFromMap(existing map[childKey]*Fiber, index int, child any) *Fiber {
	switch v := child.(type) {
	case nil, bool:
		return nil
	case *ui.Element:
		if v == nil {
			return nil
		}
		k := keyOf(v.Key, index)
		before := existing[k]
		if v.Type == ui.Fragment {
			return updateFragment(existing, k, before, v.Props.Children(), v.Key)
		}
		if before != nil && sameType(before.elementType, v.Type) {
			delete(existing, k)
			clone := useFiber(before, v.Props)
			clone.ref = v.Ref
			return clone
		}
		return createFiberFromElement(v)
	case []any, []*ui.Element:
		k := keyOf("", index)
		return updateFragment(existing, k, existing[k], v, "")
	}

	if text, ok := ui.TextContent(child); ok {
		k := keyOf("", index)
		if before := existing[k]; before != nil && before.tag == HostText {
			delete(existing, k)
			return useFiber(before, ui.Props{textContentProp: text})
		}
		return createFiberFromText(text)
	}

	c.logger.Warn("unimplemented child kind", "index", index, "child", fmt.Sprintf("%T", child))
	return nil
}

func updateFragment(existing map[childKey]*Fiber, k childKey, before *Fiber, children any, key string) *Fiber {
	if before == nil || before.tag != Fragment {
		return createFiberFromFragment(children, key)
	}
	delete(existing, k)
	return useFiber(before, ui.Props{ui.ChildrenProp: children})
}

// useFiber returns the alternate of f prepared to be an only child.
func useFiber(f *Fiber, pendingProps ui.Props) *Fiber {
	clone := createWorkInProgress(f, pendingProps)
	clone.index = 0
	clone.sibling = nil
	return clone
}

func elementProps(el *ui.Element) ui.Props {
	if el.Type == ui.Fragment {
		return ui.Props{ui.ChildrenProp: el.Props.Children()}
	}
	return el.Props
}

func sameType(a, b ui.Type) bool {
	if tagOfType(a) == UnknownTag || tagOfType(b) == UnknownTag {
		return false
	}
	return a == b
}
