package reconciler

import (
	"reflect"
	"slices"

	"github.com/delaneyj/fiberparty/ui"
)

func (r *Reconciler) completeWork(wip *Fiber) {
	current := wip.alternate

	switch wip.tag {
	case HostComponent:
		if current != nil && wip.stateNode != nil {
			wip.updateQueue = nil
			if payload := diffProperties(current.memoizedProps, wip.pendingProps); !payload.Empty() {
				wip.updateQueue = payload
				wip.flags |= Update
			}
		} else {
			tag, _ := wip.elementType.(ui.Tag)
			instance := r.host.CreateInstance(string(tag), wip.pendingProps)
			r.appendAllChildren(instance, wip)
			wip.stateNode = instance
		}
	case HostText:
		text := textOf(wip.pendingProps)
		if current != nil && wip.stateNode != nil {
			if textOf(current.memoizedProps) != text {
				wip.flags |= Update
			}
		} else {
			wip.stateNode = r.host.CreateTextInstance(text)
		}
	case HostRoot, FunctionComponent, Fragment:
	default:
		r.logger.Warn("unimplemented fiber kind in complete", "tag", wip.tag.String(), "fiber", wip.String())
	}

	bubbleProperties(wip)
}

// appendAllChildren attaches the top-level host instances below wip to
// instance, looking through fragments and components.
func (r *Reconciler) appendAllChildren(instance any, wip *Fiber) {
	node := wip.child
	for node != nil {
		if node.tag.isHost() {
			r.host.AppendInitialChild(instance, node.stateNode)
		} else if node.child != nil {
			node.child.parent = node
			node = node.child
			continue
		}

		if node == wip {
			return
		}
		for node.sibling == nil {
			if node.parent == nil || node.parent == wip {
				return
			}
			node = node.parent
		}
		node.sibling.parent = node.parent
		node = node.sibling
	}
}

func bubbleProperties(wip *Fiber) {
	subtreeFlags := NoFlags
	for child := wip.child; child != nil; child = child.sibling {
		subtreeFlags |= child.subtreeFlags | child.flags
		child.parent = wip
	}
	wip.subtreeFlags |= subtreeFlags
}

func diffProperties(prev, next ui.Props) UpdatePayload {
	var payload UpdatePayload
	if sameMap(prev, next) {
		return payload
	}

	for k, v := range next {
		if k == ui.ChildrenProp {
			continue
		}
		if old, ok := prev[k]; ok && sameValue(old, v) {
			continue
		}
		if payload.Changed == nil {
			payload.Changed = ui.Props{}
		}
		payload.Changed[k] = v
	}
	for k := range prev {
		if k == ui.ChildrenProp {
			continue
		}
		if _, ok := next[k]; !ok {
			payload.Removed = append(payload.Removed, k)
		}
	}
	slices.Sort(payload.Removed)
	return payload
}

func sameMap(a, b ui.Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// sameValue compares prop and dependency values. Functions never compare
// equal; maps and slices compare by content.
func sameValue(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) {
		return false
	}
	switch t.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Slice:
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
