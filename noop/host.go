// Package noop is an in-memory host environment. It keeps a tree of plain
// Go values, records every mutation the reconciler asks for and dispatches
// synthetic events through that tree.
package noop

import (
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/ui"
)

type OpKind uint8

const (
	OpCreateInstance OpKind = iota + 1
	OpCreateText
	OpAppendInitialChild
	OpAppendChild
	OpInsertChild
	OpRemoveChild
	OpCommitUpdate
	OpCommitText
)

func (k OpKind) String() string {
	switch k {
	case OpCreateInstance:
		return "createInstance"
	case OpCreateText:
		return "createTextInstance"
	case OpAppendInitialChild:
		return "appendInitialChild"
	case OpAppendChild:
		return "appendChild"
	case OpInsertChild:
		return "insertBefore"
	case OpRemoveChild:
		return "removeChild"
	case OpCommitUpdate:
		return "commitUpdate"
	case OpCommitText:
		return "commitTextUpdate"
	default:
		return "unknown"
	}
}

// Op is one recorded host call. Nodes are identified by their labels.
type Op struct {
	Kind   OpKind
	Parent string
	Node   string
	Before string
	Detail string
}

func (op Op) String() string {
	switch op.Kind {
	case OpCreateInstance, OpCreateText:
		return fmt.Sprintf("%s %s", op.Kind, op.Node)
	case OpInsertChild:
		return fmt.Sprintf("%s %s > %s before %s", op.Kind, op.Parent, op.Node, op.Before)
	case OpCommitUpdate, OpCommitText:
		return fmt.Sprintf("%s %s %s", op.Kind, op.Node, op.Detail)
	default:
		return fmt.Sprintf("%s %s > %s", op.Kind, op.Parent, op.Node)
	}
}

// Node is a host node: *Instance or *TextInstance.
type Node interface {
	ID() int
	Label() string
	Parent() Parent
	setParent(p Parent)
}

// Parent is anything host nodes can be children of: *Container or *Instance.
type Parent interface {
	Label() string
	Children() []Node
	children() *[]Node
}

type Container struct {
	Name  string
	nodes []Node
}

func (c *Container) Label() string     { return "container(" + c.Name + ")" }
func (c *Container) Children() []Node  { return slices.Clone(c.nodes) }
func (c *Container) children() *[]Node { return &c.nodes }

type Instance struct {
	id     int
	Type   string
	Props  ui.Props
	nodes  []Node
	parent Parent
}

func (i *Instance) ID() int            { return i.id }
func (i *Instance) Label() string      { return fmt.Sprintf("%s#%d", i.Type, i.id) }
func (i *Instance) Parent() Parent     { return i.parent }
func (i *Instance) setParent(p Parent) { i.parent = p }
func (i *Instance) Children() []Node   { return slices.Clone(i.nodes) }
func (i *Instance) children() *[]Node  { return &i.nodes }

type TextInstance struct {
	id     int
	Text   string
	parent Parent
}

func (t *TextInstance) ID() int            { return t.id }
func (t *TextInstance) Label() string      { return fmt.Sprintf("text#%d(%q)", t.id, t.Text) }
func (t *TextInstance) Parent() Parent     { return t.parent }
func (t *TextInstance) setParent(p Parent) { t.parent = p }

// Host implements reconciler.HostConfig over Containers.
type Host struct {
	logger *slog.Logger
	nextID int
	ops    []Op
	live   mapset.Set[int]
}

var _ reconciler.HostConfig = (*Host)(nil)

func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		logger: logger,
		live:   mapset.NewThreadUnsafeSet[int](),
	}
}

// Ops returns the host calls recorded since the last Reset.
func (h *Host) Ops() []Op {
	return slices.Clone(h.ops)
}

// OpsOf returns the recorded calls of the given kinds.
func (h *Host) OpsOf(kinds ...OpKind) []Op {
	var out []Op
	for _, op := range h.ops {
		if slices.Contains(kinds, op.Kind) {
			out = append(out, op)
		}
	}
	return out
}

func (h *Host) Reset() {
	h.ops = h.ops[:0]
}

// Live reports how many created host nodes have not been removed, directly
// or as part of a removed subtree.
func (h *Host) Live() int {
	return h.live.Cardinality()
}

// IsLive reports whether the node with id is still part of a host tree or
// waiting to be attached to one.
func (h *Host) IsLive(id int) bool {
	return h.live.Contains(id)
}

func (h *Host) record(op Op) {
	h.ops = append(h.ops, op)
	h.logger.Debug("host op", "op", op.String())
}

func (h *Host) CreateInstance(typ string, props ui.Props) any {
	h.nextID++
	inst := &Instance{id: h.nextID, Type: typ, Props: hostProps(props)}
	h.live.Add(inst.id)
	h.record(Op{Kind: OpCreateInstance, Node: inst.Label()})
	return inst
}

func (h *Host) CreateTextInstance(text string) any {
	h.nextID++
	t := &TextInstance{id: h.nextID, Text: text}
	h.live.Add(t.id)
	h.record(Op{Kind: OpCreateText, Node: t.Label()})
	return t
}

func (h *Host) AppendInitialChild(parent, child any) {
	p, c := h.parentOf(parent), h.nodeOf(child)
	if p == nil || c == nil {
		return
	}
	appendNode(p, c)
	h.record(Op{Kind: OpAppendInitialChild, Parent: p.Label(), Node: c.Label()})
}

func (h *Host) AppendChildToContainer(parent, child any) {
	p, c := h.parentOf(parent), h.nodeOf(child)
	if p == nil || c == nil {
		return
	}
	detach(c)
	appendNode(p, c)
	h.record(Op{Kind: OpAppendChild, Parent: p.Label(), Node: c.Label()})
}

func (h *Host) InsertChildToContainer(parent, child, before any) {
	p, c, b := h.parentOf(parent), h.nodeOf(child), h.nodeOf(before)
	if p == nil || c == nil || b == nil {
		return
	}
	detach(c)
	nodes := p.children()
	at := slices.Index(*nodes, b)
	if at < 0 {
		h.logger.Warn("insert reference is not a child", "parent", p.Label(), "before", b.Label())
		appendNode(p, c)
	} else {
		*nodes = slices.Insert(*nodes, at, c)
		c.setParent(p)
	}
	h.record(Op{Kind: OpInsertChild, Parent: p.Label(), Node: c.Label(), Before: b.Label()})
}

func (h *Host) RemoveChild(parent, child any) {
	p, c := h.parentOf(parent), h.nodeOf(child)
	if p == nil || c == nil {
		return
	}
	nodes := p.children()
	if at := slices.Index(*nodes, c); at >= 0 {
		*nodes = slices.Delete(*nodes, at, at+1)
	} else {
		h.logger.Warn("removed node is not a child", "parent", p.Label(), "node", c.Label())
	}
	c.setParent(nil)
	h.forget(c)
	h.record(Op{Kind: OpRemoveChild, Parent: p.Label(), Node: c.Label()})
}

func (h *Host) CommitUpdate(instance any, payload reconciler.UpdatePayload, prevProps, nextProps ui.Props) {
	inst, ok := instance.(*Instance)
	if !ok {
		return
	}
	for k, v := range payload.Changed {
		inst.Props[k] = v
	}
	for _, k := range payload.Removed {
		delete(inst.Props, k)
	}

	changed := make([]string, 0, len(payload.Changed))
	for k := range payload.Changed {
		changed = append(changed, k)
	}
	slices.Sort(changed)
	h.record(Op{
		Kind:   OpCommitUpdate,
		Node:   inst.Label(),
		Detail: fmt.Sprintf("changed=%v removed=%v", changed, payload.Removed),
	})
}

func (h *Host) CommitTextUpdate(instance any, oldText, newText string) {
	t, ok := instance.(*TextInstance)
	if !ok {
		return
	}
	t.Text = newText
	h.record(Op{Kind: OpCommitText, Node: t.Label(), Detail: fmt.Sprintf("%q -> %q", oldText, newText)})
}

func (h *Host) parentOf(v any) Parent {
	p, ok := v.(Parent)
	if !ok {
		h.logger.Error("not a host parent", "value", fmt.Sprintf("%T", v))
		return nil
	}
	return p
}

func (h *Host) nodeOf(v any) Node {
	n, ok := v.(Node)
	if !ok {
		h.logger.Error("not a host node", "value", fmt.Sprintf("%T", v))
		return nil
	}
	return n
}

func (h *Host) forget(n Node) {
	h.live.Remove(n.ID())
	if inst, ok := n.(*Instance); ok {
		for _, c := range inst.nodes {
			h.forget(c)
		}
	}
}

func appendNode(p Parent, c Node) {
	nodes := p.children()
	*nodes = append(*nodes, c)
	c.setParent(p)
}

func detach(c Node) {
	p := c.Parent()
	if p == nil {
		return
	}
	nodes := p.children()
	if at := slices.Index(*nodes, c); at >= 0 {
		*nodes = slices.Delete(*nodes, at, at+1)
	}
	c.setParent(nil)
}

func hostProps(props ui.Props) ui.Props {
	out := make(ui.Props, len(props))
	for k, v := range props {
		if k == ui.ChildrenProp {
			continue
		}
		out[k] = v
	}
	return out
}
