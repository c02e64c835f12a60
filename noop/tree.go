package noop

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jedib0t/go-pretty/v6/list"
)

// Tree renders the container as an indented list, one line per host node.
func (c *Container) Tree() string {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	l.AppendItem(c.Label())
	l.Indent()
	appendTree(l, c.nodes)
	return l.Render()
}

func appendTree(l list.Writer, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *TextInstance:
			l.AppendItem(strconv.Quote(v.Text))
		case *Instance:
			l.AppendItem(describeInstance(v))
			if len(v.nodes) > 0 {
				l.Indent()
				appendTree(l, v.nodes)
				l.UnIndent()
			}
		}
	}
}

func describeInstance(inst *Instance) string {
	var sb strings.Builder
	sb.WriteString(inst.Type)
	for _, k := range sortedKeys(inst.Props) {
		v := inst.Props[k]
		if isFunc(v) {
			fmt.Fprintf(&sb, " %s={fn}", k)
			continue
		}
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	return sb.String()
}

// Text concatenates every text node in document order.
func (c *Container) Text() string {
	var sb strings.Builder
	walk(c, func(n Node) bool {
		if t, ok := n.(*TextInstance); ok {
			sb.WriteString(t.Text)
		}
		return true
	})
	return sb.String()
}

// Fingerprint hashes the shape and content of the host tree. Node ids are
// included, so a tree rebuilt with fresh instances hashes differently from
// one patched in place.
func (c *Container) Fingerprint() uint64 {
	d := xxhash.New()
	var write func(nodes []Node)
	write = func(nodes []Node) {
		d.WriteString("[")
		for _, n := range nodes {
			switch v := n.(type) {
			case *TextInstance:
				fmt.Fprintf(d, "t%d:%q;", v.id, v.Text)
			case *Instance:
				fmt.Fprintf(d, "e%d:%s{", v.id, v.Type)
				for _, k := range sortedKeys(v.Props) {
					if isFunc(v.Props[k]) {
						fmt.Fprintf(d, "%s=fn,", k)
						continue
					}
					fmt.Fprintf(d, "%s=%v,", k, v.Props[k])
				}
				d.WriteString("}")
				write(v.nodes)
			}
		}
		d.WriteString("]")
	}
	write(c.nodes)
	return d.Sum64()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// HTML serialises the container's children as markup.
func (c *Container) HTML() string {
	return ContainerHTML(c)
}

func attrKeys(props map[string]any) []string {
	keys := sortedKeys(props)
	return slices.DeleteFunc(keys, func(k string) bool {
		return isFunc(props[k])
	})
}

func isFunc(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Func
}
