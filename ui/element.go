// Package ui describes declarative trees: elements, components and the hook
// capability components render with.
package ui

import (
	"fmt"
	"strconv"
)

const (
	ChildrenProp = "children"
	KeyProp      = "key"
	RefProp      = "ref"
)

type Props map[string]any

// Children returns the conventional children property.
func (p Props) Children() any {
	if p == nil {
		return nil
	}
	return p[ChildrenProp]
}

// Type discriminates what an Element describes: a host Tag, a *Component,
// or Fragment.
type Type interface {
	elementType()
}

// Tag names a primitive host element such as "div".
type Tag string

func (Tag) elementType() {}

type fragmentType struct{}

func (*fragmentType) elementType() {}

func (*fragmentType) String() string { return "Fragment" }

// Fragment groups children without producing a host instance.
var Fragment Type = &fragmentType{}

type unknownType struct {
	v any
}

func (unknownType) elementType() {}

func (u unknownType) String() string { return fmt.Sprintf("unknown(%T)", u.v) }

type RenderFunc func(h Hooks, props Props) (any, error)

// Component is a function component. Identity is the pointer: two
// components with the same Name are still different kinds.
type Component struct {
	Name   string
	Render RenderFunc
}

func (*Component) elementType() {}

func (c *Component) String() string {
	return c.Name
}

func FC(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Ref receives the host instance of the element it is attached to.
type Ref struct {
	Current any
}

type Element struct {
	Type  Type
	Key   string
	Ref   *Ref
	Props Props
}

func (e *Element) String() string {
	if e.Key != "" {
		return fmt.Sprintf("<%v key=%q>", e.Type, e.Key)
	}
	return fmt.Sprintf("<%v>", e.Type)
}

// H builds an element. typ may be a string or Tag for host elements, a
// *Component, or Fragment. The "key" and "ref" props are lifted out of
// props; a single child is stored as is, several children as []any.
func H(typ any, props Props, children ...any) *Element {
	el := &Element{Props: Props{}}

	switch t := typ.(type) {
	case string:
		el.Type = Tag(t)
	case Tag:
		el.Type = t
	case *Component:
		el.Type = t
	case Type:
		el.Type = t
	default:
		el.Type = unknownType{v: typ}
	}

	for k, v := range props {
		switch k {
		case KeyProp:
			if v != nil {
				el.Key = fmt.Sprint(v)
			}
		case RefProp:
			if r, ok := v.(*Ref); ok {
				el.Ref = r
			}
		default:
			el.Props[k] = v
		}
	}

	switch len(children) {
	case 0:
	case 1:
		el.Props[ChildrenProp] = children[0]
	default:
		el.Props[ChildrenProp] = append([]any(nil), children...)
	}
	return el
}

// Frag is shorthand for an unkeyed fragment.
func Frag(children ...any) *Element {
	return H(Fragment, nil, children...)
}

// IsFragment reports whether v is a fragment element.
func IsFragment(v any) bool {
	el, ok := v.(*Element)
	return ok && el != nil && el.Type == Fragment
}

// TextContent reports whether v renders as a text node and its content.
func TextContent(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return "", false
	}
}
