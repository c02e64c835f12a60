package reconciler

type WorkTag uint8

const (
	UnknownTag WorkTag = iota
	FunctionComponent
	HostRoot
	HostComponent
	HostText
	Fragment
)

func (t WorkTag) String() string {
	switch t {
	case FunctionComponent:
		return "function-component"
	case HostRoot:
		return "host-root"
	case HostComponent:
		return "host-component"
	case HostText:
		return "host-text"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

func (t WorkTag) isHost() bool {
	return t == HostComponent || t == HostText
}

type Flags uint16

const (
	Placement Flags = 1 << iota
	Update
	ChildDeletion
	Ref
	PassiveEffect

	NoFlags      Flags = 0
	MutationMask       = Placement | Update | ChildDeletion
	LayoutMask         = Ref
	PassiveMask        = PassiveEffect | ChildDeletion
)

func (f Flags) Has(mask Flags) bool {
	return f&mask != 0
}

type effectTag uint8

const (
	hookHasEffect effectTag = 1 << iota
	hookPassive
)
