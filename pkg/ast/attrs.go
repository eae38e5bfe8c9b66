package ast

import "github.com/yaklabco/idiomlint/pkg/span"

// CallAttrs holds attributes for NodeCall, NodeMethodCall, and NodeMacroCall.
type CallAttrs struct {
	// Receiver is the expression a method is called on (method calls only).
	Receiver *Node

	// Callee is the function path of a plain call (calls only).
	Callee *Node

	// Args are the argument expressions, excluding the receiver.
	Args []*Node

	// Pred is the method call this one is chained onto, if any.
	Pred *Node

	// Succ is the method call chained onto this one, if any.
	Succ *Node

	// Const is true when the callee is a const fn.
	Const bool

	// Ctor is true when the callee is a tuple-struct or enum variant constructor.
	Ctor bool

	// DefaultCtor is true when the call constructs a value equal to the
	// type's Default (for example Vec::new() or String::new()).
	DefaultCtor bool
}

// Visibility is the declared visibility of an item.
type Visibility string

// Visibility values.
const (
	VisPrivate Visibility = ""
	VisPublic  Visibility = "pub"
	VisCrate   Visibility = "pub(crate)"
	VisSuper   Visibility = "pub(super)"
)

// IsPublic reports whether the item is part of the exported interface.
func (v Visibility) IsPublic() bool {
	return v == VisPublic
}

// SelfKind describes how a method takes its receiver.
type SelfKind uint8

// Receiver kinds.
const (
	SelfNone SelfKind = iota
	SelfValue
	SelfRef
	SelfRefMut
)

//nolint:gochecknoglobals // Read-only lookup table.
var selfKindNames = [...]string{
	SelfNone:   "none",
	SelfValue:  "value",
	SelfRef:    "ref",
	SelfRefMut: "ref_mut",
}

func (k SelfKind) String() string {
	if int(k) < len(selfKindNames) {
		return selfKindNames[k]
	}
	return "unknown"
}

// ParseSelfKind parses an interchange receiver kind.
// "mut" (a by-value receiver bound mutably) is treated as a value receiver.
func ParseSelfKind(name string) (SelfKind, bool) {
	switch name {
	case "", "none":
		return SelfNone, true
	case "value", "mut":
		return SelfValue, true
	case "ref":
		return SelfRef, true
	case "ref_mut":
		return SelfRefMut, true
	default:
		return SelfNone, false
	}
}

// Param is a named, typed function parameter.
type Param struct {
	Name string
	Type TypeTag
}

// FnAttrs holds the signature of a NodeFn.
type FnAttrs struct {
	Visibility Visibility
	SelfKind   SelfKind

	// SelfSpan covers the receiver parameter; zero when there is none.
	SelfSpan span.Span

	// Params excludes the receiver.
	Params []Param

	// Ret is the declared return type; empty means unit.
	Ret TypeTag

	// RetSpan covers the return type; zero when the return type is unit.
	RetSpan span.Span
}

// Arity returns the number of parameters including the receiver.
func (f *FnAttrs) Arity() int {
	if f.SelfKind == SelfNone {
		return len(f.Params)
	}
	return len(f.Params) + 1
}

// ImplAttrs holds attributes for a NodeImpl.
type ImplAttrs struct {
	// SelfType is the type the impl block is for, as written.
	SelfType TypeTag

	// Trait is the implemented trait; empty for inherent impls.
	Trait string

	// Generics are the impl's generic parameter names.
	Generics []string
}

// IsInherent reports whether the impl block implements no trait.
func (i *ImplAttrs) IsInherent() bool {
	return i.Trait == ""
}

// LitKind classifies literal expressions.
type LitKind string

// Literal kinds.
const (
	LitStr   LitKind = "str"
	LitInt   LitKind = "int"
	LitFloat LitKind = "float"
	LitBool  LitKind = "bool"
	LitChar  LitKind = "char"
	LitUnit  LitKind = "unit"
)

// LitAttrs holds attributes for a NodeLiteral.
type LitAttrs struct {
	Kind LitKind

	// Value is the literal's unescaped value for string literals.
	Value string
}
