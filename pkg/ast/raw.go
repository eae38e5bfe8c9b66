package ast

import (
	"errors"
	"fmt"

	"github.com/yaklabco/idiomlint/pkg/span"
)

// ErrInvalidModel is returned when a raw model violates the tree or span invariants.
var ErrInvalidModel = errors.New("invalid program model")

// RawSpan is [start_line, start_col, end_line, end_col], 1-based with an
// exclusive end column.
type RawSpan [4]int

// RawFile is the interchange form of one compilation unit.
type RawFile struct {
	Path     string   `json:"path"               yaml:"path"               msgpack:"path"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty" msgpack:"language,omitempty"`
	Source   string   `json:"source,omitempty"   yaml:"source,omitempty"   msgpack:"source,omitempty"`
	Root     *RawNode `json:"root"               yaml:"root"               msgpack:"root"`
}

// RawNode is the interchange form of a Node.
type RawNode struct {
	Kind          string     `json:"kind"                     yaml:"kind"                     msgpack:"kind"`
	Span          RawSpan    `json:"span"                     yaml:"span"                     msgpack:"span"`
	NameSpan      *RawSpan   `json:"name_span,omitempty"      yaml:"name_span,omitempty"      msgpack:"name_span,omitempty"`
	Type          string     `json:"type,omitempty"           yaml:"type,omitempty"           msgpack:"type,omitempty"`
	Name          string     `json:"name,omitempty"           yaml:"name,omitempty"           msgpack:"name,omitempty"`
	FromExpansion bool       `json:"from_expansion,omitempty" yaml:"from_expansion,omitempty" msgpack:"from_expansion,omitempty"`
	Receiver      *RawNode   `json:"receiver,omitempty"       yaml:"receiver,omitempty"       msgpack:"receiver,omitempty"`
	Callee        *RawNode   `json:"callee,omitempty"         yaml:"callee,omitempty"         msgpack:"callee,omitempty"`
	Args          []*RawNode `json:"args,omitempty"           yaml:"args,omitempty"           msgpack:"args,omitempty"`
	Children      []*RawNode `json:"children,omitempty"       yaml:"children,omitempty"       msgpack:"children,omitempty"`
	Fn            *RawFn     `json:"fn,omitempty"             yaml:"fn,omitempty"             msgpack:"fn,omitempty"`
	Impl          *RawImpl   `json:"impl,omitempty"           yaml:"impl,omitempty"           msgpack:"impl,omitempty"`
	LitKind       string     `json:"lit_kind,omitempty"       yaml:"lit_kind,omitempty"       msgpack:"lit_kind,omitempty"`
	LitValue      string     `json:"lit_value,omitempty"      yaml:"lit_value,omitempty"      msgpack:"lit_value,omitempty"`
	IsConst       bool       `json:"is_const,omitempty"       yaml:"is_const,omitempty"       msgpack:"is_const,omitempty"`
	IsCtor        bool       `json:"is_ctor,omitempty"        yaml:"is_ctor,omitempty"        msgpack:"is_ctor,omitempty"`
	DefaultCtor   bool       `json:"default_ctor,omitempty"   yaml:"default_ctor,omitempty"   msgpack:"default_ctor,omitempty"`
}

// RawFn is the interchange form of FnAttrs.
type RawFn struct {
	Visibility string     `json:"visibility,omitempty" yaml:"visibility,omitempty" msgpack:"visibility,omitempty"`
	SelfKind   string     `json:"self_kind,omitempty"  yaml:"self_kind,omitempty"  msgpack:"self_kind,omitempty"`
	SelfSpan   *RawSpan   `json:"self_span,omitempty"  yaml:"self_span,omitempty"  msgpack:"self_span,omitempty"`
	Params     []RawParam `json:"params,omitempty"     yaml:"params,omitempty"     msgpack:"params,omitempty"`
	Ret        string     `json:"ret,omitempty"        yaml:"ret,omitempty"        msgpack:"ret,omitempty"`
	RetSpan    *RawSpan   `json:"ret_span,omitempty"   yaml:"ret_span,omitempty"   msgpack:"ret_span,omitempty"`
}

// RawParam is the interchange form of Param.
type RawParam struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Type string `json:"type" yaml:"type" msgpack:"type"`
}

// RawImpl is the interchange form of ImplAttrs.
type RawImpl struct {
	SelfType string   `json:"self_type"          yaml:"self_type"          msgpack:"self_type"`
	Trait    string   `json:"trait,omitempty"    yaml:"trait,omitempty"    msgpack:"trait,omitempty"`
	Generics []string `json:"generics,omitempty" yaml:"generics,omitempty" msgpack:"generics,omitempty"`
}

// Adapt converts a raw model into a File.
// It links parents and siblings, records chain predecessor and successor
// links between method calls, and checks that every span is ordered, lies
// inside the source text when it is known, and lies inside its parent's span
// unless either node comes from a macro expansion.
func Adapt(raw *RawFile) (*File, error) {
	if raw == nil || raw.Root == nil {
		return nil, fmt.Errorf("%w: missing root node", ErrInvalidModel)
	}

	file := &File{
		Path:     raw.Path,
		Language: raw.Language,
		Source:   span.NewSource(raw.Path, []byte(raw.Source)),
	}

	a := &adapter{file: file, checkSource: raw.Source != ""}
	root, err := a.node(raw.Root, nil)
	if err != nil {
		return nil, err
	}
	if root.Kind != NodeFile {
		return nil, fmt.Errorf("%w: root is %s, want file", ErrInvalidModel, root.Kind)
	}

	file.Root = root
	return file, nil
}

type adapter struct {
	file        *File
	checkSource bool
}

func (a *adapter) span(raw RawSpan) (span.Span, error) {
	sp, err := span.New(a.file.Path, raw[0], raw[1], raw[2], raw[3])
	if err != nil {
		return span.Span{}, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if !sp.IsValid() {
		return span.Span{}, fmt.Errorf("%w: span %s has non-positive position", ErrInvalidModel, sp)
	}
	if a.checkSource {
		if _, ok := a.file.Source.Range(sp); !ok {
			return span.Span{}, fmt.Errorf("%w: span %s lies outside the source", ErrInvalidModel, sp)
		}
	}
	return sp, nil
}

func (a *adapter) optSpan(raw *RawSpan) (span.Span, error) {
	if raw == nil {
		return span.Span{}, nil
	}
	return a.span(*raw)
}

func (a *adapter) node(raw *RawNode, parent *Node) (*Node, error) {
	kind, ok := ParseNodeKind(raw.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidModel, raw.Kind)
	}

	sp, err := a.span(raw.Span)
	if err != nil {
		return nil, err
	}

	node := &Node{
		Kind:          kind,
		Span:          sp,
		Type:          TypeTag(raw.Type),
		Name:          raw.Name,
		FromExpansion: raw.FromExpansion,
		File:          a.file,
	}

	if node.NameSpan, err = a.optSpan(raw.NameSpan); err != nil {
		return nil, err
	}

	if parent != nil {
		if parent.FromExpansion {
			node.FromExpansion = true
		}
		if !node.FromExpansion && !span.Contains(parent.Span, sp) {
			return nil, fmt.Errorf("%w: %s node at %s escapes its parent %s at %s",
				ErrInvalidModel, kind, sp, parent.Kind, parent.Span)
		}
		AppendChild(parent, node)
	}

	if err := a.attrs(raw, node); err != nil {
		return nil, err
	}

	for _, child := range raw.Children {
		if _, err := a.node(child, node); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (a *adapter) attrs(raw *RawNode, node *Node) error {
	switch node.Kind {
	case NodeMethodCall, NodeCall, NodeMacroCall:
		return a.call(raw, node)

	case NodeFn:
		return a.fn(raw, node)

	case NodeImpl:
		if raw.Impl == nil {
			return fmt.Errorf("%w: impl at %s has no impl attributes", ErrInvalidModel, node.Span)
		}
		node.Impl = &ImplAttrs{
			SelfType: TypeTag(raw.Impl.SelfType),
			Trait:    raw.Impl.Trait,
			Generics: raw.Impl.Generics,
		}

	case NodeLiteral:
		node.Lit = &LitAttrs{Kind: LitKind(raw.LitKind), Value: raw.LitValue}

	default:
	}
	return nil
}

func (a *adapter) call(raw *RawNode, node *Node) error {
	node.Call = &CallAttrs{
		Const:       raw.IsConst,
		Ctor:        raw.IsCtor,
		DefaultCtor: raw.DefaultCtor,
	}

	if node.Kind == NodeMethodCall && raw.Receiver == nil {
		return fmt.Errorf("%w: method call %q at %s has no receiver", ErrInvalidModel, node.Name, node.Span)
	}

	if raw.Receiver != nil {
		recv, err := a.node(raw.Receiver, node)
		if err != nil {
			return err
		}
		node.Call.Receiver = recv
		if recv.Kind == NodeMethodCall {
			node.Call.Pred = recv
			recv.Call.Succ = node
		}
	}

	if raw.Callee != nil {
		callee, err := a.node(raw.Callee, node)
		if err != nil {
			return err
		}
		node.Call.Callee = callee
		if node.Name == "" {
			node.Name = callee.Name
		}
	}

	for _, rawArg := range raw.Args {
		arg, err := a.node(rawArg, node)
		if err != nil {
			return err
		}
		node.Call.Args = append(node.Call.Args, arg)
	}
	return nil
}

func (a *adapter) fn(raw *RawNode, node *Node) error {
	attrs := &FnAttrs{}
	node.Fn = attrs
	if raw.Fn == nil {
		return nil
	}

	attrs.Visibility = Visibility(raw.Fn.Visibility)

	kind, ok := ParseSelfKind(raw.Fn.SelfKind)
	if !ok {
		return fmt.Errorf("%w: fn %q has unknown self kind %q", ErrInvalidModel, node.Name, raw.Fn.SelfKind)
	}
	attrs.SelfKind = kind

	var err error
	if attrs.SelfSpan, err = a.optSpan(raw.Fn.SelfSpan); err != nil {
		return err
	}
	if attrs.RetSpan, err = a.optSpan(raw.Fn.RetSpan); err != nil {
		return err
	}

	attrs.Ret = TypeTag(raw.Fn.Ret)
	for _, p := range raw.Fn.Params {
		attrs.Params = append(attrs.Params, Param{Name: p.Name, Type: TypeTag(p.Type)})
	}
	return nil
}
