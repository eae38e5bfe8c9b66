package rules

import (
	"slices"
	"strings"

	"github.com/yaklabco/idiomlint/pkg/ast"
	"github.com/yaklabco/idiomlint/pkg/lint"
)

// outKind is the return shape a standard trait method has.
type outKind uint8

const (
	outAny outKind = iota
	outUnit
	outBool
	outRef
	outRefMut
)

func (k outKind) matches(ret ast.TypeTag) bool {
	unit := ret.IsUnknown() || ret.IsUnit()
	switch k {
	case outUnit:
		return unit
	case outBool:
		return strings.TrimSpace(string(ret)) == "bool"
	case outRef:
		return ret.IsRef() && !isMutRef(ret)
	case outRefMut:
		return isMutRef(ret)
	default:
		return !unit
	}
}

// isMutRef reports whether t is `&mut T` or `&'a mut T`.
func isMutRef(t ast.TypeTag) bool {
	s, ok := strings.CutPrefix(strings.TrimSpace(string(t)), "&")
	if !ok {
		return false
	}
	if strings.HasPrefix(s, "'") {
		_, s, _ = strings.Cut(s, " ")
	}
	return strings.HasPrefix(strings.TrimSpace(s), "mut ")
}

// traitMethod is the signature a method needs to be mistaken for a trait method.
type traitMethod struct {
	arity int
	self  ast.SelfKind
	out   outKind
	trait string
}

//nolint:gochecknoglobals // Read-only lookup table.
var traitMethods = map[string]traitMethod{
	"add":        {2, ast.SelfValue, outAny, "std::ops::Add"},
	"as_mut":     {1, ast.SelfRefMut, outRefMut, "std::convert::AsMut"},
	"as_ref":     {1, ast.SelfRef, outRef, "std::convert::AsRef"},
	"bitand":     {2, ast.SelfValue, outAny, "std::ops::BitAnd"},
	"bitor":      {2, ast.SelfValue, outAny, "std::ops::BitOr"},
	"bitxor":     {2, ast.SelfValue, outAny, "std::ops::BitXor"},
	"borrow":     {1, ast.SelfRef, outRef, "std::borrow::Borrow"},
	"borrow_mut": {1, ast.SelfRefMut, outRefMut, "std::borrow::BorrowMut"},
	"clone":      {1, ast.SelfRef, outAny, "std::clone::Clone"},
	"cmp":        {2, ast.SelfRef, outAny, "std::cmp::Ord"},
	"default":    {0, ast.SelfNone, outAny, "std::default::Default"},
	"deref":      {1, ast.SelfRef, outRef, "std::ops::Deref"},
	"deref_mut":  {1, ast.SelfRefMut, outRefMut, "std::ops::DerefMut"},
	"div":        {2, ast.SelfValue, outAny, "std::ops::Div"},
	"drop":       {1, ast.SelfRefMut, outUnit, "std::ops::Drop"},
	"eq":         {2, ast.SelfRef, outBool, "std::cmp::PartialEq"},
	"from_iter":  {1, ast.SelfNone, outAny, "std::iter::FromIterator"},
	"from_str":   {1, ast.SelfNone, outAny, "std::str::FromStr"},
	"hash":       {2, ast.SelfRef, outUnit, "std::hash::Hash"},
	"index":      {2, ast.SelfRef, outRef, "std::ops::Index"},
	"index_mut":  {2, ast.SelfRefMut, outRefMut, "std::ops::IndexMut"},
	"into_iter":  {1, ast.SelfValue, outAny, "std::iter::IntoIterator"},
	"mul":        {2, ast.SelfValue, outAny, "std::ops::Mul"},
	"neg":        {1, ast.SelfValue, outAny, "std::ops::Neg"},
	"next":       {1, ast.SelfRefMut, outAny, "std::iter::Iterator"},
	"not":        {1, ast.SelfValue, outAny, "std::ops::Not"},
	"rem":        {2, ast.SelfValue, outAny, "std::ops::Rem"},
	"shl":        {2, ast.SelfValue, outAny, "std::ops::Shl"},
	"shr":        {2, ast.SelfValue, outAny, "std::ops::Shr"},
	"sub":        {2, ast.SelfValue, outAny, "std::ops::Sub"},
}

// ShouldImplementTraitRule flags inherent methods shaped like a standard
// trait method.
type ShouldImplementTraitRule struct {
	lint.BaseRule
}

// NewShouldImplementTraitRule creates a new should-implement-trait rule.
func NewShouldImplementTraitRule() *ShouldImplementTraitRule {
	return &ShouldImplementTraitRule{
		BaseRule: lint.NewBaseRule(
			"IL002",
			"should-implement-trait",
			lint.GroupStyle,
			"Checks for methods that should live in a trait implementation of a std trait",
			false,
			ast.NodeFn,
		),
	}
}

// Check matches when the name, arity, receiver kind, and return shape all
// agree with the trait method. Only public methods are checked unless the
// public_only option is false.
func (r *ShouldImplementTraitRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if !lint.InInherentImpl(node) {
		return nil, nil
	}
	tm, ok := traitMethods[node.Name]
	if !ok {
		return nil, nil
	}
	sig := node.Fn
	if rc.OptionBool("public_only", true) && !sig.Visibility.IsPublic() {
		return nil, nil
	}
	if sig.Arity() != tm.arity || sig.SelfKind != tm.self || !tm.out.matches(sig.Ret) {
		return nil, nil
	}

	return rc.Report(node.Span,
		"method `"+node.Name+"` can be confused for the standard trait method `"+tm.trait+"::"+node.Name+"`").
		WithNote("consider implementing the trait `" + tm.trait + "` or choosing a less ambiguous method name").
		Build(), nil
}

// selfConvention is the receiver a method name prefix calls for.
type selfConvention struct {
	prefix string
	exact  bool
	allow  []ast.SelfKind
	// skipStatic exempts methods with no receiver.
	skipStatic bool
	want       string
}

//nolint:gochecknoglobals // Read-only lookup table.
var selfConventions = []selfConvention{
	{prefix: "new", exact: true, allow: []ast.SelfKind{ast.SelfNone}, want: "no `self`"},
	{prefix: "as_", allow: []ast.SelfKind{ast.SelfRef, ast.SelfRefMut}, skipStatic: true,
		want: "`self` by reference or `self` by mutable reference"},
	{prefix: "from_", allow: []ast.SelfKind{ast.SelfNone}, want: "no `self`"},
	{prefix: "into_", allow: []ast.SelfKind{ast.SelfValue}, skipStatic: true, want: "`self`"},
	{prefix: "is_", allow: []ast.SelfKind{ast.SelfRef, ast.SelfRefMut, ast.SelfNone},
		want: "`self` by mutable reference or `self` by reference or no `self`"},
	{prefix: "to_", allow: []ast.SelfKind{ast.SelfRef}, skipStatic: true, want: "`self` by reference"},
}

func conventionFor(name string) (selfConvention, bool) {
	for _, c := range selfConventions {
		if c.exact && name == c.prefix || !c.exact && strings.HasPrefix(name, c.prefix) {
			return c, true
		}
	}
	return selfConvention{}, false
}

func (c selfConvention) label() string {
	if c.exact {
		return "`" + c.prefix + "`"
	}
	return "`" + c.prefix + "*`"
}

// WrongSelfConventionRule flags methods whose receiver contradicts their name.
type WrongSelfConventionRule struct {
	lint.BaseRule
}

// NewWrongSelfConventionRule creates a new wrong-self-convention rule.
func NewWrongSelfConventionRule() *WrongSelfConventionRule {
	return &WrongSelfConventionRule{
		BaseRule: lint.NewBaseRule(
			"IL003",
			"wrong-self-convention",
			lint.GroupStyle,
			"Checks for methods with receivers that do not follow the naming convention",
			false,
			ast.NodeFn,
		),
	}
}

// Check matches inherent methods named new, as_*, from_*, into_*, is_*, or
// to_* whose receiver is not one the name calls for.
func (r *WrongSelfConventionRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if !lint.InInherentImpl(node) {
		return nil, nil
	}
	conv, ok := conventionFor(node.Name)
	if !ok {
		return nil, nil
	}
	sig := node.Fn
	if rc.AvoidBreakingExportedAPI() && sig.Visibility.IsPublic() {
		return nil, nil
	}
	if conv.skipStatic && sig.SelfKind == ast.SelfNone {
		return nil, nil
	}
	if slices.Contains(conv.allow, sig.SelfKind) {
		return nil, nil
	}

	sp := sig.SelfSpan
	if sp.IsZero() {
		sp = node.NameSpan
	}
	if sp.IsZero() {
		sp = node.Span
	}

	return rc.Report(sp, "methods called "+conv.label()+" usually take "+conv.want).
		WithNote("consider choosing a less ambiguous name").
		Build(), nil
}

// NewRetNoSelfRule flags `new` methods that do not return the type.
type NewRetNoSelfRule struct {
	lint.BaseRule
}

// NewNewRetNoSelfRule creates a new new-ret-no-self rule.
func NewNewRetNoSelfRule() *NewRetNoSelfRule {
	return &NewRetNoSelfRule{
		BaseRule: lint.NewBaseRule(
			"IL004",
			"new-ret-no-self",
			lint.GroupStyle,
			"Checks for `new` methods that do not return `Self`",
			false,
			ast.NodeFn,
		),
	}
}

// Check matches an inherent `new` whose return type mentions neither Self
// nor the impl's type. Option<Self>, Result<Self, E>, and Box<Self> pass.
func (r *NewRetNoSelfRule) Check(rc *lint.RuleContext, node *ast.Node) (*lint.Finding, error) {
	if node.Name != "new" || !lint.InInherentImpl(node) {
		return nil, nil
	}
	ret := node.Fn.Ret
	if !ret.IsUnknown() && !ret.IsUnit() &&
		(ret.Mentions("Self") || ret.Mentions(lint.ImplSelfType(node).Base())) {
		return nil, nil
	}

	return rc.Report(node.Span, "methods called `new` usually return `Self`").Build(), nil
}
