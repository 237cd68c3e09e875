package types

// TypeParamName distinguishes how a universally (or existentially)
// quantified type variable in a scheme was introduced (§3 Names).
type TypeParamName struct {
	Kind TypeParamKind
	Name string // meaningful only when Kind == NamedParam
}

// TypeParamKind enumerates the three ways a type parameter can be named.
type TypeParamKind int

const (
	// AnonymousParam is a type variable with no surface name (ordinary
	// polymorphism, e.g. the `a` in `id : a -> a` when elaborated without
	// a user-written name).
	AnonymousParam TypeParamKind = iota
	// EffectAssociatedParam is a type variable implicitly tied to an effect
	// parameter (e.g. the answer type of a handler).
	EffectAssociatedParam
	// NamedParam carries a user-written name, significant for named type
	// application.
	NamedParam
)

func Anonymous() TypeParamName           { return TypeParamName{Kind: AnonymousParam} }
func EffectAssociated() TypeParamName    { return TypeParamName{Kind: EffectAssociatedParam} }
func Named(name string) TypeParamName    { return TypeParamName{Kind: NamedParam, Name: name} }

// ValueParamName distinguishes the five surface roles a value-level
// parameter name can play (§3 Names).
type ValueParamName struct {
	Kind ValueParamKind
	Name string
}

// ValueParamKind enumerates label, regular, optional, implicit and method
// parameter names.
type ValueParamKind int

const (
	LabelParam ValueParamKind = iota
	RegularParam
	OptionalParam
	ImplicitParam
	MethodParam
)

func Label(name string) ValueParamName    { return ValueParamName{Kind: LabelParam, Name: name} }
func Regular(name string) ValueParamName  { return ValueParamName{Kind: RegularParam, Name: name} }
func Optional(name string) ValueParamName { return ValueParamName{Kind: OptionalParam, Name: name} }
func Implicit(name string) ValueParamName { return ValueParamName{Kind: ImplicitParam, Name: name} }
func Method(name string) ValueParamName   { return ValueParamName{Kind: MethodParam, Name: name} }

// Equal compares names structurally: two names are equal iff they have the
// same kind and (when significant) the same string.
func (n TypeParamName) Equal(o TypeParamName) bool {
	if n.Kind != o.Kind {
		return false
	}
	if n.Kind == NamedParam {
		return n.Name == o.Name
	}
	return true
}

// Equal compares value-parameter names structurally.
func (n ValueParamName) Equal(o ValueParamName) bool {
	return n.Kind == o.Kind && n.Name == o.Name
}
