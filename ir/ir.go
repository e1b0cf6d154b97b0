// Package ir defines the dialect-neutral intermediate representation
// the compiler lowers ASTs into, plus the compiler itself.
//
// IR trees are immutable, exclusively own their children, and mirror
// the AST one-to-one except that adjacent literals are pre-coalesced.
// The IR is what emitters consume; nothing in this package knows any
// concrete regex dialect.
package ir

import (
	json "github.com/goccy/go-json"
)

// Op is the closed set of IR variants.
type Op interface {
	// Tag returns the op tag ("Lit", "Quant", ...), matching the names
	// used in the serialized form.
	Tag() string

	irOp()
}

// ClassItem is the closed set of class member variants in IR form.
// The compiler copies AST class items into these so the IR shares no
// structure with the AST it was lowered from.
type ClassItem interface {
	irClassItem()
}

// Infinity is the Max value of an unbounded quantifier.
const Infinity = -1

// Mode is the normalized quantifier matching mode.
type Mode string

// Quantifier modes. Possessive wins if an upstream bug marks a
// quantifier both lazy and possessive; see Compiler.
const (
	Greedy     Mode = "Greedy"
	Lazy       Mode = "Lazy"
	Possessive Mode = "Possessive"
)

// AnchorKind identifies a zero-width assertion in IR form.
type AnchorKind string

// Anchor kinds, mirroring the surface set.
const (
	Start               AnchorKind = "Start"
	End                 AnchorKind = "End"
	WordBoundary        AnchorKind = "WordBoundary"
	NotWordBoundary     AnchorKind = "NotWordBoundary"
	AbsoluteStart       AnchorKind = "AbsoluteStart"
	EndBeforeFinalBreak AnchorKind = "EndBeforeFinalNewline"
)

// Lit matches its text exactly. Adjacent literal runs are merged during
// lowering, so a Lit's Value may span what were several AST nodes.
type Lit struct {
	Value string
}

// Seq matches its parts in order. An empty Seq is the empty match.
type Seq struct {
	Parts []Op
}

// CharClass matches one character from (or outside) its item set.
type CharClass struct {
	Negated bool
	Items   []ClassItem
}

// Quant repeats Child between Min and Max times with the given Mode.
type Quant struct {
	Child Op
	Min   int
	Max   int
	Mode  Mode
}

// Group wraps a subpattern, optionally capturing and optionally named.
type Group struct {
	Capturing bool
	Name      string
	Atomic    bool
	Body      Op
}

// Alt tries its branches in order.
type Alt struct {
	Branches []Op
}

// Look is a zero-width lookaround assertion.
type Look struct {
	Ahead    bool
	Negative bool
	Body     Op
}

// Anchor asserts a position.
type Anchor struct {
	At AnchorKind
}

// Dot matches any character per flag semantics.
type Dot struct{}

// Backref matches a previous capture, by Index or by Name.
type Backref struct {
	Index int
	Name  string
}

// ClassLit is a single character in a class.
type ClassLit struct {
	Ch rune
}

// ClassRange is an inclusive code-point range; Lo <= Hi.
type ClassRange struct {
	Lo rune
	Hi rune
}

// ClassEscape is a shorthand set ('d', 'w', 's') or a Unicode property
// ('p' with Property set); Negated covers the uppercase forms.
type ClassEscape struct {
	Kind     byte
	Negated  bool
	Property string
}

func (Lit) Tag() string       { return "Lit" }
func (Seq) Tag() string       { return "Seq" }
func (CharClass) Tag() string { return "CharClass" }
func (Quant) Tag() string     { return "Quant" }
func (Group) Tag() string     { return "Group" }
func (Alt) Tag() string       { return "Alt" }
func (Look) Tag() string      { return "Look" }
func (Anchor) Tag() string    { return "Anchor" }
func (Dot) Tag() string       { return "Dot" }
func (Backref) Tag() string   { return "Backref" }

func (Lit) irOp()       {}
func (Seq) irOp()       {}
func (CharClass) irOp() {}
func (Quant) irOp()     {}
func (Group) irOp()     {}
func (Alt) irOp()       {}
func (Look) irOp()      {}
func (Anchor) irOp()    {}
func (Dot) irOp()       {}
func (Backref) irOp()   {}

func (ClassLit) irClassItem()    {}
func (ClassRange) irClassItem()  {}
func (ClassEscape) irClassItem() {}

func maxJSON(max int) any {
	if max == Infinity {
		return "Inf"
	}
	return max
}

// MarshalJSON renders the op as {"ir":"Lit","value":...}.
func (o Lit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"ir": o.Tag(), "value": o.Value})
}

// MarshalJSON renders the op as {"ir":"Seq","parts":[...]}.
func (o Seq) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"ir": o.Tag(), "parts": o.Parts})
}

// MarshalJSON renders the class with its items in order.
func (o CharClass) MarshalJSON() ([]byte, error) {
	items := make([]any, len(o.Items))
	for i, it := range o.Items {
		items[i] = classItemJSON(it)
	}
	return json.Marshal(map[string]any{"ir": o.Tag(), "negated": o.Negated, "items": items})
}

// MarshalJSON renders the quantifier; an unbounded Max appears as "Inf".
func (o Quant) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"ir":    o.Tag(),
		"child": o.Child,
		"min":   o.Min,
		"max":   maxJSON(o.Max),
		"mode":  o.Mode,
	})
}

// MarshalJSON renders the group; name is omitted when empty.
func (o Group) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"ir":        o.Tag(),
		"capturing": o.Capturing,
		"atomic":    o.Atomic,
		"body":      o.Body,
	}
	if o.Name != "" {
		m["name"] = o.Name
	}
	return json.Marshal(m)
}

// MarshalJSON renders the alternation branches in order.
func (o Alt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"ir": o.Tag(), "branches": o.Branches})
}

// MarshalJSON renders the direction as "Ahead" or "Behind".
func (o Look) MarshalJSON() ([]byte, error) {
	dir := "Behind"
	if o.Ahead {
		dir = "Ahead"
	}
	return json.Marshal(map[string]any{"ir": o.Tag(), "dir": dir, "neg": o.Negative, "body": o.Body})
}

// MarshalJSON renders the anchor kind.
func (o Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"ir": o.Tag(), "at": o.At})
}

// MarshalJSON renders the dot.
func (o Dot) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"ir": o.Tag()})
}

// MarshalJSON renders exactly one of by_index / by_name.
func (o Backref) MarshalJSON() ([]byte, error) {
	m := map[string]any{"ir": o.Tag()}
	if o.Name != "" {
		m["by_name"] = o.Name
	} else {
		m["by_index"] = o.Index
	}
	return json.Marshal(m)
}

func classItemJSON(it ClassItem) any {
	switch v := it.(type) {
	case ClassLit:
		return map[string]any{"item": "Lit", "ch": string(v.Ch)}
	case ClassRange:
		return map[string]any{"item": "Range", "from": string(v.Lo), "to": string(v.Hi)}
	case ClassEscape:
		m := map[string]any{"item": "Esc", "type": string(v.Kind), "negated": v.Negated}
		if v.Property != "" {
			m["property"] = v.Property
		}
		return m
	default:
		return nil
	}
}
