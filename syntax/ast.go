// Package syntax implements the surface layer of the STRling pipeline:
// the pattern DSL parser, the AST it produces, and the flag directive.
//
// The package turns DSL source text into an immutable (Flags, Node) pair.
// Nodes are pure data with no behavior beyond serialization; all
// validation that can be decided locally (ranges, duplicate names,
// quantifier bounds, backreference targets) happens here so that no
// ill-formed AST ever reaches the compiler.
package syntax

import (
	json "github.com/goccy/go-json"
)

// Node is the closed set of AST variants produced by the parser.
//
// Implementations are immutable values that exclusively own their
// children; the tree is acyclic by construction. The only types
// implementing Node are the ones declared in this file.
type Node interface {
	// Kind returns the variant tag ("Literal", "Quantifier", ...).
	Kind() string

	astNode()
}

// ClassItem is the closed set of character-class member variants.
type ClassItem interface {
	classItem()
}

// Infinity is the Max value of a quantifier with no upper bound.
const Infinity = -1

// AnchorKind identifies a zero-width position assertion.
type AnchorKind string

// Anchor kinds. AbsoluteStart and EndBeforeFinalNewline correspond to
// the \A and \Z escapes and are unaffected by multiline mode.
const (
	AnchorStart               AnchorKind = "Start"
	AnchorEnd                 AnchorKind = "End"
	AnchorWordBoundary        AnchorKind = "WordBoundary"
	AnchorNotWordBoundary     AnchorKind = "NotWordBoundary"
	AnchorAbsoluteStart       AnchorKind = "AbsoluteStart"
	AnchorEndBeforeFinalBreak AnchorKind = "EndBeforeFinalNewline"
)

// Literal matches its raw (unescaped) text exactly.
// The parser produces one Literal per input character; the compiler
// coalesces adjacent runs. Value is never empty.
type Literal struct {
	Value string
}

// Sequence matches its parts in order. The parser never produces an
// empty Sequence except for an empty pattern body, where it stands for
// the empty match.
type Sequence struct {
	Parts []Node
}

// CharacterClass matches one character from (or, when Negated, outside)
// its item set. Shorthand escapes like \d are represented as a
// CharacterClass with a single ClassEscape item; there is no separate
// shorthand node.
type CharacterClass struct {
	Negated bool
	Items   []ClassItem
}

// Quantifier repeats Child between Min and Max times. Max is either a
// non-negative count >= Min or Infinity. Lazy and Possessive are
// mutually exclusive; the parser enforces this.
type Quantifier struct {
	Child      Node
	Min        int
	Max        int
	Lazy       bool
	Possessive bool
}

// Group wraps a subpattern. A capturing group may carry a Name, unique
// across the whole pattern. Atomic marks a (?>...) group, which is
// always non-capturing.
type Group struct {
	Capturing bool
	Name      string
	Atomic    bool
	Body      Node
}

// Alternation tries its branches in order; the first branch to match
// wins. It always has at least two branches.
type Alternation struct {
	Branches []Node
}

// Lookaround is a zero-width assertion on the text ahead of or behind
// the current position.
type Lookaround struct {
	Ahead    bool
	Negative bool
	Body     Node
}

// Anchor asserts a position without consuming input.
type Anchor struct {
	At AnchorKind
}

// Dot matches any character, subject to the DotAll flag.
type Dot struct{}

// Backreference matches the text captured by an earlier group,
// referenced either by Index (>= 1) or by Name — exactly one is set.
type Backreference struct {
	Index int
	Name  string
}

// ClassLiteral is a single character inside a class.
type ClassLiteral struct {
	Ch rune
}

// ClassRange is an inclusive code-point range inside a class.
// Lo <= Hi always holds; the parser rejects inverted ranges.
type ClassRange struct {
	Lo rune
	Hi rune
}

// ClassEscape is a shorthand set inside a class: Kind 'd', 'w' or 's',
// or 'p' with a Unicode property name. Negated covers the uppercase
// forms (\D, \W, \S, \P{...}).
type ClassEscape struct {
	Kind     byte
	Negated  bool
	Property string
}

func (Literal) Kind() string        { return "Literal" }
func (Sequence) Kind() string       { return "Sequence" }
func (CharacterClass) Kind() string { return "CharacterClass" }
func (Quantifier) Kind() string     { return "Quantifier" }
func (Group) Kind() string          { return "Group" }
func (Alternation) Kind() string    { return "Alternation" }
func (Lookaround) Kind() string     { return "Lookaround" }
func (Anchor) Kind() string         { return "Anchor" }
func (Dot) Kind() string            { return "Dot" }
func (Backreference) Kind() string  { return "Backreference" }

func (Literal) astNode()        {}
func (Sequence) astNode()       {}
func (CharacterClass) astNode() {}
func (Quantifier) astNode()     {}
func (Group) astNode()          {}
func (Alternation) astNode()    {}
func (Lookaround) astNode()     {}
func (Anchor) astNode()         {}
func (Dot) astNode()            {}
func (Backreference) astNode()  {}

func (ClassLiteral) classItem() {}
func (ClassRange) classItem()   {}
func (ClassEscape) classItem()  {}

// maxJSON renders a quantifier upper bound as a number or "Inf".
func maxJSON(max int) any {
	if max == Infinity {
		return "Inf"
	}
	return max
}

// MarshalJSON renders the node as {"node":"Literal","value":...}.
func (n Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"node": n.Kind(), "value": n.Value})
}

// MarshalJSON renders the node as {"node":"Sequence","parts":[...]}.
func (n Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"node": n.Kind(), "parts": n.Parts})
}

// MarshalJSON renders the class with its items in order.
func (n CharacterClass) MarshalJSON() ([]byte, error) {
	items := make([]any, len(n.Items))
	for i, it := range n.Items {
		items[i] = classItemJSON(it)
	}
	return json.Marshal(map[string]any{"node": n.Kind(), "negated": n.Negated, "items": items})
}

// MarshalJSON renders the quantifier; an unbounded Max appears as "Inf".
func (n Quantifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"node":       n.Kind(),
		"child":      n.Child,
		"min":        n.Min,
		"max":        maxJSON(n.Max),
		"lazy":       n.Lazy,
		"possessive": n.Possessive,
	})
}

// MarshalJSON renders the group; name is omitted when empty.
func (n Group) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"node":      n.Kind(),
		"capturing": n.Capturing,
		"atomic":    n.Atomic,
		"body":      n.Body,
	}
	if n.Name != "" {
		m["name"] = n.Name
	}
	return json.Marshal(m)
}

// MarshalJSON renders the alternation branches in order.
func (n Alternation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"node": n.Kind(), "branches": n.Branches})
}

// MarshalJSON renders the lookaround direction as "Ahead" or "Behind".
func (n Lookaround) MarshalJSON() ([]byte, error) {
	dir := "Behind"
	if n.Ahead {
		dir = "Ahead"
	}
	return json.Marshal(map[string]any{"node": n.Kind(), "dir": dir, "neg": n.Negative, "body": n.Body})
}

// MarshalJSON renders the anchor kind.
func (n Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"node": n.Kind(), "at": n.At})
}

// MarshalJSON renders the dot.
func (n Dot) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"node": n.Kind()})
}

// MarshalJSON renders exactly one of by_index / by_name.
func (n Backreference) MarshalJSON() ([]byte, error) {
	m := map[string]any{"node": n.Kind()}
	if n.Name != "" {
		m["by_name"] = n.Name
	} else {
		m["by_index"] = n.Index
	}
	return json.Marshal(m)
}

func classItemJSON(it ClassItem) any {
	switch v := it.(type) {
	case ClassLiteral:
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
