package ir

import (
	"fmt"

	"github.com/coregx/strling/syntax"
)

// Compiler lowers ASTs into IR.
//
// The zero value is ready to use. A Compiler carries no per-call state,
// so one instance may be shared across goroutines and reused across
// patterns; each Compile call allocates its own working context.
//
// Example:
//
//	_, ast, err := syntax.NewParser(`(\d{3})-\d{4}`).Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	op, meta, err := ir.NewCompiler().CompileWithMetadata(ast)
type Compiler struct{}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile lowers the AST to IR, validating the whole tree.
func (c *Compiler) Compile(root syntax.Node) (Op, error) {
	op, _, err := c.CompileWithMetadata(root)
	return op, err
}

// CompileWithMetadata lowers the AST to IR and collects feature-usage
// metadata alongside it.
func (c *Compiler) CompileWithMetadata(root syntax.Node) (Op, *Metadata, error) {
	l := &lowering{
		meta:  newMetadata(),
		names: make(map[string]bool),
	}

	// Whole-tree census first: capture count and name uniqueness must be
	// known before any backreference is checked, since the parser allows
	// only backward references but hand-built ASTs may order freely.
	if err := l.census(root); err != nil {
		return nil, nil, err
	}

	op, err := l.lower(root)
	if err != nil {
		return nil, nil, err
	}
	return op, l.meta, nil
}

// lowering is the per-call working context of one compilation.
type lowering struct {
	meta       *Metadata
	capCount   int
	names      map[string]bool
	quantDepth int
}

// census walks the tree counting capturing groups and checking name
// uniqueness.
func (l *lowering) census(node syntax.Node) error {
	switch n := node.(type) {
	case syntax.Literal, syntax.CharacterClass, syntax.Anchor, syntax.Dot, syntax.Backreference:
		return nil
	case syntax.Sequence:
		for _, part := range n.Parts {
			if err := l.census(part); err != nil {
				return err
			}
		}
		return nil
	case syntax.Quantifier:
		return l.census(n.Child)
	case syntax.Group:
		if n.Capturing {
			l.capCount++
			if n.Name != "" {
				if l.names[n.Name] {
					return &CompileError{Err: ErrDuplicateName, Detail: n.Name}
				}
				l.names[n.Name] = true
			}
		}
		return l.census(n.Body)
	case syntax.Alternation:
		for _, b := range n.Branches {
			if err := l.census(b); err != nil {
				return err
			}
		}
		return nil
	case syntax.Lookaround:
		return l.census(n.Body)
	case nil:
		return nil
	default:
		return &CompileError{Err: ErrUnknownNode, Detail: fmt.Sprintf("%T", node)}
	}
}

// lower maps one AST node to its IR counterpart.
func (l *lowering) lower(node syntax.Node) (Op, error) {
	switch n := node.(type) {
	case syntax.Literal:
		l.meta.add(FeatureLiteral)
		return Lit{Value: n.Value}, nil

	case syntax.Sequence:
		return l.lowerSequence(n)

	case syntax.CharacterClass:
		return l.lowerClass(n)

	case syntax.Quantifier:
		return l.lowerQuantifier(n)

	case syntax.Group:
		l.meta.add(FeatureGroup)
		if n.Name != "" {
			l.meta.add(FeatureNamedGroup)
		}
		if n.Atomic {
			l.meta.add(FeatureAtomicGroup)
		}
		body, err := l.lower(n.Body)
		if err != nil {
			return nil, err
		}
		return Group{Capturing: n.Capturing, Name: n.Name, Atomic: n.Atomic, Body: body}, nil

	case syntax.Alternation:
		l.meta.add(FeatureAlternation)
		branches := make([]Op, len(n.Branches))
		for i, b := range n.Branches {
			op, err := l.lower(b)
			if err != nil {
				return nil, err
			}
			branches[i] = op
		}
		return Alt{Branches: branches}, nil

	case syntax.Lookaround:
		if n.Ahead {
			l.meta.add(FeatureLookahead)
		} else {
			l.meta.add(FeatureLookbehind)
		}
		body, err := l.lower(n.Body)
		if err != nil {
			return nil, err
		}
		return Look{Ahead: n.Ahead, Negative: n.Negative, Body: body}, nil

	case syntax.Anchor:
		l.meta.add(FeatureAnchor)
		return Anchor{At: AnchorKind(n.At)}, nil

	case syntax.Dot:
		l.meta.add(FeatureDot)
		return Dot{}, nil

	case syntax.Backreference:
		l.meta.add(FeatureBackreference)
		if n.Name != "" {
			if !l.names[n.Name] {
				return nil, &CompileError{Err: ErrDanglingBackreference, Detail: n.Name}
			}
			return Backref{Name: n.Name}, nil
		}
		if n.Index < 1 || n.Index > l.capCount {
			return nil, &CompileError{Err: ErrDanglingBackreference, Detail: fmt.Sprintf("\\%d", n.Index)}
		}
		return Backref{Index: n.Index}, nil

	case nil:
		return Seq{}, nil

	default:
		return nil, &CompileError{Err: ErrUnknownNode, Detail: fmt.Sprintf("%T", node)}
	}
}

// lowerSequence lowers each part and merges adjacent literal runs; a
// sequence left with a single part unwraps to that part.
func (l *lowering) lowerSequence(n syntax.Sequence) (Op, error) {
	var parts []Op
	for _, part := range n.Parts {
		op, err := l.lower(part)
		if err != nil {
			return nil, err
		}
		if lit, ok := op.(Lit); ok && len(parts) > 0 {
			if prev, ok := parts[len(parts)-1].(Lit); ok {
				parts[len(parts)-1] = Lit{Value: prev.Value + lit.Value}
				continue
			}
		}
		parts = append(parts, op)
	}

	switch len(parts) {
	case 0:
		return Seq{}, nil
	case 1:
		return parts[0], nil
	default:
		return Seq{Parts: parts}, nil
	}
}

// lowerClass validates ranges, copies items into IR form, and tags
// char-class usage (and unicode-property when a \p item is present).
func (l *lowering) lowerClass(n syntax.CharacterClass) (Op, error) {
	l.meta.add(FeatureCharClass)
	items := make([]ClassItem, len(n.Items))
	for i, it := range n.Items {
		switch v := it.(type) {
		case syntax.ClassLiteral:
			items[i] = ClassLit{Ch: v.Ch}
		case syntax.ClassRange:
			if v.Lo > v.Hi {
				return nil, &CompileError{Err: ErrInvalidRange, Detail: string(v.Lo) + "-" + string(v.Hi)}
			}
			items[i] = ClassRange{Lo: v.Lo, Hi: v.Hi}
		case syntax.ClassEscape:
			if v.Kind == 'p' {
				l.meta.add(FeatureUnicodeProperty)
			}
			items[i] = ClassEscape{Kind: v.Kind, Negated: v.Negated, Property: v.Property}
		}
	}
	return CharClass{Negated: n.Negated, Items: items}, nil
}

// lowerQuantifier normalizes the lazy/possessive flags into a Mode and
// validates bounds. Possessive wins a conflicting pair; that shape
// cannot come from the parser, so it is recorded as an anomaly rather
// than rejected.
func (l *lowering) lowerQuantifier(n syntax.Quantifier) (Op, error) {
	if n.Min < 0 || (n.Max != syntax.Infinity && n.Max < n.Min) {
		return nil, &CompileError{
			Err:    ErrQuantifierBounds,
			Detail: fmt.Sprintf("min=%d max=%d", n.Min, n.Max),
		}
	}

	l.meta.add(FeatureQuantifier)
	if l.quantDepth > 0 {
		l.meta.add(FeatureNestedQuant)
	}

	mode := Greedy
	switch {
	case n.Lazy && n.Possessive:
		mode = Possessive
		l.meta.addAnomaly(AnomalyModeConflict)
		l.meta.add(FeaturePossessive)
	case n.Possessive:
		mode = Possessive
		l.meta.add(FeaturePossessive)
	case n.Lazy:
		mode = Lazy
		l.meta.add(FeatureLazyQuant)
	}

	l.quantDepth++
	child, err := l.lower(n.Child)
	l.quantDepth--
	if err != nil {
		return nil, err
	}

	max := n.Max
	if n.Max == syntax.Infinity {
		max = Infinity
	}
	return Quant{Child: child, Min: n.Min, Max: max, Mode: mode}, nil
}
