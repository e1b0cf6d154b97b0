// Package literal provides types and operations for extracting literal byte
// sequences from compiled patterns.
//
// The primary use case is prefilter optimization: by extracting literals a
// match must contain (e.g. "hello" from /hello.*world/), candidate positions
// can be found with fast substring search before any regex engine runs.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that may appear in matches
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Operations like Minimize, LCP, LCS help optimize prefilter strategies
package literal

import (
	"github.com/coregx/strling/ir"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes that are expanded
	// into individual literals. Classes like [abc] expand to "a", "b", "c";
	// anything larger than this limit is skipped. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
//
// Example:
//
//	extractor := literal.New(literal.DefaultConfig())
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts literal sequences from compiled patterns.
//
// It walks the IR and extracts:
//   - Prefix literals: literals that must appear at the start of a match
//   - Suffix literals: literals that must appear at the end
//   - Inner literals: literals that must appear somewhere
//
// Example:
//
//	_, ast, _ := syntax.NewParser("hello|world").Parse()
//	op, _ := ir.NewCompiler().Compile(ast)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(op)
//	// prefixes = ["hello", "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes extracts prefix literals from the pattern.
// Returns literals that must appear at the start of any match.
//
// Examples:
//
//	hello          → ["hello"]
//	foo|bar        → ["foo", "bar"]
//	[abc]test      → ["a", "b", "c"]
//	hello.*world   → ["hello"]
//	.*foo          → [] (no prefix requirement)
//
// Returns an empty Seq if no prefix literals can be extracted.
func (e *Extractor) ExtractPrefixes(op ir.Op) *Seq {
	return e.extractPrefixes(op, 0)
}

func (e *Extractor) extractPrefixes(op ir.Op, depth int) *Seq {
	if depth > maxDepth {
		return NewSeq()
	}

	switch o := op.(type) {
	case ir.Lit:
		return NewSeq(e.clampFront(o.Value))

	case ir.Seq:
		// Leading anchors do not consume text; the first consuming part
		// decides the prefix.
		parts := o.Parts
		for len(parts) > 0 && isStartAnchor(parts[0]) {
			parts = parts[1:]
		}
		if len(parts) == 0 {
			return NewSeq()
		}
		first := e.extractPrefixes(parts[0], depth+1)
		if len(parts) > 1 {
			return markIncomplete(first)
		}
		return first

	case ir.Alt:
		return e.union(o.Branches, depth, e.extractPrefixes)

	case ir.CharClass:
		return e.expandClass(o)

	case ir.Group:
		return e.extractPrefixes(o.Body, depth+1)

	case ir.Quant:
		// A repetition contributes no reliable prefix: a* may match zero
		// times, and even a{2,} starts with a single copy of a literal we
		// would have to cross-product. Exact single repetition unwraps.
		if o.Min == 1 && o.Max == 1 {
			return e.extractPrefixes(o.Child, depth+1)
		}
		return NewSeq()

	default:
		// Anchor, Dot, Look, Backref: nothing extractable.
		return NewSeq()
	}
}

// ExtractSuffixes extracts suffix literals from the pattern.
// Returns literals that must appear at the end of any match.
//
// Examples:
//
//	world          → ["world"]
//	foo|bar        → ["foo", "bar"]
//	hello.*world   → ["world"]
//	foo.*          → [] (no suffix requirement)
//
// Returns an empty Seq if no suffix literals can be extracted.
func (e *Extractor) ExtractSuffixes(op ir.Op) *Seq {
	return e.extractSuffixes(op, 0)
}

func (e *Extractor) extractSuffixes(op ir.Op, depth int) *Seq {
	if depth > maxDepth {
		return NewSeq()
	}

	switch o := op.(type) {
	case ir.Lit:
		return NewSeq(e.clampBack(o.Value))

	case ir.Seq:
		parts := o.Parts
		for len(parts) > 0 && isEndAnchor(parts[len(parts)-1]) {
			parts = parts[:len(parts)-1]
		}
		if len(parts) == 0 {
			return NewSeq()
		}
		last := e.extractSuffixes(parts[len(parts)-1], depth+1)
		if len(parts) > 1 {
			return markIncomplete(last)
		}
		return last

	case ir.Alt:
		return e.union(o.Branches, depth, e.extractSuffixes)

	case ir.CharClass:
		return e.expandClass(o)

	case ir.Group:
		return e.extractSuffixes(o.Body, depth+1)

	case ir.Quant:
		if o.Min == 1 && o.Max == 1 {
			return e.extractSuffixes(o.Child, depth+1)
		}
		return NewSeq()

	default:
		return NewSeq()
	}
}

// ExtractInner extracts inner literals (not necessarily prefix/suffix).
// Useful for patterns like .*foo.* where foo must appear somewhere.
//
// Returns an empty Seq if no inner literals can be extracted.
func (e *Extractor) ExtractInner(op ir.Op) *Seq {
	return e.extractInner(op, 0)
}

func (e *Extractor) extractInner(op ir.Op, depth int) *Seq {
	if depth > maxDepth {
		return NewSeq()
	}

	switch o := op.(type) {
	case ir.Lit:
		lit := e.clampFront(o.Value)
		// Position is unknown, so an inner literal never decides a match
		// on its own.
		lit.Complete = false
		return NewSeq(lit)

	case ir.Seq:
		// Take the first part that yields anything.
		for _, part := range o.Parts {
			if seq := e.extractInner(part, depth+1); !seq.IsEmpty() {
				return seq
			}
		}
		return NewSeq()

	case ir.Alt:
		return e.union(o.Branches, depth, e.extractInner)

	case ir.CharClass:
		return e.expandClass(o)

	case ir.Group:
		return e.extractInner(o.Body, depth+1)

	case ir.Quant:
		if o.Min == 1 && o.Max == 1 {
			return e.extractInner(o.Child, depth+1)
		}
		return NewSeq()

	default:
		return NewSeq()
	}
}

// union collects literals from every branch, stopping at MaxLiterals. A
// branch with no extractable literal poisons the whole set: the union
// would no longer be a necessary condition for a match.
func (e *Extractor) union(branches []ir.Op, depth int, extract func(ir.Op, int) *Seq) *Seq {
	var all []Literal
	for _, branch := range branches {
		seq := extract(branch, depth+1)
		if seq.IsEmpty() {
			return NewSeq()
		}
		for i := 0; i < seq.Len(); i++ {
			all = append(all, seq.Get(i))
			if len(all) >= e.config.MaxLiterals {
				return NewSeq(all...)
			}
		}
	}
	return NewSeq(all...)
}

// expandClass expands a small character class into one literal per rune.
//
// Examples:
//
//	[abc]   → ["a", "b", "c"]
//	[a-c]   → ["a", "b", "c"]
//	[a-z]   → [] (26 runes, over the default limit of 10)
//
// Negated classes and classes holding escapes like \d cover too many
// runes to enumerate and return an empty Seq.
func (e *Extractor) expandClass(class ir.CharClass) *Seq {
	if class.Negated {
		return NewSeq()
	}

	count := 0
	for _, item := range class.Items {
		switch it := item.(type) {
		case ir.ClassLit:
			count++
		case ir.ClassRange:
			count += int(it.Hi-it.Lo) + 1
		case ir.ClassEscape:
			return NewSeq()
		}
		if count > e.config.MaxClassSize {
			return NewSeq()
		}
	}

	var lits []Literal
	add := func(r rune) {
		lits = append(lits, NewLiteral([]byte(string(r)), true))
	}
	for _, item := range class.Items {
		switch it := item.(type) {
		case ir.ClassLit:
			add(it.Ch)
		case ir.ClassRange:
			for r := it.Lo; r <= it.Hi; r++ {
				add(r)
			}
		}
	}
	return NewSeq(lits...)
}

// maxDepth caps recursion on hostile or degenerate patterns.
const maxDepth = 100

// clampFront builds a literal from the leading MaxLiteralLen bytes of s.
// A truncated literal is necessarily incomplete.
func (e *Extractor) clampFront(s string) Literal {
	b := []byte(s)
	if len(b) > e.config.MaxLiteralLen {
		return NewLiteral(b[:e.config.MaxLiteralLen], false)
	}
	return NewLiteral(b, true)
}

// clampBack builds a literal from the trailing MaxLiteralLen bytes of s.
func (e *Extractor) clampBack(s string) Literal {
	b := []byte(s)
	if len(b) > e.config.MaxLiteralLen {
		return NewLiteral(b[len(b)-e.config.MaxLiteralLen:], false)
	}
	return NewLiteral(b, true)
}

// markIncomplete clears the Complete flag on every literal; used when
// more pattern follows or precedes the extracted position.
func markIncomplete(seq *Seq) *Seq {
	if seq.IsEmpty() {
		return seq
	}
	lits := make([]Literal, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		lits[i] = NewLiteral(lit.Bytes, false)
	}
	return NewSeq(lits...)
}

func isStartAnchor(op ir.Op) bool {
	a, ok := op.(ir.Anchor)
	return ok && (a.At == ir.Start || a.At == ir.AbsoluteStart)
}

func isEndAnchor(op ir.Op) bool {
	a, ok := op.(ir.Anchor)
	return ok && (a.At == ir.End || a.At == ir.EndBeforeFinalBreak)
}
