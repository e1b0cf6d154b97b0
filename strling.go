// Package strling compiles a small pattern-description DSL into regex
// pattern text for concrete dialects.
//
// The pipeline is strictly linear: the syntax package parses DSL text
// into an AST plus flags, the ir package lowers and validates the AST
// into a dialect-neutral form, and the emit package renders that form
// as pattern text for one dialect. This package ties the stages
// together behind a regexp-shaped API.
//
// Example:
//
//	p, err := strling.Compile(`(\d{3})[-. ]?(\d{4})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re := regexp.MustCompile(p.RE2())
//	re.MatchString("555-0199") // true
package strling

import (
	"errors"
	"fmt"

	"github.com/coregx/strling/emit"
	"github.com/coregx/strling/ir"
	"github.com/coregx/strling/literal"
	"github.com/coregx/strling/prefilter"
	"github.com/coregx/strling/syntax"
)

// ErrUnknownDialect is returned when a dialect name has no emitter.
var ErrUnknownDialect = errors.New("unknown dialect")

// Pattern is a compiled DSL pattern, ready for emission to any dialect.
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	source string
	flags  syntax.Flags
	root   ir.Op
	meta   *ir.Metadata
}

// Compile parses and compiles a DSL pattern.
//
// Example:
//
//	p, err := strling.Compile(`%flags i
//	hello`)
//	p.Flags().IgnoreCase // true
func Compile(source string) (*Pattern, error) {
	flags, ast, err := syntax.NewParser(source).Parse()
	if err != nil {
		return nil, err
	}
	root, meta, err := ir.NewCompiler().CompileWithMetadata(ast)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		source: source,
		flags:  flags,
		root:   root,
		meta:   meta,
	}, nil
}

// MustCompile compiles a DSL pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var phone = strling.MustCompile(`(\d{3})[-. ]?(\d{3})[-. ]?(\d{4})`)
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic("strling: Compile(`" + source + "`): " + err.Error())
	}
	return p
}

// Translate compiles source and emits it for the named dialect in one
// step. Recognized dialects are "pcre2" and "re2".
//
// Example:
//
//	out, err := strling.Translate(`\d+`, "re2")
//	// out = `\d+`
func Translate(source, dialect string) (string, error) {
	p, err := Compile(source)
	if err != nil {
		return "", err
	}
	return p.Dialect(dialect)
}

// MustTranslate is like Translate but panics on error.
func MustTranslate(source, dialect string) string {
	out, err := Translate(source, dialect)
	if err != nil {
		panic("strling: Translate(`" + source + "`, " + dialect + "): " + err.Error())
	}
	return out
}

// NewEmitter returns the emitter registered under the dialect name.
func NewEmitter(dialect string, opts ...emit.Options) (emit.Emitter, error) {
	switch dialect {
	case "pcre2":
		return emit.NewPCRE2(opts...), nil
	case "re2":
		return emit.NewRE2(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
}

// Emit renders the pattern with the given emitter.
func (p *Pattern) Emit(e emit.Emitter) string {
	return e.Emit(p.root, p.flags)
}

// PCRE2 renders the pattern as PCRE2 pattern text.
func (p *Pattern) PCRE2() string {
	return p.Emit(emit.NewPCRE2())
}

// RE2 renders the pattern as RE2 pattern text, suitable for the
// standard library regexp package. Constructs RE2 cannot execute
// (lookaround, backreferences, possessive quantifiers) still render;
// check Features before handing the output to such an engine.
func (p *Pattern) RE2() string {
	return p.Emit(emit.NewRE2())
}

// Dialect renders the pattern for the named dialect.
func (p *Pattern) Dialect(name string) (string, error) {
	e, err := NewEmitter(name)
	if err != nil {
		return "", err
	}
	return p.Emit(e), nil
}

// Flags returns the flags the pattern declared.
func (p *Pattern) Flags() syntax.Flags { return p.flags }

// Op returns the compiled dialect-neutral form of the pattern.
func (p *Pattern) Op() ir.Op { return p.root }

// Metadata returns the compile metadata collected for the pattern.
func (p *Pattern) Metadata() *ir.Metadata { return p.meta }

// Features returns the feature tags the pattern uses, in first-use
// order. See the ir package for the tag vocabulary.
func (p *Pattern) Features() []string { return p.meta.Features() }

// String returns the DSL source the pattern was compiled from.
func (p *Pattern) String() string { return p.source }

// Prefixes returns literals every match must start with, extracted
// with default limits. The result may be empty. Ignore-case patterns
// yield no literals: a byte-exact scan over one casing would skip
// subjects the pattern matches.
func (p *Pattern) Prefixes() *literal.Seq {
	if p.flags.IgnoreCase {
		return literal.NewSeq()
	}
	return literal.New(literal.DefaultConfig()).ExtractPrefixes(p.root)
}

// Prefilter builds a candidate filter from the pattern's prefix
// literals, or nil when none can be built.
//
// Example:
//
//	p := strling.MustCompile("hello|world")
//	pf := p.Prefilter()
//	pf.Find([]byte("say hello"), 0) // 4
func (p *Pattern) Prefilter() prefilter.Prefilter {
	return prefilter.NewBuilder(p.Prefixes(), nil).Build()
}

// Analysis bundles everything the pipeline can say about a pattern
// without executing it.
type Analysis struct {
	Flags    syntax.Flags
	Op       ir.Op
	Metadata *ir.Metadata
	Prefixes *literal.Seq
	Suffixes *literal.Seq
	Inner    *literal.Seq
}

// Analyze compiles source and extracts its literal sequences.
func Analyze(source string) (*Analysis, error) {
	p, err := Compile(source)
	if err != nil {
		return nil, err
	}
	a := &Analysis{
		Flags:    p.flags,
		Op:       p.root,
		Metadata: p.meta,
	}
	// Same rule as Pattern.Prefixes: ignore-case literals would be
	// unsound to scan for.
	if p.flags.IgnoreCase {
		a.Prefixes = literal.NewSeq()
		a.Suffixes = literal.NewSeq()
		a.Inner = literal.NewSeq()
		return a, nil
	}
	ex := literal.New(literal.DefaultConfig())
	a.Prefixes = ex.ExtractPrefixes(p.root)
	a.Suffixes = ex.ExtractSuffixes(p.root)
	a.Inner = ex.ExtractInner(p.root)
	return a, nil
}

// QuoteMeta returns a string with every DSL metacharacter in text
// escaped; the result is a pattern matching the literal text.
//
// Example:
//
//	strling.QuoteMeta("hello.world") // `hello\.world`
func QuoteMeta(text string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			n++
		}
	}
	if n == 0 {
		return text
	}

	buf := make([]byte, len(text)+n)
	j := 0
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = text[i]
		j++
	}
	return string(buf)
}

func isSpecial(b byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if special[i] == b {
			return true
		}
	}
	return false
}
