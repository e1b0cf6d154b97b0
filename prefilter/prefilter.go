// Package prefilter provides fast candidate filtering built from literal
// sequences extracted from compiled patterns.
//
// A prefilter quickly rejects positions in a haystack that cannot possibly
// start a match, so callers handing a translated pattern to a regex engine
// can skip scanning regions that lack the pattern's required literals.
//
// The package selects a strategy from the literals it is given:
//   - Single byte → byte scan
//   - Single substring → substring scan
//   - Multiple literals → Aho-Corasick automaton
//   - Oversized sets → substring scan for the bytes all literals share
//
// Example usage:
//
//	_, ast, _ := syntax.NewParser("hello|world").Parse()
//	op, _ := ir.NewCompiler().Compile(ast)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(op)
//
//	pf := prefilter.NewBuilder(prefixes, nil).Build()
//	pos := pf.Find([]byte("foo hello bar"), 0)
//	// pos == 4
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/strling/literal"
)

// Prefilter finds candidate match positions.
//
// A candidate is a position where one of the prefilter literals occurs.
// Unless IsComplete reports true, a candidate still needs verification by
// a full regex engine.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start,
	// or -1 if there is none. start must satisfy 0 <= start <= len(haystack).
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is a guaranteed match, which
	// holds when every literal the prefilter carries covers a whole match.
	IsComplete() bool

	// LiteralLen returns the matched literal's length when IsComplete
	// reports true and all literals share one length, and 0 otherwise.
	// It lets a caller compute match bounds as [pos, pos+LiteralLen).
	LiteralLen() int
}

// Builder constructs the best prefilter for extracted literal sequences.
//
// Prefixes are preferred over suffixes: forward search composes with how
// engines resume scanning after a failed candidate. Suffixes are used only
// when no prefixes were extracted. Either sequence may be nil.
type Builder struct {
	prefixes *literal.Seq
	suffixes *literal.Seq
}

// NewBuilder creates a Builder from extracted literal sequences.
func NewBuilder(prefixes, suffixes *literal.Seq) *Builder {
	return &Builder{
		prefixes: prefixes,
		suffixes: suffixes,
	}
}

const (
	// maxAutomatonLiterals caps Aho-Corasick construction. Above it
	// the builder degrades to scanning for the bytes every literal
	// shares instead of matching the whole set.
	maxAutomatonLiterals = 32

	// minCommonLen is the shortest shared prefix or suffix still worth
	// scanning for; a single shared byte fires on too much haystack.
	minCommonLen = 2
)

// Build constructs a prefilter, or returns nil when the literals cannot
// support one (no literals, or the automaton failed to build).
//
// Example:
//
//	pf := prefilter.NewBuilder(prefixes, nil).Build()
//	if pf == nil {
//	    // no prefilter available, scan everything
//	}
func (b *Builder) Build() Prefilter {
	seq, fromSuffixes := b.prefixes, false
	if seq.IsEmpty() {
		seq, fromSuffixes = b.suffixes, true
	}
	if seq.IsEmpty() {
		return nil
	}

	if !fromSuffixes {
		// "foo" subsumes "foobar" for candidate starts; dropping the
		// longer literal shrinks the automaton without losing
		// positions. Subsumption is a prefix relation, so this only
		// applies to prefix literals.
		seq = seq.Clone()
		seq.Minimize()
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return &bytePrefilter{needle: lit.Bytes[0], complete: lit.Complete}
		}
		return newSubstringPrefilter(lit)
	}
	if seq.Len() > maxAutomatonLiterals {
		return newCommonPrefilter(seq, fromSuffixes)
	}
	return newMultiPrefilter(seq)
}

// newCommonPrefilter degrades an oversized literal set to a substring
// scan for the bytes all of its literals share, or nil when they share
// too little.
func newCommonPrefilter(seq *literal.Seq, fromSuffixes bool) Prefilter {
	common := seq.LongestCommonPrefix()
	if fromSuffixes {
		common = seq.LongestCommonSuffix()
	}
	if len(common) < minCommonLen {
		return nil
	}
	// The shared run is a fragment of every literal, never a whole
	// match, so candidates always need verification.
	return &substringPrefilter{needle: common, complete: false}
}

// Build is shorthand for NewBuilder(seq, nil).Build().
func Build(seq *literal.Seq) Prefilter {
	return NewBuilder(seq, nil).Build()
}

// bytePrefilter scans for a single byte. Fastest strategy; covers
// patterns whose extraction reduced to one single-byte literal.
type bytePrefilter struct {
	needle   byte
	complete bool
}

func (p *bytePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *bytePrefilter) IsComplete() bool { return p.complete }

func (p *bytePrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// substringPrefilter scans for a single multi-byte literal.
type substringPrefilter struct {
	needle   []byte
	complete bool
}

func newSubstringPrefilter(lit literal.Literal) Prefilter {
	needle := make([]byte, len(lit.Bytes))
	copy(needle, lit.Bytes)
	return &substringPrefilter{needle: needle, complete: lit.Complete}
}

func (p *substringPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *substringPrefilter) IsComplete() bool { return p.complete }

func (p *substringPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// multiPrefilter scans for any of several literals with an Aho-Corasick
// automaton, covering alternations like foo|bar|baz.
type multiPrefilter struct {
	auto       *ahocorasick.Automaton
	complete   bool
	uniformLen int
}

// newMultiPrefilter builds the automaton. Returns nil on build failure so
// the caller degrades to no prefilter rather than a broken one.
func newMultiPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	complete := true
	uniform := seq.Get(0).Len()
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		if !lit.Complete {
			complete = false
		}
		if lit.Len() != uniform {
			uniform = 0
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &multiPrefilter{
		auto:       auto,
		complete:   complete,
		uniformLen: uniform,
	}
}

func (p *multiPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	match := p.auto.Find(haystack, start)
	if match == nil {
		return -1
	}
	return match.Start
}

func (p *multiPrefilter) IsComplete() bool { return p.complete }

func (p *multiPrefilter) LiteralLen() int {
	if p.complete {
		return p.uniformLen
	}
	return 0
}
