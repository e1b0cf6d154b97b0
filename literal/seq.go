package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence a match must contain. Complete reports
// whether the literal covers a whole match on its own; incomplete
// literals are fragments (a clamped prefix, a truncated alternation)
// and any candidate they locate still needs engine verification.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal from b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the literal's length in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// Seq is a set of alternative literals, such as the branches of
// foo|bar. A match contains at least one of them. A nil *Seq behaves
// like an empty one.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i. Panics when out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Clone returns a deep copy; mutating the copy or its literal bytes
// leaves the receiver untouched.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		b := make([]byte, len(lit.Bytes))
		copy(b, lit.Bytes)
		cloned[i] = Literal{Bytes: b, Complete: lit.Complete}
	}
	return &Seq{literals: cloned}
}

// Minimize drops literals another literal makes redundant for
// candidate search: when a shorter literal is a prefix of a longer
// one, every position the longer would find the shorter finds first.
// The sequence is left sorted by length, shortest first.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.Slice(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := s.literals[:0]
	for _, lit := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(lit.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest byte prefix shared by every
// literal in the sequence. Empty when the sequence is empty or the
// literals share nothing.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return nil
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		prefix = prefix[:sharedPrefixLen(prefix, lit.Bytes)]
		if len(prefix) == 0 {
			return nil
		}
	}
	out := make([]byte, len(prefix))
	copy(out, prefix)
	return out
}

// LongestCommonSuffix is the mirror of LongestCommonPrefix.
func (s *Seq) LongestCommonSuffix() []byte {
	if s.IsEmpty() {
		return nil
	}
	suffix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		suffix = suffix[len(suffix)-sharedSuffixLen(suffix, lit.Bytes):]
		if len(suffix) == 0 {
			return nil
		}
	}
	out := make([]byte, len(suffix))
	copy(out, suffix)
	return out
}

func sharedPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func sharedSuffixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return i
		}
	}
	return n
}
