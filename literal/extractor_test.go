package literal

import (
	"testing"

	"github.com/coregx/strling/ir"
	"github.com/coregx/strling/syntax"
)

// Helper compiling a pattern to IR.
func compileIR(t *testing.T, source string) ir.Op {
	t.Helper()
	_, ast, err := syntax.NewParser(source).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	op, err := ir.NewCompiler().Compile(ast)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", source, err)
	}
	return op
}

// Helper to check a sequence against expected literal strings.
func checkLiterals(t *testing.T, seq *Seq, expected []string) {
	t.Helper()
	if seq.Len() != len(expected) {
		t.Errorf("expected %d literals, got %d", len(expected), seq.Len())
		for i := 0; i < seq.Len(); i++ {
			t.Logf("  got: %q", string(seq.Get(i).Bytes))
		}
		return
	}
	for i, exp := range expected {
		if got := string(seq.Get(i).Bytes); got != exp {
			t.Errorf("literal %d: expected %q, got %q", i, exp, got)
		}
	}
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern  string
		expected []string
	}{
		{"hello", []string{"hello"}},
		{"hello.*world", []string{"hello"}},
		{"foo|bar", []string{"foo", "bar"}},
		{"(get|put|post)x", []string{"get", "put", "post"}},
		{"[abc]def", []string{"a", "b", "c"}},
		{"^hello", []string{"hello"}},
		{`\Ahello`, []string{"hello"}},
		{".*foo", nil},
		{"a*bc", nil},
		{`\d+`, nil},
		{"[a-z]x", nil}, // 26 runes, over the expansion limit
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := ex.ExtractPrefixes(compileIR(t, tt.pattern))
			checkLiterals(t, seq, tt.expected)
		})
	}
}

func TestExtractPrefixesCompleteness(t *testing.T) {
	ex := New(DefaultConfig())

	seq := ex.ExtractPrefixes(compileIR(t, "hello"))
	if !seq.Get(0).Complete {
		t.Error("an exact literal pattern should be complete")
	}

	seq = ex.ExtractPrefixes(compileIR(t, "hello.*"))
	if seq.Get(0).Complete {
		t.Error("a prefix of a longer pattern should not be complete")
	}
}

func TestExtractPrefixesPoisonedAlternation(t *testing.T) {
	// One branch with no extractable literal invalidates the union.
	ex := New(DefaultConfig())
	seq := ex.ExtractPrefixes(compileIR(t, `foo|\d+`))
	if !seq.IsEmpty() {
		t.Errorf("expected empty, got %d literals", seq.Len())
	}
}

func TestExtractSuffixes(t *testing.T) {
	tests := []struct {
		pattern  string
		expected []string
	}{
		{"world", []string{"world"}},
		{"hello.*world", []string{"world"}},
		{"foo|bar", []string{"foo", "bar"}},
		{"hello$", []string{"hello"}},
		{`hello\Z`, []string{"hello"}},
		{"foo.*", nil},
		{"ab*", nil},
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := ex.ExtractSuffixes(compileIR(t, tt.pattern))
			checkLiterals(t, seq, tt.expected)
		})
	}
}

func TestExtractInner(t *testing.T) {
	tests := []struct {
		pattern  string
		expected []string
	}{
		{".*foo.*", []string{"foo"}},
		{".*(hello|world).*", []string{"hello", "world"}},
		{"a*needle[xyz]*", []string{"needle"}},
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := ex.ExtractInner(compileIR(t, tt.pattern))
			checkLiterals(t, seq, tt.expected)
		})
	}
}

func TestExtractInnerNeverComplete(t *testing.T) {
	ex := New(DefaultConfig())
	seq := ex.ExtractInner(compileIR(t, ".*foo.*"))
	if seq.Get(0).Complete {
		t.Error("inner literals must not be complete")
	}
}

func TestExtractLimits(t *testing.T) {
	config := ExtractorConfig{MaxLiterals: 2, MaxLiteralLen: 4, MaxClassSize: 3}
	ex := New(config)

	// Literal truncation marks the literal incomplete.
	seq := ex.ExtractPrefixes(compileIR(t, "abcdefgh"))
	if seq.Len() != 1 {
		t.Fatalf("expected 1 literal, got %d", seq.Len())
	}
	if got := string(seq.Get(0).Bytes); got != "abcd" {
		t.Errorf("truncated literal = %q, want abcd", got)
	}
	if seq.Get(0).Complete {
		t.Error("truncated literal should not be complete")
	}

	// Alternation capped at MaxLiterals.
	seq = ex.ExtractPrefixes(compileIR(t, "aa|bb|cc|dd"))
	if seq.Len() != 2 {
		t.Errorf("expected 2 literals, got %d", seq.Len())
	}

	// Class over MaxClassSize is not expanded.
	seq = ex.ExtractPrefixes(compileIR(t, "[abcd]x"))
	if !seq.IsEmpty() {
		t.Errorf("expected empty, got %d literals", seq.Len())
	}
}

func TestExtractSuffixTruncationKeepsTail(t *testing.T) {
	config := DefaultConfig()
	config.MaxLiteralLen = 3
	ex := New(config)

	seq := ex.ExtractSuffixes(compileIR(t, "abcdef"))
	if got := string(seq.Get(0).Bytes); got != "def" {
		t.Errorf("suffix = %q, want def", got)
	}
}
