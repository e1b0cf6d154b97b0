package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sample = `
patterns:
  - name: phone
    dsl: (\d{3})[-. ]?(\d{3})[-. ]?(\d{4})
    dialect: re2
  - name: hex-color
    dsl: '#[0-9a-fA-F]{6}'
    inline_flags: true
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(f.Patterns))
	}

	p := f.Patterns[0]
	if p.Name != "phone" || p.Dialect != "re2" || p.InlineFlags {
		t.Errorf("entry 0 = %+v", p)
	}

	p = f.Patterns[1]
	if p.Dialect != DefaultDialect {
		t.Errorf("entry 1 dialect = %q, want default %q", p.Dialect, DefaultDialect)
	}
	if !p.InlineFlags {
		t.Error("entry 1 should have inline_flags set")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "patterns: []", ErrNoPatterns},
		{"no name", "patterns: [{dsl: abc}]", ErrEntryName},
		{"no dsl", "patterns: [{name: x}]", ErrEntryDSL},
		{"bad dialect", "patterns: [{name: x, dsl: a, dialect: posix}]", ErrDialectName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseDuplicateName(t *testing.T) {
	_, err := Parse([]byte("patterns: [{name: x, dsl: a}, {name: x, dsl: b}]"))
	if err == nil {
		t.Fatal("duplicate names should fail")
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("patterns: [\n"))
	if err == nil {
		t.Fatal("malformed YAML should fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(f.Patterns) != 2 {
		t.Errorf("got %d patterns, want 2", len(f.Patterns))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
