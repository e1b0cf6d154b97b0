// Package manifest loads YAML files describing named pattern sets.
//
// A manifest lets a project keep its DSL patterns in one reviewed file
// and compile them in bulk:
//
//	patterns:
//	  - name: phone
//	    dsl: (\d{3})[-. ]?(\d{3})[-. ]?(\d{4})
//	    dialect: re2
//	  - name: hex-color
//	    dsl: '#[0-9a-fA-F]{6}'
//	    dialect: pcre2
//	    inline_flags: true
package manifest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Supported dialect names. Kept here rather than imported so a manifest
// can be validated without pulling in the emitters.
var dialects = map[string]bool{
	"pcre2": true,
	"re2":   true,
}

// DefaultDialect is assumed when an entry names none.
const DefaultDialect = "pcre2"

var (
	ErrNoPatterns  = errors.New("manifest has no patterns")
	ErrEntryName   = errors.New("pattern entry has no name")
	ErrEntryDSL    = errors.New("pattern entry has no dsl")
	ErrDialectName = errors.New("unknown dialect")
)

// Pattern is one named entry of a manifest.
type Pattern struct {
	// Name identifies the entry in output and errors. Required, unique.
	Name string `yaml:"name"`

	// DSL is the pattern source. Required.
	DSL string `yaml:"dsl"`

	// Dialect selects the output dialect. Defaults to DefaultDialect.
	Dialect string `yaml:"dialect"`

	// InlineFlags asks the emitter to prefix the output with an inline
	// flag construct instead of leaving flags to the caller.
	InlineFlags bool `yaml:"inline_flags"`
}

// File is a parsed manifest.
type File struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Load reads and validates a manifest file. Validation errors name the
// offending entry by index and, when available, name.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates manifest bytes. Split from Load so tests and callers
// with non-file sources can use it directly.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if len(f.Patterns) == 0 {
		return nil, ErrNoPatterns
	}

	seen := make(map[string]bool, len(f.Patterns))
	for i := range f.Patterns {
		p := &f.Patterns[i]
		if p.Name == "" {
			return nil, fmt.Errorf("manifest: entry %d: %w", i, ErrEntryName)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("manifest: entry %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.DSL == "" {
			return nil, fmt.Errorf("manifest: entry %d (%s): %w", i, p.Name, ErrEntryDSL)
		}
		if p.Dialect == "" {
			p.Dialect = DefaultDialect
		}
		if !dialects[p.Dialect] {
			return nil, fmt.Errorf("manifest: entry %d (%s): %w: %q", i, p.Name, ErrDialectName, p.Dialect)
		}
	}
	return &f, nil
}
