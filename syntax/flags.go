package syntax

// Flags holds the pattern modifiers recognized by the %flags directive.
//
// Flags are parsed once, before the pattern body, and are threaded
// unchanged through the pipeline: the compiler ignores them and the
// emitter either returns them alongside the pattern text (default) or
// folds them into an inline prefix when asked to.
//
// Example:
//
//	flags, _, err := syntax.NewParser("%flags i,m\n^item$").Parse()
//	// flags.IgnoreCase == true, flags.Multiline == true
type Flags struct {
	// IgnoreCase makes matching case-insensitive (letter 'i').
	IgnoreCase bool `json:"ignore_case"`

	// Multiline makes ^ and $ match at line boundaries (letter 'm').
	Multiline bool `json:"multiline"`

	// DotAll makes . match newlines too (letter 's').
	DotAll bool `json:"dot_all"`

	// Unicode enables Unicode-aware matching in the target engine
	// (letter 'u'). There is no inline regex form for this flag; it is
	// always applied through the engine's own option mechanism.
	Unicode bool `json:"unicode"`

	// Extended enables free-spacing mode (letter 'x'): outside character
	// classes the parser skips whitespace and treats # as a comment
	// running to end of line.
	Extended bool `json:"extended"`
}

// Letters returns the canonical flag letters for the set flags, in
// "imsux" order. Useful for diagnostics and inline-flag emission.
func (f Flags) Letters() string {
	buf := make([]byte, 0, 5)
	if f.IgnoreCase {
		buf = append(buf, 'i')
	}
	if f.Multiline {
		buf = append(buf, 'm')
	}
	if f.DotAll {
		buf = append(buf, 's')
	}
	if f.Unicode {
		buf = append(buf, 'u')
	}
	if f.Extended {
		buf = append(buf, 'x')
	}
	return string(buf)
}

// IsZero reports whether no flag is set.
func (f Flags) IsZero() bool {
	return f == Flags{}
}
