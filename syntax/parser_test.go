package syntax

import (
	"errors"
	"reflect"
	"testing"
)

// Helper to parse a pattern that must succeed.
func mustParse(t *testing.T, source string) (Flags, Node) {
	t.Helper()
	flags, node, err := NewParser(source).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return flags, node
}

// Helper to parse a pattern that must fail with the given error kind.
func mustFail(t *testing.T, source string, want error) {
	t.Helper()
	flags, node, err := NewParser(source).Parse()
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want error %v", source, want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("Parse(%q) error = %v, want %v", source, err, want)
	}
	if node != nil {
		t.Errorf("Parse(%q) returned a node alongside the error", source)
	}
	if !flags.IsZero() {
		t.Errorf("Parse(%q) returned flags alongside the error", source)
	}
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   Node
	}{
		{"a", Literal{Value: "a"}},
		{"abc", Sequence{Parts: []Node{
			Literal{Value: "a"},
			Literal{Value: "b"},
			Literal{Value: "c"},
		}}},
		{"", Sequence{}},
		{"é", Literal{Value: "é"}},
		{"日", Literal{Value: "日"}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseShorthandClasses(t *testing.T) {
	tests := []struct {
		source string
		want   Node
	}{
		{`\d`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'd'}}}},
		{`\w`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'w'}}}},
		{`\s`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 's'}}}},
		{`\D`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'd', Negated: true}}}},
		{`\W`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'w', Negated: true}}}},
		{`\S`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 's', Negated: true}}}},
		{`\p{L}`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'p', Property: "L"}}}},
		{`\P{L}`, CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'p', Negated: true, Property: "L"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		source string
		want   Node
	}{
		{"a*", Quantifier{Child: Literal{Value: "a"}, Min: 0, Max: Infinity}},
		{"a+", Quantifier{Child: Literal{Value: "a"}, Min: 1, Max: Infinity}},
		{"a?", Quantifier{Child: Literal{Value: "a"}, Min: 0, Max: 1}},
		{"a{3}", Quantifier{Child: Literal{Value: "a"}, Min: 3, Max: 3}},
		{"a{2,}", Quantifier{Child: Literal{Value: "a"}, Min: 2, Max: Infinity}},
		{"a{2,5}", Quantifier{Child: Literal{Value: "a"}, Min: 2, Max: 5}},
		{"a*?", Quantifier{Child: Literal{Value: "a"}, Min: 0, Max: Infinity, Lazy: true}},
		{"a+?", Quantifier{Child: Literal{Value: "a"}, Min: 1, Max: Infinity, Lazy: true}},
		{"a*+", Quantifier{Child: Literal{Value: "a"}, Min: 0, Max: Infinity, Possessive: true}},
		{"a++", Quantifier{Child: Literal{Value: "a"}, Min: 1, Max: Infinity, Possessive: true}},
		{"a{2,5}?", Quantifier{Child: Literal{Value: "a"}, Min: 2, Max: 5, Lazy: true}},
		{"a{2,5}+", Quantifier{Child: Literal{Value: "a"}, Min: 2, Max: 5, Possessive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseBraceLiteral(t *testing.T) {
	// A '{' that does not form a quantifier stays a literal.
	tests := []struct {
		source string
		want   Node
	}{
		{"a{", Sequence{Parts: []Node{Literal{Value: "a"}, Literal{Value: "{"}}}},
		{"a{x}", Sequence{Parts: []Node{
			Literal{Value: "a"},
			Literal{Value: "{"},
			Literal{Value: "x"},
			Literal{Value: "}"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseCharClass(t *testing.T) {
	tests := []struct {
		source string
		want   Node
	}{
		{"[abc]", CharacterClass{Items: []ClassItem{
			ClassLiteral{Ch: 'a'}, ClassLiteral{Ch: 'b'}, ClassLiteral{Ch: 'c'},
		}}},
		{"[a-z]", CharacterClass{Items: []ClassItem{ClassRange{Lo: 'a', Hi: 'z'}}}},
		{"[^0-9]", CharacterClass{Negated: true, Items: []ClassItem{ClassRange{Lo: '0', Hi: '9'}}}},
		{"[-a]", CharacterClass{Items: []ClassItem{
			ClassLiteral{Ch: '-'}, ClassLiteral{Ch: 'a'},
		}}},
		{"[a-]", CharacterClass{Items: []ClassItem{
			ClassLiteral{Ch: 'a'}, ClassLiteral{Ch: '-'},
		}}},
		{`[\d\s]`, CharacterClass{Items: []ClassItem{
			ClassEscape{Kind: 'd'}, ClassEscape{Kind: 's'},
		}}},
		{`[\]]`, CharacterClass{Items: []ClassItem{ClassLiteral{Ch: ']'}}}},
		{`[\b]`, CharacterClass{Items: []ClassItem{ClassLiteral{Ch: '\x08'}}}},
		{`[a-zA-Z0-9._%+-]`, CharacterClass{Items: []ClassItem{
			ClassRange{Lo: 'a', Hi: 'z'},
			ClassRange{Lo: 'A', Hi: 'Z'},
			ClassRange{Lo: '0', Hi: '9'},
			ClassLiteral{Ch: '.'},
			ClassLiteral{Ch: '_'},
			ClassLiteral{Ch: '%'},
			ClassLiteral{Ch: '+'},
			ClassLiteral{Ch: '-'},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		source string
		want   Node
	}{
		{"(a)", Group{Capturing: true, Body: Literal{Value: "a"}}},
		{"(?:a)", Group{Body: Literal{Value: "a"}}},
		{"(?<year>a)", Group{Capturing: true, Name: "year", Body: Literal{Value: "a"}}},
		{"(?>a)", Group{Atomic: true, Body: Literal{Value: "a"}}},
		{"(?=a)", Lookaround{Ahead: true, Body: Literal{Value: "a"}}},
		{"(?!a)", Lookaround{Ahead: true, Negative: true, Body: Literal{Value: "a"}}},
		{"(?<=a)", Lookaround{Body: Literal{Value: "a"}}},
		{"(?<!a)", Lookaround{Negative: true, Body: Literal{Value: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			if !reflect.DeepEqual(node, tt.want) {
				t.Errorf("got %#v, want %#v", node, tt.want)
			}
		})
	}
}

func TestParseAlternation(t *testing.T) {
	_, node := mustParse(t, "cat|dog|fish")
	want := Alternation{Branches: []Node{
		Sequence{Parts: []Node{Literal{Value: "c"}, Literal{Value: "a"}, Literal{Value: "t"}}},
		Sequence{Parts: []Node{Literal{Value: "d"}, Literal{Value: "o"}, Literal{Value: "g"}}},
		Sequence{Parts: []Node{Literal{Value: "f"}, Literal{Value: "i"}, Literal{Value: "s"}, Literal{Value: "h"}}},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}
}

func TestParseAnchors(t *testing.T) {
	tests := []struct {
		source string
		want   AnchorKind
	}{
		{"^", AnchorStart},
		{"$", AnchorEnd},
		{`\b`, AnchorWordBoundary},
		{`\B`, AnchorNotWordBoundary},
		{`\A`, AnchorAbsoluteStart},
		{`\Z`, AnchorEndBeforeFinalBreak},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			anchor, ok := node.(Anchor)
			if !ok {
				t.Fatalf("got %T, want Anchor", node)
			}
			if anchor.At != tt.want {
				t.Errorf("got %q, want %q", anchor.At, tt.want)
			}
		})
	}
}

func TestParseBackreferences(t *testing.T) {
	_, node := mustParse(t, `(a)\1`)
	want := Sequence{Parts: []Node{
		Group{Capturing: true, Body: Literal{Value: "a"}},
		Backreference{Index: 1},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}

	_, node = mustParse(t, `(?<tag>a)\k<tag>`)
	want = Sequence{Parts: []Node{
		Group{Capturing: true, Name: "tag", Body: Literal{Value: "a"}},
		Backreference{Name: "tag"},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}
}

func TestParseControlEscapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`\n`, "\n"},
		{`\r`, "\r"},
		{`\t`, "\t"},
		{`\f`, "\f"},
		{`\v`, "\v"},
		{`\0`, "\x00"},
		{`\x41`, "A"},
		{`\x{1F600}`, "\U0001F600"},
		{`A`, "A"},
		{`\u{48}`, "H"},
		{`\.`, "."},
		{`\\`, `\`},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, node := mustParse(t, tt.source)
			lit, ok := node.(Literal)
			if !ok {
				t.Fatalf("got %T, want Literal", node)
			}
			if lit.Value != tt.want {
				t.Errorf("got %q, want %q", lit.Value, tt.want)
			}
		})
	}
}

func TestParseFlagsDirective(t *testing.T) {
	tests := []struct {
		source string
		want   Flags
	}{
		{"%flags i\na", Flags{IgnoreCase: true}},
		{"%flags i,m\na", Flags{IgnoreCase: true, Multiline: true}},
		{"%flags I M\na", Flags{IgnoreCase: true, Multiline: true}},
		{"%flags imsux\na", Flags{IgnoreCase: true, Multiline: true, DotAll: true, Unicode: true, Extended: true}},
		{"a", Flags{}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			flags, _ := mustParse(t, tt.source)
			if flags != tt.want {
				t.Errorf("got %+v, want %+v", flags, tt.want)
			}
		})
	}
}

func TestParseExtendedMode(t *testing.T) {
	source := "%flags x\na b  # trailing comment\nc"
	_, node := mustParse(t, source)
	want := Sequence{Parts: []Node{
		Literal{Value: "a"},
		Literal{Value: "b"},
		Literal{Value: "c"},
	}}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}

	// Whitespace inside a class stays significant.
	_, node = mustParse(t, "%flags x\n[a b]")
	wantClass := CharacterClass{Items: []ClassItem{
		ClassLiteral{Ch: 'a'}, ClassLiteral{Ch: ' '}, ClassLiteral{Ch: 'b'},
	}}
	if !reflect.DeepEqual(node, wantClass) {
		t.Errorf("got %#v, want %#v", node, wantClass)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		want   error
	}{
		{"%flags q\na", ErrUnknownFlag},
		{"(abc", ErrUnterminatedGroup},
		{"(?:abc", ErrUnterminatedGroup},
		{"(?<name>abc", ErrUnterminatedGroup},
		{"[abc", ErrUnterminatedClass},
		{"(?=abc", ErrUnterminatedLook},
		{"(?<name abc)", ErrUnterminatedName},
		{"(?<a>x)(?<a>y)", ErrDuplicateName},
		{"[z-a]", ErrInvalidRange},
		{`[a-\d]`, ErrInvalidRange},
		{"a{5,3}", ErrQuantifierBounds},
		{"a{2,", ErrBadQuantifier},
		{"a{2", ErrBadQuantifier},
		{"a{65536}", ErrBadQuantifier},
		{"a{99999999999999999999}", ErrBadQuantifier},
		{"a{1,99999999999999999999}", ErrBadQuantifier},
		{"*a", ErrNothingToRepeat},
		{"+a", ErrNothingToRepeat},
		{"?a", ErrNothingToRepeat},
		{"{3}a", ErrNothingToRepeat},
		{"a**?", ErrNothingToRepeat},
		{"^*", ErrQuantifiedAnchor},
		{`\b+`, ErrQuantifiedAnchor},
		{`\2`, ErrDanglingBackreference},
		{`(a)\2`, ErrDanglingBackreference},
		{`\k<missing>`, ErrDanglingBackreference},
		{"a|", ErrEmptyBranch},
		{"|a", ErrEmptyBranch},
		{"a||b", ErrEmptyBranch},
		{"(a|)", ErrEmptyBranch},
		{"abc)", ErrUnmatchedParen},
		{")", ErrUnmatchedParen},
		{`\`, ErrBadEscape},
		{`\x1`, ErrBadEscape},
		{`\x{}`, ErrBadEscape},
		{`\x{110000}`, ErrBadEscape},
		{`\u12`, ErrBadEscape},
		{`\p`, ErrBadEscape},
		{`\p{L`, ErrBadEscape},
		{`\kname`, ErrBadEscape},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			mustFail(t, tt.source, tt.want)
		})
	}
}

func TestQuantifierCeiling(t *testing.T) {
	_, node := mustParse(t, "a{65535}")
	want := Quantifier{Child: Literal{Value: "a"}, Min: 65535, Max: 65535}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}
}

func TestParseErrorPosition(t *testing.T) {
	tests := []struct {
		source string
		pos    int
	}{
		{"ab[cd", 2},
		// Offsets count from the start of the source, directive line
		// included.
		{"%flags i\nab[cd", 11},
		{"%flags iq\na", 8},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, _, err := NewParser(tt.source).Parse()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error is %T, want *ParseError", err)
			}
			if perr.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", perr.Pos, tt.pos)
			}
		})
	}
}

func TestParserSingleUse(t *testing.T) {
	p := NewParser("a|b")
	if _, _, err := p.Parse(); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
}

func TestParseNestedGroups(t *testing.T) {
	_, node := mustParse(t, "((a|b)c)")
	want := Group{Capturing: true, Body: Sequence{Parts: []Node{
		Group{Capturing: true, Body: Alternation{Branches: []Node{
			Literal{Value: "a"},
			Literal{Value: "b"},
		}}},
		Literal{Value: "c"},
	}}}
	if !reflect.DeepEqual(node, want) {
		t.Errorf("got %#v, want %#v", node, want)
	}
}
