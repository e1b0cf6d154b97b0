package syntax

import (
	"strings"
	"unicode/utf8"
)

// Parser is a recursive-descent parser for the pattern DSL.
//
// A Parser is single-use: construct one per source text, call Parse
// once, and discard it. All state (cursor position, capture census,
// first error) is scoped to that one call chain, so independent
// patterns can be parsed concurrently with independent parsers.
//
// Example:
//
//	p := syntax.NewParser(`(?<area>\d{3})-\d{4}`)
//	flags, ast, err := p.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = flags
//	_ = ast
type Parser struct {
	src     string // pattern body, after the flags directive
	pos     int    // byte offset into src
	base    int    // bytes stripped before src, so errors report source offsets
	flags   Flags
	inClass int // >0 while inside [...], disables extended-mode skipping
	err     *ParseError

	capCount int
	capNames []string
}

// NewParser creates a parser for the given DSL source. The optional
// leading "%flags <letters>" directive is recognized here; directive
// errors surface on the subsequent Parse call.
func NewParser(source string) *Parser {
	p := &Parser{}
	p.parseDirective(source)
	return p
}

// Parse consumes the whole source and returns the flag set and the AST
// root as an atomic pair. On error the returned Flags are zero and the
// Node is nil — a partial AST is never returned.
func (p *Parser) Parse() (Flags, Node, error) {
	if p.err != nil {
		return Flags{}, nil, p.err
	}

	node := p.parseAlt()
	if p.err == nil {
		p.skipSpaceAndComments()
		if !p.eof() {
			// parseAlt stops only at '|' (consumed) or ')'.
			p.setErr(ErrUnmatchedParen, p.pos, "")
		}
	}
	if p.err != nil {
		return Flags{}, nil, p.err
	}
	return p.flags, node, nil
}

// parseDirective strips a leading %flags line and records the flags.
func (p *Parser) parseDirective(source string) {
	if !strings.HasPrefix(source, "%flags") {
		p.src = source
		return
	}

	rest := source[len("%flags"):]
	line := rest
	body := ""
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		line = rest[:i]
		body = rest[i+1:]
	}

	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case ' ', '\t', '\r', ',', '[', ']':
			// separators
		case 'i', 'I':
			p.flags.IgnoreCase = true
		case 'm', 'M':
			p.flags.Multiline = true
		case 's', 'S':
			p.flags.DotAll = true
		case 'u', 'U':
			p.flags.Unicode = true
		case 'x', 'X':
			p.flags.Extended = true
		default:
			p.setErr(ErrUnknownFlag, len("%flags")+i, string(c))
			return
		}
	}

	p.src = body
	p.base = len(source) - len(body)
}

// Cursor primitives. peek and take work on bytes; every metacharacter
// in the grammar is ASCII. takeRune is used wherever a literal
// character is consumed, so multi-byte input stays intact.

func (p *Parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) peek(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *Parser) take() byte {
	if p.eof() {
		return 0
	}
	c := p.src[p.pos]
	p.pos++
	return c
}

func (p *Parser) takeRune() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

// match consumes s if the input starts with it at the cursor.
func (p *Parser) match(s string) bool {
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

// skipSpaceAndComments implements extended mode: outside classes,
// whitespace is insignificant and # comments run to end of line.
func (p *Parser) skipSpaceAndComments() {
	if !p.flags.Extended || p.inClass > 0 {
		return
	}
	for !p.eof() {
		switch p.peek(0) {
		case ' ', '\t', '\r', '\n':
			p.pos++
		case '#':
			for !p.eof() && p.peek(0) != '\r' && p.peek(0) != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

// setErr records the first error; later errors are dropped. pos is an
// offset into src; base shifts it back to an offset into the original
// source so positions stay meaningful under a %flags directive.
func (p *Parser) setErr(kind error, pos int, detail string) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Err: kind, Pos: p.base + pos, Detail: detail}
}

func (p *Parser) hasCapName(name string) bool {
	for _, n := range p.capNames {
		if n == name {
			return true
		}
	}
	return false
}

// parseAlt parses alternation, the lowest-precedence production.
// A single branch is returned bare, without an Alternation wrapper.
func (p *Parser) parseAlt() Node {
	if p.err != nil {
		return nil
	}

	p.skipSpaceAndComments()
	if p.peek(0) == '|' {
		p.setErr(ErrEmptyBranch, p.pos, "missing left-hand side")
		return nil
	}

	first := p.parseSeq()
	if p.err != nil {
		return nil
	}

	p.skipSpaceAndComments()
	if p.peek(0) != '|' {
		return first
	}

	branches := []Node{first}
	for p.peek(0) == '|' {
		p.take()
		p.skipSpaceAndComments()
		if p.eof() || p.peek(0) == '|' || p.peek(0) == ')' {
			p.setErr(ErrEmptyBranch, p.pos, "missing right-hand side")
			return nil
		}
		branch := p.parseSeq()
		if p.err != nil {
			return nil
		}
		branches = append(branches, branch)
		p.skipSpaceAndComments()
	}

	return Alternation{Branches: branches}
}

// parseSeq parses a run of quantified atoms. An empty run yields an
// empty Sequence (the empty match); a single atom is returned bare.
func (p *Parser) parseSeq() Node {
	var parts []Node

	for p.err == nil {
		p.skipSpaceAndComments()
		ch := p.peek(0)

		if ch == '{' && len(parts) == 0 {
			// A brace quantifier cannot open a sequence. A '{' that does
			// not form a quantifier is a literal, but only after an atom.
			if _, _, ok := p.peekBraceBounds(); ok {
				p.setErr(ErrNothingToRepeat, p.pos, "")
				return nil
			}
		}
		if ch == 0 || ch == '|' || ch == ')' {
			break
		}

		atom := p.parseAtom()
		if p.err != nil {
			return nil
		}
		if atom == nil {
			break
		}

		atom = p.parseQuantIfAny(atom)
		if p.err != nil {
			return nil
		}
		parts = append(parts, atom)
	}
	if p.err != nil {
		return nil
	}

	switch len(parts) {
	case 0:
		return Sequence{}
	case 1:
		return parts[0]
	default:
		return Sequence{Parts: parts}
	}
}

// parseAtom parses a single highest-precedence unit.
func (p *Parser) parseAtom() Node {
	if p.err != nil {
		return nil
	}

	p.skipSpaceAndComments()
	switch p.peek(0) {
	case 0:
		return nil
	case '.':
		p.take()
		return Dot{}
	case '^':
		p.take()
		return Anchor{At: AnchorStart}
	case '$':
		p.take()
		return Anchor{At: AnchorEnd}
	case '(':
		return p.parseGroupOrLook()
	case '[':
		return p.parseCharClass()
	case '\\':
		return p.parseEscapeAtom()
	case ')':
		p.setErr(ErrUnmatchedParen, p.pos, "")
		return nil
	case '*', '+', '?':
		p.setErr(ErrNothingToRepeat, p.pos, "")
		return nil
	case '|':
		return nil
	default:
		return Literal{Value: string(p.takeRune())}
	}
}

// peekBraceBounds reads a {n}, {n,} or {n,m} quantifier without
// committing: the cursor is restored and the bounds returned when the
// braces parse, and ok is false when '{' is just a literal.
func (p *Parser) peekBraceBounds() (min, max int, ok bool) {
	save := p.pos
	defer func() { p.pos = save }()

	p.take() // '{'
	min, ok = p.takeInt()
	if !ok {
		return 0, 0, false
	}
	max = min
	if p.peek(0) == ',' {
		p.take()
		if p.peek(0) == '}' {
			max = Infinity
		} else if max, ok = p.takeInt(); !ok {
			return 0, 0, false
		}
	}
	return min, max, p.peek(0) == '}'
}

// maxRepeat is the largest accepted {n,m} repeat count. PCRE2 caps
// repetition at 65535; counts above it fail with ErrBadQuantifier
// instead of wrapping the accumulator.
const maxRepeat = 65535

// takeInt consumes a run of decimal digits. The value saturates above
// maxRepeat; callers reject saturated counts.
func (p *Parser) takeInt() (int, bool) {
	start := p.pos
	n := 0
	for p.peek(0) >= '0' && p.peek(0) <= '9' {
		d := int(p.take() - '0')
		if n <= maxRepeat {
			n = n*10 + d
		}
	}
	return n, p.pos > start
}

// parseQuantIfAny wraps child in a Quantifier when a suffix follows.
// A trailing '?' selects lazy mode, a trailing '+' possessive mode.
func (p *Parser) parseQuantIfAny(child Node) Node {
	if p.err != nil || child == nil {
		return child
	}

	quantPos := p.pos
	var min, max int

	switch p.peek(0) {
	case '*':
		min, max = 0, Infinity
		p.take()
	case '+':
		min, max = 1, Infinity
		p.take()
	case '?':
		min, max = 0, 1
		p.take()
	case '{':
		save := p.pos
		p.take()
		var ok bool
		if min, ok = p.takeInt(); !ok {
			// Not a quantifier; '{' stays a literal for the next atom.
			p.pos = save
			return child
		}
		max = min
		if p.peek(0) == ',' {
			p.take()
			if p.peek(0) == '}' {
				max = Infinity
			} else if max, ok = p.takeInt(); !ok {
				p.setErr(ErrBadQuantifier, p.pos, "")
				return child
			}
		}
		if p.peek(0) != '}' {
			p.setErr(ErrBadQuantifier, p.pos, "")
			return child
		}
		p.take()
		if min > maxRepeat || max > maxRepeat {
			p.setErr(ErrBadQuantifier, quantPos, "repeat count too large")
			return child
		}
		if max != Infinity && min > max {
			p.setErr(ErrQuantifierBounds, quantPos, "")
			return child
		}
	default:
		return child
	}

	if _, isAnchor := child.(Anchor); isAnchor {
		p.setErr(ErrQuantifiedAnchor, quantPos, "")
		return child
	}

	q := Quantifier{Child: child, Min: min, Max: max}
	switch p.peek(0) {
	case '?':
		q.Lazy = true
		p.take()
	case '+':
		q.Possessive = true
		p.take()
	}
	return q
}

// parseGroupOrLook parses everything that opens with '('.
func (p *Parser) parseGroupOrLook() Node {
	openPos := p.pos
	p.take() // '('

	switch {
	case p.match("?:"):
		body := p.parseAlt()
		if p.err != nil {
			return nil
		}
		if !p.match(")") {
			p.setErr(ErrUnterminatedGroup, openPos, "")
			return nil
		}
		return Group{Capturing: false, Body: body}

	case p.match("?<="):
		return p.finishLook(openPos, false, false)
	case p.match("?<!"):
		return p.finishLook(openPos, false, true)

	case p.match("?<"):
		namePos := p.pos
		name := p.takeName('>')
		if !p.match(">") {
			p.setErr(ErrUnterminatedName, namePos, "")
			return nil
		}
		if p.hasCapName(name) {
			p.setErr(ErrDuplicateName, namePos, name)
			return nil
		}
		p.capCount++
		p.capNames = append(p.capNames, name)
		body := p.parseAlt()
		if p.err != nil {
			return nil
		}
		if !p.match(")") {
			p.setErr(ErrUnterminatedGroup, openPos, "")
			return nil
		}
		return Group{Capturing: true, Name: name, Body: body}

	case p.match("?>"):
		body := p.parseAlt()
		if p.err != nil {
			return nil
		}
		if !p.match(")") {
			p.setErr(ErrUnterminatedGroup, openPos, "")
			return nil
		}
		return Group{Capturing: false, Atomic: true, Body: body}

	case p.match("?="):
		return p.finishLook(openPos, true, false)
	case p.match("?!"):
		return p.finishLook(openPos, true, true)

	default:
		p.capCount++
		body := p.parseAlt()
		if p.err != nil {
			return nil
		}
		if !p.match(")") {
			p.setErr(ErrUnterminatedGroup, openPos, "")
			return nil
		}
		return Group{Capturing: true, Body: body}
	}
}

// finishLook parses the body and closing paren of a lookaround whose
// opener has already been consumed.
func (p *Parser) finishLook(openPos int, ahead, negative bool) Node {
	body := p.parseAlt()
	if p.err != nil {
		return nil
	}
	if !p.match(")") {
		p.setErr(ErrUnterminatedLook, openPos, "")
		return nil
	}
	return Lookaround{Ahead: ahead, Negative: negative, Body: body}
}

// takeName consumes characters up to (not including) the terminator.
func (p *Parser) takeName(term byte) string {
	start := p.pos
	for !p.eof() && p.peek(0) != term {
		p.pos++
	}
	return p.src[start:p.pos]
}

// parseCharClass parses a [...] class, including negation, ranges and
// escape items. A '-' first in the class or just before ']' is literal.
func (p *Parser) parseCharClass() Node {
	openPos := p.pos
	p.take() // '['
	p.inClass++
	defer func() { p.inClass-- }()

	negated := false
	if p.peek(0) == '^' {
		negated = true
		p.take()
	}

	var items []ClassItem
	for !p.eof() && p.peek(0) != ']' {
		if p.peek(0) == '\\' {
			item := p.parseClassEscape()
			if p.err != nil {
				return nil
			}
			items = append(items, item)
			continue
		}

		rangePos := p.pos
		ch := p.takeRune()
		if p.peek(0) == '-' && p.peek(1) != ']' && p.peek(1) != 0 {
			p.take() // '-'
			var end rune
			if p.peek(0) == '\\' {
				item := p.parseClassEscape()
				if p.err != nil {
					return nil
				}
				lit, ok := item.(ClassLiteral)
				if !ok {
					// Shorthand cannot terminate a range: [a-\d].
					p.setErr(ErrInvalidRange, rangePos, "range endpoint is not a character")
					return nil
				}
				end = lit.Ch
			} else {
				end = p.takeRune()
			}
			if ch > end {
				p.setErr(ErrInvalidRange, rangePos, string(ch)+"-"+string(end))
				return nil
			}
			items = append(items, ClassRange{Lo: ch, Hi: end})
			continue
		}
		items = append(items, ClassLiteral{Ch: ch})
	}

	if p.eof() {
		p.setErr(ErrUnterminatedClass, openPos, "")
		return nil
	}
	p.take() // ']'

	return CharacterClass{Negated: negated, Items: items}
}

// parseClassEscape parses one escaped item inside a class.
func (p *Parser) parseClassEscape() ClassItem {
	escPos := p.pos
	p.take() // '\'
	if p.eof() {
		p.setErr(ErrBadEscape, escPos, "trailing backslash")
		return nil
	}

	switch c := p.peek(0); c {
	case 'd', 'w', 's':
		p.take()
		return ClassEscape{Kind: c}
	case 'D', 'W', 'S':
		p.take()
		return ClassEscape{Kind: c + ('a' - 'A'), Negated: true}
	case 'p', 'P':
		prop, ok := p.takeProperty(escPos)
		if !ok {
			return nil
		}
		return ClassEscape{Kind: 'p', Negated: c == 'P', Property: prop}
	case 'n':
		p.take()
		return ClassLiteral{Ch: '\n'}
	case 'r':
		p.take()
		return ClassLiteral{Ch: '\r'}
	case 't':
		p.take()
		return ClassLiteral{Ch: '\t'}
	case 'f':
		p.take()
		return ClassLiteral{Ch: '\f'}
	case 'v':
		p.take()
		return ClassLiteral{Ch: '\v'}
	case 'b':
		// Inside a class \b is a backspace, not a word boundary.
		p.take()
		return ClassLiteral{Ch: '\x08'}
	case '0':
		p.take()
		return ClassLiteral{Ch: 0}
	case 'x', 'u':
		r, ok := p.takeNumericEscape(escPos)
		if !ok {
			return nil
		}
		return ClassLiteral{Ch: r}
	default:
		return ClassLiteral{Ch: p.takeRune()}
	}
}

// parseEscapeAtom parses a backslash escape outside a class.
func (p *Parser) parseEscapeAtom() Node {
	escPos := p.pos
	p.take() // '\'
	if p.eof() {
		p.setErr(ErrBadEscape, escPos, "trailing backslash")
		return nil
	}

	c := p.peek(0)

	if c >= '1' && c <= '9' {
		num, _ := p.takeInt()
		if num > p.capCount {
			p.setErr(ErrDanglingBackreference, escPos, "")
			return nil
		}
		return Backreference{Index: num}
	}

	switch c {
	case 'b':
		p.take()
		return Anchor{At: AnchorWordBoundary}
	case 'B':
		p.take()
		return Anchor{At: AnchorNotWordBoundary}
	case 'A':
		p.take()
		return Anchor{At: AnchorAbsoluteStart}
	case 'Z':
		p.take()
		return Anchor{At: AnchorEndBeforeFinalBreak}

	case 'k':
		p.take()
		if !p.match("<") {
			p.setErr(ErrBadEscape, escPos, `\k must be followed by <name>`)
			return nil
		}
		name := p.takeName('>')
		if !p.match(">") {
			p.setErr(ErrUnterminatedName, escPos, "")
			return nil
		}
		if !p.hasCapName(name) {
			p.setErr(ErrDanglingBackreference, escPos, name)
			return nil
		}
		return Backreference{Name: name}

	case 'd', 'w', 's':
		p.take()
		return CharacterClass{Items: []ClassItem{ClassEscape{Kind: c}}}
	case 'D', 'W', 'S':
		p.take()
		return CharacterClass{Items: []ClassItem{ClassEscape{Kind: c + ('a' - 'A'), Negated: true}}}

	case 'p', 'P':
		prop, ok := p.takeProperty(escPos)
		if !ok {
			return nil
		}
		return CharacterClass{Items: []ClassItem{ClassEscape{Kind: 'p', Negated: c == 'P', Property: prop}}}

	case 'n':
		p.take()
		return Literal{Value: "\n"}
	case 'r':
		p.take()
		return Literal{Value: "\r"}
	case 't':
		p.take()
		return Literal{Value: "\t"}
	case 'f':
		p.take()
		return Literal{Value: "\f"}
	case 'v':
		p.take()
		return Literal{Value: "\v"}
	case '0':
		p.take()
		return Literal{Value: "\x00"}

	case 'x', 'u':
		r, ok := p.takeNumericEscape(escPos)
		if !ok {
			return nil
		}
		return Literal{Value: string(r)}

	default:
		return Literal{Value: string(p.takeRune())}
	}
}

// takeProperty consumes p{Name} or P{Name} starting at the type letter.
func (p *Parser) takeProperty(escPos int) (string, bool) {
	p.take() // 'p' or 'P'
	if !p.match("{") {
		p.setErr(ErrBadEscape, escPos, `\p must be followed by {property}`)
		return "", false
	}
	prop := p.takeName('}')
	if !p.match("}") {
		p.setErr(ErrBadEscape, escPos, `unterminated \p{...}`)
		return "", false
	}
	return prop, true
}

// takeNumericEscape consumes \xHH, \x{...}, \uHHHH or \u{...} starting
// at the type letter and returns the decoded code point.
func (p *Parser) takeNumericEscape(escPos int) (rune, bool) {
	kind := p.take() // 'x' or 'u'

	if p.peek(0) == '{' {
		p.take()
		val, ok := p.takeHex(-1)
		if !ok || !p.match("}") {
			p.setErr(ErrBadEscape, escPos, "unterminated \\"+string(kind)+"{...}")
			return 0, false
		}
		if !utf8.ValidRune(rune(val)) {
			p.setErr(ErrBadEscape, escPos, "code point out of range")
			return 0, false
		}
		return rune(val), true
	}

	digits := 2
	if kind == 'u' {
		digits = 4
	}
	val, ok := p.takeHex(digits)
	if !ok {
		p.setErr(ErrBadEscape, escPos, "invalid \\"+string(kind)+" escape")
		return 0, false
	}
	return rune(val), true
}

// takeHex consumes exactly n hex digits, or any positive number of
// digits when n < 0.
func (p *Parser) takeHex(n int) (int, bool) {
	val := 0
	count := 0
	for n < 0 || count < n {
		c := p.peek(0)
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			if n < 0 {
				return val, count > 0
			}
			return 0, false
		}
		if val > 0x10FFFF {
			return 0, false
		}
		val = val*16 + d
		p.take()
		count++
	}
	return val, true
}
