// Package emit renders IR trees as regex pattern text for a concrete
// regex dialect.
//
// The IR is dialect-neutral; each Emitter knows the syntax quirks of
// one target engine. All supported dialects share a PCRE-shaped core,
// so the renderer lives here once and the per-dialect types supply
// only the points where engines disagree (named-group syntax, inline
// flag letters).
//
// Example:
//
//	_, ast, _ := syntax.NewParser(`\d+`).Parse()
//	op, _ := ir.NewCompiler().Compile(ast)
//	emit.NewPCRE2().Emit(op, syntax.Flags{}) // "\d+"
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/strling/ir"
	"github.com/coregx/strling/syntax"
)

// Emitter renders IR as pattern text for one dialect.
type Emitter interface {
	// Dialect returns the dialect name, e.g. "pcre2".
	Dialect() string

	// Emit renders op as a pattern for this dialect. Flags influence
	// the output only when inline-flag emission is enabled; otherwise
	// the caller passes them to the target engine out of band.
	Emit(op ir.Op, flags syntax.Flags) string
}

// Options configures emission behavior shared by all dialects.
type Options struct {
	// InlineFlags prepends a (?ims...) construct carrying the pattern
	// flags instead of leaving them to the engine's compile options.
	// Flags the dialect has no letter for are silently omitted.
	InlineFlags bool
}

// dialect holds the syntax points engines disagree on.
type dialect struct {
	name       string
	namedOpen  func(name string) string
	flagLetter func(letter byte) bool
}

// NewPCRE2 creates an emitter for the PCRE2 dialect.
func NewPCRE2(opts ...Options) Emitter {
	return newEmitter(dialect{
		name:       "pcre2",
		namedOpen:  func(name string) string { return "(?<" + name + ">" },
		flagLetter: func(letter byte) bool { return letter != 'u' },
	}, opts)
}

// NewRE2 creates an emitter for the RE2 dialect (Go's regexp package).
// RE2 has no possessive quantifiers, lookaround, or backreferences;
// those constructs are still rendered in PCRE form so the caller can
// surface the engine's own error rather than a silent rewrite.
func NewRE2(opts ...Options) Emitter {
	return newEmitter(dialect{
		name:       "re2",
		namedOpen:  func(name string) string { return "(?P<" + name + ">" },
		flagLetter: func(letter byte) bool { return letter == 'i' || letter == 'm' || letter == 's' },
	}, opts)
}

func newEmitter(d dialect, opts []Options) Emitter {
	e := &emitter{dialect: d}
	if len(opts) > 0 {
		e.opts = opts[0]
	}
	return e
}

type emitter struct {
	dialect dialect
	opts    Options
}

func (e *emitter) Dialect() string { return e.dialect.name }

func (e *emitter) Emit(op ir.Op, flags syntax.Flags) string {
	var sb strings.Builder
	if e.opts.InlineFlags {
		if inline := e.inlineFlags(flags); inline != "" {
			sb.WriteString(inline)
		}
	}
	e.render(&sb, op, false)
	return sb.String()
}

// inlineFlags builds the (?...) prefix, keeping only letters the
// dialect accepts.
func (e *emitter) inlineFlags(flags syntax.Flags) string {
	var letters []byte
	for _, letter := range []byte(flags.Letters()) {
		if e.dialect.flagLetter(letter) {
			letters = append(letters, letter)
		}
	}
	if len(letters) == 0 {
		return ""
	}
	return "(?" + string(letters) + ")"
}

// render writes op to sb. atomCtx is true when the output must read as
// a single quantifiable atom; multi-rune literals, multi-part
// sequences, alternations, and quantified subexpressions then get a
// non-capturing wrapper.
func (e *emitter) render(sb *strings.Builder, op ir.Op, atomCtx bool) {
	switch o := op.(type) {
	case ir.Lit:
		if atomCtx && len([]rune(o.Value)) > 1 {
			sb.WriteString("(?:")
			writeLiteral(sb, o.Value)
			sb.WriteByte(')')
			return
		}
		writeLiteral(sb, o.Value)

	case ir.Seq:
		if atomCtx {
			// A lone part carries the whole sequence; let it decide
			// its own wrapping.
			if len(o.Parts) == 1 {
				e.render(sb, o.Parts[0], true)
				return
			}
			sb.WriteString("(?:")
		}
		for _, part := range o.Parts {
			// An alternation inside a sequence binds looser than the
			// sequence; it needs a wrapper to keep its extent.
			_, isAlt := part.(ir.Alt)
			e.render(sb, part, isAlt)
		}
		if atomCtx {
			sb.WriteByte(')')
		}

	case ir.CharClass:
		writeClass(sb, o)

	case ir.Quant:
		if atomCtx {
			sb.WriteString("(?:")
			e.renderQuant(sb, o)
			sb.WriteByte(')')
			return
		}
		e.renderQuant(sb, o)

	case ir.Group:
		switch {
		case o.Atomic:
			sb.WriteString("(?>")
		case !o.Capturing:
			sb.WriteString("(?:")
		case o.Name != "":
			sb.WriteString(e.dialect.namedOpen(o.Name))
		default:
			sb.WriteByte('(')
		}
		e.render(sb, o.Body, false)
		sb.WriteByte(')')

	case ir.Alt:
		if atomCtx {
			sb.WriteString("(?:")
		}
		for i, branch := range o.Branches {
			if i > 0 {
				sb.WriteByte('|')
			}
			e.render(sb, branch, false)
		}
		if atomCtx {
			sb.WriteByte(')')
		}

	case ir.Look:
		switch {
		case o.Ahead && !o.Negative:
			sb.WriteString("(?=")
		case o.Ahead:
			sb.WriteString("(?!")
		case !o.Negative:
			sb.WriteString("(?<=")
		default:
			sb.WriteString("(?<!")
		}
		e.render(sb, o.Body, false)
		sb.WriteByte(')')

	case ir.Anchor:
		sb.WriteString(anchorText(o.At))

	case ir.Dot:
		sb.WriteByte('.')

	case ir.Backref:
		if o.Name != "" {
			sb.WriteString(`\k<` + o.Name + `>`)
		} else {
			sb.WriteByte('\\')
			sb.WriteString(strconv.Itoa(o.Index))
		}

	default:
		// All Op implementations live in the ir package; a miss here
		// is a programming error, not bad input.
		panic(fmt.Sprintf("emit: unknown op %T", op))
	}
}

func (e *emitter) renderQuant(sb *strings.Builder, q ir.Quant) {
	e.render(sb, q.Child, true)
	suffix, exact := quantSuffix(q.Min, q.Max)
	sb.WriteString(suffix)
	// {n} matches one way; a mode marker on it is dead syntax.
	if exact {
		return
	}
	switch q.Mode {
	case ir.Lazy:
		sb.WriteByte('?')
	case ir.Possessive:
		sb.WriteByte('+')
	}
}

func quantSuffix(min, max int) (suffix string, exact bool) {
	switch {
	case min == 0 && max == ir.Infinity:
		return "*", false
	case min == 1 && max == ir.Infinity:
		return "+", false
	case min == 0 && max == 1:
		return "?", false
	case max == ir.Infinity:
		return "{" + strconv.Itoa(min) + ",}", false
	case min == max:
		return "{" + strconv.Itoa(min) + "}", true
	default:
		return "{" + strconv.Itoa(min) + "," + strconv.Itoa(max) + "}", false
	}
}

func anchorText(at ir.AnchorKind) string {
	switch at {
	case ir.Start:
		return "^"
	case ir.End:
		return "$"
	case ir.WordBoundary:
		return `\b`
	case ir.NotWordBoundary:
		return `\B`
	case ir.AbsoluteStart:
		return `\A`
	case ir.EndBeforeFinalBreak:
		return `\Z`
	}
	panic(fmt.Sprintf("emit: unknown anchor %q", string(at)))
}
