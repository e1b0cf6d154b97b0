package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/strling/ir"
)

// metachars are the characters with special meaning outside a class.
const metachars = `\.+*?()|[]{}^$`

// writeLiteral writes value with regex metacharacters escaped.
func writeLiteral(sb *strings.Builder, value string) {
	for _, ch := range value {
		writeRune(sb, ch, strings.ContainsRune(metachars, ch))
	}
}

// writeRune writes one rune, backslash-escaping it when asked and
// rendering control and other non-printable runes as escapes so the
// output stays single-line pattern text.
func writeRune(sb *strings.Builder, ch rune, escape bool) {
	switch ch {
	case '\n':
		sb.WriteString(`\n`)
		return
	case '\r':
		sb.WriteString(`\r`)
		return
	case '\t':
		sb.WriteString(`\t`)
		return
	case '\f':
		sb.WriteString(`\f`)
		return
	case '\v':
		sb.WriteString(`\v`)
		return
	case 0:
		sb.WriteString(`\0`)
		return
	}
	if ch < 0x20 || ch == 0x7f {
		fmt.Fprintf(sb, `\x{%x}`, ch)
		return
	}
	if escape {
		sb.WriteByte('\\')
	}
	sb.WriteRune(ch)
}

// writeClass renders a character class. A non-negated class holding a
// single escape item collapses to the bare escape, so the class the
// parser builds for \d round-trips as \d rather than [\d].
func writeClass(sb *strings.Builder, class ir.CharClass) {
	if !class.Negated && len(class.Items) == 1 {
		if esc, ok := class.Items[0].(ir.ClassEscape); ok {
			writeClassEscape(sb, esc)
			return
		}
	}

	sb.WriteByte('[')
	if class.Negated {
		sb.WriteByte('^')
	}
	for i, item := range class.Items {
		switch it := item.(type) {
		case ir.ClassLit:
			writeClassRune(sb, it.Ch, i == 0)
		case ir.ClassRange:
			writeClassRune(sb, it.Lo, i == 0)
			sb.WriteByte('-')
			writeClassRune(sb, it.Hi, false)
		case ir.ClassEscape:
			writeClassEscape(sb, it)
		}
	}
	sb.WriteByte(']')
}

// writeClassRune writes one class member rune. Backslash and the
// closing bracket always need escaping; caret only in first position,
// where it would read as negation; dash everywhere except first
// position, where it cannot start a range.
func writeClassRune(sb *strings.Builder, ch rune, first bool) {
	switch ch {
	case '\\', ']':
		writeRune(sb, ch, true)
	case '^':
		writeRune(sb, ch, first)
	case '-':
		writeRune(sb, ch, !first)
	default:
		writeRune(sb, ch, false)
	}
}

func writeClassEscape(sb *strings.Builder, esc ir.ClassEscape) {
	letter := esc.Kind
	if esc.Negated {
		letter -= 'a' - 'A'
	}
	sb.WriteByte('\\')
	sb.WriteByte(letter)
	if esc.Kind == 'p' && esc.Property != "" {
		sb.WriteByte('{')
		sb.WriteString(esc.Property)
		sb.WriteByte('}')
	}
}
