package pdftext

import (
	"strings"
)

// textFromContent recovers the text shown by a decoded PDF content stream.
// It collects string operands of the text-showing operators (Tj, TJ, ', ")
// and inserts line breaks at text-positioning operators. CID-encoded fonts
// are not decoded; their pages come out empty or garbled, matching the
// pipeline's "no text layer" degradation path.
func textFromContent(content []byte) string {
	var b strings.Builder
	i := 0
	lastWasText := false

	for i < len(content) {
		switch content[i] {
		case '(':
			s, next := readLiteralString(content, i)
			if s != "" {
				if lastWasText {
					b.WriteByte(' ')
				}
				b.WriteString(s)
				lastWasText = true
			}
			i = next
		case 'T':
			// Td, TD, T* move to a new line of text.
			if i+1 < len(content) && (content[i+1] == 'd' || content[i+1] == 'D' || content[i+1] == '*') {
				if lastWasText {
					b.WriteByte('\n')
					lastWasText = false
				}
				i += 2
				continue
			}
			i++
		case '%':
			// comment runs to end of line
			for i < len(content) && content[i] != '\n' {
				i++
			}
		default:
			i++
		}
	}

	return strings.TrimSpace(b.String())
}

// readLiteralString parses a PDF literal string starting at the '(' at
// position start, handling escapes and balanced nested parens. It returns the
// decoded text and the index just past the closing ')'.
func readLiteralString(content []byte, start int) (string, int) {
	var b strings.Builder
	depth := 0
	i := start

	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return b.String(), i + 1
			}
			i++
			switch content[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r', 'f', 'b':
				// ignore
			case '(', ')', '\\':
				b.WriteByte(content[i])
			default:
				// octal escape: up to three digits
				if content[i] >= '0' && content[i] <= '7' {
					val := 0
					for n := 0; n < 3 && i < len(content) && content[i] >= '0' && content[i] <= '7'; n++ {
						val = val*8 + int(content[i]-'0')
						i++
					}
					i--
					if val >= 32 && val < 127 {
						b.WriteByte(byte(val))
					}
				}
			}
			i++
		case '(':
			if depth > 0 {
				b.WriteByte('(')
			}
			depth++
			i++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(')')
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}
