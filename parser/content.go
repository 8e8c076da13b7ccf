package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// wordGap is the TJ displacement (in thousandths of a text space unit) past
// which two adjacent strings are treated as separate words.
const wordGap = 250

// ExtractTextItems scans a PDF content stream and returns the shown strings in
// order. An empty string marks a line break: a positioning operator that moves
// to a new line, a new text matrix, or the end of a text object.
func ExtractTextItems(stream []byte) []string {
	var items []string
	var operands []token
	lx := lexer{src: string(stream)}

	for {
		t, ok := lx.next()
		if !ok {
			break
		}
		if t.kind != tokOperator {
			operands = append(operands, t)
			continue
		}

		switch t.value {
		case "Tj":
			if s, ok := lastOf(operands, tokString); ok {
				items = append(items, decodeText(s.value))
			}
		case "'", "\"":
			// Move to the next line, then show the string.
			items = append(items, "")
			if s, ok := lastOf(operands, tokString); ok {
				items = append(items, decodeText(s.value))
			}
		case "TJ":
			if a, ok := lastOf(operands, tokArray); ok {
				items = append(items, decodeText(joinShown(a.children)))
			}
		case "Td", "TD":
			if len(operands) >= 2 {
				ty, err := strconv.ParseFloat(operands[len(operands)-1].value, 64)
				if err == nil && ty != 0 {
					items = append(items, "")
				}
			}
		case "T*", "Tm", "ET":
			items = append(items, "")
		}
		operands = operands[:0]
	}
	return items
}

// decodeText maps single-byte font encodings to UTF-8. Simple fonts in
// browser-printed reports use WinAnsiEncoding, which is Windows-1252.
func decodeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// joinShown concatenates the strings of a TJ array, inserting a space where
// the displacement opens a word-sized gap.
func joinShown(children []token) string {
	var sb strings.Builder
	for _, c := range children {
		switch c.kind {
		case tokString:
			sb.WriteString(c.value)
		case tokNumber:
			v, err := strconv.ParseFloat(c.value, 64)
			if err == nil && -v > wordGap && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

func lastOf(ts []token, kind tokenKind) (token, bool) {
	if len(ts) == 0 || ts[len(ts)-1].kind != kind {
		return token{}, false
	}
	return ts[len(ts)-1], true
}

type tokenKind int

const (
	tokString   tokenKind = iota // (text) or <hex>
	tokNumber                    // 123, -45.6
	tokOperator                  // BT, Tj, TJ, Td, ...
	tokArray                     // [...]; elements in children
	tokOther                     // names, dictionaries
)

type token struct {
	kind     tokenKind
	value    string
	children []token
}

// lexer is a minimal PDF content stream tokenizer. It understands just enough
// syntax to find text-showing operators and their operands.
type lexer struct {
	src string
	pos int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return isSpace(c) || strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			return token{kind: tokString, value: l.literal()}, true
		case c == '<':
			if strings.HasPrefix(l.src[l.pos:], "<<") {
				l.pos += 2
				return token{kind: tokOther, value: "<<"}, true
			}
			return token{kind: tokString, value: l.hex()}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.src) && l.src[l.pos] == '>' {
				l.pos++
			}
			return token{kind: tokOther, value: ">>"}, true
		case c == '[':
			l.pos++
			return l.array(), true
		case c == ']':
			l.pos++
			return token{kind: tokOther, value: "]"}, true
		case c == '/':
			start := l.pos
			l.pos++
			l.word()
			return token{kind: tokOther, value: l.src[start:l.pos]}, true
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			start := l.pos
			l.pos++
			for l.pos < len(l.src) && (l.src[l.pos] == '.' || (l.src[l.pos] >= '0' && l.src[l.pos] <= '9')) {
				l.pos++
			}
			return token{kind: tokNumber, value: l.src[start:l.pos]}, true
		default:
			start := l.pos
			l.word()
			if l.pos == start {
				l.pos++
				continue
			}
			return token{kind: tokOperator, value: l.src[start:l.pos]}, true
		}
	}
	return token{}, false
}

func (l *lexer) word() {
	for l.pos < len(l.src) && !isDelim(l.src[l.pos]) {
		l.pos++
	}
}

// array collects tokens up to the matching ']'. The opening '[' has already
// been consumed.
func (l *lexer) array() token {
	arr := token{kind: tokArray}
	for {
		t, ok := l.next()
		if !ok || (t.kind == tokOther && t.value == "]") {
			return arr
		}
		arr.children = append(arr.children, t)
	}
}

// literal reads a parenthesized string starting at '(' and resolves escapes.
func (l *lexer) literal() string {
	var sb strings.Builder
	l.pos++
	depth := 1
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.src) {
				return sb.String()
			}
			e := l.src[l.pos]
			l.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '\r', '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					oct := []byte{e}
					for len(oct) < 3 && l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '7' {
						oct = append(oct, l.src[l.pos])
						l.pos++
					}
					v, _ := strconv.ParseUint(string(oct), 8, 8)
					sb.WriteByte(byte(v))
				} else {
					sb.WriteByte(e)
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// hex reads a <...> string as single-byte characters. Two-byte glyph
// encodings are not mapped back to text.
func (l *lexer) hex() string {
	l.pos++
	var digits []byte
	for l.pos < len(l.src) && l.src[l.pos] != '>' {
		if c := l.src[l.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var sb strings.Builder
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return sb.String()
		}
		sb.WriteByte(byte(v))
	}
	return sb.String()
}
