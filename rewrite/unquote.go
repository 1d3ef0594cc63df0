package rewrite

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// cook decodes JavaScript escape sequences in the raw text of a string or
// template segment. Malformed escapes are kept as written.
func cook(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}

	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch e := raw[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHex(raw, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteString(`\x`)
			}
		case 'u':
			if r, n, ok := parseUnicodeEscape(raw, i+1); ok {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteString(`\u`)
			}
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

func parseHex(s string, start, n int) (rune, bool) {
	if start+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseUnicodeEscape reads XXXX or {X...} after "\u" and returns the rune and
// the number of bytes consumed.
func parseUnicodeEscape(s string, start int) (rune, int, bool) {
	if start < len(s) && s[start] == '{' {
		end := strings.IndexByte(s[start:], '}')
		if end < 2 {
			return 0, 0, false
		}
		r, ok := parseHex(s, start+1, end-1)
		if !ok || !utf8.ValidRune(r) {
			return 0, 0, false
		}
		return r, end + 1, true
	}
	r, ok := parseHex(s, start, 4)
	return r, 4, ok
}

// quote renders value as a JavaScript string literal using the given quote character.
func quote(value string, q byte) string {
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range value {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case rune(q):
			sb.WriteByte('\\')
			sb.WriteByte(q)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// escapeTemplate renders value as the raw text of a template literal segment.
func escapeTemplate(value string) string {
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case c == '\\' || c == '`':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '$' && i+1 < len(value) && value[i+1] == '{':
			sb.WriteString(`\$`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
