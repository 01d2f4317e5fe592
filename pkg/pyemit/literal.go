package pyemit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringLiteral returns a double-quoted Python string literal for value.
// Decoding the literal with Unquote reproduces value exactly, including
// invalid UTF-8 bytes, which are written as lone low surrogates (\udc80-\udcff,
// Python's surrogateescape convention).
func StringLiteral(value string) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte('"')

	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		if r == utf8.RuneError && size == 1 {
			writeRawByte(&sb, value[i])
			i++
			continue
		}
		i += size

		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case isControl(r):
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r == 0x2028 || r == 0x2029 || r == 0xfeff:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}

// writeRawByte writes a byte that is not part of valid UTF-8 as a lone low
// surrogate escape.
func writeRawByte(sb *strings.Builder, b byte) {
	fmt.Fprintf(sb, `\udc%02x`, b)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// Unquote decodes a literal produced by StringLiteral. It accepts single or
// double quotes and the escapes \\ \' \" \n \r \t \xNN \uNNNN \UNNNNNNNN.
func Unquote(literal string) (string, error) {
	if len(literal) < 2 {
		return "", fmt.Errorf("literal too short: %q", literal)
	}
	quote := literal[0]
	if (quote != '"' && quote != '\'') || literal[len(literal)-1] != quote {
		return "", fmt.Errorf("literal is not quoted: %q", literal)
	}
	body := literal[1 : len(literal)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == quote {
			return "", fmt.Errorf("unescaped quote at offset %d", i+1)
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling backslash")
		}
		switch body[i] {
		case '\\', '\'', '"':
			sb.WriteByte(body[i])
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[body[i]]
			if i+1+width > len(body) {
				return "", fmt.Errorf("truncated escape at offset %d", i)
			}
			code, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad escape at offset %d: %w", i, err)
			}
			i += width
			switch {
			case code >= 0xdc80 && code <= 0xdcff:
				sb.WriteByte(byte(code - 0xdc00))
			default:
				sb.WriteRune(rune(code))
			}
		default:
			return "", fmt.Errorf("unknown escape \\%c", body[i])
		}
	}
	return sb.String(), nil
}

// Bool renders a Python boolean.
func Bool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// StringList renders a Python list of string literals.
func StringList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = StringLiteral(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IntList renders a Python list of integers.
func IntList(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// OptionalInt renders v, or None when v is nil.
func OptionalInt(v *int) string {
	if v == nil {
		return "None"
	}
	return strconv.Itoa(*v)
}
