// Package codec reads and writes the flat JSON used for the embedded items
// column and the order wire payloads. It is deliberately not a general JSON
// parser: one level of nesting, string/int/money scalars, and lenient
// extraction that degrades to zero values instead of failing, so one corrupt
// row cannot take down a listing.
package codec

import (
	"strconv"
	"strings"
)

// Field is one key/value pair of a flat JSON object. Construct via String,
// Int, Money or Raw; the value is rendered at construction time.
type Field struct {
	Key string
	val string
}

func String(key, value string) Field {
	return Field{Key: key, val: `"` + EscapeString(value) + `"`}
}

func Int(key string, value int) Field {
	return Field{Key: key, val: strconv.Itoa(value)}
}

// Money renders with exactly two decimals, the format the stored data uses.
func Money(key string, value float64) Field {
	return Field{Key: key, val: strconv.FormatFloat(value, 'f', 2, 64)}
}

// Raw embeds already-encoded JSON text verbatim, e.g. an items array that is
// stored encoded and goes to the wire unchanged.
func Raw(key, jsonText string) Field {
	return Field{Key: key, val: jsonText}
}

// EncodeObject renders the fields as a JSON object in input order. Keys are
// not deduplicated; callers must not repeat them.
func EncodeObject(fields ...Field) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(f.Key)
		b.WriteString(`":`)
		b.WriteString(f.val)
	}
	b.WriteByte('}')
	return b.String()
}

// EncodeArray joins element fragments into a JSON array. An empty input
// yields the literal "[]", which is also how empty orders persist.
func EncodeArray(elems []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e)
	}
	b.WriteByte(']')
	return b.String()
}

// EscapeString replaces backslash, double quote, newline, carriage return and
// tab with their two-character escapes. Everything else passes through.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// SplitTopLevelArray strips the outer brackets and splits the content on
// commas at brace depth zero, so commas inside nested object values do not
// separate elements. Empty or "[]" input yields no fragments.
func SplitTopLevelArray(jsonArrayText string) []string {
	s := strings.TrimSpace(jsonArrayText)
	if s == "" || s == "[]" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		out     []string
		current strings.Builder
		depth   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '{' {
			depth++
		}
		if c == '}' {
			depth--
		}
		if c == ',' && depth == 0 {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	if current.Len() > 0 {
		out = append(out, strings.TrimSpace(current.String()))
	}
	return out
}

// ExtractString pulls a string-valued key out of an object fragment. The scan
// honors backslash escapes when looking for the closing quote and unescapes
// the result, so values written by EncodeObject read back exactly. Absent or
// malformed keys yield "".
func ExtractString(jsonFragment, key string) string {
	pat := `"` + key + `":"`
	idx := strings.Index(jsonFragment, pat)
	if idx < 0 {
		return ""
	}
	var b strings.Builder
	for i := idx + len(pat); i < len(jsonFragment); i++ {
		c := jsonFragment[i]
		if c == '\\' && i+1 < len(jsonFragment) {
			switch e := jsonFragment[i+1]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				// \\ and \" map to themselves; unknown escapes keep the char.
				b.WriteByte(e)
			}
			i++
			continue
		}
		if c == '"' {
			return b.String()
		}
		b.WriteByte(c)
	}
	// Unterminated value; treat as malformed.
	return ""
}

// ExtractInt pulls an integer-valued key out of an object fragment, 0 when
// absent or malformed.
func ExtractInt(jsonFragment, key string) int {
	n, err := strconv.Atoi(scanNumber(jsonFragment, key))
	if err != nil {
		return 0
	}
	return n
}

// ExtractFloat pulls a numeric key out of an object fragment, 0.0 when absent
// or malformed.
func ExtractFloat(jsonFragment, key string) float64 {
	f, err := strconv.ParseFloat(scanNumber(jsonFragment, key), 64)
	if err != nil {
		return 0
	}
	return f
}

// scanNumber reads contiguous digits, '.' and a leading '-' after "key":,
// stopping at the first character outside that set.
func scanNumber(jsonFragment, key string) string {
	pat := `"` + key + `":`
	idx := strings.Index(jsonFragment, pat)
	if idx < 0 {
		return ""
	}
	start := idx + len(pat)
	i := start
	for i < len(jsonFragment) {
		c := jsonFragment[i]
		if c >= '0' && c <= '9' || c == '.' || (c == '-' && i == start) {
			i++
			continue
		}
		break
	}
	return jsonFragment[start:i]
}
