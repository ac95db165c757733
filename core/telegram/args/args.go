// Package args implements the compact argument map carried inside button
// tokens and action state. The wire format is handcrafted on purpose: tokens
// ride Telegram callback data with a hard 64-byte ceiling, so every byte of
// framing matters and a generic serializer is not an option.
package args

import (
	"sort"
	"strconv"
	"strings"
)

// Map is a flat argument map. Values are restricted to int64, float64,
// string, bool and nil; nested values are not representable. A nil value is
// meaningful: it marks a key as explicitly cleared, distinct from absent.
type Map map[string]any

// Value type tags on the wire. The tag is the first byte of each encoded
// value; "n" carries no payload.
const (
	tagInt    = 'i'
	tagFloat  = 'f'
	tagString = 's'
	tagBool   = 'b'
	tagNull   = 'n'
)

const (
	pairSep = ','
	kvSep   = '='
	escape  = '\\'
)

// reserved characters that must be escaped inside keys and string values.
// ';' is not used by this package but terminates the token reference in the
// enclosing callback format, so it is reserved here as well.
const reserved = `\,=;`

// Encode serializes the map to its wire form. Keys are emitted in sorted
// order so the encoding is deterministic. Values of unsupported types are
// skipped. Length enforcement belongs to the token layer, not here.
func Encode(m Map) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	wrote := false
	for _, k := range keys {
		enc, ok := encodeValue(m[k])
		if !ok {
			continue
		}
		if wrote {
			b.WriteByte(pairSep)
		}
		b.WriteString(escapeText(k))
		b.WriteByte(kvSep)
		b.WriteString(enc)
		wrote = true
	}
	return b.String()
}

func encodeValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return string(tagNull), true
	case int64:
		return string(tagInt) + strconv.FormatInt(x, 10), true
	case int:
		return string(tagInt) + strconv.FormatInt(int64(x), 10), true
	case float64:
		return string(tagFloat) + strconv.FormatFloat(x, 'g', -1, 64), true
	case string:
		return string(tagString) + escapeText(x), true
	case bool:
		if x {
			return string(tagBool) + "1", true
		}
		return string(tagBool) + "0", true
	}
	return "", false
}

// Decode parses a wire fragment back into a Map. The channel that carries
// fragments is unreliable (truncated tokens, stale buttons minted before a
// shape change), so Decode never fails: pairs that do not parse are dropped
// and whatever remains is returned.
func Decode(s string) Map {
	m := make(Map)
	if s == "" {
		return m
	}
	for _, pair := range splitUnescaped(s, pairSep) {
		key, rawVal, ok := cutUnescaped(pair, kvSep)
		if !ok {
			continue
		}
		k := unescapeText(key)
		if k == "" {
			continue
		}
		v, ok := decodeValue(rawVal)
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

func decodeValue(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	tag, rest := s[0], s[1:]
	switch tag {
	case tagNull:
		if rest != "" {
			return nil, false
		}
		return nil, true
	case tagInt:
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case tagFloat:
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case tagString:
		return unescapeText(rest), true
	case tagBool:
		switch rest {
		case "1":
			return true, true
		case "0":
			return false, true
		}
		return nil, false
	}
	return nil, false
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, reserved) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(reserved, s[i]) >= 0 {
			b.WriteByte(escape)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unescapeText(s string) string {
	if !strings.ContainsRune(s, escape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == escape && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitUnescaped splits s on sep, honouring backslash escapes.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escape:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// cutUnescaped splits s around the first unescaped sep.
func cutUnescaped(s string, sep byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escape:
			i++
		case sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
