package classify

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"unicode"
)

// LastTypeSegment reduces a protobuf type URL or dotted action name to
// its final dot-segment: "/cosmos.bank.v1beta1.MsgSend" -> "MsgSend".
func LastTypeSegment(s string) string {
	s = strings.TrimPrefix(s, "/")
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// TitleCase upper-cases the first rune, matching how bare log actions
// like "vote" are displayed next to protobuf message names.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// NormalizeType is the candidate normalization used by type resolution:
// last dot-segment, then title-cased.
func NormalizeType(s string) string {
	return TitleCase(LastTypeSegment(s))
}

func msgType(msg map[string]any) string {
	t, _ := msg["@type"].(string)
	return LastTypeSegment(t)
}

func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func getMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func getSlice(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

// decodeHexValue renders byte-array-ish JSON values as 0x-prefixed hex.
// Number arrays are protobuf bytes fields; base64 strings are their
// amino rendering. Anything else passes through untouched.
func decodeHexValue(v any) any {
	switch val := v.(type) {
	case []any:
		buf := make([]byte, 0, len(val))
		for _, e := range val {
			f, ok := e.(float64)
			if !ok || f < 0 || f > 255 || f != float64(int(f)) {
				return v
			}
			buf = append(buf, byte(f))
		}
		return "0x" + hex.EncodeToString(buf)
	case string:
		if looksBase64(val) {
			if raw, err := base64.StdEncoding.DecodeString(val); err == nil {
				return "0x" + hex.EncodeToString(raw)
			}
		}
		return v
	default:
		return v
	}
}

// looksBase64 guards decodeHexValue against mangling plain addresses
// and denoms, which are also valid base64 alphabets in rare cases.
func looksBase64(s string) bool {
	if len(s) < 16 || len(s)%4 != 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '+', r == '/', r == '=':
		default:
			return false
		}
	}
	return strings.ContainsAny(s, "+/=")
}
