package canonical

import "strings"

const lowerhex = "0123456789abcdef"

// unsafeChars are always percent-encoded in a normalized component, on top of controls and non-ASCII bytes.
// the set covers the component separators (%&=+/\) and everything url serialization would escape on its own.
const unsafeChars = " \"#%&'+/<=>?[\\]^`{|}"

// Normalize percent-decodes s, turns '+' into a space and encodes the result back against the unsafe set.
// All ASCII letters are lowercased, including hex digits of escapes. Normalize is idempotent.
func Normalize(s string) string {
	decoded := unescape(s)
	var b strings.Builder
	b.Grow(len(decoded))
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		if c == '+' {
			c = ' '
		}
		if isUnsafe(c) {
			b.WriteByte('%')
			b.WriteByte(lowerhex[c>>4])
			b.WriteByte(lowerhex[c&0x0f])
			continue
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUnsafe(c byte) bool {
	if c < 0x20 || c >= 0x7f {
		return true
	}
	return strings.IndexByte(unsafeChars, c) >= 0
}

// unescape decodes %XX sequences, leaving malformed ones as is
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	res := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			res = append(res, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		res = append(res, s[i])
	}
	return string(res)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
