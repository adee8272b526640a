package fastscope

import (
	"errors"
	"fmt"
	"math"
)

// AppendUint appends n to dst and returns dst (which may be newly allocated).
func AppendUint(dst []byte, n int) []byte {
	if n < 0 {
		panic("BUG: int must be positive")
	}

	var b [20]byte
	buf := b[:]
	i := len(buf)
	var q int
	for n >= 10 {
		i--
		q = n / 10
		buf[i] = '0' + byte(n-q*10)
		n = q
	}
	i--
	buf[i] = '0' + byte(n)

	dst = append(dst, buf[i:]...)
	return dst
}

// ParseInt parses a signed decimal integer from buf.
//
// Only an optional leading '-' and the digits 0-9 are accepted.
func ParseInt(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, errors.New("empty integer")
	}
	neg := buf[0] == '-'
	if neg {
		buf = buf[1:]
		if len(buf) == 0 {
			return 0, errors.New("missing digits after '-'")
		}
	}
	v := 0
	for i, c := range buf {
		k := c - '0'
		if k > 9 {
			return 0, fmt.Errorf("unexpected char %q at position %d. Expected 0-9", c, i)
		}
		if v > (math.MaxInt-int(k))/10 {
			return 0, fmt.Errorf("too long int %q", buf)
		}
		v = 10*v + int(k)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func hexCharUpper(c byte) byte {
	if c < 10 {
		return '0' + c
	}
	return c - 10 + 'A'
}

var hex2intTable = func() []byte {
	b := make([]byte, 256)
	for i := 0; i < 256; i++ {
		c := byte(0)
		if i >= '0' && i <= '9' {
			c = 1 + byte(i) - '0'
		} else if i >= 'a' && i <= 'f' {
			c = 1 + byte(i) - 'a' + 10
		} else if i >= 'A' && i <= 'F' {
			c = 1 + byte(i) - 'A' + 10
		}
		b[i] = c
	}
	return b
}()

func hexbyte2int(c byte) int {
	return int(hex2intTable[c]) - 1
}

// quotedArgNoEscape marks the bytes left untouched by appendQuotedArg.
var quotedArgNoEscape = func() [256]bool {
	var t [256]bool
	for i := 0; i < 256; i++ {
		c := byte(i)
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			t[i] = true
		}
	}
	t['.'] = true
	t['-'] = true
	t['*'] = true
	t['_'] = true
	return t
}()

// appendQuotedArg appends form-encoded v to dst.
//
// Spaces become '+', every byte outside [A-Za-z0-9.*_-] becomes %XX.
// The output never contains ';', '=', ',', '"', '~' or whitespace.
func appendQuotedArg(dst, v []byte) []byte {
	for _, c := range v {
		switch {
		case quotedArgNoEscape[c]:
			dst = append(dst, c)
		case c == ' ':
			dst = append(dst, '+')
		default:
			dst = append(dst, '%', hexCharUpper(c>>4), hexCharUpper(c&15))
		}
	}
	return dst
}

// AppendQuotedArg appends form-encoded src to dst and returns the extended dst.
func AppendQuotedArg(dst []byte, src string) []byte {
	return appendQuotedArg(dst, s2b(src))
}

var errMalformedEscape = errors.New("malformed percent escape")

// decodeArgAppend appends form-decoded src to dst.
//
// Unlike lenient query parsing, a truncated or non-hex percent escape
// is reported as an error.
func decodeArgAppend(dst, src []byte) ([]byte, error) {
	for i, n := 0, len(src); i < n; i++ {
		c := src[i]
		switch c {
		case '%':
			if i+2 >= n {
				return dst, fmt.Errorf("%w: truncated escape at position %d", errMalformedEscape, i)
			}
			x1 := hexbyte2int(src[i+1])
			x2 := hexbyte2int(src[i+2])
			if x1 < 0 || x2 < 0 {
				return dst, fmt.Errorf("%w: %q at position %d", errMalformedEscape, src[i:i+3], i)
			}
			dst = append(dst, byte(x1<<4|x2))
			i += 2
		case '+':
			dst = append(dst, ' ')
		default:
			dst = append(dst, c)
		}
	}
	return dst, nil
}

// caseInsensitiveCompare does a case insensitive equality comparison of
// two []byte. Assumes only letters need to be matched.
func caseInsensitiveCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}
	return true
}

func trimSpaces(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && isSpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
