package fastscope

// CookieMaxAgeTransient is the MaxAge of a cookie that lives until the
// browser session ends. No 'Max-Age' attribute is written for it.
const CookieMaxAgeTransient = -1

// Cookie represents a single cookie as it appears in a Set-Cookie
// or Cookie header.
//
// Cookie is a plain value. Copy it freely; nothing in this package
// retains or modifies the Cookie values passed to it.
type Cookie struct {
	Name  string
	Value string

	// MaxAge<0 means no 'Max-Age' attribute, i.e. a transient cookie.
	// MaxAge=0 means delete cookie now, written as 'Max-Age=0'.
	// MaxAge>0 means the cookie expires after MaxAge seconds.
	MaxAge int

	Path string

	// Domain is not written when empty.
	Domain string

	Secure   bool
	HTTPOnly bool
}

// NewCookie returns a transient, http-only cookie bound to the "/" path.
func NewCookie(name, value string) Cookie {
	return Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   CookieMaxAgeTransient,
		Path:     "/",
		HTTPOnly: true,
	}
}

// DiscardingCookie returns the cookie instructing the client to remove
// the cookie with the given name immediately.
//
// This doesn't work for a cookie set with a specific domain or path.
// Build such a cookie manually with MaxAge=0 and the matching Domain and Path.
func DiscardingCookie(name string) Cookie {
	return Cookie{
		Name:   name,
		MaxAge: 0,
		Path:   "/",
	}
}

// AppendBytes appends cookie representation to dst and returns
// the extended dst.
func (c *Cookie) AppendBytes(dst []byte) []byte {
	if len(c.Name) > 0 {
		dst = append(dst, c.Name...)
		dst = append(dst, '=')
	}
	dst = append(dst, c.Value...)

	if c.MaxAge >= 0 {
		dst = append(dst, ';', ' ')
		dst = append(dst, strCookieMaxAge...)
		dst = append(dst, '=')
		dst = AppendUint(dst, c.MaxAge)
	}
	if len(c.Path) > 0 {
		dst = appendCookiePart(dst, strCookiePath, c.Path)
	}
	if len(c.Domain) > 0 {
		dst = appendCookiePart(dst, strCookieDomain, c.Domain)
	}
	if c.Secure {
		dst = append(dst, ';', ' ')
		dst = append(dst, strCookieSecure...)
	}
	if c.HTTPOnly {
		dst = append(dst, ';', ' ')
		dst = append(dst, strCookieHTTPOnly...)
	}
	return dst
}

// String returns cookie representation.
func (c *Cookie) String() string {
	return string(c.AppendBytes(nil))
}

// AppendCookies appends the header representation of cookies followed by
// a discarding cookie for every name in discard, and returns the extended dst.
//
// Entries are separated by "; ". Cookies with an empty name are skipped,
// since they cannot be read back. Names are not deduplicated: a name present
// in both cookies and discard is written twice, and the client decides
// which entry wins.
func AppendCookies(dst []byte, cookies []Cookie, discard []string) []byte {
	n := 0
	for i := range cookies {
		c := &cookies[i]
		if len(c.Name) == 0 {
			continue
		}
		if n > 0 {
			dst = append(dst, ';', ' ')
		}
		dst = c.AppendBytes(dst)
		n++
	}
	for _, name := range discard {
		if len(name) == 0 {
			continue
		}
		if n > 0 {
			dst = append(dst, ';', ' ')
		}
		c := DiscardingCookie(name)
		dst = c.AppendBytes(dst)
		n++
	}
	return dst
}

// EncodeCookies returns the header representation of cookies followed by
// a discarding cookie for every name in discard.
//
// See AppendCookies for details.
func EncodeCookies(cookies []Cookie, discard []string) string {
	buf := AcquireByteBuffer()
	buf.B = AppendCookies(buf.B[:0], cookies, discard)
	s := string(buf.B)
	ReleaseByteBuffer(buf)
	return s
}

// DecodeCookies parses a Set-Cookie or Cookie header value into cookies
// in header order.
//
// Attribute names are matched case-insensitively and attach to the cookie
// preceding them. Any other name=value pair starts a new cookie.
// Malformed segments are skipped, so DecodeCookies never fails;
// a header without cookies results in nil.
func DecodeCookies(header string) []Cookie {
	return AppendDecodedCookies(nil, s2b(header))
}

// AppendDecodedCookies appends cookies parsed from src to dst
// and returns the extended dst.
//
// Attributes in src never modify cookies already present in dst.
func AppendDecodedCookies(dst []Cookie, src []byte) []Cookie {
	var s cookieScanner
	s.b = src

	var seg cookieSegment
	cur := -1
	for s.next(&seg) {
		key := seg.key
		if len(key) == 0 {
			continue
		}
		dollar := key[0] == '$'
		if dollar {
			key = key[1:]
		}

		attr := lookupCookieAttr(key)
		if attr == cookieAttrNone {
			if dollar || !seg.hasValue {
				continue
			}
			dst = append(dst, Cookie{
				Name:   string(seg.key),
				Value:  string(seg.value),
				MaxAge: CookieMaxAgeTransient,
				Path:   "/",
			})
			cur = len(dst) - 1
			continue
		}
		if cur < 0 {
			// attribute without a cookie to attach to
			continue
		}

		c := &dst[cur]
		switch attr {
		case cookieAttrPath:
			if len(seg.value) > 0 {
				c.Path = string(seg.value)
			}
		case cookieAttrDomain:
			if len(seg.value) > 0 {
				c.Domain = string(seg.value)
			}
		case cookieAttrMaxAge:
			maxAge, err := ParseInt(seg.value)
			if err != nil {
				continue
			}
			if maxAge < 0 {
				maxAge = 0
			}
			c.MaxAge = maxAge
		case cookieAttrSecure:
			c.Secure = true
		case cookieAttrHTTPOnly:
			c.HTTPOnly = true
		}
	}
	return dst
}

// MergeCookies decodes existing, appends cookies to the decoded ones and
// encodes the result together with discard.
//
// It allows accumulating cookies over several stages without losing the
// cookies set by earlier stages.
func MergeCookies(existing string, cookies []Cookie, discard []string) string {
	decoded := AppendDecodedCookies(nil, s2b(existing))
	decoded = append(decoded, cookies...)
	return EncodeCookies(decoded, discard)
}

// LookupCookie returns the first cookie with the given name.
//
// Names are compared case-sensitively.
func LookupCookie(cookies []Cookie, name string) (Cookie, bool) {
	for i := range cookies {
		if cookies[i].Name == name {
			return cookies[i], true
		}
	}
	return Cookie{}, false
}

func appendCookiePart(dst, key []byte, value string) []byte {
	dst = append(dst, ';', ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return append(dst, value...)
}

type cookieAttr int

const (
	cookieAttrNone cookieAttr = iota
	cookieAttrPath
	cookieAttrDomain
	cookieAttrMaxAge
	cookieAttrSecure
	cookieAttrHTTPOnly
	cookieAttrIgnored
)

func lookupCookieAttr(key []byte) cookieAttr {
	if len(key) == 0 {
		return cookieAttrNone
	}
	// Case insensitive switch on first char
	switch key[0] | 0x20 {
	case 'p':
		if caseInsensitiveCompare(strCookiePath, key) {
			return cookieAttrPath
		}
		if caseInsensitiveCompare(strCookiePort, key) ||
			caseInsensitiveCompare(strCookiePartitioned, key) ||
			caseInsensitiveCompare(strCookiePriority, key) {
			return cookieAttrIgnored
		}
	case 'd':
		if caseInsensitiveCompare(strCookieDomain, key) {
			return cookieAttrDomain
		}
		if caseInsensitiveCompare(strCookieDiscard, key) {
			return cookieAttrIgnored
		}
	case 'm':
		if caseInsensitiveCompare(strCookieMaxAge, key) {
			return cookieAttrMaxAge
		}
	case 's':
		if caseInsensitiveCompare(strCookieSecure, key) {
			return cookieAttrSecure
		}
		if caseInsensitiveCompare(strCookieSameSite, key) {
			return cookieAttrIgnored
		}
	case 'h':
		if caseInsensitiveCompare(strCookieHTTPOnly, key) {
			return cookieAttrHTTPOnly
		}
	case 'e':
		if caseInsensitiveCompare(strCookieExpires, key) {
			return cookieAttrIgnored
		}
	case 'v':
		if caseInsensitiveCompare(strCookieVersion, key) {
			return cookieAttrIgnored
		}
	case 'c':
		if caseInsensitiveCompare(strCookieComment, key) ||
			caseInsensitiveCompare(strCookieCommentURL, key) {
			return cookieAttrIgnored
		}
	}
	return cookieAttrNone
}

type cookieSegment struct {
	key   []byte
	value []byte

	// hasValue is set when the segment contains '='.
	hasValue bool
}

type cookieScanner struct {
	b []byte
}

// next splits the next ';'-delimited segment at its first '='.
//
// key and value point into the scanned buffer.
func (s *cookieScanner) next(seg *cookieSegment) bool {
	b := s.b
	if len(b) == 0 {
		return false
	}

	n := len(b)
	rest := b[n:]
	for i, c := range b {
		if c == ';' {
			n = i
			rest = b[i+1:]
			break
		}
	}
	b = b[:n]
	s.b = rest

	seg.hasValue = false
	for i, c := range b {
		if c == '=' {
			seg.key = trimSpaces(b[:i])
			seg.value = unquoteCookieValue(trimSpaces(b[i+1:]))
			seg.hasValue = true
			return true
		}
	}
	seg.key = trimSpaces(b)
	seg.value = nil
	return true
}

func unquoteCookieValue(src []byte) []byte {
	if len(src) > 1 && src[0] == '"' && src[len(src)-1] == '"' {
		src = src[1 : len(src)-1]
	}
	return src
}
