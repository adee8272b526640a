package fastscope

import (
	"bytes"
	"iter"
	"maps"
	"slices"
	"strings"
)

const (
	// SessionCookieName is the name of the cookie carrying the session scope.
	SessionCookieName = "PLAY_SESSION"

	// FlashCookieName is the name of the cookie carrying the flash scope.
	FlashCookieName = "PLAY_FLASH"

	// ScopeKeySeparator separates a key from its value in a serialized scope.
	// Keys containing it or ScopeRecordSeparator are dropped on serialization.
	ScopeKeySeparator = ':'

	// ScopeRecordSeparator separates entries in a serialized scope.
	ScopeRecordSeparator = 0
)

// ScopeCodec converts scopes to and from the value of a single cookie.
//
// It is safe to call ScopeCodec methods from concurrently running goroutines.
// Do not modify the ScopeCodec fields after the first use.
type ScopeCodec struct {
	// CookieName is the name of the cookie the scope is stored in.
	CookieName string

	// Compress enables deflate compression of payloads at least
	// CompressThreshold bytes long.
	//
	// Compressed payloads can be read back only by codecs with
	// Compress enabled.
	Compress bool

	// DefaultCompressThreshold is used if not set.
	CompressThreshold int

	// Compressed payloads inflating beyond MaxDecompressedSize bytes
	// are treated as corrupted.
	//
	// DefaultMaxDecompressedSize is used if not set.
	MaxDecompressedSize int

	// Logger receives a line for every payload that cannot be decoded.
	//
	// Nothing is logged if Logger is nil.
	Logger Logger
}

var (
	// SessionCodec stores scopes in the PLAY_SESSION cookie.
	SessionCodec = &ScopeCodec{CookieName: SessionCookieName}

	// FlashCodec stores scopes in the PLAY_FLASH cookie.
	FlashCodec = &ScopeCodec{CookieName: FlashCookieName}

	// BlankSession is the session returned when no usable
	// session cookie is present.
	BlankSession = SessionCodec.Blank()

	// BlankFlash is the flash returned when no usable
	// flash cookie is present.
	BlankFlash = FlashCodec.Blank()
)

// Blank returns the empty scope of c.
func (c *ScopeCodec) Blank() Scope {
	return Scope{codec: c}
}

// New returns a scope of c holding a copy of kv.
func (c *ScopeCodec) New(kv map[string]string) Scope {
	if len(kv) == 0 {
		return c.Blank()
	}
	return Scope{
		codec: c,
		kv:    maps.Clone(kv),
	}
}

// Serialize returns the cookie value representing s.
//
// Keys containing ScopeKeySeparator or ScopeRecordSeparator are silently
// dropped. Values must not contain ScopeRecordSeparator.
// Entries are written in key order. The empty scope results in "".
func (c *ScopeCodec) Serialize(s Scope) string {
	buf := AcquireByteBuffer()
	buf.B = c.AppendSerialized(buf.B[:0], s)
	str := string(buf.B)
	ReleaseByteBuffer(buf)
	return str
}

// AppendSerialized appends the cookie value representing s to dst
// and returns the extended dst.
func (c *ScopeCodec) AppendSerialized(dst []byte, s Scope) []byte {
	flat := AcquireByteBuffer()
	flat.B = appendFlatScope(flat.B[:0], s.kv)
	if c.Compress && len(flat.B) >= c.compressThreshold() {
		compressed, err := appendCompressedScope(dst, flat.B)
		if err == nil {
			ReleaseByteBuffer(flat)
			return compressed
		}
		c.logf("cannot compress %s cookie, storing it uncompressed: %v", c.CookieName, err)
	}
	dst = appendQuotedArg(dst, flat.B)
	ReleaseByteBuffer(flat)
	return dst
}

// Deserialize parses a cookie value produced by Serialize.
//
// Blank is returned for empty, whitespace-only and corrupted values,
// so Deserialize never fails.
func (c *ScopeCodec) Deserialize(value string) Scope {
	kv, err := c.decode(s2b(value))
	if err != nil {
		c.logf("cannot decode %s cookie %q: %v", c.CookieName, value, err)
		return c.Blank()
	}
	if len(kv) == 0 {
		return c.Blank()
	}
	return Scope{
		codec: c,
		kv:    kv,
	}
}

// EncodeAsCookie returns the cookie carrying s.
func (c *ScopeCodec) EncodeAsCookie(s Scope) Cookie {
	return NewCookie(c.CookieName, c.Serialize(s))
}

// DecodeFromCookies decodes the first cookie named c.CookieName.
//
// Blank is returned if there is no such cookie.
func (c *ScopeCodec) DecodeFromCookies(cookies []Cookie) Scope {
	cookie, ok := LookupCookie(cookies, c.CookieName)
	if !ok {
		return c.Blank()
	}
	return c.Deserialize(cookie.Value)
}

func (c *ScopeCodec) decode(src []byte) (map[string]string, error) {
	src = trimSpaces(src)
	if len(src) == 0 {
		return nil, nil
	}

	flat := AcquireByteBuffer()
	defer ReleaseByteBuffer(flat)

	var err error
	if c.Compress && src[0] == compressedScopePrefix {
		flat.B, err = inflateScope(flat.B[:0], src[1:], c.maxDecompressedSize())
	} else {
		flat.B, err = decodeArgAppend(flat.B[:0], src)
	}
	if err != nil {
		return nil, err
	}
	return parseFlatScope(flat.B), nil
}

func (c *ScopeCodec) compressThreshold() int {
	if c.CompressThreshold <= 0 {
		return DefaultCompressThreshold
	}
	return c.CompressThreshold
}

func (c *ScopeCodec) maxDecompressedSize() int {
	if c.MaxDecompressedSize <= 0 {
		return DefaultMaxDecompressedSize
	}
	return c.MaxDecompressedSize
}

func (c *ScopeCodec) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func appendFlatScope(dst []byte, kv map[string]string) []byte {
	n := 0
	for _, k := range slices.Sorted(maps.Keys(kv)) {
		if strings.IndexByte(k, ScopeKeySeparator) >= 0 || strings.IndexByte(k, ScopeRecordSeparator) >= 0 {
			continue
		}
		if n > 0 {
			dst = append(dst, ScopeRecordSeparator)
		}
		dst = append(dst, k...)
		dst = append(dst, ScopeKeySeparator)
		dst = append(dst, kv[k]...)
		n++
	}
	return dst
}

func parseFlatScope(b []byte) map[string]string {
	var kv map[string]string
	for len(b) > 0 {
		var entry []byte
		n := bytes.IndexByte(b, ScopeRecordSeparator)
		if n < 0 {
			entry, b = b, nil
		} else {
			entry, b = b[:n], b[n+1:]
		}
		if len(entry) == 0 {
			continue
		}
		if kv == nil {
			kv = make(map[string]string)
		}
		// values may contain the separator, only the first one counts
		if k, v, ok := bytes.Cut(entry, []byte{ScopeKeySeparator}); ok {
			kv[string(k)] = string(v)
		} else {
			kv[string(entry)] = ""
		}
	}
	return kv
}

// Scope is an immutable string map stored in a single cookie,
// such as the session or the flash.
//
// Methods changing the scope return a new Scope and leave the
// receiver untouched, so a Scope may be shared between goroutines.
type Scope struct {
	codec *ScopeCodec
	kv    map[string]string
}

// Codec returns the codec s belongs to.
func (s Scope) Codec() *ScopeCodec {
	if s.codec == nil {
		return &zeroScopeCodec
	}
	return s.codec
}

var zeroScopeCodec ScopeCodec

// Get returns the value for the given key.
func (s Scope) Get(key string) (string, bool) {
	v, ok := s.kv[key]
	return v, ok
}

// Has returns true if s contains the given key.
func (s Scope) Has(key string) bool {
	_, ok := s.kv[key]
	return ok
}

// Set returns a copy of s with key set to value.
func (s Scope) Set(key, value string) Scope {
	kv := make(map[string]string, len(s.kv)+1)
	maps.Copy(kv, s.kv)
	kv[key] = value
	return Scope{
		codec: s.codec,
		kv:    kv,
	}
}

// Del returns a copy of s without the given key.
func (s Scope) Del(key string) Scope {
	if !s.Has(key) {
		return s
	}
	if len(s.kv) == 1 {
		return Scope{codec: s.codec}
	}
	kv := maps.Clone(s.kv)
	delete(kv, key)
	return Scope{
		codec: s.codec,
		kv:    kv,
	}
}

// Len returns the number of entries in s.
func (s Scope) Len() int {
	return len(s.kv)
}

// IsEmpty returns true if s has no entries.
func (s Scope) IsEmpty() bool {
	return len(s.kv) == 0
}

// All returns an iterator over the entries of s in key order.
func (s Scope) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(s.kv)) {
			if !yield(k, s.kv[k]) {
				break
			}
		}
	}
}

// Map returns a copy of the entries of s.
func (s Scope) Map() map[string]string {
	if s.kv == nil {
		return map[string]string{}
	}
	return maps.Clone(s.kv)
}

// Equal returns true if s and other belong to the same codec
// and hold the same entries.
func (s Scope) Equal(other Scope) bool {
	return s.Codec() == other.Codec() && maps.Equal(s.kv, other.kv)
}

// String returns the serialized form of s.
func (s Scope) String() string {
	return s.Codec().Serialize(s)
}
