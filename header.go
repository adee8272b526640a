package fastscope

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNoCookie is returned when a required request cookie is missing.
var ErrNoCookie = errors.New("cookie not found")

// RequestHeader gives access to the cookies, the session and the flash
// carried by a request Cookie header.
//
// Everything is decoded lazily on first access. It is safe to call
// RequestHeader methods from concurrently running goroutines.
// Do not modify RequestHeader fields after the first method call.
type RequestHeader struct {
	// SessionCodec is used for decoding the session.
	//
	// The package-level SessionCodec is used if not set.
	SessionCodec *ScopeCodec

	// FlashCodec is used for decoding the flash.
	//
	// The package-level FlashCodec is used if not set.
	FlashCodec *ScopeCodec

	raw string

	cookiesOnce sync.Once
	cookies     []Cookie

	sessionOnce sync.Once
	session     Scope

	flashOnce sync.Once
	flash     Scope
}

// NewRequestHeader returns RequestHeader for the given Cookie header value.
func NewRequestHeader(rawCookie string) *RequestHeader {
	return &RequestHeader{raw: rawCookie}
}

// RawCookie returns the Cookie header value h was created from.
func (h *RequestHeader) RawCookie() string {
	return h.raw
}

// Cookies returns a copy of the request cookies in header order.
func (h *RequestHeader) Cookies() []Cookie {
	return slices.Clone(h.decodedCookies())
}

// Cookie returns the first request cookie with the given name.
func (h *RequestHeader) Cookie(name string) (Cookie, bool) {
	return LookupCookie(h.decodedCookies(), name)
}

// CookieOrErr returns the first request cookie with the given name
// or an error wrapping ErrNoCookie.
func (h *RequestHeader) CookieOrErr(name string) (Cookie, error) {
	c, ok := h.Cookie(name)
	if !ok {
		return Cookie{}, fmt.Errorf("%w: %q", ErrNoCookie, name)
	}
	return c, nil
}

// Session returns the session decoded from the request cookies.
//
// The blank session is returned if the session cookie is missing or corrupted.
func (h *RequestHeader) Session() Scope {
	h.sessionOnce.Do(func() {
		h.session = h.sessionCodec().DecodeFromCookies(h.decodedCookies())
	})
	return h.session
}

// Flash returns the flash decoded from the request cookies.
//
// The blank flash is returned if the flash cookie is missing or corrupted.
func (h *RequestHeader) Flash() Scope {
	h.flashOnce.Do(func() {
		h.flash = h.flashCodec().DecodeFromCookies(h.decodedCookies())
	})
	return h.flash
}

func (h *RequestHeader) decodedCookies() []Cookie {
	h.cookiesOnce.Do(func() {
		h.cookies = DecodeCookies(h.raw)
	})
	return h.cookies
}

func (h *RequestHeader) sessionCodec() *ScopeCodec {
	if h.SessionCodec == nil {
		return SessionCodec
	}
	return h.SessionCodec
}

func (h *RequestHeader) flashCodec() *ScopeCodec {
	if h.FlashCodec == nil {
		return FlashCodec
	}
	return h.FlashCodec
}

// ResponseHeader accumulates the Set-Cookie header value of a response.
//
// Every call merges into the value built so far, so cookies staged by
// earlier handlers are kept. Names are not deduplicated.
//
// ResponseHeader instance MUST NOT be used from concurrently running
// goroutines.
type ResponseHeader struct {
	// SessionCodec is used by SetSession.
	//
	// The package-level SessionCodec is used if not set.
	SessionCodec *ScopeCodec

	// FlashCodec is used by SetFlash.
	//
	// The package-level FlashCodec is used if not set.
	FlashCodec *ScopeCodec

	setCookie string
}

// SetCookie stages the given cookies.
func (h *ResponseHeader) SetCookie(cookies ...Cookie) {
	h.setCookie = MergeCookies(h.setCookie, cookies, nil)
}

// DiscardCookie instructs the client to remove the cookies
// with the given names.
//
// See DiscardingCookie for the limitations.
func (h *ResponseHeader) DiscardCookie(names ...string) {
	h.setCookie = MergeCookies(h.setCookie, nil, names)
}

// SetSession stages the session cookie for s.
//
// An empty s discards the session cookie instead.
func (h *ResponseHeader) SetSession(s Scope) {
	h.setScope(h.sessionCodec(), s)
}

// SetFlash stages the flash cookie for s.
//
// An empty s discards the flash cookie instead.
func (h *ResponseHeader) SetFlash(s Scope) {
	h.setScope(h.flashCodec(), s)
}

func (h *ResponseHeader) setScope(c *ScopeCodec, s Scope) {
	if s.IsEmpty() {
		h.DiscardCookie(c.CookieName)
		return
	}
	h.SetCookie(c.EncodeAsCookie(s))
}

// SetCookieHeader returns the accumulated Set-Cookie header value.
func (h *ResponseHeader) SetCookieHeader() string {
	return h.setCookie
}

// Cookies returns the staged cookies, discarding cookies included.
func (h *ResponseHeader) Cookies() []Cookie {
	return DecodeCookies(h.setCookie)
}

// Reset clears all the staged cookies.
func (h *ResponseHeader) Reset() {
	h.setCookie = ""
}

func (h *ResponseHeader) sessionCodec() *ScopeCodec {
	if h.SessionCodec == nil {
		return SessionCodec
	}
	return h.SessionCodec
}

func (h *ResponseHeader) flashCodec() *ScopeCodec {
	if h.FlashCodec == nil {
		return FlashCodec
	}
	return h.FlashCodec
}
