package fastscope

import (
	"errors"
	"sync"
	"testing"
)

func TestRequestHeaderCookies(t *testing.T) {
	t.Parallel()

	h := NewRequestHeader("sid=abc123; theme=dark; PLAY_FLASH=notice%3Adone")
	if h.RawCookie() != "sid=abc123; theme=dark; PLAY_FLASH=notice%3Adone" {
		t.Fatalf("unexpected raw cookie %q", h.RawCookie())
	}
	cookies := h.Cookies()
	if len(cookies) != 3 {
		t.Fatalf("unexpected number of cookies %d. Expecting 3", len(cookies))
	}
	cookies[0].Value = "modified"
	if c, _ := h.Cookie("sid"); c.Value != "abc123" {
		t.Fatalf("Cookies must return a copy")
	}

	c, err := h.CookieOrErr("theme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Value != "dark" {
		t.Fatalf("unexpected value %q. Expecting %q", c.Value, "dark")
	}
	if _, err = h.CookieOrErr("missing"); !errors.Is(err, ErrNoCookie) {
		t.Fatalf("unexpected error %v. Expecting %v", err, ErrNoCookie)
	}

	if s := h.Session(); !s.Equal(BlankSession) {
		t.Fatalf("unexpected session %v. Expecting blank", s.Map())
	}
	if v, _ := h.Flash().Get("notice"); v != "done" {
		t.Fatalf("unexpected flash %v", h.Flash().Map())
	}
}

func TestRequestHeaderCorrupted(t *testing.T) {
	t.Parallel()

	h := NewRequestHeader("PLAY_SESSION=%zz; ;=; PLAY_FLASH")
	if s := h.Session(); !s.Equal(BlankSession) {
		t.Fatalf("unexpected session %v. Expecting blank", s.Map())
	}
	if s := h.Flash(); !s.Equal(BlankFlash) {
		t.Fatalf("unexpected flash %v. Expecting blank", s.Map())
	}
	if cookies := h.Cookies(); len(cookies) != 1 {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
}

func TestRequestHeaderCustomCodec(t *testing.T) {
	t.Parallel()

	logger := &testLogger{}
	codec := &ScopeCodec{CookieName: "APP_SESSION", Logger: logger}
	h := NewRequestHeader("PLAY_SESSION=a%3A1; APP_SESSION=b%3A2")
	h.SessionCodec = codec

	s := h.Session()
	if s.Codec() != codec {
		t.Fatalf("unexpected codec %+v", s.Codec())
	}
	if v, _ := s.Get("b"); v != "2" || s.Has("a") {
		t.Fatalf("unexpected session %v", s.Map())
	}
	if len(logger.lines) != 0 {
		t.Fatalf("unexpected log lines %q", logger.lines)
	}
}

func TestRequestHeaderConcurrent(t *testing.T) {
	t.Parallel()

	h := NewRequestHeader("PLAY_SESSION=user%3Abob")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, _ := h.Session().Get("user"); v != "bob" {
				t.Errorf("unexpected session %v", h.Session().Map())
			}
		}()
	}
	wg.Wait()
}

func TestResponseHeaderStaging(t *testing.T) {
	t.Parallel()

	var h ResponseHeader
	h.SetCookie(NewCookie("a", "1"))
	h.SetCookie(Cookie{Name: "b", Value: "2", MaxAge: 60, Path: "/b", Secure: true})
	h.DiscardCookie("c")

	expected := "a=1; Path=/; HttpOnly; b=2; Max-Age=60; Path=/b; Secure; c=; Max-Age=0; Path=/"
	if s := h.SetCookieHeader(); s != expected {
		t.Fatalf("unexpected header %q. Expecting %q", s, expected)
	}
	if cookies := h.Cookies(); len(cookies) != 3 {
		t.Fatalf("unexpected number of cookies %d. Expecting 3", len(cookies))
	}

	h.Reset()
	if s := h.SetCookieHeader(); s != "" {
		t.Fatalf("unexpected header %q after reset", s)
	}
}

func TestResponseHeaderScopes(t *testing.T) {
	t.Parallel()

	var h ResponseHeader
	h.SetSession(BlankSession.Set("user", "bob"))
	h.SetFlash(BlankFlash)

	expected := "PLAY_SESSION=user%3Abob; Path=/; HttpOnly; PLAY_FLASH=; Max-Age=0; Path=/"
	if s := h.SetCookieHeader(); s != expected {
		t.Fatalf("unexpected header %q. Expecting %q", s, expected)
	}

	req := NewRequestHeader(h.SetCookieHeader())
	if v, _ := req.Session().Get("user"); v != "bob" {
		t.Fatalf("unexpected session %v", req.Session().Map())
	}
	if !req.Flash().IsEmpty() {
		t.Fatalf("unexpected flash %v", req.Flash().Map())
	}
}
