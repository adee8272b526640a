package fastscope

import (
	"strings"
	"testing"
)

var benchSetCookie = "sid=abc123; Max-Age=3600; Path=/; Domain=foobar.com; Secure; HttpOnly; " +
	"PLAY_SESSION=user%3Abob%00role%3Aadmin; Path=/; HttpOnly; theme=dark"

func BenchmarkDecodeCookies(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cookies := DecodeCookies(benchSetCookie)
		if len(cookies) != 3 {
			b.Fatalf("unexpected number of cookies %d. Expecting 3", len(cookies))
		}
	}
}

func BenchmarkAppendCookies(b *testing.B) {
	cookies := DecodeCookies(benchSetCookie)
	discard := []string{"old"}
	var buf []byte
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = AppendCookies(buf[:0], cookies, discard)
	}
}

func BenchmarkMergeCookies(b *testing.B) {
	c := NewCookie("lang", "en")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := MergeCookies(benchSetCookie, []Cookie{c}, nil)
		if len(s) == 0 {
			b.Fatalf("unexpected empty header")
		}
	}
}

func BenchmarkScopeSerialize(b *testing.B) {
	s := SessionCodec.New(map[string]string{
		"user":  "bob",
		"role":  "admin",
		"csrf":  "4b6f2a0c9d1e",
		"theme": "dark mode",
	})
	var buf []byte
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = SessionCodec.AppendSerialized(buf[:0], s)
	}
}

func BenchmarkScopeDeserialize(b *testing.B) {
	value := SessionCodec.Serialize(SessionCodec.New(map[string]string{
		"user":  "bob",
		"role":  "admin",
		"csrf":  "4b6f2a0c9d1e",
		"theme": "dark mode",
	}))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if s := SessionCodec.Deserialize(value); s.Len() != 4 {
			b.Fatalf("unexpected scope size %d. Expecting 4", s.Len())
		}
	}
}

func BenchmarkScopeCompressed(b *testing.B) {
	c := &ScopeCodec{CookieName: "C", Compress: true}
	s := c.New(map[string]string{"cart": strings.Repeat("item-42,", 64)})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if got := c.Deserialize(c.Serialize(s)); got.Len() != 1 {
			b.Fatalf("unexpected scope size %d. Expecting 1", got.Len())
		}
	}
}
