package fastscope

import (
	"slices"
	"testing"
)

func FuzzDecodeCookies(f *testing.F) {
	f.Add(`xxx=yyy`)
	f.Add(`xxx=yyy; expires=Tue, 10 Nov 2009 23:00:00 GMT; domain=foobar.com; path=/a/b`)
	f.Add(`$Version=1; a=b; $Path=/; Secure; HttpOnly=x; Max-Age=-3`)
	f.Add(" \n\t\"")

	f.Fuzz(func(t *testing.T, header string) {
		cookies := DecodeCookies(header)
		for _, c := range cookies {
			if len(c.Name) == 0 {
				t.Fatalf("decoded cookie without name from %q: %+v", header, cookies)
			}
			if len(c.Path) == 0 {
				t.Fatalf("decoded cookie without path from %q: %+v", header, cookies)
			}
		}

		// a decoded set survives re-encoding
		again := DecodeCookies(EncodeCookies(cookies, nil))
		if len(again) > len(cookies) {
			t.Fatalf("re-encoding %+v added cookies: %+v", cookies, again)
		}
	})
}

func FuzzScopeDeserialize(f *testing.F) {
	f.Add("user%3Abob")
	f.Add("a%3A1%00b%3A2%3A3")
	f.Add("%zz")
	f.Add("~AAAA")

	codecs := []*ScopeCodec{
		SessionCodec,
		{CookieName: "C", Compress: true, CompressThreshold: 1, MaxDecompressedSize: 4096},
	}
	f.Fuzz(func(t *testing.T, value string) {
		for _, c := range codecs {
			s := c.Deserialize(value)
			if s.Codec() != c {
				t.Fatalf("unexpected codec for %q", value)
			}
			if !c.Compress && s.Len() > len(value) {
				t.Fatalf("scope of %d entries from %d bytes", s.Len(), len(value))
			}
		}
	})
}

func FuzzScopeRoundTrip(f *testing.F) {
	f.Add("user", "bob", "k", "a:b")

	c := &ScopeCodec{CookieName: "C", Compress: true, CompressThreshold: 16}
	f.Fuzz(func(t *testing.T, k1, v1, k2, v2 string) {
		kv := map[string]string{k1: v1, k2: v2}
		for k, v := range kv {
			if slices.Contains([]byte(k), ScopeKeySeparator) || slices.Contains([]byte(k), ScopeRecordSeparator) ||
				slices.Contains([]byte(v), ScopeRecordSeparator) {
				return
			}
		}
		for _, codec := range []*ScopeCodec{SessionCodec, c} {
			s := codec.New(kv)
			if got := codec.Deserialize(codec.Serialize(s)); !got.Equal(s) {
				t.Fatalf("unexpected scope after round trip %q. Expecting %q", got.Map(), kv)
			}
		}
	})
}
