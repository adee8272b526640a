// Package httpadaptor connects net/http requests and responses
// to fastscope request and response headers.
package httpadaptor

import (
	"net/http"
	"strings"

	"github.com/valyala/fastscope"
)

// NewRequestHeader returns fastscope.RequestHeader for the cookies of r.
//
// Multiple Cookie header lines are joined with "; ", the way HTTP/2
// clients may split them.
func NewRequestHeader(r *http.Request) *fastscope.RequestHeader {
	return fastscope.NewRequestHeader(strings.Join(r.Header.Values(fastscope.HeaderCookie), "; "))
}

// WriteSetCookie adds a Set-Cookie line to w for every cookie staged in h.
//
// It must be called before the response status is written.
func WriteSetCookie(w http.ResponseWriter, h *fastscope.ResponseHeader) {
	dst := w.Header()
	for _, c := range h.Cookies() {
		dst.Add(fastscope.HeaderSetCookie, c.String())
	}
}
