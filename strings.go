package fastscope

// Header names handled by this package.
const (
	HeaderCookie    = "Cookie"
	HeaderSetCookie = "Set-Cookie"
)

var (
	strCookieMaxAge   = []byte("Max-Age")
	strCookieDomain   = []byte("Domain")
	strCookiePath     = []byte("Path")
	strCookieHTTPOnly = []byte("HttpOnly")
	strCookieSecure   = []byte("Secure")

	// Attributes recognised on the wire and ignored on decode.
	strCookieExpires     = []byte("expires")
	strCookieSameSite    = []byte("samesite")
	strCookieVersion     = []byte("version")
	strCookieComment     = []byte("comment")
	strCookieCommentURL  = []byte("commenturl")
	strCookieDiscard     = []byte("discard")
	strCookiePort        = []byte("port")
	strCookiePartitioned = []byte("partitioned")
	strCookiePriority    = []byte("priority")
)
