/*
Package fastscope encodes HTTP cookies and the cookie-backed session
and flash scopes.

Fastscope provides the following:

  - Cookie codec. EncodeCookies and DecodeCookies convert cookie records
    to and from Set-Cookie / Cookie header text. MergeCookies adds new and
    discarded cookies to an existing header value.
  - Scope codec. A Scope is an immutable string map stored in a single
    cookie. SessionCodec and FlashCodec store scopes in the PLAY_SESSION
    and PLAY_FLASH cookies.
  - Request and response headers. RequestHeader decodes cookies, session
    and flash lazily, ResponseHeader accumulates Set-Cookie output.

Decoding never fails. Malformed header segments are skipped and corrupted
scope cookies decode to the blank scope, since the input comes from
the client.

Cookies are neither signed nor encrypted.
*/
package fastscope
