// Package fetch attaches the session's bearer token to outgoing requests.
package fetch

import (
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource supplies the current bearer token. session.Manager satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// Fetcher sends requests with the current token attached. It never retries
// and never looks at the response.
type Fetcher struct {
	tokens TokenSource
	base   http.RoundTripper
}

// New returns a Fetcher sending through base, or http.DefaultTransport when base is nil.
func New(tokens TokenSource, base http.RoundTripper) *Fetcher {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Fetcher{tokens: tokens, base: base}
}

// FetchWithAuth sends req once. When a token is present it is set as a Bearer
// Authorization header on a copy of req; every other header is preserved.
// Without a token the request goes out unmodified.
func (f *Fetcher) FetchWithAuth(req *http.Request) (*http.Response, error) {
	return f.base.RoundTrip(f.authorize(req))
}

// Transport returns the Fetcher as an http.RoundTripper.
func (f *Fetcher) Transport() http.RoundTripper {
	return roundTripperFunc(f.FetchWithAuth)
}

func (f *Fetcher) authorize(req *http.Request) *http.Request {
	if f.tokens == nil {
		return req
	}
	token, ok := f.tokens.Token()
	if !ok {
		return req
	}

	out := req.Clone(req.Context())
	tok := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	tok.SetAuthHeader(out)
	return out
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
