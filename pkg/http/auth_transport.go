package http

import (
	"net/http"

	"golang.org/x/oauth2"
)

type authTransport struct {
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.token != "" {
		reqCopy.Header.Set("Authorization", "Bearer "+t.token)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends a fixed bearer token. An empty token sends no header.
func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			token:     token,
			transport: rt,
		}
	})
}

// WithTokenSource authorizes every request with a token from ts, refreshing it as needed.
func WithTokenSource(ts oauth2.TokenSource) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, ts),
			Base:   rt,
		}
	})
}
