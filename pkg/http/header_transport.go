package http

import "net/http"

// headerTransport sets fixed headers on every outgoing request that does not
// carry them already.
type headerTransport struct {
	headers   http.Header
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	for name, values := range t.headers {
		if reqCopy.Header.Get(name) == "" {
			reqCopy.Header[name] = values
		}
	}
	return t.transport.RoundTrip(reqCopy)
}

func withHeader(name, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		headers := http.Header{}
		headers.Set(name, value)
		return &headerTransport{headers: headers, transport: rt}
	})
}

// WithAuthToken sends token as a bearer credential. An empty token adds nothing.
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return func(*httpConfig) {}
	}
	return withHeader("Authorization", "Bearer "+token)
}

// WithUserAgent identifies the client to upstream services.
func WithUserAgent(agent string) HttpOpts {
	return withHeader("User-Agent", agent)
}
