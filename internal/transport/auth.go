package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// TokenAuth sets "Authorization: <Scheme> <token>". NetBox uses the "Token" scheme.
type TokenAuth struct {
	Scheme string
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request, token string) {
	scheme := a.Scheme
	if scheme == "" {
		scheme = "Token"
	}
	req.Header.Set("Authorization", scheme+" "+token)
}

// HeaderAuth implements custom header authentication (IP Fabric uses X-API-Token).
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}
