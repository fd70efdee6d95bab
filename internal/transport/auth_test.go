package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticators(t *testing.T) {
	tests := []struct {
		name   string
		auth   Authenticator
		header string
		want   string
	}{
		{"no auth", &NoAuth{}, "Authorization", ""},
		{"netbox token", &TokenAuth{}, "Authorization", "Token abc"},
		{"custom scheme", &TokenAuth{Scheme: "Bearer"}, "Authorization", "Bearer abc"},
		{"ip fabric header", &HeaderAuth{Header: "X-API-Token"}, "X-API-Token", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{Header: make(http.Header)}
			tt.auth.Apply(req, "abc")
			assert.Equal(t, tt.want, req.Header.Get(tt.header))
		})
	}
}
