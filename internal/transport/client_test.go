package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/pkg/errors"
)

func TestClientJSON(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7}`))
	}))
	defer srv.Close()

	c := New("netbox", &TokenAuth{}, "secret", WithWriteRateLimit(100))

	var out struct {
		ID int `json:"id"`
	}
	err := c.JSON(context.Background(), http.MethodPost, srv.URL+"/api/dcim/manufacturers/", map[string]string{"name": "Cisco"}, &out)
	require.NoError(t, err)

	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Cisco", gotBody["name"])
}

func TestClientJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"slug": ["manufacturer with this slug already exists."]}` + "\n"))
	}))
	defer srv.Close()

	c := New("netbox", &TokenAuth{}, "secret")
	err := c.JSON(context.Background(), http.MethodPost, srv.URL, map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "netbox", apiErr.Provider)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, `{"slug": ["manufacturer with this slug already exists."]}`, apiErr.Message)
}

func TestClientSkipsAuthWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New("netbox", &TokenAuth{}, "")
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, srv.URL, nil, nil))
	assert.Empty(t, gotAuth)
}
