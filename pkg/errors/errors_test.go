package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/devicemap/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("device-types vendor directory", "Arista")
	assert.Equal(t, "device-types vendor directory Arista not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(fmt.Errorf("listing: %w", err)))
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("thresholds.model", 1.5, "must be between 0 and 1")
	assert.Equal(t, "invalid thresholds.model 1.5: must be between 0 and 1", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	bare := &pkgerrors.ValidationError{Message: "no categories"}
	assert.Equal(t, "invalid: no categories", bare.Error())
}

func TestAPIError(t *testing.T) {
	t.Run("carries the response detail", func(t *testing.T) {
		err := pkgerrors.NewAPIError("netbox", 400, `{"slug":["device type with this slug already exists."]}`)
		assert.Equal(t, `netbox returned 400: {"slug":["device type with this slug already exists."]}`, err.Error())
		assert.False(t, pkgerrors.IsAlreadyExists(err))
	})

	t.Run("duplicate is marked by the wrapped sentinel", func(t *testing.T) {
		err := &pkgerrors.APIError{Provider: "netbox", StatusCode: 400, Message: "dup", Err: pkgerrors.ErrAlreadyExists}
		assert.True(t, pkgerrors.IsAlreadyExists(fmt.Errorf("create: %w", err)))
	})

	tests := []struct {
		status      int
		notFound    bool
		rateLimited bool
		unavailable bool
	}{
		{400, false, false, false},
		{404, true, false, false},
		{429, false, true, false},
		{500, false, false, true},
		{503, false, false, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := pkgerrors.NewAPIError("ipfabric", tt.status, "x")
			assert.Equal(t, tt.notFound, pkgerrors.IsNotFound(err))
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, errors.Is(err, pkgerrors.ErrServiceUnavailable))
		})
	}
}

func TestConnectivityError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.NewConnectivityError("netbox", "https://netbox.local/api", base)
	assert.Equal(t, "cannot reach netbox at https://netbox.local/api: connection refused", err.Error())
	assert.True(t, pkgerrors.IsUnreachable(err))
	assert.ErrorIs(t, err, base)
}

func TestConfigError(t *testing.T) {
	base := errors.New("missing")
	err := pkgerrors.NewConfigError("remotes", "missing netbox.token", base)
	assert.Equal(t, "configuration error in remotes: missing netbox.token", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestProcessError(t *testing.T) {
	err := &pkgerrors.ProcessError{
		Operation: "clone repository",
		Command:   "git clone",
		Output:    "fatal: repository not found",
		Err:       errors.New("exit status 128"),
	}
	assert.Equal(t, "clone repository (git clone): exit status 128\nfatal: repository not found", err.Error())
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("yaml", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("list", "manufacturers", "", nil))

	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "/tmp/a.yaml", base)
	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read /tmp/a.yaml: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	err = pkgerrors.WrapParse("yaml", "c9300-48p.yaml", errors.New("bad indent"))
	assert.Equal(t, "parsing yaml c9300-48p.yaml: bad indent", err.Error())

	err = pkgerrors.WrapResource("list", "dcim/manufacturers/", "", pkgerrors.NewAPIError("netbox", 503, "down"))
	assert.True(t, errors.Is(err, pkgerrors.ErrServiceUnavailable))
}
