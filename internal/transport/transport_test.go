package transport

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-vbuf/api"
)

func TestOpErrorCarriesContext(t *testing.T) {
	err := opError("recv", 7, 2, syscall.ECONNRESET)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.ErrCodeTransport, apiErr.Code)
	assert.Equal(t, "recv", apiErr.Message)
	assert.Equal(t, 7, apiErr.Context["fd"])
	assert.Equal(t, 2, apiErr.Context["flags"])
	assert.ErrorIs(t, err, syscall.ECONNRESET)
}

func TestOpErrorOmitsZeroFlags(t *testing.T) {
	err := opError("readv", 3, 0, syscall.EBADF)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.NotContains(t, apiErr.Context, "flags")
}
