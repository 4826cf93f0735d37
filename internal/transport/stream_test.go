package transport_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/internal/transport"
)

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

type shortWriter struct {
	limit int
	err   error
	buf   bytes.Buffer
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		w.buf.Write(p[:w.limit])
		return w.limit, w.err
	}
	return w.buf.Write(p)
}

func TestStreamWriterBothSpans(t *testing.T) {
	var out bytes.Buffer
	n, err := transport.StreamWriter{W: &out}.Transfer(api.Spans{[]byte("foo"), []byte("bar")})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "foobar", out.String())
}

func TestStreamWriterPartialKeepsCount(t *testing.T) {
	w := &shortWriter{limit: 2, err: errors.New("disk full")}
	n, err := transport.StreamWriter{W: w}.Transfer(api.Spans{[]byte("abcd"), nil})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	w = &shortWriter{limit: 0, err: errors.New("disk full")}
	_, err = transport.StreamWriter{W: w}.Transfer(api.Spans{[]byte("abcd"), nil})
	assert.ErrorContains(t, err, "disk full")
}

func TestStreamWriterDeadlineIsZero(t *testing.T) {
	w := &shortWriter{limit: 0, err: os.ErrDeadlineExceeded}
	n, err := transport.StreamWriter{W: w}.Transfer(api.Spans{[]byte("abcd"), nil})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStreamReader(t *testing.T) {
	buf := make([]byte, 4)
	n, err := transport.StreamReader{R: bytes.NewReader([]byte("xyz"))}.Transfer(api.Spans{buf, make([]byte, 4)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "xyz", string(buf[:3]))

	_, err = transport.StreamReader{R: bytes.NewReader(nil)}.Transfer(api.Spans{buf, nil})
	assert.ErrorIs(t, err, io.EOF)

	n, err = transport.StreamReader{R: errReader{os.ErrDeadlineExceeded}}.Transfer(api.Spans{buf, nil})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = transport.StreamReader{R: errReader{io.ErrClosedPipe}}.Transfer(api.Spans{buf, nil})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
