package iostream_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/opal-lang/cmdstream/iostream"
	"github.com/stretchr/testify/require"
)

type epipeWriter struct{}

func (epipeWriter) Write([]byte) (int, error) {
	return 0, &os.PathError{Op: "write", Path: "pipe", Err: syscall.EPIPE}
}

func TestSafeWriterSwallowsEPIPE(t *testing.T) {
	var called int
	w := iostream.NewSafeWriter(epipeWriter{}, func() { called++ })

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.True(t, w.Dead())
	require.Equal(t, 1, called)

	// Second write after death is a silent no-op, notifier not re-fired.
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	require.Equal(t, 1, called)
}

type otherErrWriter struct{}

func (otherErrWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSafeWriterPropagatesOtherErrors(t *testing.T) {
	w := iostream.NewSafeWriter(otherErrWriter{}, nil)
	_, err := w.Write([]byte("x"))
	require.Error(t, err)
	require.False(t, w.Dead())
}

func TestSafeWriterPassesThroughOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	w := iostream.NewSafeWriter(&buf, nil)
	_, err := w.Write([]byte("ok"))
	require.NoError(t, err)
	require.Equal(t, "ok", buf.String())
}

func TestLazyBlocksUntilResolved(t *testing.T) {
	l := iostream.NewLazy()
	done := make(chan struct{})
	var n int
	var err error
	buf := make([]byte, 16)
	go func() {
		n, err = l.Read(buf)
		close(done)
	}()

	l.Resolve(bytes.NewReader([]byte("hi")))
	<-done
	require.NoError(t, err)
	require.Equal(t, "hi", string(buf[:n]))
}

func TestLazyClosedBeforeResolveReturnsErrClosedPipe(t *testing.T) {
	l := iostream.NewLazy()
	l.Close()
	_, err := l.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestChunkBufferWriteDoesNotBlockWithoutReader(t *testing.T) {
	b := iostream.NewChunkBuffer()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			_, _ = b.Write([]byte("x"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write blocked with no reader attached")
	}
}

func TestChunkBufferReadDrainsInOrder(t *testing.T) {
	b := iostream.NewChunkBuffer()
	_, _ = b.Write([]byte("hello "))
	_, _ = b.Write([]byte("world"))
	_ = b.Close()

	got, err := io.ReadAll(b)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}
