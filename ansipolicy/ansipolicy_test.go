package ansipolicy_test

import (
	"testing"

	"github.com/opal-lang/cmdstream/ansipolicy"
	"github.com/stretchr/testify/require"
)

func TestProcessPassthroughWhenBothPreserved(t *testing.T) {
	data := []byte("\x1b[31mred\x1b[0m\x01bell")
	require.Equal(t, data, ansipolicy.Process(data, ansipolicy.Config{PreserveANSI: true, PreserveControlChars: true}))
}

func TestProcessStripsANSI(t *testing.T) {
	got := ansipolicy.Process([]byte("\x1b[31mred\x1b[0m"), ansipolicy.Config{PreserveControlChars: true})
	require.Equal(t, "red", string(got))
}

func TestProcessStripsControlCharsExceptTabLfCr(t *testing.T) {
	got := ansipolicy.Process([]byte("a\tb\nc\rd\x01e\x7f"), ansipolicy.Config{PreserveANSI: true})
	require.Equal(t, "a\tb\nc\rde", string(got))
}

func TestConfigureAndReset(t *testing.T) {
	f := false
	ansipolicy.Configure(&f, nil)
	require.False(t, ansipolicy.Get().PreserveANSI)

	ansipolicy.Reset()
	require.Equal(t, ansipolicy.DefaultConfig(), ansipolicy.Get())
}
