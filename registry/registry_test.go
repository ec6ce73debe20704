package registry_test

import (
	"testing"

	"github.com/opal-lang/cmdstream/registry"
	"github.com/stretchr/testify/require"
)

func TestRegisterLookup(t *testing.T) {
	r := registry.New()
	r.Register("greet", registry.Func(func(c registry.Call) (registry.Result, error) {
		return registry.Result{Code: 0, Stdout: []byte("hi " + c.Args[0])}, nil
	}))

	h, ok := r.Lookup("greet")
	require.True(t, ok)
	fn, ok := h.(registry.Func)
	require.True(t, ok)

	res, err := fn(registry.Call{Args: []string{"world"}, Cancel: make(chan struct{})})
	require.NoError(t, err)
	require.Equal(t, "hi world", string(res.Stdout))
}

func TestUnregister(t *testing.T) {
	r := registry.New()
	r.Register("x", registry.Func(func(registry.Call) (registry.Result, error) { return registry.Result{}, nil }))
	r.Unregister("x")
	_, ok := r.Lookup("x")
	require.False(t, ok)
}

func TestDisableHidesHandlers(t *testing.T) {
	r := registry.New()
	r.Register("x", registry.Func(func(registry.Call) (registry.Result, error) { return registry.Result{}, nil }))

	r.Disable()
	_, ok := r.Lookup("x")
	require.False(t, ok)

	r.Enable()
	_, ok = r.Lookup("x")
	require.True(t, ok)
}

func TestListCommands(t *testing.T) {
	r := registry.New()
	r.Register("a", registry.Func(nil))
	r.Register("b", registry.Func(nil))
	require.ElementsMatch(t, []string{"a", "b"}, r.List())
}

func TestCallIsCancelled(t *testing.T) {
	ch := make(chan struct{})
	call := registry.Call{Cancel: ch}
	require.False(t, call.IsCancelled())
	close(ch)
	require.True(t, call.IsCancelled())
}
