package runner_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/registry"
	"github.com/opal-lang/cmdstream/runner"
	"github.com/opal-lang/cmdstream/shellopt"
	"github.com/stretchr/testify/require"
)

func newRegistry() *registry.Registry {
	return registry.New()
}

func TestRunExecSpecCapturesStdout(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "echo", Argv: []string{"hello"}}, runner.Options{CaptureStdout: true})
	r.Start()

	res, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, 0, res.Code)
	require.Equal(t, "hello\n", string(res.Stdout))
}

func TestRunVirtualCommandFunc(t *testing.T) {
	reg := newRegistry()
	reg.Register("greet", registry.Func(func(c registry.Call) (registry.Result, error) {
		return registry.Result{Code: 0, Stdout: []byte("hi " + c.Args[0])}, nil
	}))

	r := runner.New(ast.ShellSpec{Command: "greet world"}, runner.Options{CaptureStdout: true}).WithRegistry(reg)
	r.Start()

	res, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, "hi world", string(res.Stdout))
}

func TestRunVirtualCommandGenerator(t *testing.T) {
	reg := newRegistry()
	reg.Register("count", registry.Generator(func(registry.Call) registry.Chunks {
		n := 0
		return registry.Chunks{
			Next: func() ([]byte, bool, error) {
				n++
				if n > 3 {
					return nil, false, nil
				}
				return []byte("x"), true, nil
			},
		}
	}))

	r := runner.New(ast.ShellSpec{Command: "count"}, runner.Options{CaptureStdout: true}).WithRegistry(reg)
	r.Start()

	res, err := r.Wait()
	require.NoError(t, err)
	require.Equal(t, "xxx", string(res.Stdout))
}

func TestKillingGeneratorWithSIGINTReports130(t *testing.T) {
	reg := newRegistry()
	started := make(chan struct{})
	reg.Register("tail", registry.Generator(func(call registry.Call) registry.Chunks {
		return registry.Chunks{
			Next: func() ([]byte, bool, error) {
				close(started)
				<-call.Cancel
				return nil, true, nil
			},
		}
	}))

	r := runner.New(ast.ShellSpec{Command: "tail"}, runner.Options{CaptureStdout: true}).WithRegistry(reg)
	r.Start()
	<-started

	require.NoError(t, r.Kill(os.Interrupt))

	res, _ := r.Wait()
	require.Equal(t, 130, res.Code)
}

func TestStartIsIdempotent(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "true"}, runner.Options{})
	a := r.Start()
	b := r.Start()
	require.Same(t, a, b)

	_, err := r.Wait()
	require.NoError(t, err)
}

func TestWaitBlocksUntilFinished(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "sleep", Argv: []string{"0"}}, runner.Options{})
	r.Start()

	done := make(chan struct{})
	go func() {
		_, _ = r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
}

func TestStreamYieldsStdoutChunks(t *testing.T) {
	reg := newRegistry()
	reg.Register("echoer", registry.Func(func(c registry.Call) (registry.Result, error) {
		return registry.Result{Stdout: []byte("chunk")}, nil
	}))

	r := runner.New(ast.ShellSpec{Command: "echoer"}, runner.Options{}).WithRegistry(reg)
	r.Start()

	var got []byte
	for chunk := range r.Stream(context.Background()) {
		got = append(got, chunk.Data...)
	}
	require.Equal(t, "chunk", string(got))
}

func TestEventOrderEndBeforeExit(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "true"}, runner.Options{})

	var order []string
	r.On("", func(ev runner.Event) { order = append(order, ev.Type) })
	r.Start()
	_, _ = r.Wait()

	require.Contains(t, order, "end")
	require.Contains(t, order, "exit")

	var endIdx, exitIdx int
	for i, t := range order {
		if t == "end" {
			endIdx = i
		}
		if t == "exit" {
			exitIdx = i
		}
	}
	require.Less(t, endIdx, exitIdx)
}

func TestNonZeroExitCodeSurfacesInResult(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "false"}, runner.Options{})
	r.Start()

	res, _ := r.Wait()
	require.Equal(t, 1, res.Code)
}

func TestErrexitWrapsNonZeroExitInExitError(t *testing.T) {
	shellopt.SetErrexit(true)
	defer shellopt.SetErrexit(false)

	r := runner.New(ast.ExecSpec{File: "false"}, runner.Options{})
	r.Start()

	res, err := r.Wait()
	require.Error(t, err)
	exitErr, ok := err.(*runner.ExitError)
	require.True(t, ok)
	require.Equal(t, res.Code, exitErr.Code)
}

func TestKillMarksCancelled(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "sleep", Argv: []string{"5"}}, runner.Options{})
	r.Start()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, r.Kill(nil))
	require.True(t, r.Cancelled())

	res, _ := r.Wait()
	require.Equal(t, 143, res.Code)
}

func TestKillWithSIGINTReports130(t *testing.T) {
	r := runner.New(ast.ExecSpec{File: "sleep", Argv: []string{"5"}}, runner.Options{})
	r.Start()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, r.Kill(os.Interrupt))

	res, _ := r.Wait()
	require.Equal(t, 130, res.Code)
}
