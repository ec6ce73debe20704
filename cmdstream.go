// Package cmdstream is the public surface of spec.md §4.10 (component
// C10): a tagged-template command builder realized as a Factory plus a
// set of package-level convenience functions bound to a default Factory,
// grounded on the teacher's top-level opal package that wires its
// runtime's pieces behind a small number of exported entry points.
//
// Go has no tagged-template-literal syntax, so where spec.md describes
// `` $`cmd ${arg}` ``, this package takes a %s-placeholder template string
// instead: `cmdstream.Sh("echo %s", name)`.
package cmdstream

import (
	"os"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/quote"
	"github.com/opal-lang/cmdstream/runner"
)

// Quote and Raw re-export the quoter (spec.md §6: "quote(value) ->
// string", "raw(value) -> {raw:string}").
var Quote = quote.Quote

type Raw = quote.Raw

// Options is runner.Options re-exported under the root package so callers
// never need to import runner directly for the common case.
type Options = runner.Options

// Result is runner.Result re-exported the same way.
type Result = runner.Result

// Runner is runner.Runner re-exported the same way.
type Runner = runner.Runner

// Factory holds a set of default Options every Runner it produces merges
// under (spec.md §4.1's "$({ options }) returns a new tagged-template
// function whose Runners carry those options merged under defaults").
type Factory struct {
	defaults Options
}

// defaultOptions is spec.md's `{mirror:true, capture:true}` default,
// translated to the four-field Go Options shape.
func defaultOptions() Options {
	return Options{
		MirrorStdout:  true,
		MirrorStderr:  true,
		CaptureStdout: true,
		CaptureStderr: true,
	}
}

// New returns a Factory whose Runners carry opts merged over the package
// default {mirror:true, capture:true}.
func New(opts Options) *Factory {
	return &Factory{defaults: defaultOptions().Merge(opts)}
}

var defaultFactory = New(Options{})

// Cmd builds a shell command string from template and args (quote.Build's
// %s-placeholder rule) and returns a Fresh Runner (spec.md: "`$`cmd``
// returns a Runner"). The Runner does not begin executing until Start,
// Wait, Stream, Pipe, Stdin, Stdout, or Stderr first drives it — Go has no implicit
// field-access-triggers-a-goroutine idiom, so unlike the tagged-template
// original, construction alone never starts a child.
func (f *Factory) Cmd(template string, args ...interface{}) *Runner {
	command := quote.Build(template, args...)
	return runner.New(ast.ShellSpec{Command: command}, f.defaults)
}

// Cmd is Cmd bound to the package default Factory.
func Cmd(template string, args ...interface{}) *Runner {
	return defaultFactory.Cmd(template, args...)
}

// Sh runs a command string to completion and returns its Result
// (spec.md §6: "sh(string, options?) -> Result").
func Sh(command string, opts ...Options) (Result, error) {
	return runWith(ast.ShellSpec{Command: command}, opts...)
}

// Exec runs file with an explicit argv, bypassing the shell entirely
// (spec.md §6: "exec(file, argv, options?) -> Result").
func Exec(file string, argv []string, opts ...Options) (Result, error) {
	return runWith(ast.ExecSpec{File: file, Argv: argv}, opts...)
}

// Run accepts either a command string or an argv slice and always forces
// mirror:false, capture:true (spec.md §6: "run(stringOrArgv, options?)
// where run forces mirror:false, capture:true").
func Run(cmdOrArgv interface{}, opts ...Options) (Result, error) {
	merged := Options{}
	for _, o := range opts {
		merged = merged.Merge(o)
	}
	merged.MirrorStdout = false
	merged.MirrorStderr = false
	merged.CaptureStdout = true
	merged.CaptureStderr = true

	switch v := cmdOrArgv.(type) {
	case string:
		return runner.New(ast.ShellSpec{Command: v}, merged).Start().Wait()
	case []string:
		if len(v) == 0 {
			return Result{}, os.ErrInvalid
		}
		return runner.New(ast.ExecSpec{File: v[0], Argv: v[1:]}, merged).Start().Wait()
	default:
		return Result{}, os.ErrInvalid
	}
}

func runWith(spec ast.Spec, opts ...Options) (Result, error) {
	merged := defaultFactory.defaults
	for _, o := range opts {
		merged = merged.Merge(o)
	}
	r := runner.New(spec, merged)
	r.Start()
	return r.Wait()
}
