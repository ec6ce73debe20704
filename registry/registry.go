// Package registry is the virtual-command registry of spec.md §4.3
// (component C3): a process-global mapping from command name to an
// in-process handler that can participate transparently inside pipelines
// alongside real OS processes.
//
// Grounded on the teacher's core/decorator.Registry: a sync.RWMutex-guarded
// map plus a package-level global instance, the same "database/sql driver"
// registration shape.
package registry

import "sync"

// Call is the uniform calling convention every virtual command receives
// (spec.md §4.3: "{args, stdin, abortSignal, cwd, env, options,
// isCancelled()}").
type Call struct {
	Args    []string
	Stdin   []byte
	Cwd     string
	Env     map[string]string
	Options map[string]interface{}

	// Cancel is closed when the runner driving this call is killed.
	Cancel <-chan struct{}
}

// IsCancelled reports whether Cancel has fired.
func (c Call) IsCancelled() bool {
	select {
	case <-c.Cancel:
		return true
	default:
		return false
	}
}

// Result is what an async-function-shaped handler returns.
type Result struct {
	Code   int
	Stdout []byte
	Stderr []byte
}

// Func is the "async function" handler shape (spec.md §4.3).
type Func func(Call) (Result, error)

// Chunks is what a generator handler hands back: Next yields the next
// stdout chunk (ok=false signals natural end of stream), Cancel tears the
// generator down early — the Go realization of spec.md's async generator
// contract ("Generators must be closed via their return path when
// cancelled").
type Chunks struct {
	Next   func() ([]byte, bool, error)
	Cancel func()
}

// Generator is the "async generator" handler shape (spec.md §4.3): called
// once per invocation, returns a Chunks stream whose bytes become stdout.
type Generator func(Call) Chunks

// Handler is either a Func or a Generator; Registry.Register accepts both
// via this closed interface, distinguished with a type switch at dispatch
// time (runner package).
type Handler interface {
	isHandler()
}

func (Func) isHandler()      {}
func (Generator) isHandler() {}

// NeedsRealProcessForStdin is the set of builtin names whose semantics
// depend on reading a real OS pipe, so a virtual implementation cannot
// serve a "pipe"/bytes stdin request or a previous pipeline stage's output
// (spec.md §4.3's fallback rule); with the default inherited stdin the
// virtual implementation still runs.
var NeedsRealProcessForStdin = map[string]bool{
	"cat":   true,
	"sleep": true,
}

// Registry is a process-global or scoped name->Handler map.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Handler
	enabled bool
}

// New creates an empty, enabled registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Handler), enabled: true}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = h
}

// Unregister removes name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Lookup returns the handler for name, and whether one is registered and
// the registry is currently enabled.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.enabled {
		return nil, false
	}
	h, ok := r.entries[name]
	return h, ok
}

// List returns the registered command names (spec.md §6: "listCommands()").
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Enable and Disable toggle whether Lookup will ever report a hit, without
// discarding registered handlers (spec.md §6: enableVirtualCommands /
// disableVirtualCommands).
func (r *Registry) Enable()  { r.setEnabled(true) }
func (r *Registry) Disable() { r.setEnabled(false) }

func (r *Registry) setEnabled(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = v
}

// Enabled reports the current enable state.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Global is the process-wide registry the public cmdstream surface wires
// register/unregister/listCommands/enable/disable into.
var Global = New()
