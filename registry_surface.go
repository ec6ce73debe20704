package cmdstream

import "github.com/opal-lang/cmdstream/registry"

// Handler, Call, Result types used by virtual commands, re-exported so
// callers registering a command don't need to import registry directly.
type (
	Handler   = registry.Handler
	Call      = registry.Call
	CallFunc  = registry.Func
	Generator = registry.Generator
	Chunks    = registry.Chunks
)

// Register adds or replaces the global virtual command named name
// (spec.md §6: "register(name, handler)").
func Register(name string, h Handler) {
	registry.Global.Register(name, h)
}

// Unregister removes the global virtual command named name (spec.md §6:
// "unregister(name)").
func Unregister(name string) {
	registry.Global.Unregister(name)
}

// ListCommands returns every registered virtual command name (spec.md §6:
// "listCommands()").
func ListCommands() []string {
	return registry.Global.List()
}

// EnableVirtualCommands and DisableVirtualCommands toggle whether the
// global registry participates in dispatch (spec.md §6:
// "enableVirtualCommands()"/"disableVirtualCommands()").
func EnableVirtualCommands()  { registry.Global.Enable() }
func DisableVirtualCommands() { registry.Global.Disable() }
