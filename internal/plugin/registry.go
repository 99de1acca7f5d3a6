// Package plugin implements the slot registry that decouples independently
// authored console widgets from the shell hosting them. Plugins register at
// startup; each declares a manifest and contributes widget factories to named
// slots. The registry is a constructed object, not a package singleton, so
// tests can run isolated instances side by side.
package plugin

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manifest describes a plugin. Identity is ID.
type Manifest struct {
	ID          string
	Name        string
	Version     string
	Description string
}

// Props carries uniform render inputs to every widget in a slot.
type Props map[string]any

// Widget is a renderable unit contributed to a slot.
type Widget interface {
	// View renders the widget within the given bounds. Widgets that are
	// currently hidden return the empty string.
	View(width, height int) string
}

// Factory builds a widget instance for one render pass.
type Factory func(props Props) Widget

// Plugin is a self-contained unit of console functionality.
type Plugin interface {
	Manifest() Manifest
	// Init is invoked exactly once, synchronously, at registration time.
	Init(ctx *Context) error
}

// Context is handed to Plugin.Init. Slot registrations are staged and only
// committed if Init returns cleanly, so a failing plugin contributes nothing.
type Context struct {
	reg    *Registry
	staged []stagedSlot
}

type stagedSlot struct {
	name    string
	factory Factory
}

// RegisterSlot stages a factory for the named slot. Insertion order is
// preserved as render order.
func (c *Context) RegisterSlot(name string, f Factory) {
	c.staged = append(c.staged, stagedSlot{name: name, factory: f})
}

// Events returns the bus shared by all plugins on this registry.
func (c *Context) Events() *Bus { return c.reg.bus }

// Registry maps slot names to ordered widget factories. Entries are never
// removed; lifetime is process lifetime.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	slots   map[string][]Factory
	bus     *Bus
	log     *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		plugins: make(map[string]Plugin),
		slots:   make(map[string][]Factory),
		bus:     NewBus(log),
		log:     log,
	}
}

// Register loads a plugin. A duplicate manifest ID is an idempotent no-op with
// a warning, never an error. If Init returns an error or panics, the plugin is
// not marked registered and its staged slot registrations are discarded.
func (r *Registry) Register(p Plugin) {
	m := p.Manifest()

	r.mu.Lock()
	if _, exists := r.plugins[m.ID]; exists {
		r.mu.Unlock()
		r.log.Warn("plugin already registered", zap.String("id", m.ID))
		return
	}
	r.mu.Unlock()

	r.log.Info("loading plugin",
		zap.String("id", m.ID),
		zap.String("name", m.Name),
		zap.String("version", m.Version))

	ctx := &Context{reg: r}
	if err := safeInit(p, ctx); err != nil {
		r.log.Error("plugin init failed", zap.String("id", m.ID), zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range ctx.staged {
		r.slots[s.name] = append(r.slots[s.name], s.factory)
	}
	r.plugins[m.ID] = p
	r.order = append(r.order, m.ID)
}

func safeInit(p Plugin, ctx *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("init panicked: %v", rec)
		}
	}()
	return p.Init(ctx)
}

// Slots returns the ordered factories for a slot. Unknown names yield an
// empty slice, never nil.
func (r *Registry) Slots(name string) []Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Factory, len(r.slots[name]))
	copy(out, r.slots[name])
	return out
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// Events returns the registry's event bus.
func (r *Registry) Events() *Bus { return r.bus }
