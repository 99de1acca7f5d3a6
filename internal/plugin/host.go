package plugin

import (
	"fmt"

	"go.uber.org/zap"
)

// OverlaySlot is the slot rendered as a fixed layer above all other content.
// The layer itself never consumes input; individual widgets opt back in.
const OverlaySlot = "global-overlay"

// Host exposes slot rendering to the view layer. Failures are isolated per
// widget: one misbehaving plugin must not blank an entire slot.
type Host struct {
	reg *Registry
	log *zap.Logger
}

// NewHost wraps a registry for rendering.
func NewHost(reg *Registry, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{reg: reg, log: log}
}

// Registry returns the underlying registry.
func (h *Host) Registry() *Registry { return h.reg }

// Widgets instantiates every factory registered to a slot, passing props
// uniformly, in registration order. A panicking factory yields an error
// placeholder in its position instead of aborting the slot.
func (h *Host) Widgets(slot string, props Props) []Widget {
	factories := h.reg.Slots(slot)
	widgets := make([]Widget, 0, len(factories))
	for i, f := range factories {
		widgets = append(widgets, h.instantiate(slot, i, f, props))
	}
	return widgets
}

func (h *Host) instantiate(slot string, idx int, f Factory, props Props) (w Widget) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("slot factory panicked",
				zap.String("slot", slot),
				zap.Int("index", idx),
				zap.Any("panic", rec))
			w = errWidget{fmt.Sprintf("widget %d failed", idx)}
		}
	}()
	return f(props)
}

// RenderSlot renders every widget in a slot and returns the non-empty views
// in registration order. A widget whose View panics is replaced by an error
// placeholder.
func (h *Host) RenderSlot(slot string, props Props, width, height int) []string {
	var views []string
	for i, w := range h.Widgets(slot, props) {
		v := h.renderOne(slot, i, w, width, height)
		if v != "" {
			views = append(views, v)
		}
	}
	return views
}

func (h *Host) renderOne(slot string, idx int, w Widget, width, height int) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("widget render panicked",
				zap.String("slot", slot),
				zap.Int("index", idx),
				zap.Any("panic", rec))
			out = errWidget{fmt.Sprintf("widget %d failed", idx)}.View(width, height)
		}
	}()
	return w.View(width, height)
}

// errWidget stands in for a widget that failed to build or render.
type errWidget struct{ msg string }

func (e errWidget) View(int, int) string {
	return fmt.Sprintf("[plugin error: %s]", e.msg)
}
