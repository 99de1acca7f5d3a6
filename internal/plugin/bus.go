package plugin

import (
	"sync"

	"go.uber.org/zap"
)

// Topic names an event stream on the bus. Using typed constants instead of
// ad hoc window-global strings keeps cross-widget signaling typo-proof.
type Topic string

// Topics understood by the builtin widgets.
const (
	TopicToggleCalculator Topic = "widget.calculator.toggle"
	TopicToggleNotes      Topic = "widget.notes.toggle"
	TopicToggleImage      Topic = "widget.image.toggle"
	TopicToggleDrive      Topic = "widget.drive.toggle"
	TopicDriveFilePicked  Topic = "drive.file.picked"
	TopicDocumentOpened   Topic = "document.opened"
)

// PickedFile is the payload published on TopicDriveFilePicked.
type PickedFile struct {
	ID       string
	Name     string
	Path     string
	MimeType string
}

// Handler receives a published payload.
type Handler func(payload any)

// Bus is a synchronous publish/subscribe dispatcher scoped to one registry.
// A panicking handler is isolated so one widget cannot take down the rest.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	log      *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{handlers: make(map[Topic][]Handler), log: log}
}

// Subscribe adds a handler for a topic. There is no unsubscribe; widgets live
// for the process lifetime, matching the registry.
func (b *Bus) Subscribe(t Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish dispatches payload to every subscriber in subscription order.
func (b *Bus) Publish(t Topic, payload any) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[t]))
	copy(hs, b.handlers[t])
	b.mu.RUnlock()

	for _, h := range hs {
		b.dispatch(t, h, payload)
	}
}

func (b *Bus) dispatch(t Topic, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("event handler panicked",
				zap.String("topic", string(t)),
				zap.Any("panic", rec))
		}
	}()
	h(payload)
}
