// Package notes contributes a scratchpad widget whose draft survives restarts
// through the widget store.
package notes

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"genesisctl/internal/plugin"
	"genesisctl/internal/store"
)

// draftKey is where the scratchpad text lives in the widget store.
const draftKey = "notes.draft"

// Plugin owns the scratchpad state.
type Plugin struct {
	mu      sync.Mutex
	visible bool
	draft   string

	store store.Store
	log   *zap.Logger
}

// New creates the notes plugin backed by st.
func New(st store.Store, log *zap.Logger) *Plugin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Plugin{store: st, log: log}
}

// Manifest implements plugin.Plugin.
func (p *Plugin) Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "builtin.notes",
		Name:        "Notes",
		Version:     "1.0.0",
		Description: "Persistent scratchpad",
	}
}

// Init loads any saved draft and registers the widget.
func (p *Plugin) Init(ctx *plugin.Context) error {
	draft, err := p.store.Get(draftKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	p.mu.Lock()
	p.draft = draft
	p.mu.Unlock()

	ctx.Events().Subscribe(plugin.TopicToggleNotes, func(any) { p.Toggle() })
	ctx.RegisterSlot(plugin.OverlaySlot, func(plugin.Props) plugin.Widget { return p })
	return nil
}

// Toggle flips visibility.
func (p *Plugin) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = !p.visible
}

// Visible reports whether the widget is shown.
func (p *Plugin) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Draft returns the current scratchpad text.
func (p *Plugin) Draft() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// SetDraft replaces the scratchpad text and persists it.
func (p *Plugin) SetDraft(text string) {
	p.mu.Lock()
	p.draft = text
	p.mu.Unlock()
	if err := p.store.Set(draftKey, text); err != nil {
		p.log.Warn("persist notes draft failed", zap.Error(err))
	}
}

// Append adds text to the scratchpad and persists it.
func (p *Plugin) Append(text string) {
	p.mu.Lock()
	p.draft += text
	draft := p.draft
	p.mu.Unlock()
	if err := p.store.Set(draftKey, draft); err != nil {
		p.log.Warn("persist notes draft failed", zap.Error(err))
	}
}

// ClearDraft wipes the scratchpad and its stored copy.
func (p *Plugin) ClearDraft() {
	p.mu.Lock()
	p.draft = ""
	p.mu.Unlock()
	if err := p.store.Delete(draftKey); err != nil {
		p.log.Warn("clear notes draft failed", zap.Error(err))
	}
}

var (
	notesFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	notesTitle = lipgloss.NewStyle().Bold(true)
	notesEmpty = lipgloss.NewStyle().Faint(true)
)

// View implements plugin.Widget.
func (p *Plugin) View(width, _ int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible {
		return ""
	}

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	var b strings.Builder
	b.WriteString(notesTitle.Render("Notes"))
	b.WriteString("\n")
	if p.draft == "" {
		b.WriteString(notesEmpty.Render("(empty)"))
	} else {
		b.WriteString(p.draft)
	}
	return notesFrame.Width(inner).Render(b.String())
}
