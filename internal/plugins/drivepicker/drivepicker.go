// Package drivepicker contributes a file picker widget over a canned listing.
// The original front end talked to a mocked drive backend; the listing here
// is injectable so the console works without one.
package drivepicker

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"genesisctl/internal/plugin"
)

// DefaultListing mirrors the mock drive contents the picker ships with.
var DefaultListing = []plugin.PickedFile{
	{ID: "drive-1", Name: "quarterly-report.pdf", Path: "drive/quarterly-report.pdf", MimeType: "application/pdf"},
	{ID: "drive-2", Name: "architecture.png", Path: "drive/architecture.png", MimeType: "image/png"},
	{ID: "drive-3", Name: "meeting-notes.txt", Path: "drive/meeting-notes.txt", MimeType: "text/plain"},
	{ID: "drive-4", Name: "roadmap.pdf", Path: "drive/roadmap.pdf", MimeType: "application/pdf"},
}

// Plugin owns the picker state.
type Plugin struct {
	mu       sync.Mutex
	visible  bool
	files    []plugin.PickedFile
	selected int

	bus *plugin.Bus
	log *zap.Logger
}

// New creates the picker. A nil listing falls back to DefaultListing.
func New(files []plugin.PickedFile, log *zap.Logger) *Plugin {
	if files == nil {
		files = DefaultListing
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Plugin{files: files, log: log}
}

// Manifest implements plugin.Plugin.
func (p *Plugin) Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "builtin.drivepicker",
		Name:        "Drive Picker",
		Version:     "1.0.0",
		Description: "Pick a file from the drive listing",
	}
}

// Init registers the widget and keeps the bus for publishing picks.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.bus = ctx.Events()
	ctx.Events().Subscribe(plugin.TopicToggleDrive, func(any) { p.Toggle() })
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

// Next moves the selection down, stopping at the last entry.
func (p *Plugin) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < len(p.files)-1 {
		p.selected++
	}
}

// Prev moves the selection up, stopping at the first entry.
func (p *Plugin) Prev() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected > 0 {
		p.selected--
	}
}

// Pick publishes the selected file and hides the picker.
func (p *Plugin) Pick() {
	p.mu.Lock()
	if len(p.files) == 0 {
		p.mu.Unlock()
		return
	}
	file := p.files[p.selected]
	p.visible = false
	bus := p.bus
	p.mu.Unlock()

	p.log.Info("drive file picked", zap.String("name", file.Name))
	if bus != nil {
		bus.Publish(plugin.TopicDriveFilePicked, file)
	}
}

var (
	driveFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	driveTitle    = lipgloss.NewStyle().Bold(true)
	driveSelected = lipgloss.NewStyle().Reverse(true)
)

// View implements plugin.Widget.
func (p *Plugin) View(width, _ int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible {
		return ""
	}

	inner := width - 4
	if inner < 24 {
		inner = 24
	}
	var b strings.Builder
	b.WriteString(driveTitle.Render("Drive"))
	for i, f := range p.files {
		b.WriteString("\n")
		line := f.Name
		if i == p.selected {
			line = driveSelected.Render(line)
		}
		b.WriteString(line)
	}
	return driveFrame.Width(inner).Render(b.String())
}
