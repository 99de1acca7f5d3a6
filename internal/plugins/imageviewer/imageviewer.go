// Package imageviewer contributes a widget that shows metadata for a picked
// image file. Only the header is decoded; pixel data never loads.
package imageviewer

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"genesisctl/internal/plugin"
)

// Plugin owns the viewer state.
type Plugin struct {
	mu      sync.Mutex
	visible bool
	name    string
	format  string
	width   int
	height  int
	loadErr error

	log *zap.Logger
}

// New creates the image viewer plugin.
func New(log *zap.Logger) *Plugin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Plugin{log: log}
}

// Manifest implements plugin.Plugin.
func (p *Plugin) Manifest() plugin.Manifest {
	return plugin.Manifest{
		ID:          "builtin.imageviewer",
		Name:        "Image Viewer",
		Version:     "1.0.0",
		Description: "Image metadata inspector",
	}
}

// Init registers the widget and listens for picked drive files.
func (p *Plugin) Init(ctx *plugin.Context) error {
	ctx.Events().Subscribe(plugin.TopicToggleImage, func(any) { p.Toggle() })
	ctx.Events().Subscribe(plugin.TopicDriveFilePicked, func(payload any) {
		if f, ok := payload.(plugin.PickedFile); ok && strings.HasPrefix(f.MimeType, "image/") {
			p.Open(f.Path)
		}
	})
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

// Open decodes the image header at path and shows the widget. A decode
// failure is displayed rather than returned; the widget stays usable.
func (p *Plugin) Open(path string) {
	name := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		name = path[i+1:]
	}

	cfg, format, err := decodeHeader(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = true
	p.name = name
	if err != nil {
		p.format = ""
		p.width, p.height = 0, 0
		p.loadErr = err
		p.log.Warn("image decode failed", zap.String("path", path), zap.Error(err))
		return
	}
	p.format = format
	p.width, p.height = cfg.Width, cfg.Height
	p.loadErr = nil
}

func decodeHeader(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}

var (
	imgFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	imgTitle = lipgloss.NewStyle().Bold(true)
	imgError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
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
	b.WriteString(imgTitle.Render("Image"))
	b.WriteString("\n")
	switch {
	case p.loadErr != nil:
		b.WriteString(p.name + "\n")
		b.WriteString(imgError.Render("cannot decode: " + p.loadErr.Error()))
	case p.name == "":
		b.WriteString("no image selected")
	default:
		b.WriteString(fmt.Sprintf("%s\n%s %dx%d", p.name, p.format, p.width, p.height))
	}
	return imgFrame.Width(inner).Render(b.String())
}
