// Package chat provides the interactive TUI console for genesisctl.
// The functionality is split across multiple files:
//   - model.go: Types and Init (this file)
//   - model_update.go: Update loop and key handling
//   - commands.go: /command handling
//   - process.go: Async backend operations
//   - view.go: Rendering functions
//   - session.go: Wiring and startup
package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"genesisctl/cmd/genesisctl/ui"
	"genesisctl/internal/config"
	"genesisctl/internal/docload"
	"genesisctl/internal/orchestrator"
	"genesisctl/internal/plugin"
	"genesisctl/internal/plugins/calculator"
	"genesisctl/internal/plugins/drivepicker"
	"genesisctl/internal/plugins/imageviewer"
	"genesisctl/internal/plugins/notes"
	"genesisctl/internal/store"
)

// Store keys for preferences that survive restarts.
const (
	keyLastModel    = "chat.model"
	keyLastProvider = "chat.provider"
)

// ViewMode determines which surface has focus.
type ViewMode int

const (
	ChatView ViewMode = iota
	ExplorerView
	DocView
)

// Tab selects the right-hand panel content.
type Tab int

const (
	TabRoadmap Tab = iota
	TabKnowledge
)

func (t Tab) String() string {
	if t == TabKnowledge {
		return "Knowledge"
	}
	return "Roadmap"
}

// narrowWidth is the terminal width below which the session pane collapses.
const narrowWidth = 100

// widgets bundles the builtin overlay plugins for input routing.
type widgets struct {
	calc  *calculator.Plugin
	notes *notes.Plugin
	image *imageviewer.Plugin
	drive *drivepicker.Plugin
}

// Model is the main model for the interactive console.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	viewMode ViewMode
	tab      Tab

	// Backend
	ctrl     *orchestrator.Controller
	explorer *orchestrator.Explorer
	loader   *docload.Loader
	docView  *docload.View
	host     *plugin.Host
	widgets  widgets
	store    store.Store
	cfg      config.Config
	cfgCh    <-chan config.Config
	log      *zap.Logger

	// State
	snap       orchestrator.Snapshot
	exp        orchestrator.ExplorerSnapshot
	sessionSel int
	nodeSel    int
	editing    bool
	docErr     string
	statusLine string
	width      int
	height     int
	ready      bool
	isLoading  bool
	err        error
}

// sessionLabel renders one sidebar entry.
func sessionLabel(i int, s string) string {
	return fmt.Sprintf("%d. %s", i+1, s)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		textarea.Blink,
		m.waitForSync(),
	}
	if m.cfgCh != nil {
		cmds = append(cmds, m.waitForConfig())
	}
	return tea.Batch(cmds...)
}
