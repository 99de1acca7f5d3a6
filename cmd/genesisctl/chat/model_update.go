// Update loop and key handling.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"genesisctl/internal/docload"
)

// Approximate cell size in points, used to map the terminal grid onto the
// document fit calculations.
const (
	cellWidthPt  = 8
	cellHeightPt = 16
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.isLoading || m.snap.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case syncMsg:
		m.snap = m.ctrl.Snapshot()
		m.refreshViewport()
		return m, m.waitForSync()

	case configMsg:
		m.cfg = msg.cfg
		m.ctrl.SetModel(msg.cfg.Model)
		m.ctrl.SetProvider(msg.cfg.Provider)
		m.statusLine = "configuration reloaded"
		return m, m.waitForConfig()

	case opDoneMsg:
		m.snap = m.ctrl.Snapshot()
		m.isLoading = m.snap.Loading
		m.refreshViewport()
		return m, nil

	case explorerMsg:
		m.exp = m.explorer.Snapshot()
		if msg.err != nil {
			m.statusLine = msg.err.Error()
		} else {
			m.nodeSel = 0
		}
		return m, nil

	case docLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			if line := describeDocError(msg.err); line != "" {
				m.docErr = line
			}
			return m, nil
		}
		m.docErr = ""
		v := docload.NewView(msg.handle.NumPages())
		v.Resize(float64(m.width*cellWidthPt), float64(m.height*cellHeightPt))
		m.docView = v
		m.viewMode = DocView
		m.announceDocument(msg.handle)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) layout() {
	sidebar := 0
	if m.width >= narrowWidth {
		sidebar = 28
	}
	panel := 0
	if m.width >= 80 {
		panel = 30
	}
	m.viewport.Width = m.width - sidebar - panel - 4
	if m.viewport.Width < 20 {
		m.viewport.Width = 20
	}
	m.viewport.Height = m.height - 8
	if m.viewport.Height < 5 {
		m.viewport.Height = 5
	}
	m.textarea.SetWidth(m.width - 4)
	if m.docView != nil {
		m.docView.Resize(float64(m.width*cellWidthPt), float64(m.height*cellHeightPt))
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlay widgets get first refusal on input.
	if m.widgets.calc != nil && m.widgets.calc.Visible() {
		if handled, cmd := m.handleCalculatorKey(msg); handled {
			return m, cmd
		}
	}
	if m.widgets.drive != nil && m.widgets.drive.Visible() {
		if handled, cmd := m.handleDriveKey(msg); handled {
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+n":
		m.ctrl.NewChat()
		return m, nil
	case "tab":
		if m.viewMode == ChatView {
			if m.tab == TabRoadmap {
				m.tab = TabKnowledge
			} else {
				m.tab = TabRoadmap
			}
			return m, nil
		}
	case "ctrl+e":
		return m.toggleExplorer()
	case "esc":
		if m.viewMode != ChatView {
			if m.viewMode == ExplorerView && m.editing {
				m.editing = false
				m.textarea.Reset()
				return m, nil
			}
			if m.viewMode == ExplorerView && m.exp.Open != nil {
				m.explorer.CloseFile()
				m.exp = m.explorer.Snapshot()
				return m, nil
			}
			m.viewMode = ChatView
			return m, nil
		}
	case "alt+down":
		if m.sessionSel < len(m.snap.Sessions)-1 {
			m.sessionSel++
		}
		return m, nil
	case "alt+up":
		if m.sessionSel > 0 {
			m.sessionSel--
		}
		return m, nil
	case "alt+enter":
		if m.sessionSel < len(m.snap.Sessions) {
			return m, m.selectSessionCmd(m.snap.Sessions[m.sessionSel].ID)
		}
		return m, nil
	}

	switch m.viewMode {
	case ExplorerView:
		return m.handleExplorerKey(msg)
	case DocView:
		return m.handleDocKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.statusLine = ""

		if next, cmd, handled := m.handleCommand(input); handled {
			return next, cmd
		}

		m.isLoading = true
		return m, tea.Batch(m.sendMessageCmd(input), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) toggleExplorer() (tea.Model, tea.Cmd) {
	if m.viewMode == ExplorerView {
		m.viewMode = ChatView
		return m, nil
	}
	repo := m.snap.RepoContext
	if repo == "" && len(m.snap.Repos) > 0 {
		repo = m.snap.Repos[0].Name
	}
	if repo == "" {
		m.statusLine = "no repository to browse, /ingest one first"
		return m, nil
	}
	m.viewMode = ExplorerView
	return m, m.expandRepoCmd(repo)
}

func (m Model) handleExplorerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		if msg.String() == "ctrl+s" {
			m.editing = false
			content := m.textarea.Value()
			m.textarea.Reset()
			return m, m.saveFileCmd(content)
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	if m.exp.Open != nil && msg.String() == "e" {
		m.editing = true
		m.textarea.SetValue(m.exp.Open.Content)
		return m, nil
	}

	switch msg.String() {
	case "down", "j":
		if m.nodeSel < len(m.exp.Nodes)-1 {
			m.nodeSel++
		}
	case "up", "k":
		if m.nodeSel > 0 {
			m.nodeSel--
		}
	case "enter":
		if m.nodeSel < len(m.exp.Nodes) {
			return m, m.enterNodeCmd(m.exp.Nodes[m.nodeSel])
		}
	case "backspace", "left", "h":
		return m, m.explorerUpCmd()
	}
	return m, nil
}

func (m Model) handleDocKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.docView == nil {
		m.viewMode = ChatView
		return m, nil
	}
	switch msg.String() {
	case "right", "n":
		m.docView.NextPage()
	case "left", "p":
		m.docView.PrevPage()
	case "+", "=":
		m.docView.ZoomIn()
	case "-":
		m.docView.ZoomOut()
	case "w":
		m.docView.SetFit(docload.FitWidth)
	case "f":
		m.docView.SetFit(docload.FitHeight)
	case "m":
		m.docView.SetFit(docload.FitManual)
	}
	return m, nil
}

func (m Model) handleCalculatorKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	calc := m.widgets.calc
	switch msg.Type {
	case tea.KeyEnter:
		calc.Evaluate()
		return true, nil
	case tea.KeyBackspace:
		calc.Backspace()
		return true, nil
	case tea.KeyEsc:
		calc.Toggle()
		return true, nil
	case tea.KeyRunes:
		s := string(msg.Runes)
		if strings.ContainsAny(s, "0123456789+-*/.() ") && !strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
			calc.Append(s)
			return true, nil
		}
	}
	return false, nil
}

func (m Model) handleDriveKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	drive := m.widgets.drive
	switch msg.String() {
	case "down", "j":
		drive.Next()
		return true, nil
	case "up", "k":
		drive.Prev()
		return true, nil
	case "enter":
		drive.Pick()
		return true, nil
	case "esc":
		drive.Toggle()
		return true, nil
	}
	return false, nil
}
