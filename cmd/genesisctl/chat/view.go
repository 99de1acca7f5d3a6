// View rendering functions for the console.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"genesisctl/cmd/genesisctl/ui"
	"genesisctl/internal/api"
	"genesisctl/internal/docload"
	"genesisctl/internal/plugin"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.viewMode {
	case ExplorerView:
		return m.renderExplorer()
	case DocView:
		return m.renderDocument()
	}

	header := m.renderHeader()
	body := m.renderBody()
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1).
		Render(m.textarea.View())
	status := m.renderStatusBar()

	parts := []string{header, body}
	if overlay := m.renderOverlay(); overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, input, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" genesis ")

	label := m.snap.Model
	if m.snap.Provider != "" {
		label += " @ " + m.snap.Provider
	}
	model := m.styles.ModelLabel.Render(label)

	var state string
	if m.isLoading || m.snap.Loading {
		state = m.spinner.View() + " " + m.styles.Badge.Render("Thinking...")
	} else {
		state = m.styles.Success.Render("Ready")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", model, "  ", state)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

func (m Model) renderBody() string {
	columns := []string{}
	if m.width >= narrowWidth {
		columns = append(columns, m.renderSessionPane())
	}
	columns = append(columns, m.styles.Content.Render(m.viewport.View()))
	if m.width >= 80 {
		columns = append(columns, m.renderTabPanel())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderSessionPane lists sessions; it is omitted entirely on narrow
// terminals.
func (m Model) renderSessionPane() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Sessions"))
	sb.WriteString("\n")
	if len(m.snap.Sessions) == 0 {
		sb.WriteString(m.styles.Muted.Render("none yet"))
	}
	for i, s := range m.snap.Sessions {
		title := s.Title
		if title == "" {
			title = s.ID
		}
		line := sessionLabel(i, title)
		switch {
		case s.ID == m.snap.CurrentSessionID:
			line = m.styles.Bold.Render("* " + line)
		case i == m.sessionSel:
			line = m.styles.Selected.Render(line)
		default:
			line = m.styles.Muted.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return m.styles.Sidebar.Width(26).Height(m.viewport.Height).Render(sb.String())
}

func (m Model) renderTabPanel() string {
	var tabs string
	if m.tab == TabRoadmap {
		tabs = m.styles.TabOn.Render("Roadmap") + "  " + m.styles.TabOff.Render("Knowledge")
	} else {
		tabs = m.styles.TabOff.Render("Roadmap") + "  " + m.styles.TabOn.Render("Knowledge")
	}

	var sb strings.Builder
	sb.WriteString(tabs)
	sb.WriteString("\n\n")
	if m.tab == TabRoadmap {
		m.renderRoadmap(&sb)
	} else {
		m.renderKnowledge(&sb)
	}
	return lipgloss.NewStyle().Width(28).PaddingLeft(1).Render(sb.String())
}

func (m Model) renderRoadmap(sb *strings.Builder) {
	if len(m.snap.Tasks) == 0 {
		sb.WriteString(m.styles.Muted.Render("no tasks"))
		return
	}
	for _, t := range m.snap.Tasks {
		sb.WriteString(taskGlyph(t.Status, m.styles))
		sb.WriteString(" ")
		sb.WriteString(t.Title)
		if t.AssignedAgent != "" {
			sb.WriteString(m.styles.Muted.Render(" (" + t.AssignedAgent + ")"))
		}
		sb.WriteString("\n")
	}
}

func (m Model) renderKnowledge(sb *strings.Builder) {
	if len(m.snap.Repos) == 0 {
		sb.WriteString(m.styles.Muted.Render("nothing ingested"))
		return
	}
	for _, r := range m.snap.Repos {
		sb.WriteString(api.CleanRepoName(r.Name))
		sb.WriteString(" ")
		switch r.Status {
		case "completed":
			sb.WriteString(m.styles.Success.Render("ok"))
		case "failed":
			sb.WriteString(m.styles.Error.Render("failed"))
		default:
			sb.WriteString(m.styles.Muted.Render(r.Status))
		}
		sb.WriteString("\n")
	}
}

func taskGlyph(status string, s ui.Styles) string {
	switch status {
	case api.TaskDone:
		return s.Success.Render("[x]")
	case api.TaskInProgress:
		return s.Warning.Render("[~]")
	default:
		return s.Muted.Render("[ ]")
	}
}

func (m Model) renderTranscript() string {
	var sb strings.Builder
	for _, msg := range m.snap.Messages {
		switch msg.Role {
		case api.RoleUser:
			sb.WriteString(m.styles.UserMessage.Render("You") + "\n")
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n")
		case api.RoleSystem:
			sb.WriteString(m.styles.SystemMessage.Render(msg.Content))
			sb.WriteString("\n")
		default:
			name := "genesis"
			if msg.Model != "" {
				name += " " + m.styles.ModelLabel.Render(msg.Model)
			}
			sb.WriteString(m.styles.Title.Render(name) + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			if len(msg.Sources) > 0 {
				sb.WriteString(m.styles.Muted.Render("sources: " + strings.Join(msg.Sources, ", ")))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}
	if m.docErr != "" {
		sb.WriteString(m.styles.Error.Render(m.docErr))
		sb.WriteString("\n")
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown and falls back to plain text if the
// renderer fails or panics.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()
	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) renderOverlay() string {
	views := m.host.RenderSlot(plugin.OverlaySlot, plugin.Props{
		"width":  m.width,
		"height": m.height,
	}, m.width, m.height)
	if len(views) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func (m Model) renderStatusBar() string {
	var conn string
	if m.snap.Online {
		conn = m.styles.Online.Render("online")
	} else {
		conn = m.styles.Offline.Render("offline")
	}

	mode := m.snap.SystemMode
	repo := m.snap.RepoContext
	if repo == "" {
		repo = "all repos"
	}

	left := fmt.Sprintf("%s | %s | %s | %s", conn, mode, repo, time.Now().Format("15:04"))
	if m.statusLine != "" {
		left += " | " + m.statusLine
	}
	hotkeys := "Enter: send | Tab: panel | Ctrl+E: files | Alt+↑↓: sessions | /help"
	return m.styles.StatusBar.Width(m.width).Render(left + "  " + m.styles.Muted.Render(hotkeys))
}

// =============================================================================
// EXPLORER AND DOCUMENT VIEWS
// =============================================================================

func (m Model) renderExplorer() string {
	header := m.styles.Header.Render(" files ") + " " +
		m.styles.Muted.Render(api.CleanRepoName(m.exp.Repo)+"/"+m.exp.Dir)

	if m.exp.Open != nil {
		if m.editing {
			body := m.styles.Content.Render(m.textarea.View())
			foot := m.styles.StatusBar.Width(m.width).Render(m.exp.Open.Path + " | Ctrl+S: save | Esc: cancel")
			return lipgloss.JoinVertical(lipgloss.Left, header, body, foot)
		}
		body := m.styles.Content.Render(m.exp.Open.Content)
		foot := m.styles.StatusBar.Width(m.width).Render(m.exp.Open.Path + " | e: edit | Esc: close")
		return lipgloss.JoinVertical(lipgloss.Left, header, body, foot)
	}

	var sb strings.Builder
	for i, n := range m.exp.Nodes {
		line := n.Name
		if n.Type == "dir" {
			line += "/"
		}
		if i == m.nodeSel {
			line = m.styles.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if m.exp.Loading {
		sb.WriteString(m.spinner.View())
	}
	foot := m.styles.StatusBar.Width(m.width).Render("Enter: open | Backspace: up | Esc: chat")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(sb.String()), foot)
}

func (m Model) renderDocument() string {
	h := m.loader.Current()
	if h == nil || m.docView == nil {
		return m.styles.Muted.Render("no document loaded")
	}

	header := m.styles.Header.Render(" document ") + " " + m.styles.Muted.Render(h.URL())

	text, err := h.PageText(m.docView.Page())
	if err != nil {
		text = m.styles.Error.Render(fmt.Sprintf("cannot render page: %v", err))
	}

	fit := "manual"
	switch m.docView.Fit() {
	case docload.FitWidth:
		fit = "fit-width"
	case docload.FitHeight:
		fit = "fit-height"
	}
	foot := m.styles.StatusBar.Width(m.width).Render(fmt.Sprintf(
		"page %d/%d | zoom %.0f%% | %s | ←→: page  +/-: zoom  w/f/m: fit  Esc: chat",
		m.docView.Page(), m.docView.NumPages(), m.docView.Scale()*100, fit))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(text), foot)
}
