// Slash command handling for the chat input.
package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"genesisctl/internal/plugin"
)

// handleCommand processes a /command from the input line. It returns the
// updated model, an optional command, and whether the input was consumed.
func (m Model) handleCommand(input string) (Model, tea.Cmd, bool) {
	if !strings.HasPrefix(input, "/") {
		return m, nil, false
	}

	fields := strings.Fields(input)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "/help":
		m.statusLine = "commands: /new /clone /delete /ingest /pdf /repo /model /provider /mode /calc /notes /drive /image /quit"
		return m, nil, true

	case "/new":
		m.ctrl.NewChat()
		m.statusLine = "started a new chat"
		return m, nil, true

	case "/clone":
		id := m.snap.CurrentSessionID
		if len(args) > 0 {
			id = args[0]
		}
		if id == "" {
			m.statusLine = "no session to clone"
			return m, nil, true
		}
		return m, m.cloneSessionCmd(id), true

	case "/delete":
		id := m.snap.CurrentSessionID
		if len(args) > 0 {
			id = args[0]
		}
		if id == "" {
			m.statusLine = "no session to delete"
			return m, nil, true
		}
		return m, m.deleteSessionCmd(id), true

	case "/ingest":
		if len(args) == 0 {
			m.statusLine = "usage: /ingest <git-url> [global|session]"
			return m, nil, true
		}
		scope := "session"
		if len(args) > 1 {
			scope = args[1]
		}
		return m, m.ingestRepoCmd(args[0], scope), true

	case "/pdf":
		if len(args) == 0 {
			m.statusLine = "usage: /pdf <url>"
			return m, nil, true
		}
		m.isLoading = true
		m.docErr = ""
		return m, m.ingestPDFCmd(args[0]), true

	case "/repo":
		if len(args) == 0 {
			m.ctrl.SetRepoContext("")
			m.statusLine = "repository context cleared"
			return m, nil, true
		}
		m.ctrl.SetRepoContext(args[0])
		m.statusLine = "repository context: " + args[0]
		return m, nil, true

	case "/model":
		if len(args) == 0 {
			m.statusLine = "usage: /model <name>"
			return m, nil, true
		}
		m.ctrl.SetModel(args[0])
		if m.store != nil {
			_ = m.store.Set(keyLastModel, args[0])
		}
		m.statusLine = "model: " + args[0]
		return m, nil, true

	case "/provider":
		if len(args) == 0 {
			m.statusLine = "usage: /provider <name>"
			return m, nil, true
		}
		m.ctrl.SetProvider(args[0])
		if m.store != nil {
			_ = m.store.Set(keyLastProvider, args[0])
		}
		m.statusLine = "provider: " + args[0]
		return m, nil, true

	case "/mode":
		if len(args) == 0 || (args[0] != "LOCAL" && args[0] != "CLOUD") {
			m.statusLine = "usage: /mode LOCAL|CLOUD"
			return m, nil, true
		}
		m.statusLine = "system mode: " + args[0]
		return m, m.switchModeCmd(args[0]), true

	case "/calc":
		m.host.Registry().Events().Publish(plugin.TopicToggleCalculator, nil)
		return m, nil, true

	case "/notes":
		m.host.Registry().Events().Publish(plugin.TopicToggleNotes, nil)
		return m, nil, true

	case "/drive":
		m.host.Registry().Events().Publish(plugin.TopicToggleDrive, nil)
		return m, nil, true

	case "/image":
		m.host.Registry().Events().Publish(plugin.TopicToggleImage, nil)
		return m, nil, true

	case "/quit", "/exit":
		return m, tea.Quit, true

	default:
		m.statusLine = fmt.Sprintf("unknown command %s, try /help", name)
		return m, nil, true
	}
}
