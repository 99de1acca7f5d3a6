// Async backend operations. Every network call runs inside a tea.Cmd so the
// render loop never blocks; completion flows back as a typed message.
package chat

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"genesisctl/internal/api"
	"genesisctl/internal/config"
	"genesisctl/internal/docload"
	"genesisctl/internal/plugin"
)

// =============================================================================
// MESSAGES
// =============================================================================

// syncMsg signals that the controller snapshot changed.
type syncMsg struct{}

// configMsg carries a live-reloaded configuration.
type configMsg struct{ cfg config.Config }

// opDoneMsg signals a fire-and-forget backend call finished.
type opDoneMsg struct{}

// explorerMsg signals the explorer state changed.
type explorerMsg struct{ err error }

// docLoadedMsg carries the outcome of a document load.
type docLoadedMsg struct {
	handle *docload.Handle
	err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForSync blocks on the controller's coalescing update channel.
func (m Model) waitForSync() tea.Cmd {
	updates := m.ctrl.Updates()
	return func() tea.Msg {
		<-updates
		return syncMsg{}
	}
}

// waitForConfig blocks on the live-reload channel.
func (m Model) waitForConfig() tea.Cmd {
	ch := m.cfgCh
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

func (m Model) sendMessageCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.SendMessage(context.Background(), text)
		return opDoneMsg{}
	}
}

func (m Model) selectSessionCmd(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.SelectSession(context.Background(), id)
		return opDoneMsg{}
	}
}

func (m Model) cloneSessionCmd(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.CloneSession(context.Background(), id)
		return opDoneMsg{}
	}
}

func (m Model) deleteSessionCmd(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.DeleteSession(context.Background(), id)
		return opDoneMsg{}
	}
}

// switchModeCmd routes the mode change through the backend so the local view
// never disagrees with the server's actual mode.
func (m Model) switchModeCmd(mode string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.SwitchMode(context.Background(), mode)
		return opDoneMsg{}
	}
}

func (m Model) ingestRepoCmd(url, scope string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.IngestRepo(context.Background(), url, scope)
		return opDoneMsg{}
	}
}

// ingestPDFCmd registers the document with the backend, then streams it into
// the local loader and opens the viewer.
func (m Model) ingestPDFCmd(url string) tea.Cmd {
	ctrl := m.ctrl
	loader := m.loader
	snap := m.snap
	return func() tea.Msg {
		fileURL, err := ctrl.IngestPDF(context.Background(), api.IngestPDFRequest{
			URL:       url,
			SessionID: snap.CurrentSessionID,
		})
		if err != nil {
			return docLoadedMsg{err: err}
		}
		h, err := loader.Load(context.Background(), fileURL)
		return docLoadedMsg{handle: h, err: err}
	}
}

// loadDocumentCmd fetches a document straight into the viewer.
func (m Model) loadDocumentCmd(url string) tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		h, err := loader.Load(context.Background(), url)
		return docLoadedMsg{handle: h, err: err}
	}
}

func (m Model) expandRepoCmd(name string) tea.Cmd {
	e := m.explorer
	return func() tea.Msg {
		return explorerMsg{err: e.Expand(context.Background(), name)}
	}
}

func (m Model) enterNodeCmd(node api.FileNode) tea.Cmd {
	e := m.explorer
	return func() tea.Msg {
		if node.Type == "dir" {
			return explorerMsg{err: e.Enter(context.Background(), node)}
		}
		return explorerMsg{err: e.OpenNode(context.Background(), node)}
	}
}

func (m Model) saveFileCmd(content string) tea.Cmd {
	e := m.explorer
	return func() tea.Msg {
		return explorerMsg{err: e.Save(context.Background(), content)}
	}
}

func (m Model) explorerUpCmd() tea.Cmd {
	e := m.explorer
	return func() tea.Msg {
		return explorerMsg{err: e.Up(context.Background())}
	}
}

// describeDocError turns a load failure into the user-facing line. Fetch and
// parse failures are reported distinctly.
func describeDocError(err error) string {
	var fe *docload.FetchError
	if errors.As(err, &fe) {
		return fmt.Sprintf("Could not download document: %v", fe)
	}
	var pe *docload.ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Downloaded, but the document could not be parsed: %v", pe)
	}
	if errors.Is(err, docload.ErrSuperseded) {
		return ""
	}
	return fmt.Sprintf("Document load failed: %v", err)
}

// announceDocument tells the widget bus a document is on screen.
func (m Model) announceDocument(h *docload.Handle) {
	m.host.Registry().Events().Publish(plugin.TopicDocumentOpened, h.URL())
}
