package chat

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"genesisctl/cmd/genesisctl/ui"
	"genesisctl/internal/api"
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

// stubClient satisfies the orchestrator interfaces with canned data.
type stubClient struct {
	sessions []api.Session
	history  map[string][]api.Message
	tasks    map[string][]api.Task
	repos    []api.RepoJob
	files    map[string][]api.FileNode
	saved    map[string]string
	mode     string
}

func newStubClient() *stubClient {
	return &stubClient{
		history: make(map[string][]api.Message),
		tasks:   make(map[string][]api.Task),
		files:   make(map[string][]api.FileNode),
		saved:   make(map[string]string),
	}
}

func (s *stubClient) Query(_ context.Context, req api.QueryRequest) (api.QueryResponse, error) {
	return api.QueryResponse{Answer: "stub answer", SessionID: "stub"}, nil
}

func (s *stubClient) Tasks(_ context.Context, id string) ([]api.Task, error) {
	return s.tasks[id], nil
}

func (s *stubClient) Sessions(context.Context) ([]api.Session, error) {
	return s.sessions, nil
}

func (s *stubClient) SessionHistory(_ context.Context, id string) ([]api.Message, error) {
	return s.history[id], nil
}

func (s *stubClient) CloneSession(_ context.Context, id string) (string, error) {
	return id + "-clone", nil
}

func (s *stubClient) DeleteSession(context.Context, string) error { return nil }

func (s *stubClient) IngestList(context.Context, string) ([]api.RepoJob, error) {
	return s.repos, nil
}

func (s *stubClient) IngestRepo(context.Context, api.IngestRepoRequest) error { return nil }

func (s *stubClient) IngestPDF(_ context.Context, req api.IngestPDFRequest) (api.IngestPDFResponse, error) {
	return api.IngestPDFResponse{SessionID: req.SessionID, FileURL: req.URL}, nil
}

func (s *stubClient) Files(_ context.Context, repo, p string) ([]api.FileNode, error) {
	return s.files[api.CleanRepoName(repo)+"|"+p], nil
}

func (s *stubClient) FileContent(context.Context, string, string) (string, error) {
	return "content", nil
}

func (s *stubClient) SaveFileContent(_ context.Context, repo, p, content string) error {
	s.saved[api.CleanRepoName(repo)+"|"+p] = content
	return nil
}

func (s *stubClient) SystemStatus(context.Context) (api.SystemStatus, error) {
	return api.SystemStatus{Mode: s.mode}, nil
}

func (s *stubClient) SetSystemMode(_ context.Context, mode string) error {
	s.mode = mode
	return nil
}

// newTestModel builds a fully wired model without touching the network or
// the filesystem outside the test directory.
func newTestModel(t *testing.T, client *stubClient) Model {
	t.Helper()

	ctrl := orchestrator.New(client, orchestrator.Options{
		PollInterval: time.Hour,
		Model:        "llama",
		Provider:     "sambanova",
		RAGMode:      "standard",
	}, nil)
	t.Cleanup(ctrl.Stop)

	reg := plugin.NewRegistry(nil)
	w := widgets{
		calc:  calculator.New(nil),
		notes: notes.New(store.NullStore{}, nil),
		image: imageviewer.New(nil),
		drive: drivepicker.New(nil, nil),
	}
	reg.Register(w.calc)
	reg.Register(w.notes)
	reg.Register(w.image)
	reg.Register(w.drive)

	loader := docload.NewLoader(t.TempDir(), time.Second, nil)
	t.Cleanup(loader.Close)

	ta := textarea.New()
	ta.Focus()

	m := Model{
		textarea: ta,
		viewport: viewport.New(60, 10),
		spinner:  spinner.New(),
		styles:   ui.DefaultStyles(),
		ctrl:     ctrl,
		explorer: orchestrator.NewExplorer(client, nil),
		loader:   loader,
		host:     plugin.NewHost(reg, nil),
		widgets:  w,
		store:    store.NullStore{},
		cfg:      *config.DefaultConfig(),
		ready:    true,
		width:    120,
		height:   40,
	}
	m.snap = ctrl.Snapshot()
	return m
}
