package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"genesisctl/internal/api"
)

// fakeClient is an in-memory backend. Per-method hooks let tests block or
// fail individual calls.
type fakeClient struct {
	mu sync.Mutex

	sessions map[string][]api.Message
	order    []string
	tasks    map[string][]api.Task
	repos    map[string][]api.RepoJob
	files    map[string][]api.FileNode // key: repo + "|" + path
	contents map[string]string
	mode     string
	nextID   int

	queryFn  func(req api.QueryRequest) (api.QueryResponse, error)
	tasksFn  func(sessionID string) ([]api.Task, error)
	ingestFn func(req api.IngestRepoRequest) error
	pdfFn    func(req api.IngestPDFRequest) (api.IngestPDFResponse, error)
	modeFn   func(mode string) error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		sessions: make(map[string][]api.Message),
		tasks:    make(map[string][]api.Task),
		repos:    make(map[string][]api.RepoJob),
		files:    make(map[string][]api.FileNode),
		contents: make(map[string]string),
	}
}

func (f *fakeClient) addSession(id string, msgs ...api.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		f.order = append(f.order, id)
	}
	f.sessions[id] = msgs
}

func (f *fakeClient) Query(_ context.Context, req api.QueryRequest) (api.QueryResponse, error) {
	f.mu.Lock()
	fn := f.queryFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return api.QueryResponse{Answer: "ok", SessionID: req.SessionID}, nil
}

func (f *fakeClient) Tasks(_ context.Context, sessionID string) ([]api.Task, error) {
	f.mu.Lock()
	fn := f.tasksFn
	f.mu.Unlock()
	if fn != nil {
		return fn(sessionID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[sessionID], nil
}

func (f *fakeClient) Sessions(context.Context) ([]api.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Session, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, api.Session{ID: id, Title: "session " + id})
	}
	return out, nil
}

func (f *fakeClient) SessionHistory(_ context.Context, id string) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return msgs, nil
}

func (f *fakeClient) CloneSession(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return "", fmt.Errorf("session %s not found", id)
	}
	f.nextID++
	clone := fmt.Sprintf("%s-clone-%d", id, f.nextID)
	f.sessions[clone] = append([]api.Message(nil), f.sessions[id]...)
	f.order = append(f.order, clone)
	return clone, nil
}

func (f *fakeClient) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	delete(f.sessions, id)
	for i, s := range f.order {
		if s == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeClient) IngestList(_ context.Context, sessionID string) ([]api.RepoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repos[sessionID], nil
}

func (f *fakeClient) IngestRepo(_ context.Context, req api.IngestRepoRequest) error {
	f.mu.Lock()
	fn := f.ingestFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return nil
}

func (f *fakeClient) IngestPDF(_ context.Context, req api.IngestPDFRequest) (api.IngestPDFResponse, error) {
	f.mu.Lock()
	fn := f.pdfFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return api.IngestPDFResponse{SessionID: req.SessionID, FileURL: req.URL}, nil
}

func (f *fakeClient) SystemStatus(context.Context) (api.SystemStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return api.SystemStatus{Mode: f.mode}, nil
}

func (f *fakeClient) SetSystemMode(_ context.Context, mode string) error {
	f.mu.Lock()
	fn := f.modeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(mode)
	}
	f.mu.Lock()
	f.mode = mode
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Files(_ context.Context, repoName, p string) ([]api.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := api.CleanRepoName(repoName) + "|" + p
	nodes, ok := f.files[key]
	if !ok {
		return nil, fmt.Errorf("no listing for %s", key)
	}
	return nodes, nil
}

func (f *fakeClient) FileContent(_ context.Context, repoName, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.contents[api.CleanRepoName(repoName)+"|"+p]
	if !ok {
		return "", fmt.Errorf("no content for %s", p)
	}
	return content, nil
}

func (f *fakeClient) SaveFileContent(_ context.Context, repoName, p, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents[api.CleanRepoName(repoName)+"|"+p] = content
	return nil
}
