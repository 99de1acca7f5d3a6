package orchestrator

import (
	"context"
	"fmt"
	"path"
	"sync"

	"go.uber.org/zap"

	"genesisctl/internal/api"
)

// FileClient is the repository-browsing slice of the backend API.
type FileClient interface {
	Files(ctx context.Context, repoName, path string) ([]api.FileNode, error)
	FileContent(ctx context.Context, repoName, path string) (string, error)
	SaveFileContent(ctx context.Context, repoName, path, content string) error
}

// OpenFile is a file whose content is loaded into the editor.
type OpenFile struct {
	Name    string
	Path    string
	Content string
}

// Explorer drives the lazily fetched repository tree: one directory listing
// is displayed at a time, replaced wholesale on every navigation.
type Explorer struct {
	client FileClient
	log    *zap.Logger

	mu      sync.Mutex
	repo    string // display name, may carry the "REPO: " prefix
	dir     string
	nodes   []api.FileNode
	open    *OpenFile
	loading bool
}

// NewExplorer creates an explorer with nothing expanded.
func NewExplorer(client FileClient, log *zap.Logger) *Explorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Explorer{client: client, log: log}
}

// ExplorerSnapshot is a consistent copy for rendering.
type ExplorerSnapshot struct {
	Repo    string
	Dir     string
	Nodes   []api.FileNode
	Open    *OpenFile
	Loading bool
}

// Snapshot returns a copy of the current state.
func (e *Explorer) Snapshot() ExplorerSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := ExplorerSnapshot{
		Repo:    e.repo,
		Dir:     e.dir,
		Nodes:   append([]api.FileNode(nil), e.nodes...),
		Loading: e.loading,
	}
	if e.open != nil {
		cp := *e.open
		snap.Open = &cp
	}
	return snap
}

// Repo returns the expanded repository display name, or "".
func (e *Explorer) Repo() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo
}

// Expand selects a repository and loads its root directory.
func (e *Explorer) Expand(ctx context.Context, repoName string) error {
	e.mu.Lock()
	e.repo = repoName
	e.dir = ""
	e.nodes = nil
	e.open = nil
	e.mu.Unlock()
	return e.navigate(ctx, repoName, "")
}

// Collapse clears the expanded repository.
func (e *Explorer) Collapse() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repo = ""
	e.dir = ""
	e.nodes = nil
	e.open = nil
}

// Enter navigates into a directory node: the displayed listing is replaced
// with whatever the fetch for that path returns.
func (e *Explorer) Enter(ctx context.Context, node api.FileNode) error {
	if node.Type != "dir" {
		return fmt.Errorf("%s is not a directory", node.Path)
	}
	e.mu.Lock()
	repo := e.repo
	e.mu.Unlock()
	return e.navigate(ctx, repo, node.Path)
}

// Up navigates to the parent directory ("" is the repository root).
func (e *Explorer) Up(ctx context.Context) error {
	e.mu.Lock()
	repo, dir := e.repo, e.dir
	e.mu.Unlock()
	if dir == "" {
		return nil
	}
	parent := path.Dir(dir)
	if parent == "." || parent == "/" {
		parent = ""
	}
	return e.navigate(ctx, repo, parent)
}

func (e *Explorer) navigate(ctx context.Context, repo, dir string) error {
	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	nodes, err := e.client.Files(ctx, repo, dir)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if e.repo != repo {
		// Another repository was expanded while this listing was in flight.
		return nil
	}
	if err != nil {
		e.log.Warn("file listing failed",
			zap.String("repo", repo), zap.String("path", dir), zap.Error(err))
		return err
	}
	e.dir = dir
	e.nodes = nodes
	return nil
}

// OpenNode loads a file node's content for the editor.
func (e *Explorer) OpenNode(ctx context.Context, node api.FileNode) error {
	if node.Type != "file" {
		return fmt.Errorf("%s is not a file", node.Path)
	}
	e.mu.Lock()
	repo := e.repo
	e.loading = true
	e.mu.Unlock()

	content, err := e.client.FileContent(ctx, repo, node.Path)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if err != nil {
		e.open = nil
		return err
	}
	e.open = &OpenFile{Name: node.Name, Path: node.Path, Content: content}
	return nil
}

// Save writes edited content back through the backend and updates the open
// file on success.
func (e *Explorer) Save(ctx context.Context, content string) error {
	e.mu.Lock()
	repo := e.repo
	open := e.open
	e.mu.Unlock()
	if open == nil || repo == "" {
		return fmt.Errorf("no file is open")
	}

	if err := e.client.SaveFileContent(ctx, repo, open.Path, content); err != nil {
		return fmt.Errorf("save %s: %w", open.Path, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open != nil && e.open.Path == open.Path {
		e.open.Content = content
	}
	return nil
}

// CloseFile discards the open file.
func (e *Explorer) CloseFile() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = nil
}
