// Package orchestrator keeps a locally displayed {sessions, messages, tasks,
// repositories} view consistent with a backend session whose identifier can
// change at any time, while a fixed-interval poll runs concurrently. The
// poller always reads the session id at the moment a tick fires, and every
// in-flight refresh carries a generation stamp so an out-of-order completion
// can never overwrite a newer session's data.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"genesisctl/internal/api"
)

// Client is the slice of the backend API the controller drives. *api.Client
// satisfies it; tests substitute fakes.
type Client interface {
	Query(ctx context.Context, req api.QueryRequest) (api.QueryResponse, error)
	Tasks(ctx context.Context, sessionID string) ([]api.Task, error)
	Sessions(ctx context.Context) ([]api.Session, error)
	SessionHistory(ctx context.Context, id string) ([]api.Message, error)
	CloneSession(ctx context.Context, id string) (string, error)
	DeleteSession(ctx context.Context, id string) error
	IngestList(ctx context.Context, sessionID string) ([]api.RepoJob, error)
	IngestRepo(ctx context.Context, req api.IngestRepoRequest) error
	IngestPDF(ctx context.Context, req api.IngestPDFRequest) (api.IngestPDFResponse, error)
	SystemStatus(ctx context.Context) (api.SystemStatus, error)
	SetSystemMode(ctx context.Context, mode string) error
}

// Options configures a controller.
type Options struct {
	PollInterval time.Duration
	Model        string
	Provider     string
	RAGMode      string
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Sessions         []api.Session
	CurrentSessionID string // "" while drafting a new chat
	Messages         []api.Message
	Tasks            []api.Task
	Repos            []api.RepoJob
	RepoContext      string
	Model            string
	Provider         string
	SystemMode       string
	Online           bool
	Loading          bool
}

// Controller is the session sync state machine. All mutable state lives
// behind one mutex; the generation counter is bumped synchronously on every
// session change so stale completions are recognizable.
type Controller struct {
	client Client
	log    *zap.Logger
	opts   Options

	mu          sync.Mutex
	gen         uint64
	sessions    []api.Session
	current     string
	messages    []api.Message
	tasks       []api.Task
	repos       []api.RepoJob
	repoContext string
	model       string
	provider    string
	ragMode     string
	systemMode  string
	online      bool
	loading     bool

	updates chan struct{}

	runCtx  context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a controller in the draft (no session) state.
func New(client Client, opts Options, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return &Controller{
		client:     client,
		log:        log,
		opts:       opts,
		model:      opts.Model,
		provider:   opts.Provider,
		ragMode:    opts.RAGMode,
		systemMode: "LOCAL",
		online:     true,
		updates:    make(chan struct{}, 1),
		stopped:    make(chan struct{}),
	}
}

// Updates signals that the snapshot changed. The channel coalesces: a slow
// consumer sees at least one signal, never a backlog.
func (c *Controller) Updates() <-chan struct{} { return c.updates }

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// bg returns the controller's run context for fire-and-forget work.
func (c *Controller) bg() context.Context {
	if c.runCtx != nil {
		return c.runCtx
	}
	return context.Background()
}

// Start launches the poll loop and performs the initial load. The loop runs
// until ctx is cancelled or Stop is called.
func (c *Controller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.runCtx = ctx
	c.cancel = cancel

	go func() {
		defer close(c.stopped)

		c.RefreshSystemStatus(ctx)
		c.RefreshSessions(ctx)
		c.RefreshData(ctx)

		ticker := time.NewTicker(c.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Session id is read inside RefreshData at fire time,
				// never captured when the loop started.
				c.RefreshData(ctx)
			}
		}
	}()
}

// Stop terminates the poll loop and waits for it to exit.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.stopped
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Sessions:         append([]api.Session(nil), c.sessions...),
		CurrentSessionID: c.current,
		Messages:         append([]api.Message(nil), c.messages...),
		Tasks:            append([]api.Task(nil), c.tasks...),
		Repos:            append([]api.RepoJob(nil), c.repos...),
		RepoContext:      c.repoContext,
		Model:            c.model,
		Provider:         c.provider,
		SystemMode:       c.systemMode,
		Online:           c.online,
		Loading:          c.loading,
	}
}

// SetModel changes the model forwarded with queries.
func (c *Controller) SetModel(m string) { c.setString(&c.model, m) }

// SetProvider changes the provider forwarded with queries.
func (c *Controller) SetProvider(p string) { c.setString(&c.provider, p) }

// SetRepoContext scopes queries to an expanded repository ("" clears it).
func (c *Controller) SetRepoContext(name string) { c.setString(&c.repoContext, name) }

// SwitchMode posts the mode change to the backend and records it locally only
// once the backend accepts it; CLOUD routes queries through the swarm
// pipeline.
func (c *Controller) SwitchMode(ctx context.Context, mode string) {
	if err := c.client.SetSystemMode(ctx, mode); err != nil {
		c.mu.Lock()
		c.appendSystemLocked(fmt.Sprintf("Error: failed to switch system mode: %v", err))
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	c.setString(&c.systemMode, mode)
}

// RefreshSystemStatus adopts the backend's reported mode so the status bar
// and query routing agree with the server rather than assuming LOCAL.
func (c *Controller) RefreshSystemStatus(ctx context.Context) {
	st, err := c.client.SystemStatus(ctx)
	if err != nil {
		c.log.Warn("system status refresh failed", zap.Error(err))
		return
	}
	if st.Mode != "" {
		c.setString(&c.systemMode, st.Mode)
	}
}

func (c *Controller) setString(dst *string, v string) {
	c.mu.Lock()
	*dst = v
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) queryMode() string {
	if c.systemMode == "CLOUD" {
		return "swarm"
	}
	return "standard"
}

// appendSystemLocked adds an inline system-role transcript entry.
func (c *Controller) appendSystemLocked(text string) {
	c.messages = append(c.messages, api.Message{
		ID:        "local-" + uuid.NewString(),
		Role:      api.RoleSystem,
		Content:   text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// RefreshSessions reloads the session list.
func (c *Controller) RefreshSessions(ctx context.Context) {
	sessions, err := c.client.Sessions(ctx)
	if err != nil {
		c.log.Warn("session list refresh failed", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.sessions = sessions
	c.mu.Unlock()
	c.notify()
}

// RefreshData re-fetches tasks and repositories scoped to the session id
// current at call time. It is silent: failures flip the offline indicator
// and are logged, but displayed data is left intact (stale beats blank).
func (c *Controller) RefreshData(ctx context.Context) {
	c.mu.Lock()
	gen := c.gen
	sid := c.current
	c.mu.Unlock()

	var (
		g     errgroup.Group
		tasks []api.Task
		repos []api.RepoJob
	)
	g.Go(func() error {
		var err error
		tasks, err = c.client.Tasks(ctx, sid)
		return err
	})
	g.Go(func() error {
		var err error
		repos, err = c.client.IngestList(ctx, sid)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A session switch happened while this refresh was in flight;
		// applying it would show the old session's data.
		c.log.Debug("dropping stale refresh", zap.String("session", sid))
		return
	}
	if err != nil {
		c.online = false
		c.log.Warn("background refresh failed", zap.String("session", sid), zap.Error(err))
	} else {
		c.tasks = tasks
		c.repos = repos
		c.online = true
	}
	c.notifyLocked()
}

// notifyLocked is notify for callers already holding the mutex. The send is
// non-blocking, so holding the lock is safe.
func (c *Controller) notifyLocked() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// NewChat clears the transcript and returns to the draft state.
func (c *Controller) NewChat() {
	c.mu.Lock()
	c.gen++
	c.current = ""
	c.messages = nil
	c.tasks = nil
	c.repos = nil
	c.notifyLocked()
	c.mu.Unlock()

	go c.RefreshSessions(c.bg())
}

// SelectSession binds to an existing session and replaces the transcript
// wholesale with its history. No incremental merge is attempted.
func (c *Controller) SelectSession(ctx context.Context, id string) {
	c.mu.Lock()
	c.gen++
	c.current = id
	c.loading = true
	c.notifyLocked()
	c.mu.Unlock()

	history, err := c.client.SessionHistory(ctx, id)

	c.mu.Lock()
	c.loading = false
	if c.current != id {
		// The user moved on while the history was in flight.
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.appendSystemLocked(fmt.Sprintf("Error: failed to load session history: %v", err))
		c.log.Warn("history load failed", zap.String("session", id), zap.Error(err))
	} else {
		c.messages = history
	}
	c.notifyLocked()
	c.mu.Unlock()

	go c.RefreshData(c.bg())
}

// CloneSession forks a session on the backend and adopts the fork.
func (c *Controller) CloneSession(ctx context.Context, id string) {
	newID, err := c.client.CloneSession(ctx, id)
	if err != nil {
		c.mu.Lock()
		c.appendSystemLocked(fmt.Sprintf("Error: failed to clone session: %v", err))
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	c.RefreshSessions(ctx)
	c.SelectSession(ctx, newID)
}

// DeleteSession removes a session; deleting the active one falls back to a
// fresh draft chat.
func (c *Controller) DeleteSession(ctx context.Context, id string) {
	if err := c.client.DeleteSession(ctx, id); err != nil {
		c.mu.Lock()
		c.appendSystemLocked(fmt.Sprintf("Error: failed to delete session: %v", err))
		c.notifyLocked()
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	wasCurrent := c.current == id
	c.mu.Unlock()

	if wasCurrent {
		c.NewChat()
	} else {
		go c.RefreshSessions(c.bg())
	}
}

// SendMessage appends the user's message optimistically, posts the query,
// and appends the assistant reply. A backend-assigned session id (draft to
// active transition) is adopted before the reply is shown. Failures become
// inline system messages; SendMessage never returns an error to the view.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	sendGen := c.gen
	sid := c.current
	req := api.QueryRequest{
		QueryText:   text,
		PDFID:       "all",
		Mode:        c.queryMode(),
		SessionID:   sid,
		Model:       c.model,
		Provider:    c.provider,
		RepoContext: api.CleanRepoName(c.repoContext),
		RAGMode:     c.ragMode,
	}
	// The optimistic entry is applied before any network I/O so the user's
	// own words never wait on the backend.
	c.messages = append(c.messages, api.Message{
		ID:        "temp-" + uuid.NewString(),
		Role:      api.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	c.loading = true
	c.notifyLocked()
	c.mu.Unlock()

	resp, err := c.client.Query(ctx, req)

	c.mu.Lock()
	c.loading = false
	if c.gen != sendGen {
		// Session switched while the query was in flight; the transcript
		// shown now belongs to another session.
		c.log.Debug("dropping reply for superseded session", zap.String("session", sid))
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.appendSystemLocked(fmt.Sprintf("Error: %v", err))
		c.notifyLocked()
		c.mu.Unlock()
		return
	}

	adopted := false
	if resp.SessionID != "" && resp.SessionID != sid {
		c.gen++
		c.current = resp.SessionID
		adopted = true
	}

	answer := resp.Answer
	if answer == "" {
		answer = "I processed that but have no specific answer."
	}
	model, provider := c.model, c.provider
	if resp.Metadata != nil {
		if resp.Metadata.Model != "" {
			model = resp.Metadata.Model
		}
		if resp.Metadata.Provider != "" {
			provider = resp.Metadata.Provider
		}
	}
	label := model
	if provider != "" && provider != "unknown" {
		label += " @ " + provider
	}
	c.messages = append(c.messages, api.Message{
		Role:    api.RoleAssistant,
		Content: answer,
		Sources: resp.Sources,
		Model:   label,
	})
	hasTasks := len(resp.Tasks) > 0
	c.notifyLocked()
	c.mu.Unlock()

	if adopted {
		go c.RefreshSessions(c.bg())
	}
	if hasTasks || adopted {
		go c.RefreshData(c.bg())
	}
}

// IngestRepo queues a repository for ingestion, narrating progress as system
// messages in the transcript.
func (c *Controller) IngestRepo(ctx context.Context, url, scope string) {
	c.mu.Lock()
	sid := c.current
	c.appendSystemLocked("Ingestion initiated: " + url)
	c.notifyLocked()
	c.mu.Unlock()

	err := c.client.IngestRepo(ctx, api.IngestRepoRequest{URL: url, Scope: scope, SessionID: sid})

	c.mu.Lock()
	if err != nil {
		c.appendSystemLocked(fmt.Sprintf("Ingestion failed: %v", err))
	} else {
		c.appendSystemLocked("Ingestion queued.")
	}
	c.notifyLocked()
	c.mu.Unlock()

	if err == nil {
		go c.RefreshData(c.bg())
	}
}

// IngestPDF queues a PDF for ingestion and returns the backend's file URL,
// which the document viewer can open immediately.
func (c *Controller) IngestPDF(ctx context.Context, req api.IngestPDFRequest) (string, error) {
	c.mu.Lock()
	req.SessionID = c.current
	req.RAGMode = c.ragMode
	c.appendSystemLocked("Ingestion initiated: " + req.URL)
	c.notifyLocked()
	c.mu.Unlock()

	resp, err := c.client.IngestPDF(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.appendSystemLocked(fmt.Sprintf("Ingestion failed: %v", err))
		c.notifyLocked()
		return "", err
	}
	if resp.SessionID != "" && c.current == "" {
		c.gen++
		c.current = resp.SessionID
	}
	c.appendSystemLocked("Ingestion queued.")
	c.notifyLocked()
	return resp.FileURL, nil
}
