package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"genesisctl/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newController(f *fakeClient) *Controller {
	return New(f, Options{
		PollInterval: 10 * time.Millisecond,
		Model:        "llama",
		Provider:     "sambanova",
		RAGMode:      "standard",
	}, nil)
}

func TestSendMessageOptimisticBeforeNetwork(t *testing.T) {
	f := newFakeClient()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.queryFn = func(req api.QueryRequest) (api.QueryResponse, error) {
		close(entered)
		<-release
		return api.QueryResponse{Answer: "Hi", SessionID: "s1"}, nil
	}

	c := newController(f)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SendMessage(context.Background(), "Hello")
	}()

	<-entered
	snap := c.Snapshot()
	require.Len(t, snap.Messages, 1, "optimistic message must appear before the reply")
	assert.Equal(t, api.RoleUser, snap.Messages[0].Role)
	assert.Equal(t, "Hello", snap.Messages[0].Content)
	assert.True(t, snap.Loading)

	close(release)
	<-done
}

func TestDraftToActiveTransition(t *testing.T) {
	f := newFakeClient()
	f.queryFn = func(req api.QueryRequest) (api.QueryResponse, error) {
		require.Empty(t, req.SessionID, "draft chat must send an empty session id")
		f.addSession("X")
		return api.QueryResponse{Answer: "answered", SessionID: "X"}, nil
	}

	c := newController(f)
	c.SendMessage(context.Background(), "first message")

	snap := c.Snapshot()
	assert.Equal(t, "X", snap.CurrentSessionID)

	var assistants int
	for _, m := range snap.Messages {
		if m.Role == api.RoleAssistant {
			assistants++
		}
	}
	assert.Equal(t, 1, assistants, "exactly one assistant message")

	// The fire-and-forget session list refresh must eventually include X.
	require.Eventually(t, func() bool {
		for _, s := range c.Snapshot().Sessions {
			if s.ID == "X" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEndToEndHello(t *testing.T) {
	f := newFakeClient()
	f.queryFn = func(req api.QueryRequest) (api.QueryResponse, error) {
		return api.QueryResponse{Answer: "Hi", SessionID: "s1"}, nil
	}

	c := newController(f)
	c.SendMessage(context.Background(), "Hello")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, api.RoleUser, snap.Messages[0].Role)
	assert.Equal(t, "Hello", snap.Messages[0].Content)
	assert.Equal(t, api.RoleAssistant, snap.Messages[1].Role)
	assert.Equal(t, "Hi", snap.Messages[1].Content)
	assert.Equal(t, "s1", snap.CurrentSessionID)
}

func TestSendMessageFailureBecomesSystemMessage(t *testing.T) {
	f := newFakeClient()
	f.queryFn = func(api.QueryRequest) (api.QueryResponse, error) {
		return api.QueryResponse{}, errors.New("connection refused")
	}

	c := newController(f)
	c.SendMessage(context.Background(), "Hello")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, api.RoleSystem, snap.Messages[1].Role)
	assert.Contains(t, snap.Messages[1].Content, "connection refused")
}

func TestEmptyAnswerGetsFallbackText(t *testing.T) {
	f := newFakeClient()
	f.queryFn = func(api.QueryRequest) (api.QueryResponse, error) {
		return api.QueryResponse{SessionID: "s1"}, nil
	}

	c := newController(f)
	c.SendMessage(context.Background(), "Hello")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "I processed that but have no specific answer.", snap.Messages[1].Content)
}

func TestStalePollCannotOverwriteNewerSession(t *testing.T) {
	f := newFakeClient()
	f.addSession("A")
	f.addSession("B")
	f.tasks["A"] = []api.Task{{ID: "a1", Title: "old work", Status: api.TaskPending}}
	f.tasks["B"] = []api.Task{{ID: "b1", Title: "new work", Status: api.TaskInProgress}}

	blockA := make(chan struct{})
	inFlightA := make(chan struct{})
	var once sync.Once
	f.tasksFn = func(sessionID string) ([]api.Task, error) {
		if sessionID == "A" {
			once.Do(func() { close(inFlightA) })
			<-blockA
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.tasks[sessionID], nil
	}

	c := newController(f)
	c.SelectSession(context.Background(), "A")

	// A poll for session A is now in flight...
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		c.RefreshData(context.Background())
	}()
	<-inFlightA

	// ...and the user switches to B before it resolves.
	c.SelectSession(context.Background(), "B")
	c.RefreshData(context.Background())
	require.Equal(t, "b1", c.Snapshot().Tasks[0].ID)

	close(blockA)
	<-pollDone

	snap := c.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "b1", snap.Tasks[0].ID, "stale poll for A overwrote B's tasks")
	assert.Equal(t, "B", snap.CurrentSessionID)
}

func TestDeleteCurrentSessionReturnsToDraft(t *testing.T) {
	f := newFakeClient()
	f.addSession("S", api.Message{Role: api.RoleUser, Content: "old"})
	f.tasks["S"] = []api.Task{{ID: "t1"}}

	c := newController(f)
	c.SelectSession(context.Background(), "S")
	require.Equal(t, "S", c.Snapshot().CurrentSessionID)

	c.DeleteSession(context.Background(), "S")

	snap := c.Snapshot()
	assert.Empty(t, snap.CurrentSessionID)
	assert.Empty(t, snap.Messages)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Repos)
}

func TestDeleteOtherSessionKeepsCurrent(t *testing.T) {
	f := newFakeClient()
	f.addSession("keep")
	f.addSession("drop")

	c := newController(f)
	c.SelectSession(context.Background(), "keep")
	c.DeleteSession(context.Background(), "drop")

	assert.Equal(t, "keep", c.Snapshot().CurrentSessionID)
}

func TestSelectSessionReplacesTranscriptWholesale(t *testing.T) {
	f := newFakeClient()
	f.addSession("S",
		api.Message{ID: "1", Role: api.RoleUser, Content: "question"},
		api.Message{ID: "2", Role: api.RoleAssistant, Content: "answer"},
	)

	c := newController(f)
	c.SendMessage(context.Background(), "draft words")
	c.SelectSession(context.Background(), "S")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "question", snap.Messages[0].Content)
	assert.Equal(t, "answer", snap.Messages[1].Content)
}

func TestCloneSessionAdoptsFork(t *testing.T) {
	f := newFakeClient()
	f.addSession("orig", api.Message{Role: api.RoleUser, Content: "hi"})

	c := newController(f)
	c.CloneSession(context.Background(), "orig")

	snap := c.Snapshot()
	assert.NotEmpty(t, snap.CurrentSessionID)
	assert.NotEqual(t, "orig", snap.CurrentSessionID)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "hi", snap.Messages[0].Content)
}

func TestBackgroundFailureTogglesOfflineKeepsData(t *testing.T) {
	f := newFakeClient()
	f.addSession("S")
	f.tasks["S"] = []api.Task{{ID: "t1", Title: "work"}}

	c := newController(f)
	c.SelectSession(context.Background(), "S")
	c.RefreshData(context.Background())
	require.True(t, c.Snapshot().Online)
	require.Len(t, c.Snapshot().Tasks, 1)

	f.mu.Lock()
	f.tasksFn = func(string) ([]api.Task, error) { return nil, errors.New("network down") }
	f.mu.Unlock()

	c.RefreshData(context.Background())

	snap := c.Snapshot()
	assert.False(t, snap.Online, "failed poll must flip the offline indicator")
	require.Len(t, snap.Tasks, 1, "stale data must be preferred over blanking")
	assert.Equal(t, "t1", snap.Tasks[0].ID)
}

func TestPollerStopsCleanly(t *testing.T) {
	f := newFakeClient()
	c := newController(f)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	// Let at least one tick fire, then stop; goleak verifies no goroutine
	// survives the test.
	time.Sleep(30 * time.Millisecond)
	c.Stop()
}

func TestIngestRepoNarratesInTranscript(t *testing.T) {
	f := newFakeClient()
	c := newController(f)

	c.IngestRepo(context.Background(), "https://github.com/acme/foo", "global")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Contains(t, snap.Messages[0].Content, "Ingestion initiated")
	assert.Contains(t, snap.Messages[1].Content, "Ingestion queued")
}

func TestIngestPDFAdoptsBackendSession(t *testing.T) {
	f := newFakeClient()
	f.pdfFn = func(api.IngestPDFRequest) (api.IngestPDFResponse, error) {
		return api.IngestPDFResponse{SessionID: "P", FileURL: "http://backend/files/doc.pdf"}, nil
	}

	c := newController(f)
	fileURL, err := c.IngestPDF(context.Background(), api.IngestPDFRequest{URL: "http://x/doc.pdf"})

	require.NoError(t, err)
	assert.Equal(t, "http://backend/files/doc.pdf", fileURL)
	assert.Equal(t, "P", c.Snapshot().CurrentSessionID,
		"ingesting from a draft chat must adopt the session the backend created")
}

func TestIngestPDFKeepsBoundSession(t *testing.T) {
	f := newFakeClient()
	f.addSession("S")
	f.pdfFn = func(req api.IngestPDFRequest) (api.IngestPDFResponse, error) {
		return api.IngestPDFResponse{SessionID: "P", FileURL: req.URL}, nil
	}

	c := newController(f)
	c.SelectSession(context.Background(), "S")
	_, err := c.IngestPDF(context.Background(), api.IngestPDFRequest{URL: "http://x/doc.pdf"})

	require.NoError(t, err)
	assert.Equal(t, "S", c.Snapshot().CurrentSessionID)
}

func TestSwitchModePostsToBackend(t *testing.T) {
	f := newFakeClient()
	c := newController(f)

	c.SwitchMode(context.Background(), "CLOUD")

	f.mu.Lock()
	mode := f.mode
	f.mu.Unlock()
	assert.Equal(t, "CLOUD", mode)
	assert.Equal(t, "CLOUD", c.Snapshot().SystemMode)
}

func TestSwitchModeFailureKeepsLocalMode(t *testing.T) {
	f := newFakeClient()
	f.modeFn = func(string) error { return errors.New("backend refused") }
	c := newController(f)

	c.SwitchMode(context.Background(), "CLOUD")

	snap := c.Snapshot()
	assert.Equal(t, "LOCAL", snap.SystemMode)
	require.Len(t, snap.Messages, 1)
	assert.Contains(t, snap.Messages[0].Content, "backend refused")
}

func TestRefreshSystemStatusSeedsMode(t *testing.T) {
	f := newFakeClient()
	f.mode = "CLOUD"
	c := newController(f)

	c.RefreshSystemStatus(context.Background())

	assert.Equal(t, "CLOUD", c.Snapshot().SystemMode)
}

func TestIngestRepoFailure(t *testing.T) {
	f := newFakeClient()
	f.ingestFn = func(api.IngestRepoRequest) error { return errors.New("bad url") }
	c := newController(f)

	c.IngestRepo(context.Background(), "not-a-url", "session")

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Contains(t, snap.Messages[1].Content, "Ingestion failed")
}
