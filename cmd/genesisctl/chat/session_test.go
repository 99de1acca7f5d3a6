package chat

import (
	"testing"
	"time"

	"genesisctl/internal/config"
)

// Startup wires background machinery (poller, config watcher) but must never
// wait on any of it before handing the model to the program.
func TestNewSessionReturnsPromptly(t *testing.T) {
	workspace := t.TempDir()

	type result struct {
		s   *Session
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := NewSession(workspace, config.DefaultConfig())
		done <- result{s: s, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("NewSession: %v", r.err)
		}
		r.s.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("NewSession did not return within 5s")
	}
}
