package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetWithoutDebugIsNop(t *testing.T) {
	Reset()
	ws := t.TempDir()
	if err := Initialize(ws, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	l := Get(CategorySync)
	l.Info("should go nowhere")
	if _, err := os.Stat(filepath.Join(ws, ".genesis", "logs")); !os.IsNotExist(err) {
		t.Fatalf("logs directory should not exist in production mode")
	}
}

func TestDebugModeWritesCategoryFile(t *testing.T) {
	Reset()
	ws := t.TempDir()
	if err := Initialize(ws, true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Get(CategoryAPI).Info("hello")
	Sync()

	data, err := os.ReadFile(filepath.Join(ws, ".genesis", "logs", "api.log"))
	if err != nil {
		t.Fatalf("read api.log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("api.log is empty")
	}
}

func TestGetReturnsSameLogger(t *testing.T) {
	Reset()
	if err := Initialize(t.TempDir(), true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if Get(CategoryDoc) != Get(CategoryDoc) {
		t.Fatal("Get should cache loggers per category")
	}
}
