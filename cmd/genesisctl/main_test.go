package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWorkspaceDefaultsToCwd(t *testing.T) {
	workspace = ""
	wd, _ := os.Getwd()
	if got := resolveWorkspace(); got != wd {
		t.Fatalf("resolveWorkspace() = %q, want %q", got, wd)
	}

	workspace = "/tmp/elsewhere"
	defer func() { workspace = "" }()
	if got := resolveWorkspace(); got != "/tmp/elsewhere" {
		t.Fatalf("resolveWorkspace() = %q, want flag value", got)
	}
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	ws := t.TempDir()
	workspace = ws
	apiURL = "http://flag-override:9999"
	debugLogs = true
	defer func() { workspace, apiURL, debugLogs = "", "", false }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIURL != "http://flag-override:9999" {
		t.Fatalf("APIURL = %q, want flag override", cfg.APIURL)
	}
	if !cfg.Debug {
		t.Fatalf("Debug flag must force debug logging")
	}

	if _, err := os.Stat(filepath.Join(ws, ".genesis")); err == nil {
		t.Log("config directory created")
	}
}
