package ui

import "testing"

func TestThemeByName(t *testing.T) {
	t.Setenv("GENESIS_LIGHT_MODE", "")
	if ThemeByName("dark").IsDark != true {
		t.Fatalf("expected dark theme for name \"dark\"")
	}
	if ThemeByName("Light").IsDark {
		t.Fatalf("expected light theme for name \"Light\"")
	}
	if !ThemeByName("").IsDark {
		t.Fatalf("expected dark fallback for empty name")
	}
	if !ThemeByName("solarized").IsDark {
		t.Fatalf("expected dark fallback for unknown name")
	}

	t.Setenv("GENESIS_LIGHT_MODE", "1")
	if ThemeByName("dark").IsDark {
		t.Fatalf("GENESIS_LIGHT_MODE=1 must force the light theme")
	}
}

func TestRenderDivider(t *testing.T) {
	s := DefaultStyles()
	if s.RenderDivider(0) == "" {
		t.Fatalf("divider must never be empty")
	}
}
