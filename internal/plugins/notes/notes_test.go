package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesisctl/internal/plugin"
	"genesisctl/internal/store"
)

func openStore(t *testing.T, ws string) *store.LocalStore {
	t.Helper()
	st, err := store.Open(ws)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestDraftSurvivesRestart(t *testing.T) {
	ws := t.TempDir()

	st := openStore(t, ws)
	p := New(st, nil)
	reg := plugin.NewRegistry(nil)
	reg.Register(p)

	p.SetDraft("remember the milk")
	require.NoError(t, st.Close())

	// Simulate a fresh process: new store handle, new plugin instance.
	st2 := openStore(t, ws)
	p2 := New(st2, nil)
	reg2 := plugin.NewRegistry(nil)
	reg2.Register(p2)

	assert.Equal(t, "remember the milk", p2.Draft())
}

func TestAppendAndClear(t *testing.T) {
	st := openStore(t, t.TempDir())
	p := New(st, nil)
	plugin.NewRegistry(nil).Register(p)

	p.Append("line one")
	p.Append("\nline two")
	assert.Equal(t, "line one\nline two", p.Draft())

	p.ClearDraft()
	assert.Empty(t, p.Draft())

	_, err := st.Get("notes.draft")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHiddenUntilToggled(t *testing.T) {
	st := openStore(t, t.TempDir())
	reg := plugin.NewRegistry(nil)
	reg.Register(New(st, nil))
	host := plugin.NewHost(reg, nil)

	require.Empty(t, host.RenderSlot(plugin.OverlaySlot, nil, 80, 24))
	reg.Events().Publish(plugin.TopicToggleNotes, nil)
	views := host.RenderSlot(plugin.OverlaySlot, nil, 80, 24)
	require.Len(t, views, 1)
	assert.Contains(t, views[0], "Notes")
}

func TestNullStoreStillWorks(t *testing.T) {
	p := New(store.NullStore{}, nil)
	plugin.NewRegistry(nil).Register(p)
	p.SetDraft("volatile")
	assert.Equal(t, "volatile", p.Draft())
}
