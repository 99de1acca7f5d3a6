package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("notes.draft")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("notes.draft", "remember the milk"))

	got, err := s.Get("notes.draft")
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", got)
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("chat.model", "llama"))
	require.NoError(t, s.Set("chat.model", "gpt-4o"))

	got, err := s.Get("chat.model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	_, err := s.Get("k")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNullStoreIsSilent(t *testing.T) {
	var s Store = NullStore{}
	require.NoError(t, s.Set("k", "v"))
	_, err := s.Get("k")
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, s.Close())
}
