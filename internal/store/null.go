package store

// NullStore satisfies Store with no-ops. It is the explicit fallback used
// when the workspace is read-only or the database cannot be opened, instead
// of silently substituting a stub object at call sites.
type NullStore struct{}

func (NullStore) Get(string) (string, error) { return "", ErrNotFound }
func (NullStore) Set(string, string) error   { return nil }
func (NullStore) Delete(string) error        { return nil }
func (NullStore) Close() error               { return nil }
