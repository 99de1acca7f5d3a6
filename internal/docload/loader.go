// Package docload fetches remote PDF documents into locally owned spool
// files so the viewer never hands a remote URL to the parsing library. This
// mirrors the web front end's blob-URL workaround for cross-origin fetches:
// the document is downloaded once, and the viewer only ever sees the local
// handle. Exactly one handle is alive per loader at any time.
package docload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ErrSuperseded reports that a newer Load started before this one finished.
// The slow result is discarded; nothing is wrong with the newer document.
var ErrSuperseded = errors.New("docload: load superseded by a newer request")

// FetchError is a network-level failure: the document could not be
// downloaded at all. The URL is retained so callers can offer opening it
// externally as a fallback.
type FetchError struct {
	URL    string
	Status int // 0 when the transport failed before a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a document-level failure: the bytes arrived but are not a
// readable PDF. Kept distinct from FetchError so the user-facing message can
// distinguish "couldn't download" from "couldn't parse".
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Handle is a locally owned document resource. It is exclusively owned by
// the loader that created it and must never be shared across loaders.
type Handle struct {
	path     string
	url      string
	numPages int
	released atomic.Bool
	loader   *Loader
}

// Path returns the spool file location.
func (h *Handle) Path() string { return h.path }

// URL returns the remote origin of the document.
func (h *Handle) URL() string { return h.url }

// NumPages returns the page count parsed at load time.
func (h *Handle) NumPages() int { return h.numPages }

// PageText extracts the plain text of a 1-indexed page.
func (h *Handle) PageText(page int) (string, error) {
	f, reader, err := pdf.Open(h.path)
	if err != nil {
		return "", &ParseError{URL: h.url, Err: err}
	}
	defer f.Close()

	if page < 1 || page > reader.NumPage() {
		return "", fmt.Errorf("page %d out of range [1,%d]", page, reader.NumPage())
	}
	p := reader.Page(page)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", page)
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", &ParseError{URL: h.url, Err: err}
	}
	return text, nil
}

// release removes the spool file. Idempotent.
func (h *Handle) release() {
	if h.released.Swap(true) {
		return
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		h.loader.log.Warn("spool cleanup failed", zap.String("path", h.path), zap.Error(err))
	}
	h.loader.live.Add(-1)
}

// Loader downloads documents and owns their spool files. Superseding loads
// release the previous handle; the release always targets the handle that
// was actually installed last, never a stale captured copy.
type Loader struct {
	mu      sync.Mutex
	gen     uint64
	current *Handle
	live    atomic.Int64
	http    *http.Client
	dir     string
	log     *zap.Logger
}

// NewLoader creates a loader spooling into dir.
func NewLoader(dir string, timeout time.Duration, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		http: &http.Client{Timeout: timeout},
		dir:  dir,
		log:  log,
	}
}

// Load fetches url into a new handle and installs it as current, releasing
// the previous one. A nil handle with nil error means "no document" (empty
// url). If another Load supersedes this one mid-flight, the fetched bytes are
// discarded and ErrSuperseded is returned.
func (l *Loader) Load(ctx context.Context, url string) (*Handle, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if url == "" {
		l.replaceLocked(nil)
		l.mu.Unlock()
		return nil, nil
	}
	l.mu.Unlock()

	path, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	numPages, err := pageCount(path)
	if err != nil {
		os.Remove(path)
		return nil, &ParseError{URL: url, Err: err}
	}

	h := &Handle{path: path, url: url, numPages: numPages, loader: l}
	l.live.Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer selection won the race; this result is stale.
		h.release()
		return nil, ErrSuperseded
	}
	l.replaceLocked(h)
	return h, nil
}

func (l *Loader) replaceLocked(h *Handle) {
	if l.current != nil {
		l.current.release()
	}
	l.current = h
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	spool, err := os.CreateTemp(l.dir, "genesis-doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}
	if _, err := io.Copy(spool, resp.Body); err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return "", &FetchError{URL: url, Err: err}
	}
	if err := spool.Close(); err != nil {
		os.Remove(spool.Name())
		return "", fmt.Errorf("close spool file: %w", err)
	}
	return spool.Name(), nil
}

func pageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// Current returns the installed handle, or nil.
func (l *Loader) Current() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// LiveHandles reports how many spool files this loader still owns. It is 0
// or 1 outside of a Load call; the leak tests assert on it.
func (l *Loader) LiveHandles() int {
	return int(l.live.Load())
}

// Close releases the current handle. Must be called when the owning view
// unmounts; skipping it leaks the spool file.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.replaceLocked(nil)
}
