// Package api is the typed HTTP client for the orchestrator/RAG backend. The
// backend is an opaque remote service; every view-level fetch in the original
// front ends goes through this one client instead of scattering raw calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RepoDisplayPrefix decorates repository names in ingest listings. It must be
// stripped before the name is used as a query parameter.
const RepoDisplayPrefix = "REPO: "

// CleanRepoName strips the display prefix from a repository name.
func CleanRepoName(name string) string {
	return strings.TrimPrefix(name, RepoDisplayPrefix)
}

// Client talks to the orchestrator backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: normalizeDetail(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// sessionQuery builds the ?session_id= parameter; a draft session sends the
// empty value, matching the web front end.
func sessionQuery(sessionID string) url.Values {
	return url.Values{"session_id": []string{sessionID}}
}

// Query posts a user query. POST /api/v1/query.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	var resp QueryResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/query", nil, req, &resp)
	return resp, err
}

// Tasks fetches the task roadmap for a session. GET /api/v1/orchestrator/tasks.
func (c *Client) Tasks(ctx context.Context, sessionID string) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, http.MethodGet, "/api/v1/orchestrator/tasks", sessionQuery(sessionID), nil, &tasks)
	return tasks, err
}

// Sessions lists known sessions. GET /api/v1/sessions.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, nil, &sessions)
	return sessions, err
}

// SessionHistory fetches the full transcript of a session. GET /api/v1/sessions/{id}.
func (c *Client) SessionHistory(ctx context.Context, id string) ([]Message, error) {
	var msgs []Message
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(id), nil, nil, &msgs)
	return msgs, err
}

// CloneSession forks a session and returns the new id. POST /api/v1/sessions/{id}/clone.
func (c *Client) CloneSession(ctx context.Context, id string) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+url.PathEscape(id)+"/clone", nil, nil, &resp)
	return resp.SessionID, err
}

// DeleteSession deletes a session. DELETE /api/v1/sessions/{id}.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+url.PathEscape(id), nil, nil, nil)
}

// IngestList lists ingestion jobs visible to a session. GET /api/v1/ingest/list.
func (c *Client) IngestList(ctx context.Context, sessionID string) ([]RepoJob, error) {
	var jobs []RepoJob
	err := c.do(ctx, http.MethodGet, "/api/v1/ingest/list", sessionQuery(sessionID), nil, &jobs)
	return jobs, err
}

// IngestRepo queues a repository ingestion. POST /api/v1/ingest/repo.
func (c *Client) IngestRepo(ctx context.Context, req IngestRepoRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/ingest/repo", nil, req, nil)
}

// IngestPDF queues a PDF ingestion. POST /api/v1/ingest/pdf.
func (c *Client) IngestPDF(ctx context.Context, req IngestPDFRequest) (IngestPDFResponse, error) {
	var resp IngestPDFResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/ingest/pdf", nil, req, &resp)
	return resp, err
}

// Files lists one directory of an ingested repository. GET /api/v1/ingest/files.
func (c *Client) Files(ctx context.Context, repoName, path string) ([]FileNode, error) {
	q := url.Values{
		"repo_name": []string{CleanRepoName(repoName)},
		"path":      []string{path},
	}
	var nodes []FileNode
	err := c.do(ctx, http.MethodGet, "/api/v1/ingest/files", q, nil, &nodes)
	return nodes, err
}

// FileContent fetches one file of an ingested repository. GET /api/v1/ingest/content.
func (c *Client) FileContent(ctx context.Context, repoName, path string) (string, error) {
	q := url.Values{
		"repo_name": []string{CleanRepoName(repoName)},
		"path":      []string{path},
	}
	var resp struct {
		Content string `json:"content"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/ingest/content", q, nil, &resp)
	return resp.Content, err
}

// SaveFileContent writes one file back. POST /api/v1/ingest/content.
func (c *Client) SaveFileContent(ctx context.Context, repoName, path, content string) error {
	body := map[string]string{
		"repo_name": CleanRepoName(repoName),
		"path":      path,
		"content":   content,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/ingest/content", nil, body, nil)
}

// Health probes the backend. GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// SystemStatus fetches the backend mode. GET /api/v1/system/status.
func (c *Client) SystemStatus(ctx context.Context) (SystemStatus, error) {
	var st SystemStatus
	err := c.do(ctx, http.MethodGet, "/api/v1/system/status", nil, nil, &st)
	return st, err
}

// SetSystemMode switches the backend between LOCAL and CLOUD. POST /api/v1/system/mode.
func (c *Client) SetSystemMode(ctx context.Context, mode string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/system/mode", nil, map[string]string{"mode": mode}, nil)
}

// TriggerSync starts a PUSH or PULL merge sync. POST /api/v1/system/sync.
func (c *Client) TriggerSync(ctx context.Context, direction string) error {
	body := map[string]string{"direction": direction, "strategy": "MERGE"}
	return c.do(ctx, http.MethodPost, "/api/v1/system/sync", nil, body, nil)
}

// TriggerBackup snapshots the backend database. POST /api/v1/system/backup.
func (c *Client) TriggerBackup(ctx context.Context) (BackupResult, error) {
	var res BackupResult
	err := c.do(ctx, http.MethodPost, "/api/v1/system/backup", nil, nil, &res)
	return res, err
}
