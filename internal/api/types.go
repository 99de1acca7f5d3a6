package api

// Message roles as reported by the orchestrator.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Task statuses.
const (
	TaskPending    = "PENDING"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// Session is a backend-tracked conversation thread.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// Message is one transcript entry. Optimistic entries created locally carry a
// temporary ID until the next wholesale history reload.
type Message struct {
	ID        string   `json:"id,omitempty"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at,omitempty"`
	Sources   []string `json:"sources,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// Task is one roadmap entry, externally owned and polled read-only.
type Task struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	AssignedAgent string `json:"assigned_agent"`
}

// RepoJob is one ingested repository or document job.
type RepoJob struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// FileNode is one entry of the lazily fetched repository tree.
type FileNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Type     string     `json:"type"` // "file" or "dir"
	Children []FileNode `json:"children,omitempty"`
}

// QueryRequest is the body for POST /api/v1/query.
type QueryRequest struct {
	QueryText   string `json:"query_text"`
	PDFID       string `json:"pdf_id"`
	Mode        string `json:"mode"` // "standard" or "swarm"
	SessionID   string `json:"session_id,omitempty"`
	Model       string `json:"model"`
	Provider    string `json:"provider"`
	RepoContext string `json:"repo_context,omitempty"`
	RAGMode     string `json:"rag_mode,omitempty"`
}

// QueryMetadata reports which model actually answered.
type QueryMetadata struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// QueryResponse is the reply to POST /api/v1/query.
type QueryResponse struct {
	Answer    string         `json:"answer"`
	Sources   []string       `json:"sources,omitempty"`
	SessionID string         `json:"session_id"`
	Metadata  *QueryMetadata `json:"metadata,omitempty"`
	Tasks     []Task         `json:"tasks,omitempty"`
}

// IngestRepoRequest is the body for POST /api/v1/ingest/repo.
type IngestRepoRequest struct {
	URL       string `json:"url"`
	Scope     string `json:"scope"` // "global" or "session"
	SessionID string `json:"session_id,omitempty"`
}

// IngestPDFRequest is the body for POST /api/v1/ingest/pdf.
type IngestPDFRequest struct {
	URL        string `json:"url"`
	Scope      string `json:"scope"`
	SessionID  string `json:"session_id,omitempty"`
	RAGMode    string `json:"rag_mode,omitempty"`
	PageOffset int    `json:"page_offset,omitempty"`
	EnableOCR  bool   `json:"enable_ocr,omitempty"`
}

// IngestPDFResponse is the reply to POST /api/v1/ingest/pdf.
type IngestPDFResponse struct {
	SessionID string `json:"session_id,omitempty"`
	FileURL   string `json:"file_url,omitempty"`
}

// SystemStatus is the reply to GET /api/v1/system/status.
type SystemStatus struct {
	Mode string `json:"mode"` // "LOCAL" or "CLOUD"
}

// BackupResult is the reply to POST /api/v1/system/backup.
type BackupResult struct {
	Path string `json:"path"`
}
