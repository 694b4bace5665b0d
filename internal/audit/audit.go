package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	"github.com/PolarWolf314/vaultapi/internal/utils"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local user performing the action.
	Operation string `json:"op"`   // Operation name.
	Outcome   string `json:"outcome"`

	// Optional fields depending on operation.
	Server    string   `json:"server,omitempty"`
	Table     string   `json:"table,omitempty"`
	Keys      []string `json:"keys,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Trail appends entries to a JSON Lines file.
type Trail struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// New returns a trail writing to path. An empty path disables logging.
func New(path string) *Trail {
	return &Trail{path: path, now: time.Now}
}

// Enabled reports whether entries are written anywhere.
func (t *Trail) Enabled() bool {
	return t != nil && t.path != ""
}

// Path returns the log file path.
func (t *Trail) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Log appends an entry to the audit log.
// If logging fails it returns silently; operations should not fail just
// because audit logging failed.
func (t *Trail) Log(entry Entry) {
	if !t.Enabled() {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = t.now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.User == "" {
		if user, err := utils.GetUsername(); err == nil {
			entry.User = user
		}
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// Record logs the outcome of an operation described by entry. Only the error
// category is kept; server response bodies never reach the log.
func (t *Trail) Record(entry Entry, err error) {
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Error = kerrors.Category(err)
	}
	t.Log(entry)
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	if !t.Enabled() {
		return nil, nil
	}

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
