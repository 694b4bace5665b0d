package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PolarWolf314/vaultapi/internal/transit"
	"github.com/PolarWolf314/vaultapi/internal/transit/transittest"
	"github.com/fatih/color"
)

const (
	testAPIKey = "cli-test-api-key"
	testUnix   = 1_700_000_010
)

// configEnvVars are cleared for every test so the host environment cannot leak in.
var configEnvVars = []string{
	"APIKEY", "VAULT_SERVER", "TRANSIT_KEY_LENGTH", "TRANSMIT_KEY_LENGTH",
	"TRANSIT_TIME_BUCKET", "TRANSIT_CIPHER", "TRANSIT_ALLOW_PREVIOUS_BUCKET",
	"VAULT_TIMEOUT", "VAULT_RETRIES", "VAULT_RETRY_AUTH", "VAULT_AUDIT_LOG", "ENV_FILE",
}

// setupTestEnvironment runs the test in an empty temporary directory with a
// private config home, a frozen transit clock and no API key prompt.
// It returns the temporary directory.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	t.Chdir(tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "config"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range configEnvVars {
		t.Setenv(name, "")
	}

	originalNoColor := color.NoColor
	color.NoColor = true

	originalClock := sessionClock
	originalPrompt := promptAPIKey
	originalReader := readEnvelope
	t.Cleanup(func() {
		color.NoColor = originalNoColor
		sessionClock = originalClock
		promptAPIKey = originalPrompt
		readEnvelope = originalReader
		Logger.Verbose = false
		Logger.Debug = false
	})

	sessionClock = transittest.At(testUnix)
	promptAPIKey = func(bool) ([]byte, error) { return nil, nil }
	readEnvelope = func() (string, error) {
		t.Fatalf("unexpected read from stdin")
		return "", nil
	}
	return tempDir
}

// executeCommand runs the CLI with args and returns what it wrote to stdout
// and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// sealed returns an envelope of plaintext for the frozen test clock.
func sealed(t *testing.T, plaintext string) string {
	t.Helper()
	return transittest.MustSealAt(t, testAPIKey, time.Unix(testUnix, 0), 60, 32, plaintext)
}

// fakeServer is a minimal VaultAPI server with a "prod" table.
type fakeServer struct {
	mu       sync.Mutex
	tables   map[string]map[string]any
	calls    map[string]int
	payloads map[string]map[string]any
	queries  map[string]string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	f := &fakeServer{
		tables: map[string]map[string]any{
			"prod":    {"db_password": "hunter2", "db_user": "app"},
			"staging": {},
		},
		calls:    map[string]int{},
		payloads: map[string]map[string]any{},
		queries:  map[string]string{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeServer) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeServer) payload(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloads[path]
}

func (f *fakeServer) query(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[r.URL.Path]++
	f.queries[r.URL.Path] = r.URL.RawQuery

	if r.URL.Path == "/health" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		reply(w, http.StatusUnauthorized, "invalid api key")
		return
	}
	if r.ContentLength > 0 {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			reply(w, http.StatusBadRequest, err.Error())
			return
		}
		f.payloads[r.URL.Path] = payload
	}

	q := r.URL.Query()
	table, ok := f.tables[q.Get("table_name")]
	switch r.URL.Path {
	case "/list-tables":
		names := make([]string, 0, len(f.tables))
		for name := range f.tables {
			names = append(names, name)
		}
		sort.Strings(names)
		reply(w, http.StatusOK, names)
	case "/get-table":
		if !ok {
			reply(w, http.StatusNotFound, "table not found")
			return
		}
		replySealed(w, table)
	case "/get-secret":
		value, found := table[q.Get("key")]
		if !found {
			reply(w, http.StatusNotFound, "secret not found")
			return
		}
		replySealed(w, value)
	case "/get-secrets":
		out := map[string]any{}
		for _, key := range strings.Split(q.Get("keys"), ",") {
			if value, found := table[key]; found {
				out[key] = value
			}
		}
		replySealed(w, out)
	case "/put-secret":
		reply(w, http.StatusOK, "secrets stored")
	case "/delete-secret":
		reply(w, http.StatusOK, "secret deleted")
	case "/create-table":
		f.tables[q.Get("table_name")] = map[string]any{}
		reply(w, http.StatusOK, "table created")
	default:
		reply(w, http.StatusNotFound, "no such route")
	}
}

func reply(w http.ResponseWriter, status int, detail any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"detail": detail})
}

func replySealed(w http.ResponseWriter, value any) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		reply(w, http.StatusInternalServerError, err.Error())
		return
	}
	envelope, err := transittest.SealAt([]byte(testAPIKey), time.Unix(testUnix, 0), 60, 32, transit.SuiteAESGCM, plaintext)
	if err != nil {
		reply(w, http.StatusInternalServerError, err.Error())
		return
	}
	reply(w, http.StatusOK, envelope)
}

// useServer points the CLI at srv with the test API key.
func useServer(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("APIKEY", testAPIKey)
	t.Setenv("VAULT_SERVER", srv.URL)
}
