package workflows

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PolarWolf314/vaultapi/internal/transit"
	"github.com/PolarWolf314/vaultapi/internal/transit/transittest"
)

const (
	testAPIKey = "s3cr3t-api-key"
	testUnix   = 1_700_000_010
)

// fakeVault is an in-memory VaultAPI server sealing replies the way the real
// one does.
type fakeVault struct {
	t *testing.T

	mu         sync.Mutex
	sealSecret string
	sealTimes  []time.Time
	keyLength  int
	tables     map[string]map[string]any
	calls      map[string]int
	queries    map[string]url.Values
	payloads   map[string]map[string]any
	overrides  map[string]string
	healthCode int
}

func newFakeVault(t *testing.T) (*fakeVault, *httptest.Server) {
	t.Helper()
	v := &fakeVault{
		t:          t,
		sealSecret: testAPIKey,
		sealTimes:  []time.Time{time.Unix(testUnix, 0)},
		keyLength:  32,
		tables: map[string]map[string]any{
			"prod": {"db_password": "hunter2", "port": 5432},
		},
		calls:      map[string]int{},
		queries:    map[string]url.Values{},
		payloads:   map[string]map[string]any{},
		overrides:  map[string]string{},
		healthCode: http.StatusOK,
	}
	srv := httptest.NewServer(v)
	t.Cleanup(srv.Close)
	return v, srv
}

// set changes the fake's behaviour while no request is in flight.
func (v *fakeVault) set(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn()
}

func (v *fakeVault) callCount(path string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls[path]
}

func (v *fakeVault) query(path string) url.Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queries[path]
}

func (v *fakeVault) payload(path string) map[string]any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.payloads[path]
}

func (v *fakeVault) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.calls[r.URL.Path]++
	v.queries[r.URL.Path] = r.URL.Query()

	if r.URL.Path == "/health" {
		w.WriteHeader(v.healthCode)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		v.reply(w, http.StatusUnauthorized, map[string]any{"detail": "invalid api key"})
		return
	}
	if body, ok := v.overrides[r.URL.Path]; ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
		return
	}

	if r.Body != nil && r.ContentLength != 0 {
		var payload map[string]any
		assert.NoError(v.t, json.NewDecoder(r.Body).Decode(&payload))
		v.payloads[r.URL.Path] = payload
	}

	q := r.URL.Query()
	switch r.URL.Path {
	case "/list-tables":
		names := make([]string, 0, len(v.tables))
		for name := range v.tables {
			names = append(names, name)
		}
		sort.Strings(names)
		v.reply(w, http.StatusOK, map[string]any{"detail": names})
	case "/get-table":
		table, ok := v.tables[q.Get("table_name")]
		if !ok {
			v.reply(w, http.StatusNotFound, map[string]any{"detail": "table not found"})
			return
		}
		v.replySealed(w, table)
	case "/get-secret":
		value, ok := v.tables[q.Get("table_name")][q.Get("key")]
		if !ok {
			v.reply(w, http.StatusNotFound, map[string]any{"detail": "secret not found"})
			return
		}
		v.replySealed(w, value)
	case "/get-secrets":
		out := map[string]any{}
		for _, key := range strings.Split(q.Get("keys"), ",") {
			if value, ok := v.tables[q.Get("table_name")][key]; ok {
				out[key] = value
			}
		}
		v.replySealed(w, out)
	case "/put-secret":
		v.reply(w, http.StatusOK, map[string]any{"detail": "secrets stored"})
	case "/delete-secret":
		v.reply(w, http.StatusOK, map[string]any{"detail": "secret deleted"})
	case "/create-table":
		v.tables[q.Get("table_name")] = map[string]any{}
		v.reply(w, http.StatusOK, map[string]any{"detail": "table created"})
	default:
		v.reply(w, http.StatusNotFound, map[string]any{"detail": "no such route"})
	}
}

func (v *fakeVault) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(v.t, json.NewEncoder(w).Encode(body))
}

// replySealed seals value at the next scheduled time; the last time repeats.
func (v *fakeVault) replySealed(w http.ResponseWriter, value any) {
	at := v.sealTimes[0]
	if len(v.sealTimes) > 1 {
		v.sealTimes = v.sealTimes[1:]
	}

	plaintext, err := json.Marshal(value)
	assert.NoError(v.t, err)
	envelope, err := transittest.SealAt([]byte(v.sealSecret), at, 60, v.keyLength, transit.SuiteAESGCM, plaintext)
	assert.NoError(v.t, err)
	v.reply(w, http.StatusOK, map[string]any{"detail": envelope})
}
