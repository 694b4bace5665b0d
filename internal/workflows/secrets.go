package workflows

import (
	"context"
	"sort"
	"strings"

	"github.com/PolarWolf314/vaultapi/internal/audit"
	"github.com/PolarWolf314/vaultapi/internal/client"
	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// GetSecret fetches and decrypts one secret.
//
// Returns ErrTableRequired or ErrKeyRequired for missing input, and the
// transit errors when the envelope cannot be opened.
func (s *Session) GetSecret(ctx context.Context, table, key string) (*Result, error) {
	table, key = strings.TrimSpace(table), strings.TrimSpace(key)
	entry := audit.Entry{Operation: client.GetSecret.String(), Table: table, Keys: []string{key}}

	if err := requireTable(table); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, kerrors.ErrKeyRequired
	}

	result, err := s.fetchDecrypted(ctx, client.Request{
		Endpoint: client.GetSecret,
		Params:   map[string]string{"table_name": table, "key": key},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSecrets fetches and decrypts several secrets from one table in a
// single request.
func (s *Session) GetSecrets(ctx context.Context, table string, keys []string) (*Result, error) {
	table = strings.TrimSpace(table)
	keys = cleanKeys(keys)
	entry := audit.Entry{Operation: client.GetSecrets.String(), Table: table, Keys: keys}

	if err := requireTable(table); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, kerrors.ErrKeyRequired
	}

	result, err := s.fetchDecrypted(ctx, client.Request{
		Endpoint: client.GetSecrets,
		Params:   map[string]string{"table_name": table, "keys": strings.Join(keys, ",")},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PutSecret creates or updates secrets in a table and returns the server detail.
func (s *Session) PutSecret(ctx context.Context, table string, secrets map[string]string) (*Result, error) {
	table = strings.TrimSpace(table)
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entry := audit.Entry{Operation: client.PutSecret.String(), Table: table, Keys: keys}

	if err := requireTable(table); err != nil {
		return nil, err
	}
	if len(secrets) == 0 {
		return nil, kerrors.ErrNoSecretsGiven
	}
	payload := make(map[string]any, len(secrets))
	for k, v := range secrets {
		if strings.TrimSpace(k) == "" {
			return nil, kerrors.ErrKeyRequired
		}
		payload[k] = v
	}

	result, err := s.fetchDetail(ctx, client.Request{
		Endpoint: client.PutSecret,
		Payload:  map[string]any{"table_name": table, "secrets": payload},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSecret removes one secret and returns the server detail.
func (s *Session) DeleteSecret(ctx context.Context, table, key string) (*Result, error) {
	table, key = strings.TrimSpace(table), strings.TrimSpace(key)
	entry := audit.Entry{Operation: client.DeleteSecret.String(), Table: table, Keys: []string{key}}

	if err := requireTable(table); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, kerrors.ErrKeyRequired
	}

	result, err := s.fetchDetail(ctx, client.Request{
		Endpoint: client.DeleteSecret,
		Payload:  map[string]any{"table_name": table, "key": key},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func requireTable(table string) error {
	if table == "" {
		return kerrors.ErrTableRequired
	}
	return nil
}

func cleanKeys(keys []string) []string {
	var out []string
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
