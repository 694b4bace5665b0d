package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/vaultapi/internal/audit"
	"github.com/PolarWolf314/vaultapi/internal/client"
	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// GetTable fetches and decrypts every secret in a table.
func (s *Session) GetTable(ctx context.Context, table string) (*Result, error) {
	table = strings.TrimSpace(table)
	entry := audit.Entry{Operation: client.GetTable.String(), Table: table}

	if err := requireTable(table); err != nil {
		return nil, err
	}

	result, err := s.fetchDecrypted(ctx, client.Request{
		Endpoint: client.GetTable,
		Params:   map[string]string{"table_name": table},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTables returns the table names known to the server. The detail is a
// plain (unencrypted) array; numeric names are returned in their decimal form.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	entry := audit.Entry{Operation: client.ListTables.String()}

	result, err := s.fetchDetail(ctx, client.Request{Endpoint: client.ListTables})
	entry.RequestID = result.RequestID
	var names []string
	if err == nil {
		names, err = tableNames(result.Value)
	}
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// CreateTable creates a table and returns the server detail.
func (s *Session) CreateTable(ctx context.Context, table string) (*Result, error) {
	table = strings.TrimSpace(table)
	entry := audit.Entry{Operation: client.CreateTable.String(), Table: table}

	if err := requireTable(table); err != nil {
		return nil, err
	}

	result, err := s.fetchDetail(ctx, client.Request{
		Endpoint: client.CreateTable,
		Params:   map[string]string{"table_name": table},
	})
	entry.RequestID = result.RequestID
	s.record(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func tableNames(detail json.RawMessage) ([]string, error) {
	if detail == nil || string(detail) == "null" {
		return nil, kerrors.ErrNoDetail
	}

	var items []json.RawMessage
	if err := json.Unmarshal(detail, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a list of table names, got %s", kerrors.ErrUnexpectedDetail, summarize(detail))
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			names = append(names, name)
			continue
		}
		var number json.Number
		if err := json.Unmarshal(item, &number); err == nil {
			names = append(names, number.String())
			continue
		}
		return nil, fmt.Errorf("%w: unknown value received for table name: %s", kerrors.ErrUnexpectedDetail, summarize(item))
	}
	return names, nil
}
