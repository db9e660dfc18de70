// Package repository loads the medalist records and the host table and keeps
// them cached for the lifetime of the process.
package repository

import (
	"context"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Dataset names used in logs and metrics.
const (
	DatasetRecords = "records"
	DatasetHosts   = "hosts"
)

// Store provides read access to the loaded datasets. Implementations return
// values that callers must treat as read-only.
type Store interface {
	// Records returns the medalist records. Fails with a *types.DataLoadError
	// when the source is missing or malformed.
	Records(ctx context.Context) (types.RecordSet, error)

	// Hosts returns the host table rows in source order.
	Hosts(ctx context.Context) ([]types.HostEntry, error)
}

// MemoryStore is a Store over fixed, already loaded data.
type MemoryStore struct {
	records types.RecordSet
	hosts   []types.HostEntry
}

// NewMemoryStore creates a MemoryStore. The inputs are copied.
func NewMemoryStore(records []types.Record, hosts []types.HostEntry) *MemoryStore {
	return &MemoryStore{
		records: types.NewRecordSet(records),
		hosts:   append([]types.HostEntry(nil), hosts...),
	}
}

// Records implements Store.
func (m *MemoryStore) Records(ctx context.Context) (types.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return types.RecordSet{}, err
	}
	return m.records, nil
}

// Hosts implements Store.
func (m *MemoryStore) Hosts(ctx context.Context) ([]types.HostEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.HostEntry(nil), m.hosts...), nil
}
