package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/okian/olympicsnav/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// fingerprint identifies one version of a source file.
type fingerprint struct {
	modTime time.Time
	size    int64
}

type snapshot[T any] struct {
	fp    fingerprint
	value T
}

// FileStore is a Store backed by CSV files. Each dataset is parsed once and
// reused until the file's modification time or size changes. Concurrent
// callers that miss the cache share a single load.
type FileStore struct {
	recordsPath  string
	hostsPath    string
	keepNonMedal bool
	logger       logger.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	records *snapshot[types.RecordSet]
	hosts   *snapshot[[]types.HostEntry]

	loads atomic.Int64
}

// NewFileStore creates a FileStore. Nothing is read until the first call.
func NewFileStore(ctx context.Context, opts ...Option) *FileStore {
	s := &FileStore{logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug(ctx, "file store configured",
		logger.String("records_path", s.recordsPath),
		logger.String("hosts_path", s.hostsPath),
		logger.Bool("keep_non_medal", s.keepNonMedal),
	)
	return s
}

// Records implements Store.
func (s *FileStore) Records(ctx context.Context) (types.RecordSet, error) {
	path := s.recordsPath
	parse := func(r io.Reader) (types.RecordSet, error) {
		return ReadRecords(r, ReadOptions{Path: path, KeepNonMedal: s.keepNonMedal})
	}
	size := func(rs types.RecordSet) int { return rs.Len() }
	return load(ctx, s, DatasetRecords, path, &s.records, parse, size)
}

// Hosts implements Store. The returned slice is a copy.
func (s *FileStore) Hosts(ctx context.Context) ([]types.HostEntry, error) {
	path := s.hostsPath
	parse := func(r io.Reader) ([]types.HostEntry, error) { return ReadHosts(r, path) }
	size := func(h []types.HostEntry) int { return len(h) }
	hosts, err := load(ctx, s, DatasetHosts, path, &s.hosts, parse, size)
	if err != nil {
		return nil, err
	}
	return append([]types.HostEntry(nil), hosts...), nil
}

// Loads returns how many times a source file has been parsed.
func (s *FileStore) Loads() int64 {
	return s.loads.Load()
}

func load[T any](
	ctx context.Context,
	s *FileStore,
	dataset, path string,
	slot **snapshot[T],
	parse func(io.Reader) (T, error),
	size func(T) int,
) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if path == "" {
		return zero, &types.DataLoadError{Err: fmt.Errorf("%s: %w", dataset, ErrNoPath)}
	}

	info, err := os.Stat(path)
	if err != nil {
		metrics.RecordDatasetLoadError(dataset)
		return zero, &types.DataLoadError{Path: path, Err: err}
	}
	fp := fingerprint{modTime: info.ModTime(), size: info.Size()}

	s.mu.RLock()
	cur := *slot
	s.mu.RUnlock()
	if cur != nil && cur.fp == fp {
		return cur.value, nil
	}

	v, err, shared := s.group.Do(dataset, func() (interface{}, error) {
		start := time.Now()
		f, err := os.Open(path)
		if err != nil {
			return nil, &types.DataLoadError{Path: path, Err: err}
		}
		defer f.Close()

		value, err := parse(f)
		if err != nil {
			return nil, err
		}
		s.loads.Add(1)

		s.mu.Lock()
		*slot = &snapshot[T]{fp: fp, value: value}
		s.mu.Unlock()

		took := time.Since(start)
		metrics.RecordDatasetLoad(dataset, float64(took.Microseconds())/1000, size(value))
		s.logger.Info(ctx, "dataset loaded",
			logger.String("dataset", dataset),
			logger.String("path", path),
			logger.Int("rows", size(value)),
			logger.Duration("took", took),
		)
		return value, nil
	})
	if err != nil {
		metrics.RecordDatasetLoadError(dataset)
		s.logger.Error(ctx, "dataset load failed",
			logger.String("dataset", dataset),
			logger.Bool("shared", shared),
			logger.Error(err),
		)
		return zero, err
	}
	return v.(T), nil
}
