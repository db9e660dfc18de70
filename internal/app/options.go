package service

import (
	repository "github.com/okian/olympicsnav/internal/adapters/repository"
	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the dataset store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog sets the content catalog. Defaults to the embedded one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithSessionCapacity bounds the number of live browsing sessions.
func WithSessionCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionCapacity = n
		}
	}
}

// WithMaxPageSize caps the number of records returned per request.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithDefaultPageSize sets the window used when a caller gives no limit.
func WithDefaultPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultPageSize = n
		}
	}
}

// WithAssetsBaseURL prefixes image references of catalog pages.
func WithAssetsBaseURL(base string) Option {
	return func(s *Service) {
		s.assetsBase = base
	}
}
