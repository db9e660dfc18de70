package repository

import "github.com/okian/olympicsnav/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithRecordsPath sets the medalist CSV location.
func WithRecordsPath(path string) Option {
	return func(s *FileStore) {
		s.recordsPath = path
	}
}

// WithHostsPath sets the host table CSV location.
func WithHostsPath(path string) Option {
	return func(s *FileStore) {
		s.hostsPath = path
	}
}

// WithKeepNonMedal keeps rows that carry no medal.
func WithKeepNonMedal(keep bool) Option {
	return func(s *FileStore) {
		s.keepNonMedal = keep
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}
