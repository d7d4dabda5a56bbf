package util

// PageID represents a unique page identifier within a file
type PageID uint64

// PageSize represents the standard page size (4KB), uniform across the system
const PageSize = 4096

// Options represents database configuration options
type Options struct {
	Path           string
	BufferPoolSize int
	SyncWrites     bool
	ReadOnly       bool
}

// DefaultOptions returns default database options
func DefaultOptions() Options {
	return Options{
		BufferPoolSize: 1000, // 4MB default buffer pool
		SyncWrites:     false,
		ReadOnly:       false,
	}
}
