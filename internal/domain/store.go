package domain

// Store handles the local response cache (BoltDB + memory).
type Store interface {
	// === Index pages ===
	GetPage(limit, offset int) (*PageResult, bool)
	SavePage(limit, offset int, page *PageResult) error

	// === Detail records ===
	GetDetail(name string) (*DetailRecord, bool)
	SaveDetail(name string, record *DetailRecord) error

	// === Invalidation ===
	InvalidatePages()
	InvalidateDetail(name string)
	InvalidateAll()

	Close() error
}
