package catalog

import "context"

// Store is the read side of the catalog, the only view the resolution core has.
//
// ListServices returns records in catalog iteration order. GetService returns
// (nil, nil) when the service does not exist. Both return an
// *UnavailableError when the backend cannot be reached.
type Store interface {
	ListServices(ctx context.Context) ([]ServiceRecord, error)
	GetService(ctx context.Context, name string) (*ServiceRecord, error)
}

// Writer is the out-of-band write side used by REST, webhook, seed and watch paths.
type Writer interface {
	// UpsertService inserts or replaces the record keyed by record.Name. It
	// reports changed == false when the stored record already had the same
	// fingerprint. An update keeps the record's catalog position.
	UpsertService(ctx context.Context, record ServiceRecord) (changed bool, err error)
	// DeleteService removes the named record, returning ErrServiceNotFound if absent.
	DeleteService(ctx context.Context, name string) error
}

// ReadWriter combines Store and Writer.
type ReadWriter interface {
	Store
	Writer
}
