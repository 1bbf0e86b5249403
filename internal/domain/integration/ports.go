package integration

import (
	"context"
	"io"
)

// ---------------------------------------------------------------------------
// Remote catalog accessor
// ---------------------------------------------------------------------------

// BulkExporter submits and observes remote bulk export operations.
type BulkExporter interface {
	// RunBulkExport submits the export request and returns the operation id.
	// Request-level rejections surface as *SubmissionError.
	RunBulkExport(ctx context.Context) (string, error)
	// OperationState queries the current state of a bulk operation.
	OperationState(ctx context.Context, operationID string) (BulkOperation, error)
	// DownloadArtifact fetches the export result body. Non-success transport
	// responses surface as *DownloadError. The caller owns the ReadCloser.
	DownloadArtifact(ctx context.Context, url string) (io.ReadCloser, error)
}

// PageSource walks the remote catalog page by page. Cursors are opaque and
// only ever handed back to the same source.
type PageSource interface {
	// FetchPage returns the page at cursor; an empty cursor means the first page.
	FetchPage(ctx context.Context, cursor string) (ProductPage, error)
	// ProductCount returns the total number of products on the remote side.
	ProductCount(ctx context.Context) (int, error)
}

// ProductFetcher fetches one remote product record by id.
type ProductFetcher interface {
	FetchProduct(ctx context.Context, productID string) (Record, error)
}

// ---------------------------------------------------------------------------
// Destination collaborators
// ---------------------------------------------------------------------------

// ProductSyncer maps one remote product into destination-entity writes.
// It returns ErrItemAlreadySynced on unique-constraint style conflicts.
type ProductSyncer interface {
	// SyncProduct imports one product (and all its variants) by remote id.
	SyncProduct(ctx context.Context, productID string) error
	// SyncVariant imports a single variant of a product by remote ids.
	SyncVariant(ctx context.Context, productID, variantID string) error
}

// SyncChecker reports whether a remote record is already linked to a
// destination entity.
type SyncChecker interface {
	IsSynced(ctx context.Context, integrationItemCode string) (bool, error)
	// CountSynced counts remote products already linked locally.
	CountSynced(ctx context.Context) (int64, error)
}

// UnitOfWork scopes destination writes to an explicit transaction boundary.
// A returned error from fn rolls the unit back; nil commits it. Nesting a
// unit inside another creates a savepoint: rolling back the inner unit
// leaves the outer one intact. This is how the paginated loop gets
// per-record rollback inside a per-page commit.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
