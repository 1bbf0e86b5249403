package integration

import "context"

// Well-known progress channel keys, one per sync strategy. The presentation
// layer subscribes to these; the importer only publishes.
const (
	ProgressKeySyncAll  = "shopify.key.sync.all.products"
	ProgressKeyBulkSync = "shopify.key.sync.all.products.bulk"
)

// Named long-running jobs, enqueued at most once concurrently per name.
const (
	JobNameSyncAll  = "shopify.job.sync.all.products"
	JobNameBulkSync = "shopify.job.sync.all.products.bulk"
)

// ProgressEvent is one structured status update published per meaningful
// step of a sync run. It is consumed by an external presentation layer and
// never interpreted by the importer itself.
type ProgressEvent struct {
	Message string `json:"message"`
	Synced  bool   `json:"synced"`
	Error   bool   `json:"error"`
	Done    bool   `json:"done"`
}

// ProgressPublisher publishes progress events to a named channel.
// Publishing is fire-and-forget: implementations log failures and never
// surface them to the sync loops.
type ProgressPublisher interface {
	Publish(ctx context.Context, key string, event ProgressEvent)
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish implements ProgressPublisher
func (NopPublisher) Publish(context.Context, string, ProgressEvent) {}
