// Package integration contains the Integration bounded context.
// This context manages the import of the remote Shopify catalog into the
// local system of record.
//
// Key concepts:
//   - BulkOperation: Remote asynchronous export job, observed only through polling
//   - Record: One raw catalog record (a decoded NDJSON line)
//   - ProductSyncer: Port mapping one remote product into destination writes
//   - PageSource: Port walking the remote catalog behind an opaque cursor
//   - ProgressPublisher: Port for fire-and-forget realtime status events
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
