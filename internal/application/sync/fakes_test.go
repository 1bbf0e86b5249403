package syncapp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/erp/shopsync/internal/domain/integration"
)

// fakeExporter scripts the remote side of the bulk export flow
type fakeExporter struct {
	runID     string
	runErr    error
	statuses  []integration.BulkOperation
	statusErr error
	artifact  string
	dlErr     error

	statusCalls int
	dlCalls     int
}

func (f *fakeExporter) RunBulkExport(context.Context) (string, error) {
	if f.runErr != nil {
		return "", f.runErr
	}
	return f.runID, nil
}

func (f *fakeExporter) OperationState(_ context.Context, id string) (integration.BulkOperation, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return integration.BulkOperation{}, f.statusErr
	}
	idx := f.statusCalls - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	op := f.statuses[idx]
	op.ID = id
	return op, nil
}

func (f *fakeExporter) DownloadArtifact(context.Context, string) (io.ReadCloser, error) {
	f.dlCalls++
	if f.dlErr != nil {
		return nil, f.dlErr
	}
	return io.NopCloser(strings.NewReader(f.artifact)), nil
}

// fakeSyncer records every invocation and fails on scripted product ids
type fakeSyncer struct {
	failOn  map[string]error
	synced  []string
	variant []string
}

func (f *fakeSyncer) SyncProduct(_ context.Context, productID string) error {
	f.synced = append(f.synced, productID)
	if err, ok := f.failOn[productID]; ok {
		return err
	}
	return nil
}

func (f *fakeSyncer) SyncVariant(_ context.Context, productID, variantID string) error {
	f.variant = append(f.variant, productID+"/"+variantID)
	if err, ok := f.failOn[productID+"/"+variantID]; ok {
		return err
	}
	return nil
}

// recordingPublisher collects published progress events
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	key   string
	event integration.ProgressEvent
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event integration.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, event: event})
}

func (p *recordingPublisher) errorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.event.Error {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) doneCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.event.Done {
			n++
		}
	}
	return n
}

// fakePageSource yields scripted pages and can fail on a given page index
type fakePageSource struct {
	pages     []integration.ProductPage
	failOn    map[string]error
	count     int
	countErr  error
	fetchLog  []string
	fetchIdx  int
	lastError error
}

func (f *fakePageSource) FetchPage(_ context.Context, cursor string) (integration.ProductPage, error) {
	f.fetchLog = append(f.fetchLog, cursor)
	if err, ok := f.failOn[cursor]; ok {
		f.lastError = err
		return integration.ProductPage{}, err
	}
	page := f.pages[f.fetchIdx]
	f.fetchIdx++
	return page, nil
}

func (f *fakePageSource) ProductCount(context.Context) (int, error) {
	return f.count, f.countErr
}

// fakeChecker marks scripted product ids as already synced
type fakeChecker struct {
	synced    map[string]bool
	checkErr  error
	syncedCnt int64
}

func (f *fakeChecker) IsSynced(_ context.Context, id string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.synced[id], nil
}

func (f *fakeChecker) CountSynced(context.Context) (int64, error) {
	return f.syncedCnt, nil
}

// fakeUnitOfWork tracks commit and rollback boundaries. Top-level units
// model page transactions, nested units model per-record savepoints.
type fakeUnitOfWork struct {
	depth     int
	commits   int
	rollbacks int
}

func (f *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.depth++
	topLevel := f.depth == 1
	err := fn(ctx)
	f.depth--

	if err != nil {
		f.rollbacks++
		return err
	}
	if topLevel {
		f.commits++
	}
	return nil
}

// fakeFetcher returns scripted product records by id
type fakeFetcher struct {
	products map[string]integration.Record
}

func (f *fakeFetcher) FetchProduct(_ context.Context, id string) (integration.Record, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return product, nil
}
