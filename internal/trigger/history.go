package trigger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ctagard/launch-mcp/pkg/types"
)

const (
	defaultMaxRecords = 100
	defaultRetention  = 1 * time.Hour
)

// History is a bounded registry of invocation records. Finished records
// are kept for a retention window so a caller can inspect what the last
// triggers did; the oldest records are evicted when the bound is hit.
type History struct {
	mu      sync.RWMutex
	records map[string]types.InvocationRecord
	order   []string

	maxRecords int
	retention  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHistory creates a history bounded to maxRecords entries, expiring
// finished records after the retention window. Non-positive arguments fall
// back to the package defaults.
func NewHistory(maxRecords int, retention time.Duration) *History {
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}
	if retention <= 0 {
		retention = defaultRetention
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &History{
		records:    make(map[string]types.InvocationRecord),
		maxRecords: maxRecords,
		retention:  retention,
		ctx:        ctx,
		cancel:     cancel,
	}

	go h.cleanupLoop()

	return h
}

// Put inserts or replaces the record for its invocation ID. Inserting
// beyond the bound evicts the oldest record.
func (h *History) Put(record types.InvocationRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.records[record.ID]; !ok {
		h.order = append(h.order, record.ID)
		if len(h.order) > h.maxRecords {
			oldest := h.order[0]
			h.order = h.order[1:]
			delete(h.records, oldest)
		}
	}

	h.records[record.ID] = record
}

// Get returns a copy of the record for the given invocation ID.
func (h *History) Get(id string) (types.InvocationRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	record, ok := h.records[id]
	return record, ok
}

// List returns copies of all records, most recent first.
func (h *History) List() []types.InvocationRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	records := make([]types.InvocationRecord, 0, len(h.records))
	for _, id := range h.order {
		if record, ok := h.records[id]; ok {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	return records
}

// Close stops the cleanup loop. Records stay readable until the history
// itself is discarded.
func (h *History) Close() {
	h.cancel()
}

// cleanupLoop periodically drops finished records older than the
// retention window.
func (h *History) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.expireFinished()
		}
	}
}

// expireFinished removes finished records whose retention has lapsed.
// In-flight invocations are never expired.
func (h *History) expireFinished() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()
	kept := h.order[:0]
	for _, id := range h.order {
		record, ok := h.records[id]
		if !ok {
			continue
		}
		if !record.FinishedAt.IsZero() && now.Sub(record.FinishedAt) > h.retention {
			delete(h.records, id)
			continue
		}
		kept = append(kept, id)
	}
	h.order = kept
}
