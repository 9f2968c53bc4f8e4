package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/client/repositories/documents"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// Directory caches the document collection of the current identity.
//
// Each Refresh takes a sequence number when it is issued. A response is
// applied only if no refresh issued later has been applied already, so a
// slow old response never overwrites a newer snapshot. The cache is always
// replaced wholesale, never merged.
type Directory struct {
	client    client.Client
	snapshots documents.Repository
	log       logging.Logger

	mu      sync.Mutex
	issued  uint64
	applied uint64
	state   models.DirectoryState
}

// NewDirectory returns an empty Directory. snapshots may be nil, in which
// case nothing is persisted between runs.
func NewDirectory(c client.Client, snapshots documents.Repository, log logging.Logger) *Directory {
	return &Directory{
		client:    c,
		snapshots: snapshots,
		log:       logging.OrDiscard(log),
		state:     models.DirectoryState{Documents: models.Collection{}},
	}
}

// Seed loads the last persisted snapshot of userID into an unloaded cache
// and marks it stale. It never overrides a fetched collection.
func (d *Directory) Seed(ctx context.Context, userID string) error {
	if d.snapshots == nil {
		return nil
	}

	docs, found, err := d.snapshots.Load(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Loaded {
		return nil
	}
	d.state.Documents = docs.Clone()
	d.state.Loaded = true
	d.state.Stale = true
	return nil
}

// Refresh fetches the collection of userID and replaces the cache with it.
//
// On failure the cache is left as it was, flagged Stale, and the error is
// returned and kept in LastError. A response overtaken by a newer applied
// refresh is dropped, and the current cache is returned instead.
func (d *Directory) Refresh(ctx context.Context, userID string) (models.Collection, error) {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	d.mu.Unlock()

	docs, err := d.client.ListDocuments(ctx, userID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq < d.applied {
		metrics.StaleRefreshesTotal.Inc()
		d.log.Debug(ctx, "dropping overtaken directory refresh", "seq", seq, "applied", d.applied)
		if err != nil {
			return nil, err
		}
		return d.state.Documents.Clone(), nil
	}

	if err != nil {
		d.state.Stale = true
		d.state.LastError = err
		d.log.Warn(ctx, "directory refresh failed", "seq", seq, "err", err)
		return nil, err
	}

	d.applied = seq
	d.state = models.DirectoryState{
		Documents: docs.Clone(),
		Loaded:    true,
		Seq:       seq,
	}
	d.persist(ctx, userID, docs)

	return d.state.Documents.Clone(), nil
}

// Forget drops a document the service has confirmed deleted when the
// collection cannot be refetched. The result replaces the cache as a new
// snapshot, so responses of refreshes issued earlier are dropped. The cache
// keeps its Stale flag and LastError until the next successful refresh.
func (d *Directory) Forget(ctx context.Context, userID, documentID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.state.Documents.Find(documentID); !ok {
		return
	}

	d.issued++
	d.applied = d.issued
	d.state.Documents = d.state.Documents.Without(documentID)
	d.state.Seq = d.applied
	d.persist(ctx, userID, d.state.Documents)
}

// persist runs under d.mu so snapshots reach disk in applied order.
func (d *Directory) persist(ctx context.Context, userID string, docs models.Collection) {
	if d.snapshots == nil {
		return
	}
	if err := d.snapshots.Replace(ctx, userID, docs); err != nil {
		d.log.Warn(ctx, "failed to persist document snapshot", "err", err)
	}
}

// State returns a copy of the cache and its status.
func (d *Directory) State() models.DirectoryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state
	st.Documents = d.state.Documents.Clone()
	return st
}

// Documents returns a copy of the cached collection.
func (d *Directory) Documents() models.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Documents.Clone()
}

// Len is the number of cached documents.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.state.Documents)
}

// Find looks a document up in the cache.
func (d *Directory) Find(id string) (models.Document, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Documents.Find(id)
}
