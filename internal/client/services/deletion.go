package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// DeletionGate removes a document in two steps: Request puts it into
// Confirming, Confirm performs the call. At most one request exists; a new
// Request while Confirming replaces the old one.
type DeletionGate struct {
	client    client.Client
	directory *Directory
	log       logging.Logger

	mu    sync.Mutex
	state models.DeletionState
}

// NewDeletionGate returns an idle gate that deletes through c and refreshes dir.
func NewDeletionGate(c client.Client, dir *Directory, log logging.Logger) *DeletionGate {
	return &DeletionGate{
		client:    c,
		directory: dir,
		log:       logging.OrDiscard(log),
		state:     models.DeletionState{Phase: models.DeletionIdle},
	}
}

// Request asks for confirmation to delete documentID. No call is made.
func (g *DeletionGate) Request(documentID string) (*models.DeletionRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == models.DeletionDeleting {
		return nil, common.ErrDeletionInFlight
	}

	doc, ok := g.directory.Find(documentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrDocumentNotFound, documentID)
	}

	g.state = models.DeletionState{
		Phase: models.DeletionConfirming,
		Request: &models.DeletionRequest{
			TargetDocumentID:    doc.ID,
			Filename:            doc.Filename,
			ConfirmationPending: true,
		},
	}
	r := *g.state.Request
	return &r, nil
}

// Cancel drops a request that is still awaiting confirmation.
func (g *DeletionGate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state.Phase {
	case models.DeletionDeleting:
		return common.ErrDeletionInFlight
	case models.DeletionConfirming:
		g.state = models.DeletionState{Phase: models.DeletionIdle}
		return nil
	default:
		return common.ErrNoDeletionPending
	}
}

// Confirm deletes the requested document for userID. On success the
// directory is refreshed, and if that refresh fails the document is dropped
// from the stale cache instead. On failure it is left untouched and the error,
// matching common.ErrDeleteFailed, is returned and kept in LastError.
func (g *DeletionGate) Confirm(ctx context.Context, userID string) error {
	g.mu.Lock()
	switch g.state.Phase {
	case models.DeletionDeleting:
		g.mu.Unlock()
		return common.ErrDeletionInFlight
	case models.DeletionConfirming:
	default:
		g.mu.Unlock()
		return common.ErrNoDeletionPending
	}
	g.state.Phase = models.DeletionDeleting
	g.state.Request.ConfirmationPending = false
	g.state.Request.InFlight = true
	target := *g.state.Request
	g.mu.Unlock()

	err := g.client.DeleteDocument(ctx, userID, target.TargetDocumentID)
	if err != nil {
		if !errors.Is(err, common.ErrDeleteFailed) {
			err = fmt.Errorf("%w: %w", common.ErrDeleteFailed, err)
		}
		g.log.Warn(ctx, "delete failed", "id", target.TargetDocumentID, "err", err)

		g.mu.Lock()
		g.state = models.DeletionState{Phase: models.DeletionIdle, LastError: err}
		g.mu.Unlock()
		return err
	}

	g.log.Info(ctx, "document deleted", "id", target.TargetDocumentID, "filename", target.Filename)

	if _, rerr := g.directory.Refresh(ctx, userID); rerr != nil {
		g.log.Warn(ctx, "refresh after delete failed", "err", rerr)
		g.directory.Forget(ctx, userID, target.TargetDocumentID)
	}

	g.mu.Lock()
	g.state = models.DeletionState{Phase: models.DeletionIdle}
	g.mu.Unlock()
	return nil
}

// State returns a copy of the gate.
func (g *DeletionGate) State() models.DeletionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.state
	if st.Request != nil {
		r := *st.Request
		st.Request = &r
	}
	return st
}
