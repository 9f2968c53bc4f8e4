package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/client/repositories/documents"
	"github.com/dmitrijs2005/lexqa/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// Options tunes a Session. Zero values fall back to the service defaults.
type Options struct {
	Extension      string
	MaxUploadBytes int64
	TopK           int
	Threshold      float64
}

// Session wires the coordinator components around one identity.
type Session struct {
	client client.Client
	log    logging.Logger

	Identity  *IdentityStore
	Directory *Directory
	Uploads   *Uploader
	Deletions *DeletionGate
	Queries   *QuerySession

	mu     sync.RWMutex
	userID string
}

// NewSession builds a Session. meta and snapshots may be nil when no local
// state database is available.
func NewSession(c client.Client, meta metadata.Repository, snapshots documents.Repository, log logging.Logger, opts Options) *Session {
	log = logging.OrDiscard(log)
	dir := NewDirectory(c, snapshots, logging.Component(log, "directory"))

	return &Session{
		client:    c,
		log:       log,
		Identity:  NewIdentityStore(meta, logging.Component(log, "identity")),
		Directory: dir,
		Uploads:   NewUploader(c, NewValidator(opts.Extension, opts.MaxUploadBytes), dir, logging.Component(log, "upload")),
		Deletions: NewDeletionGate(c, dir, logging.Component(log, "deletion")),
		Queries:   NewQuerySession(c, dir, opts.TopK, opts.Threshold, logging.Component(log, "query")),
	}
}

// Start resolves the identity, seeds the directory from the last snapshot
// and performs the first refresh. A refresh error is returned for display;
// the session is usable regardless.
func (s *Session) Start(ctx context.Context) error {
	id := s.Identity.GetOrCreate(ctx)

	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()

	if err := s.Directory.Seed(ctx, id); err != nil {
		s.log.Warn(ctx, "failed to load document snapshot", "err", err)
	}

	_, err := s.Directory.Refresh(ctx, id)
	return err
}

// UserID is the identity resolved by Start, or "" before it.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) requireIdentity() (string, error) {
	id := s.UserID()
	if id == "" {
		return "", common.ErrNoIdentity
	}
	return id, nil
}

// Refresh re-fetches the collection.
func (s *Session) Refresh(ctx context.Context) (models.Collection, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return nil, err
	}
	return s.Directory.Refresh(ctx, id)
}

// Select stages a file for upload.
func (s *Session) Select(path string) (*models.PendingUpload, error) {
	return s.Uploads.Select(path)
}

// Unselect drops the staged file.
func (s *Session) Unselect() error {
	return s.Uploads.Remove()
}

// Upload submits the staged file.
func (s *Session) Upload(ctx context.Context) (*models.Document, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return nil, err
	}
	return s.Uploads.Submit(ctx, id)
}

// RequestDeletion starts the two-step removal of documentID.
func (s *Session) RequestDeletion(documentID string) (*models.DeletionRequest, error) {
	return s.Deletions.Request(documentID)
}

// CancelDeletion abandons a deletion awaiting confirmation.
func (s *Session) CancelDeletion() error {
	return s.Deletions.Cancel()
}

// ConfirmDeletion performs the requested deletion.
func (s *Session) ConfirmDeletion(ctx context.Context) error {
	id, err := s.requireIdentity()
	if err != nil {
		return err
	}
	return s.Deletions.Confirm(ctx, id)
}

// Ask submits a question about the collection.
func (s *Session) Ask(ctx context.Context, question string) (*models.Answer, error) {
	id, err := s.requireIdentity()
	if err != nil {
		return nil, err
	}
	return s.Queries.Ask(ctx, id, question)
}

// Ping checks whether the service is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// CanQuery reports whether a question may be submitted now.
func (s *Session) CanQuery() bool {
	return s.UserID() != "" && s.Directory.Len() > 0 && !s.Queries.Pending()
}

// CanUpload reports whether a staged file is ready to be submitted.
func (s *Session) CanUpload() bool {
	st := s.Uploads.State()
	return s.UserID() != "" && st.Pending != nil && !st.InFlight
}
