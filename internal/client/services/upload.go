package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/filex"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// Uploader holds the single Pending Upload slot and submits it.
type Uploader struct {
	client    client.Client
	validator Validator
	directory *Directory
	log       logging.Logger

	stat func(path string) (string, int64, error)
	open func(path string) (io.ReadCloser, error)

	mu    sync.Mutex
	state models.UploadState
}

// NewUploader returns an Uploader with nothing selected. Files are checked
// with v and a successful upload refreshes dir.
func NewUploader(c client.Client, v Validator, dir *Directory, log logging.Logger) *Uploader {
	return &Uploader{
		client:    c,
		validator: v,
		directory: dir,
		log:       logging.OrDiscard(log),
		stat:      filex.StatFile,
		open:      func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Select stages the file at path, replacing any previous selection. A file
// that fails validation is rejected and the previous selection is kept.
func (u *Uploader) Select(path string) (*models.PendingUpload, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.InFlight {
		return nil, common.ErrUploadInProgress
	}

	name, size, err := u.stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	f := models.LocalFile{Path: path, Name: name, Size: size}
	if err := u.validator.Validate(f); err != nil {
		reject(err)
		return nil, err
	}

	u.state.Pending = &models.PendingUpload{File: f, Validated: true}
	u.state.LastError = nil
	p := *u.state.Pending
	return &p, nil
}

// Remove discards the staged file.
func (u *Uploader) Remove() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.InFlight {
		return common.ErrUploadInProgress
	}
	if u.state.Pending == nil {
		return common.ErrNoPendingUpload
	}
	u.state.Pending = nil
	return nil
}

// Submit sends the staged file for userID. On success the slot is cleared
// and the directory refreshed; on failure the file stays staged for a retry.
// The file is validated again first since it may have changed on disk.
func (u *Uploader) Submit(ctx context.Context, userID string) (*models.Document, error) {
	u.mu.Lock()
	if u.state.InFlight {
		u.mu.Unlock()
		return nil, common.ErrUploadInProgress
	}
	if u.state.Pending == nil {
		u.mu.Unlock()
		return nil, common.ErrNoPendingUpload
	}
	pending := *u.state.Pending
	u.state.InFlight = true
	u.state.LastError = nil
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.state.InFlight = false
		u.mu.Unlock()
	}()

	doc, err := u.send(ctx, userID, pending.File)
	if err != nil {
		u.mu.Lock()
		u.state.LastError = err
		u.mu.Unlock()
		return nil, err
	}

	u.mu.Lock()
	u.state.Pending = nil
	u.state.Last = doc
	u.mu.Unlock()

	u.log.Info(ctx, "document uploaded", "id", doc.ID, "filename", doc.Filename, "status", doc.Status)

	if _, err := u.directory.Refresh(ctx, userID); err != nil {
		u.log.Warn(ctx, "refresh after upload failed", "err", err)
	}
	return doc, nil
}

func (u *Uploader) send(ctx context.Context, userID string, f models.LocalFile) (*models.Document, error) {
	name, size, err := u.stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}
	f.Name, f.Size = name, size
	if err := u.validator.Validate(f); err != nil {
		reject(err)
		return nil, err
	}

	r, err := u.open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}
	defer func() { _ = r.Close() }()

	doc, err := u.client.Upload(ctx, userID, f.Name, r)
	if err != nil {
		u.log.Warn(ctx, "upload failed", "filename", f.Name, "err", err)
		if !errors.Is(err, common.ErrUploadFailed) {
			err = fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
		}
		return nil, err
	}
	return doc, nil
}

// State returns a copy of the upload slot.
func (u *Uploader) State() models.UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := u.state
	if st.Pending != nil {
		p := *st.Pending
		st.Pending = &p
	}
	if st.Last != nil {
		d := *st.Last
		st.Last = &d
	}
	return st
}

// reject counts a local validation refusal under its error kind.
func reject(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		metrics.Rejected(verr.Kind.Error())
	}
}
