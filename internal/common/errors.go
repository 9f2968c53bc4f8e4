package common

import "errors"

// Error kinds. Network-originated kinds are wrapped by client.APIError and
// matched with errors.Is.
var (
	ErrIdentityUnavailable  = errors.New("identity-unavailable")
	ErrDirectoryFetchFailed = errors.New("directory-fetch-failed")
	ErrUnsupportedType      = errors.New("unsupported-type")
	ErrTooLarge             = errors.New("too-large")
	ErrUploadFailed         = errors.New("upload-failed")
	ErrDeleteFailed         = errors.New("delete-failed")
	ErrQueryFailed          = errors.New("query-failed")
)

// Gating errors: an operation was refused locally before any network call.
var (
	ErrNoIdentity        = errors.New("identity not initialized")
	ErrUploadInProgress  = errors.New("an upload is already in progress")
	ErrNoPendingUpload   = errors.New("no file selected for upload")
	ErrQueryPending      = errors.New("a question is already being answered")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrNoDocuments       = errors.New("no documents uploaded yet")
	ErrDeletionInFlight  = errors.New("a deletion is already in progress")
	ErrNoDeletionPending = errors.New("no deletion awaiting confirmation")
	ErrDocumentNotFound  = errors.New("document not found")
)
