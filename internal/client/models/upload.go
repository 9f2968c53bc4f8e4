package models

// LocalFile is a file picked by the user, before validation.
type LocalFile struct {
	Path string
	Name string
	Size int64
}

// PendingUpload is the single staged file awaiting submission.
type PendingUpload struct {
	File      LocalFile
	Validated bool
}

// UploadState is a snapshot of the Upload Coordinator slot.
type UploadState struct {
	Pending  *PendingUpload
	InFlight bool
	// Last is the document accepted by the most recent successful submit.
	Last      *Document
	LastError error
}
