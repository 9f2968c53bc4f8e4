package models

// DeletionPhase is the Deletion Gate state.
type DeletionPhase string

const (
	DeletionIdle       DeletionPhase = "idle"
	DeletionConfirming DeletionPhase = "confirming"
	DeletionDeleting   DeletionPhase = "deleting"
)

// DeletionRequest exists only while a deletion is Confirming or Deleting.
type DeletionRequest struct {
	TargetDocumentID    string
	Filename            string
	ConfirmationPending bool
	InFlight            bool
}

// DeletionState is a snapshot of the Deletion Gate.
type DeletionState struct {
	Phase     DeletionPhase
	Request   *DeletionRequest
	LastError error
}
