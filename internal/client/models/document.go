// Package models defines the client-side data model: documents as cached
// from the service, the staged upload, the deletion request and query state.
package models

// Document statuses reported by the service. The set is open: any other
// string is kept as-is and shown verbatim.
const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusReady      = "ready"
	StatusError      = "error"
)

// Document is the client's read-only copy of a server-tracked upload.
type Document struct {
	ID       string           `json:"id"`
	Filename string           `json:"filename"`
	Status   string           `json:"status"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata carries the processing summary. Both fields are optional.
type DocumentMetadata struct {
	Sections    map[string]int `json:"sections,omitempty"`
	TotalLength *int           `json:"total_length,omitempty"`
}

// IsReady reports whether the service finished processing the document.
func (d Document) IsReady() bool {
	return d.Status == StatusReady || d.Status == StatusProcessed
}

// Collection is a full snapshot of an identity's documents in server order.
type Collection []Document

// Find returns the document with the given id.
func (c Collection) Find(id string) (Document, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Clone returns a copy that callers may keep without aliasing the cache.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Without returns a new collection with the document id left out.
func (c Collection) Without(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, d := range c {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

// DirectoryState is what the presentation layer reads from the Document Directory.
type DirectoryState struct {
	Documents Collection
	// Loaded is false until a snapshot (persisted or fetched) was applied.
	Loaded bool
	// Stale is set while the cache comes from disk or a refresh has failed
	// since the last successful one.
	Stale     bool
	LastError error
	// Seq is the sequence number of the applied refresh or local removal,
	// 0 for a seeded cache.
	Seq uint64
}
