package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client over an in-memory collection, so
// uploads and deletions show up in later listings like on the real service.
type fakeClient struct {
	mu sync.Mutex

	docs   models.Collection
	nextID int

	listFn    func(call int) (models.Collection, error)
	listErr   error
	listCalls int

	uploadErr   error
	uploadCalls int
	uploaded    map[string][]byte

	deleteErr   error
	deleteCalls []string

	queryFn func(q models.Query) (*models.Answer, error)
	queries []models.Query

	pingErr error
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient(docs ...models.Document) *fakeClient {
	return &fakeClient{docs: models.Collection(docs).Clone(), uploaded: map[string][]byte{}}
}

func (f *fakeClient) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeClient) ListDocuments(ctx context.Context, userID string) (models.Collection, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	fn := f.listFn
	f.mu.Unlock()

	if fn != nil {
		return fn(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs.Clone(), nil
}

func (f *fakeClient) Upload(ctx context.Context, userID, filename string, content io.Reader) (*models.Document, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.nextID++
	doc := models.Document{ID: fmt.Sprintf("doc-%d", f.nextID), Filename: filename, Status: models.StatusProcessed}
	f.docs = append(f.docs, doc)
	f.uploaded[filename] = b
	return &doc, nil
}

func (f *fakeClient) DeleteDocument(ctx context.Context, userID, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, documentID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.docs[:0]
	for _, d := range f.docs {
		if d.ID != documentID {
			kept = append(kept, d)
		}
	}
	f.docs = kept
	return nil
}

func (f *fakeClient) Query(ctx context.Context, q models.Query) (*models.Answer, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.queryFn
	f.mu.Unlock()

	if fn != nil {
		return fn(q)
	}
	return &models.Answer{Text: "answer to " + q.Question, RelevantChunks: []models.Chunk{}}, nil
}

func (f *fakeClient) calls() (list, upload int, deletes []string, queries []models.Query) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.uploadCalls, append([]string(nil), f.deleteCalls...), append([]models.Query(nil), f.queries...)
}

// fakeMetadata is an in-memory metadata.Repository with injectable failures.
type fakeMetadata struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{values: map[string][]byte{}}
}

func (m *fakeMetadata) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.values[key], nil
}

func (m *fakeMetadata) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

// fakeSnapshots is an in-memory documents.Repository.
type fakeSnapshots struct {
	mu      sync.Mutex
	byUser  map[string]models.Collection
	saves   []models.Collection
	loadErr error
	saveErr error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{byUser: map[string]models.Collection{}}
}

func (s *fakeSnapshots) Replace(ctx context.Context, userID string, docs models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.byUser[userID] = docs.Clone()
	s.saves = append(s.saves, docs.Clone())
	return nil
}

func (s *fakeSnapshots) Load(ctx context.Context, userID string) (models.Collection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	docs, ok := s.byUser[userID]
	return docs.Clone(), ok, nil
}

// writeFile creates a file of size bytes under a temp dir and returns its path.
func writeFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func doc(id, filename string) models.Document {
	return models.Document{ID: id, Filename: filename, Status: models.StatusProcessed}
}

func ids(c models.Collection) []string {
	out := make([]string, 0, len(c))
	for _, d := range c {
		out = append(out, d.ID)
	}
	return out
}

const mb = common.BytesPerMB
