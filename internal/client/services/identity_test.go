package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityStore_CreatesOnceAndPersists(t *testing.T) {
	ctx := context.Background()
	meta := newFakeMetadata()

	s := NewIdentityStore(meta, nil)
	id := s.GetOrCreate(ctx)

	require.NotEmpty(t, id)
	assert.Equal(t, id, s.GetOrCreate(ctx))
	assert.True(t, s.Persistent())
	assert.NoError(t, s.Degraded())
	assert.Equal(t, []byte(id), meta.values[common.IdentityKey])
	assert.Equal(t, 1, meta.sets)
}

func TestIdentityStore_ReturnsStoredValue(t *testing.T) {
	meta := newFakeMetadata()
	meta.values[common.IdentityKey] = []byte("existing-user")

	s := NewIdentityStore(meta, nil)

	assert.Equal(t, "existing-user", s.GetOrCreate(context.Background()))
	assert.Zero(t, meta.sets, "a stored identity is never rewritten")
}

func TestIdentityStore_ConcurrentCallsAgree(t *testing.T) {
	s := NewIdentityStore(newFakeMetadata(), nil)

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = s.GetOrCreate(context.Background())
		}(i)
	}
	wg.Wait()

	for _, id := range got {
		assert.Equal(t, got[0], id)
	}
}

func TestIdentityStore_DegradesWhenStorageFails(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeMetadata
	}{
		{"read fails", &fakeMetadata{values: map[string][]byte{}, getErr: errors.New("disk gone")}},
		{"write fails", &fakeMetadata{values: map[string][]byte{}, setErr: errors.New("read-only")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIdentityStore(tt.repo, nil)
			id := s.GetOrCreate(context.Background())

			assert.NotEmpty(t, id)
			assert.Equal(t, id, s.GetOrCreate(context.Background()))
			assert.False(t, s.Persistent())
			assert.ErrorIs(t, s.Degraded(), common.ErrIdentityUnavailable)
		})
	}
}

func TestIdentityStore_NoRepositoryIsSessionOnly(t *testing.T) {
	a := NewIdentityStore(nil, nil).GetOrCreate(context.Background())
	b := NewIdentityStore(nil, nil).GetOrCreate(context.Background())

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestIdentityStore_StableAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "lexqa.db")

	var first string
	for i := 0; i < 3; i++ {
		db, err := client.InitDatabase(ctx, path)
		require.NoError(t, err)

		id := NewIdentityStore(client.NewRepositories(db).Metadata, nil).GetOrCreate(ctx)
		require.NoError(t, db.Close())

		if i == 0 {
			first = id
		}
		assert.Equal(t, first, id, "start %d", i)
	}
}
