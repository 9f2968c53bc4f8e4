package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuerySession(t *testing.T, fc *fakeClient) *QuerySession {
	t.Helper()
	dir := NewDirectory(fc, nil, nil)
	_, err := dir.Refresh(context.Background(), "u")
	require.NoError(t, err)
	return NewQuerySession(fc, dir, 3, 0.5, nil)
}

func TestQuerySession_AskSendsTuningAndAnswers(t *testing.T) {
	fc := newFakeClient(doc("d1", "ruling.pdf"))
	q := newTestQuerySession(t, fc)

	a, err := q.Ask(context.Background(), "u", "  What is due process?  ")
	require.NoError(t, err)
	assert.Equal(t, "answer to What is due process?", a.Text)

	_, _, _, sent := fc.calls()
	require.Len(t, sent, 1)
	assert.Equal(t, models.Query{Question: "What is due process?", UserID: "u", TopK: 3, Threshold: 0.5}, sent[0])

	st := q.State()
	assert.Equal(t, models.QueryAnswered, st.Phase)
	assert.Equal(t, a, st.Answer)
	assert.NoError(t, st.Err)
}

func TestQuerySession_StateDoesNotAliasAnswer(t *testing.T) {
	fc := newFakeClient(doc("d1", "ruling.pdf"))
	sim, conf := 0.9, 0.8
	fc.queryFn = func(q models.Query) (*models.Answer, error) {
		return &models.Answer{
			Text:           "yes",
			Confidence:     &conf,
			RelevantChunks: []models.Chunk{{Text: "excerpt", Source: "ruling.pdf", Similarity: &sim}},
		}, nil
	}
	q := newTestQuerySession(t, fc)

	a, err := q.Ask(context.Background(), "u", "Is it binding?")
	require.NoError(t, err)
	a.Text = "changed by caller"
	a.RelevantChunks[0].Text = "changed by caller"

	st := q.State()
	require.NotNil(t, st.Answer)
	assert.Equal(t, "yes", st.Answer.Text)
	assert.Equal(t, "excerpt", st.Answer.RelevantChunks[0].Text)

	*st.Answer.Confidence = 0.1
	*st.Answer.RelevantChunks[0].Similarity = 0.1
	st.Answer.RelevantChunks[0].Source = "other.pdf"

	again := q.State().Answer
	assert.InDelta(t, 0.8, *again.Confidence, 1e-9)
	assert.InDelta(t, 0.9, *again.RelevantChunks[0].Similarity, 1e-9)
	assert.Equal(t, "ruling.pdf", again.RelevantChunks[0].Source)
}

func TestQuerySession_Preconditions(t *testing.T) {
	ctx := context.Background()

	q := newTestQuerySession(t, newFakeClient(doc("d1", "ruling.pdf")))
	_, err := q.Ask(ctx, "u", "   ")
	assert.ErrorIs(t, err, common.ErrEmptyQuestion)

	empty := newFakeClient()
	q = newTestQuerySession(t, empty)
	_, err = q.Ask(ctx, "u", "anything?")
	assert.ErrorIs(t, err, common.ErrNoDocuments)
	_, _, _, sent := empty.calls()
	assert.Empty(t, sent)
	assert.Equal(t, models.QueryIdle, q.State().Phase)
}

func TestQuerySession_Failure(t *testing.T) {
	fc := newFakeClient(doc("d1", "ruling.pdf"))
	fc.queryFn = func(models.Query) (*models.Answer, error) {
		return nil, errors.New("HTTP 500 Internal Server Error")
	}
	q := newTestQuerySession(t, fc)

	_, err := q.Ask(context.Background(), "u", "q")
	require.ErrorIs(t, err, common.ErrQueryFailed)

	st := q.State()
	assert.Equal(t, models.QueryFailed, st.Phase)
	assert.Nil(t, st.Answer)
	assert.ErrorIs(t, st.Err, common.ErrQueryFailed)
}

func TestQuerySession_PendingClearsPreviousAndRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient(doc("d1", "ruling.pdf"))
	q := newTestQuerySession(t, fc)

	first, err := q.Ask(ctx, "u", "first")
	require.NoError(t, err)
	require.NotNil(t, first)

	started := make(chan struct{})
	release := make(chan struct{})
	fc.queryFn = func(qq models.Query) (*models.Answer, error) {
		close(started)
		<-release
		return &models.Answer{Text: "second answer", RelevantChunks: []models.Chunk{}}, nil
	}

	done := make(chan *models.Answer)
	go func() {
		a, err := q.Ask(ctx, "u", "second")
		assert.NoError(t, err)
		done <- a
	}()
	<-started

	st := q.State()
	assert.Equal(t, models.QueryPending, st.Phase)
	assert.Equal(t, "second", st.Question)
	assert.Nil(t, st.Answer, "the previous answer is never shown while pending")
	assert.True(t, q.Pending())

	_, err = q.Ask(ctx, "u", "third")
	assert.ErrorIs(t, err, common.ErrQueryPending)

	close(release)
	second := <-done

	st = q.State()
	assert.Equal(t, models.QueryAnswered, st.Phase)
	assert.Equal(t, "second answer", second.Text)
	assert.Same(t, second, st.Answer)

	_, _, _, sent := fc.calls()
	assert.Len(t, sent, 2)
}

func TestQuerySession_FailedThenRetryClearsError(t *testing.T) {
	fc := newFakeClient(doc("d1", "ruling.pdf"))
	calls := 0
	fc.queryFn = func(models.Query) (*models.Answer, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &models.Answer{Text: "ok"}, nil
	}
	q := newTestQuerySession(t, fc)

	_, err := q.Ask(context.Background(), "u", "q")
	require.Error(t, err)
	_, err = q.Ask(context.Background(), "u", "q")
	require.NoError(t, err)

	st := q.State()
	assert.Equal(t, models.QueryAnswered, st.Phase)
	assert.NoError(t, st.Err)
	assert.EqualValues(t, 2, st.Seq)
}
