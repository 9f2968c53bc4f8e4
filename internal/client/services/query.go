package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/client"
	"github.com/dmitrijs2005/lexqa/internal/client/metrics"
	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// QuerySession drives one question at a time to an answer.
type QuerySession struct {
	client    client.Client
	directory *Directory
	log       logging.Logger
	topK      int
	threshold float64

	mu    sync.Mutex
	seq   uint64
	state models.QueryState
}

// NewQuerySession returns an idle session. topK and threshold are sent
// with every question; zero leaves the service defaults in effect.
func NewQuerySession(c client.Client, dir *Directory, topK int, threshold float64, log logging.Logger) *QuerySession {
	return &QuerySession{
		client:    c,
		directory: dir,
		log:       logging.OrDiscard(log),
		topK:      topK,
		threshold: threshold,
		state:     models.QueryState{Phase: models.QueryIdle},
	}
}

// Ask submits question for userID. The previous answer or error is cleared
// before the call is made, so State never shows a stale result while the
// question is pending. A second Ask while one is pending is refused.
func (q *QuerySession) Ask(ctx context.Context, userID, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		metrics.Rejected("empty-question")
		return nil, common.ErrEmptyQuestion
	}

	q.mu.Lock()
	if q.state.Phase == models.QueryPending {
		q.mu.Unlock()
		return nil, common.ErrQueryPending
	}
	if q.directory.Len() == 0 {
		q.mu.Unlock()
		metrics.Rejected("no-documents")
		return nil, common.ErrNoDocuments
	}
	q.seq++
	seq := q.seq
	q.state = models.QueryState{Phase: models.QueryPending, Question: question, Seq: seq}
	q.mu.Unlock()

	answer, err := q.client.Query(ctx, models.Query{
		Question:  question,
		UserID:    userID,
		TopK:      q.topK,
		Threshold: q.threshold,
	})
	if err != nil && !errors.Is(err, common.ErrQueryFailed) {
		err = fmt.Errorf("%w: %w", common.ErrQueryFailed, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err != nil {
		q.log.Warn(ctx, "query failed", "err", err)
		q.state = models.QueryState{Phase: models.QueryFailed, Question: question, Err: err, Seq: seq}
		return nil, err
	}
	q.state = models.QueryState{Phase: models.QueryAnswered, Question: question, Answer: answer.Clone(), Seq: seq}
	return answer, nil
}

// Pending reports whether a question is outstanding.
func (q *QuerySession) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state.Phase == models.QueryPending
}

// State returns a copy of what should be displayed for the query area.
func (q *QuerySession) State() models.QueryState {
	q.mu.Lock()
	defer q.mu.Unlock()
	st := q.state
	st.Answer = q.state.Answer.Clone()
	return st
}
