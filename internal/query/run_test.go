package query_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/platform/memory"
	"github.com/kestrel-dev/shelf-api/internal/query"
)

func seedTasks(t *testing.T) *memory.Collection {
	t.Helper()
	c := memory.NewCollection("tasks")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, task := range []map[string]any{
		{"title": "Write report", "priority": "high", "dueDate": "2025-03-01T00:00:00Z"},
		{"title": "Review budget", "priority": "high", "dueDate": "2025-05-01T00:00:00Z"},
		{"title": "Plan offsite", "priority": "high", "dueDate": "2025-04-01T00:00:00Z"},
		{"title": "Water plants", "priority": "low", "dueDate": "2025-06-01T00:00:00Z"},
	} {
		id := uuid.New()
		created := base.Add(time.Duration(i) * time.Hour)
		task["id"] = id.String()
		task["createdAt"] = created.Format(time.RFC3339Nano)
		raw, err := json.Marshal(task)
		require.NoError(t, err)
		require.NoError(t, c.Insert(context.Background(), id, created, raw))
	}
	return c
}

func titles(docs []query.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["title"].(string))
	}
	return out
}

func TestRun(t *testing.T) {
	t.Parallel()
	c := seedTasks(t)

	b := query.New(params("priority=high&sort=-dueDate&page=1&limit=2")).
		Search("title").Filter().Sort().Paginate().Fields()

	docs, summary, err := query.Run(context.Background(), c, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"Review budget", "Plan offsite"}, titles(docs))
	assert.Equal(t, query.Summary{TotalDocuments: 3, CurrentPage: 1, TotalPages: 2, ResultsPerPage: 2}, summary)
}

func TestRun_DefaultOrderAndEmptyPage(t *testing.T) {
	t.Parallel()
	c := seedTasks(t)

	docs, summary, err := query.Run(context.Background(), c, query.New(nil).Paginate())
	require.NoError(t, err)
	assert.Equal(t, []string{"Water plants", "Plan offsite", "Review budget", "Write report"}, titles(docs))
	assert.EqualValues(t, 4, summary.TotalDocuments)

	docs, summary, err = query.Run(context.Background(), c, query.New(params("page=9")).Paginate())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.Equal(t, 9, summary.CurrentPage)
	assert.Equal(t, 1, summary.TotalPages)
}

func TestRun_BuilderError(t *testing.T) {
	t.Parallel()

	b := query.New(params("title[regex]=x"),
		query.WithUnknownOperatorPolicy(query.UnknownOperatorReject)).Filter()
	_, _, err := query.Run(context.Background(), memory.NewCollection("tasks"), b)
	assert.ErrorIs(t, err, query.ErrUnknownOperator)
}

type failingCollection struct {
	findErr, countErr error
}

func (f failingCollection) Find(context.Context, query.Query) ([]query.Document, error) {
	return nil, f.findErr
}

func (f failingCollection) Count(context.Context, query.Predicate) (int64, error) {
	return 0, f.countErr
}

func TestRun_StoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	b := query.New(nil).Paginate()

	_, _, err := query.Run(context.Background(), failingCollection{findErr: boom}, b)
	assert.ErrorIs(t, err, boom)

	_, _, err = query.Run(context.Background(), failingCollection{countErr: boom}, b)
	assert.ErrorIs(t, err, boom)
}
