package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/qualcode/internal/apperr"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleRun(id string, created time.Time, docs int) *model.Run {
	run := &model.Run{
		ID:        id,
		Title:     "Run " + id,
		Sources:   []string{"interviews.txt"},
		CreatedAt: created,
		Result: model.AnalysisResult{
			Keywords:     []model.KeywordScore{{Term: "billing", Score: 1.5}},
			Codes:        []model.Code{{Code: "billing issues", Frequency: 2, Examples: []string{"...billing issues..."}}},
			Cooccurrence: []model.CooccurrencePair{},
			Sentiment:    []model.SentimentEntry{},
			Themes:       []model.Theme{},
		},
	}
	for i := 0; i < docs; i++ {
		run.Result.Documents = append(run.Result.Documents, model.Document{ID: "doc_" + string(rune('1'+i)), Text: "text"})
	}
	return run
}

func TestStore_SaveAndGet(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	run := sampleRun("01J0000000000000000000000A", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 2)
	run.AI = &model.AISummary{
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		ResearchQuestion: "Why do users churn?",
		Analysis:         model.AIAnalysis{KeyFindings: []string{"Setup is slow"}},
	}
	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestStore_SaveReplaces(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	run := sampleRun("01J0000000000000000000000A", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 1)
	require.NoError(t, st.SaveRun(ctx, run))

	run.Title = "Renamed"
	run.AI = &model.AISummary{Provider: "ollama"}
	require.NoError(t, st.SaveRun(ctx, run))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Renamed", runs[0].Title)
	assert.True(t, runs[0].HasAI)
}

func TestStore_GetMissing(t *testing.T) {
	st := openTemp(t)

	_, err := st.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrRunNotFound)
}

func TestStore_ListRuns(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRun(ctx, sampleRun("A", base, 1)))
	require.NoError(t, st.SaveRun(ctx, sampleRun("C", base.Add(2*time.Hour), 3)))
	require.NoError(t, st.SaveRun(ctx, sampleRun("B", base.Add(time.Hour), 2)))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, 3, runs[0].DocumentCount)
	assert.Equal(t, "Run C", runs[0].Title)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Hour)))
	assert.False(t, runs[0].HasAI)

	limited, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_ListEmpty(t *testing.T) {
	st := openTemp(t)

	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestStore_DeleteRun(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRun(ctx, sampleRun("A", time.Now().UTC(), 1)))
	require.NoError(t, st.DeleteRun(ctx, "A"))

	_, err := st.GetRun(ctx, "A")
	assert.ErrorIs(t, err, apperr.ErrRunNotFound)
	assert.ErrorIs(t, st.DeleteRun(ctx, "A"), apperr.ErrRunNotFound)
}

func TestStore_SaveRequiresID(t *testing.T) {
	st := openTemp(t)
	assert.Error(t, st.SaveRun(context.Background(), &model.Run{}))
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.SaveRun(ctx, sampleRun("A", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 1)))
	require.NoError(t, st.Close())

	st, err = Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetRun(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Run A", got.Title)
}
