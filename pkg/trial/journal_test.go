package trial

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
)

func TestJournal(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		defer j.Close()

		require.NoError(t, j.CreateStudy(ctx, "study-1", "minimize"))
		require.NoError(t, j.RecordTrial(ctx, "study-1", 0,
			map[string]interface{}{"use_erwa_heuristic": true}, 4.2, TrialStateComplete))
		require.NoError(t, j.RecordTrial(ctx, "study-1", 1,
			map[string]interface{}{}, 0, TrialStateFailed))

		records, err := j.Trials(ctx, "study-1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 0, records[0].Number)
		assert.Equal(t, 4.2, records[0].Score)
		assert.Equal(t, TrialStateComplete, records[0].State)
		assert.Equal(t, true, records[0].Params["use_erwa_heuristic"])
		assert.Equal(t, TrialStateFailed, records[1].State)
	})

	t.Run("Duplicate Trial Numbers Are Rejected", func(t *testing.T) {
		j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		defer j.Close()

		require.NoError(t, j.CreateStudy(ctx, "study-1", "minimize"))
		require.NoError(t, j.RecordTrial(ctx, "study-1", 0, nil, 1, TrialStateComplete))
		require.Error(t, j.RecordTrial(ctx, "study-1", 0, nil, 2, TrialStateComplete))
	})

	t.Run("Nil Journal Is A No-Op", func(t *testing.T) {
		var j *Journal
		assert.NoError(t, j.CreateStudy(ctx, "s", "minimize"))
		assert.NoError(t, j.RecordTrial(ctx, "s", 0, nil, 0, TrialStateComplete))
		records, err := j.Trials(ctx, "s")
		assert.NoError(t, err)
		assert.Nil(t, records)
		assert.NoError(t, j.Close())
	})

	t.Run("Study Is Wired Into The Journal", func(t *testing.T) {
		j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
		require.NoError(t, err)
		defer j.Close()

		study := NewStudy(scoring.Minimize, WithJournal(j), WithSampler(NewTPESampler(TPEConfig{Seed: 42})))
		objective := func(tr Trial) (float64, error) {
			_, err := tr.SuggestCategorical("x", []interface{}{1, 2})
			return 1, err
		}
		require.NoError(t, study.Optimize(ctx, objective, 3))

		records, err := j.Trials(ctx, study.ID())
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}
