package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/lock"
	"github.com/timewinder-dev/wheellock/model"
)

func loadTestdata(t *testing.T) []*model.Spec {
	testdataDir := filepath.Join("..", "testdata")
	var specs []*model.Spec

	err := filepath.Walk(testdataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".toml", ".yaml", ".yml":
		default:
			return nil
		}
		spec, err := model.LoadSpecFromFile(path)
		require.NoError(t, err, "Failed to load spec file %s", path)
		specs = append(specs, spec)
		return nil
	})
	require.NoError(t, err, "Error walking testdata directory")
	require.NotEmpty(t, specs)
	return specs
}

// TestModelSpecs runs every spec file in testdata and checks its expected answer
func TestModelSpecs(t *testing.T) {
	for _, spec := range loadTestdata(t) {
		t.Run(spec.Name, func(t *testing.T) {
			q, err := spec.BuildQuery()
			require.NoError(t, err)

			memoryCAS := cas.NewMemoryCAS()
			casStore := cas.NewStateCache(memoryCAS, 10000)
			exec, err := model.NewExecutor(model.WithTrace(casStore))
			require.NoError(t, err)

			result, err := exec.Run(context.Background(), q)
			require.NoError(t, err, "Error during search")
			require.NotNil(t, result)

			require.NotNil(t, spec.Expect)
			assert.Equal(t, *spec.Expect, result.Answer())

			if result.Reachable {
				require.Len(t, result.Path, result.Distance+1)
				for i := 1; i < len(result.Path); i++ {
					assert.Equal(t, 1, lock.WheelDistance(result.Path[i-1], result.Path[i]))
					// The last step may land on a dead target; nothing before it may.
					if i < len(result.Path)-1 {
						assert.False(t, q.Forbidden.Has(result.Path[i]))
					}
				}
			}

			t.Logf("Stats: %d expanded, %d unique states, %d duplicates, %d forbidden hits, max depth %d",
				result.Statistics.Expanded,
				result.Statistics.UniqueStates,
				result.Statistics.DuplicateStates,
				result.Statistics.ForbiddenHits,
				result.Statistics.MaxDepth)
		})
	}
}

// TestModelSpecsBatch runs all testdata specs as one batch
func TestModelSpecsBatch(t *testing.T) {
	specs := loadTestdata(t)
	var queries []model.Query
	for _, s := range specs {
		q, err := s.BuildQuery()
		require.NoError(t, err)
		require.NotNil(t, q.Expect)
		queries = append(queries, q)
	}

	exec, err := model.NewExecutor()
	require.NoError(t, err)
	outcomes, stats, err := model.NewMultiThread(exec, 3).RunBatch(context.Background(), queries)
	require.NoError(t, err)
	assert.Equal(t, len(specs), stats.Completed)

	for i := range outcomes {
		o := &outcomes[i]
		require.NoError(t, o.Err)
		assert.Equal(t, *o.Query.Expect, o.Result.Answer(), "spec %s", o.Query.Name)
		assert.False(t, o.Mismatch())
	}

	summary := model.FormatBatch(outcomes, stats)
	assert.False(t, strings.Contains(summary, "expected"), "no spec should disagree with its expectation:\n%s", summary)
}
