package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/wheellock/lock"
)

func TestDeadExpr_Match(t *testing.T) {
	tests := []struct {
		src   string
		state string
		want  bool
	}{
		{"w[0] == w[1]", "3345", true},
		{"w[0] == w[1]", "3445", false},
		{`s.endswith("9")`, "1239", true},
		{`s == "0000"`, "0000", true},
		{"len(w) == 4", "1111", true},
		{"w[3] % 2 == 1", "0003", true},
		{"w[3] % 2 == 1", "0004", false},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.state, func(t *testing.T) {
			d, err := CompileDeadExpr(tt.src)
			require.NoError(t, err)
			got, err := d.Match(lock.MustParse(tt.state))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeadExpr_Expand(t *testing.T) {
	d, err := CompileDeadExpr("w[0] == 9 and w[1] == 9")
	require.NoError(t, err)
	assert.Equal(t, "w[0] == 9 and w[1] == 9", d.String())

	dead, err := d.Expand()
	require.NoError(t, err)
	assert.Len(t, dead, 100)
	for s := range dead {
		assert.Equal(t, uint8(9), s[0])
		assert.Equal(t, uint8(9), s[1])
	}
}

func TestDeadExpr_CompileError(t *testing.T) {
	_, err := CompileDeadExpr("w[0] ==")
	assert.ErrorIs(t, err, ErrDeadExpr)
}

func TestDeadExpr_EvalError(t *testing.T) {
	d, err := CompileDeadExpr("w[7] == 1")
	require.NoError(t, err)
	_, err = d.Match(lock.Zero)
	assert.ErrorIs(t, err, ErrDeadExpr)

	_, err = d.Expand()
	assert.ErrorIs(t, err, ErrDeadExpr)
}

func TestDeadExpr_RequiresBool(t *testing.T) {
	for _, src := range []string{"w[3] % 2", "s", "w"} {
		t.Run(src, func(t *testing.T) {
			d, err := CompileDeadExpr(src)
			require.NoError(t, err)
			_, err = d.Match(lock.MustParse("0003"))
			assert.ErrorIs(t, err, ErrDeadExpr)
			assert.ErrorContains(t, err, "want bool")
		})
	}
}

func TestDeadExpr_StepLimit(t *testing.T) {
	d, err := CompileDeadExpr("len([x for x in range(100000000)]) > 0")
	require.NoError(t, err)
	_, err = d.Expand()
	assert.ErrorIs(t, err, ErrDeadExpr)
}

// A cheap predicate never hits the limit, however many states it runs on.
func TestDeadExpr_StepLimitIsPerState(t *testing.T) {
	d, err := CompileDeadExpr("len([x for x in w if x == 0]) == 4")
	require.NoError(t, err)
	dead, err := d.Expand()
	require.NoError(t, err)
	assert.Equal(t, lock.NewSet(lock.Zero), dead)
}

func TestDeadExpr_ForcesDetour(t *testing.T) {
	d, err := CompileDeadExpr("w[0] == 1")
	require.NoError(t, err)
	dead, err := d.Expand()
	require.NoError(t, err)

	assert.Equal(t, 8, ShortestPath(dead, lock.Zero, lock.MustParse("2000")))
	// The target check comes before the forbidden check, so a dead target
	// next to the start is still one move away.
	assert.Equal(t, 1, ShortestPath(dead, lock.Zero, lock.MustParse("1000")))
}
