package model

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/wheellock/lock"
)

func TestParseSpecInTestdata(t *testing.T) {
	err := filepath.WalkDir(filepath.Join("..", "testdata"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".toml", ".yaml", ".yml":
		default:
			return nil
		}
		t.Run(filepath.Base(path), testParseSpec(path))
		return nil
	})
	require.NoError(t, err)
}

func testParseSpec(path string) func(t *testing.T) {
	return func(t *testing.T) {
		s, err := LoadSpecFromFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, s.Name)
		require.NotNil(t, s.Expect, "testdata specs carry an expected answer")
		_, err = s.BuildQuery()
		require.NoError(t, err)
		t.Logf("%#v\n", s)
	}
}

func TestParseSpec_TOML(t *testing.T) {
	src := `
name = "demo"
start = "1000"
target = "0202"
deadends = ["0201", "0101"]
expect = 6
`
	s, err := parseSpec(strings.NewReader(src), formatTOML)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, "1000", s.Start)
	assert.Equal(t, []string{"0201", "0101"}, s.Deadends)
	require.NotNil(t, s.Expect)
	assert.Equal(t, 6, *s.Expect)

	q, err := s.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, lock.MustParse("1000"), q.Start)
	assert.Equal(t, lock.MustParse("0202"), q.Target)
	assert.Len(t, q.Forbidden, 2)
}

func TestParseSpec_YAML(t *testing.T) {
	src := `
target: "0009"
deadends: ["8888"]
`
	s, err := parseSpec(strings.NewReader(src), formatYAML)
	require.NoError(t, err)
	assert.Nil(t, s.Expect)

	q, err := s.BuildQuery()
	require.NoError(t, err)
	assert.Equal(t, lock.Zero, q.Start)
	assert.True(t, q.Forbidden.Has(lock.MustParse("8888")))
}

func TestBuildQuery_Malformed(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"ShortTarget", Spec{Target: "12"}},
		{"LetterInTarget", Spec{Target: "12x4"}},
		{"BadStart", Spec{Start: "abcd", Target: "1234"}},
		{"BadDeadend", Spec{Target: "1234", Deadends: []string{"0000", "9"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.BuildQuery()
			assert.ErrorIs(t, err, lock.ErrMalformedInput)
		})
	}
}

func TestBuildQuery_DeadWhen(t *testing.T) {
	s := Spec{Name: "odd", Target: "2000", Deadends: []string{"0005"}, DeadWhen: "w[0] == 1"}
	q, err := s.BuildQuery()
	require.NoError(t, err)
	assert.Len(t, q.Forbidden, 1001)
	assert.True(t, q.Forbidden.Has(lock.MustParse("1999")))
	assert.True(t, q.Forbidden.Has(lock.MustParse("0005")))

	s.DeadWhen = "w[0] =="
	_, err = s.BuildQuery()
	assert.ErrorIs(t, err, ErrDeadExpr)
}

func TestLoadSpecFromFile_DefaultName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my_query.toml")
	require.NoError(t, os.WriteFile(path, []byte(`target = "0001"`), 0o644))

	s, err := LoadSpecFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my_query", s.Name)
}

func TestLoadSpecFromFile_Errors(t *testing.T) {
	_, err := LoadSpecFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte(`target = `), 0o644))
	_, err = LoadSpecFromFile(path)
	assert.ErrorContains(t, err, "broken.toml")
}

func TestBuildQuery_CarriesExpect(t *testing.T) {
	six := 6
	q, err := (&Spec{Target: "0202", Expect: &six}).BuildQuery()
	require.NoError(t, err)
	require.NotNil(t, q.Expect)
	assert.Equal(t, 6, *q.Expect)
}
