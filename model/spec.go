package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/timewinder-dev/wheellock/lock"
	"gopkg.in/yaml.v3"
)

// Spec is one query as written in a spec file.
type Spec struct {
	Name     string   `toml:"name,omitempty" yaml:"name,omitempty"`
	Start    string   `toml:"start,omitempty" yaml:"start,omitempty"`
	Target   string   `toml:"target" yaml:"target"`
	Deadends []string `toml:"deadends,omitempty" yaml:"deadends,omitempty"`
	DeadWhen string   `toml:"dead_when,omitempty" yaml:"dead_when,omitempty"`
	Expect   *int     `toml:"expect,omitempty" yaml:"expect,omitempty"`
}

type specFormat int

const (
	formatTOML specFormat = iota
	formatYAML
)

func formatForPath(path string) specFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatTOML
	}
}

func parseSpec(f io.Reader, format specFormat) (*Spec, error) {
	var out Spec
	switch format {
	case formatYAML:
		if err := yaml.NewDecoder(f).Decode(&out); err != nil {
			return nil, err
		}
	default:
		if _, err := toml.NewDecoder(f).Decode(&out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// LoadSpecFromFile reads a TOML or YAML spec, picked by extension. A spec
// without a name takes the file's base name.
func LoadSpecFromFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	s, err := parseSpec(f, formatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name()))
	}
	return s, nil
}

// BuildQuery parses every state in the spec and expands dead_when. Any
// malformed state fails here, before a search can start.
func (s *Spec) BuildQuery() (Query, error) {
	q := Query{Name: s.Name, Start: lock.Zero, Expect: s.Expect}
	if s.Start != "" {
		start, err := lock.Parse(s.Start)
		if err != nil {
			return q, fmt.Errorf("%s: start: %w", s.Name, err)
		}
		q.Start = start
	}
	target, err := lock.Parse(s.Target)
	if err != nil {
		return q, fmt.Errorf("%s: target: %w", s.Name, err)
	}
	q.Target = target

	forbidden, err := lock.ParseSet(s.Deadends)
	if err != nil {
		return q, fmt.Errorf("%s: deadends: %w", s.Name, err)
	}
	if s.DeadWhen != "" {
		expr, err := CompileDeadExpr(s.DeadWhen)
		if err != nil {
			return q, fmt.Errorf("%s: %w", s.Name, err)
		}
		dead, err := expr.Expand()
		if err != nil {
			return q, fmt.Errorf("%s: %w", s.Name, err)
		}
		forbidden = forbidden.Union(dead)
	}
	q.Forbidden = forbidden
	return q, nil
}
