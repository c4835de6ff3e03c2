package model

import (
	"errors"
	"fmt"

	"github.com/timewinder-dev/wheellock/lock"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ErrDeadExpr wraps failures to compile or evaluate a dead_when predicate.
var ErrDeadExpr = errors.New("dead_when")

// maxDeadExprSteps bounds a single evaluation of the predicate.
const maxDeadExprSteps = 100_000

// DeadExpr is a Starlark expression that marks states as dead. It must
// evaluate to a bool. It sees two names: w, the wheel digits as a tuple of ints, and s, the
// state as a 4-digit string. For example:
//
//	w[0] == w[1] and s.endswith("9")
type DeadExpr struct {
	src  string
	expr syntax.Expr
	opts *syntax.FileOptions
}

func CompileDeadExpr(src string) (*DeadExpr, error) {
	opts := &syntax.FileOptions{}
	expr, err := opts.ParseExpr("dead_when", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeadExpr, err)
	}
	return &DeadExpr{src: src, expr: expr, opts: opts}, nil
}

func (d *DeadExpr) String() string {
	return d.src
}

func (d *DeadExpr) match(thread *starlark.Thread, s lock.State) (bool, error) {
	wheels := make(starlark.Tuple, len(s))
	for i, v := range s {
		wheels[i] = starlark.MakeInt(int(v))
	}
	env := starlark.StringDict{
		"w": wheels,
		"s": starlark.String(s.String()),
	}
	thread.SetMaxExecutionSteps(thread.ExecutionSteps() + maxDeadExprSteps)
	v, err := starlark.EvalExprOptions(d.opts, thread, d.expr, env)
	if err != nil {
		return false, fmt.Errorf("%w: evaluating at %s: %v", ErrDeadExpr, s, err)
	}
	b, ok := v.(starlark.Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q gave %s at %s, want bool", ErrDeadExpr, d.src, v.Type(), s)
	}
	return bool(b), nil
}

// Match reports whether s is dead under the expression.
func (d *DeadExpr) Match(s lock.State) (bool, error) {
	return d.match(&starlark.Thread{Name: "dead_when"}, s)
}

// Expand evaluates the expression on every state and returns the dead ones.
func (d *DeadExpr) Expand() (lock.Set, error) {
	thread := &starlark.Thread{Name: "dead_when"}
	out := lock.NewSet()
	for _, s := range lock.All() {
		dead, err := d.match(thread, s)
		if err != nil {
			return nil, err
		}
		if dead {
			out.Add(s)
		}
	}
	return out, nil
}
