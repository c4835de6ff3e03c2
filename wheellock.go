// Package wheellock finds the fewest moves that open a four-wheel rotary
// combination lock without ever resting on a dead combination.
//
// Each wheel shows a digit 0-9 and wraps around; a move turns one wheel one
// notch either way. The search itself lives in package model, the state
// codec in package lock. This package is the plain entry point: strings in,
// a move count out, with -1 meaning the target can't be reached.
package wheellock

import (
	"github.com/timewinder-dev/wheellock/lock"
	"github.com/timewinder-dev/wheellock/model"
)

// Unreachable is what OpenLock returns when no path exists.
const Unreachable = model.Unreachable

// OpenLock returns the fewest moves from "0000" to target that never pass
// through one of deadends, or Unreachable. Every string is parsed before
// the search starts; a malformed one yields an error wrapping
// lock.ErrMalformedInput.
func OpenLock(deadends []string, target string) (int, error) {
	return OpenLockFrom("0000", deadends, target)
}

// OpenLockFrom is OpenLock with a caller-chosen start.
func OpenLockFrom(start string, deadends []string, target string) (int, error) {
	from, err := lock.Parse(start)
	if err != nil {
		return 0, err
	}
	to, err := lock.Parse(target)
	if err != nil {
		return 0, err
	}
	forbidden, err := lock.ParseSet(deadends)
	if err != nil {
		return 0, err
	}
	return model.ShortestPath(forbidden, from, to), nil
}
