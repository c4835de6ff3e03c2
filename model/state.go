package model

import (
	"github.com/timewinder-dev/wheellock/cas"
	"github.com/timewinder-dev/wheellock/lock"
)

// A Thunk is one frontier entry. Hash is its key in the executor's CAS and
// stays zero when tracing is off.
type Thunk struct {
	State lock.State
	Hash  cas.Hash
}
