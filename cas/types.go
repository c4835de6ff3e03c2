package cas

import (
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/wheellock/lock"
)

// TypedEntry wraps a Hashable with a type tag for deserialization
type TypedEntry struct {
	TypeTag string
	Data    []byte
}

func (t *TypedEntry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, t)
}

func (t *TypedEntry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, t)
}

const stateTag = "State"

func typeTag(item Hashable) (string, error) {
	switch item.(type) {
	case *lock.State:
		return stateTag, nil
	}
	return "", fmt.Errorf("cannot store %T in the CAS", item)
}

// newInstance returns an empty value ready to decode an entry tagged tag.
func newInstance(tag string) (Hashable, error) {
	switch tag {
	case stateTag:
		return &lock.State{}, nil
	}
	return nil, fmt.Errorf("unknown type tag: %s", tag)
}
