package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/timewinder-dev/wheellock/lock"
)

// CAS stores serialized items under the hash of their bytes.
type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	Len() int
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}

// Retrieve loads the item stored under hash and decodes it as a T.
func Retrieve[T Hashable](c CAS, hash Hash) (T, error) {
	var t T
	v, ok := c.(directStore)
	if !ok {
		return t, errors.New("CAS does not support direct retrieval")
	}

	has, data, err := v.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("hash not found in CAS: %s", hash)
	}

	instance, err := decode(data)
	if err != nil {
		return t, err
	}

	result, ok := instance.(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: expected %T, got %T", t, instance)
	}

	return result, nil
}

// LoadState returns the state stored under hash, going through a
// StateCache when c is one.
func LoadState(c CAS, hash Hash) (lock.State, error) {
	if sc, ok := c.(*StateCache); ok {
		return sc.State(hash)
	}
	st, err := Retrieve[*lock.State](c, hash)
	if err != nil {
		return lock.State{}, err
	}
	return *st, nil
}

func decode(data []byte) (Hashable, error) {
	typedEntry := &TypedEntry{}
	if err := typedEntry.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("deserializing TypedEntry: %w", err)
	}
	instance, err := newInstance(typedEntry.TypeTag)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	if err := instance.Deserialize(bytes.NewReader(typedEntry.Data)); err != nil {
		return nil, fmt.Errorf("deserializing data: %w", err)
	}
	return instance, nil
}

// encode wraps item in a TypedEntry and returns the bytes to store.
func encode(item Hashable) ([]byte, error) {
	tag, err := typeTag(item)
	if err != nil {
		return nil, err
	}
	var inner bytes.Buffer
	if err := item.Serialize(&inner); err != nil {
		return nil, err
	}
	entry := &TypedEntry{
		TypeTag: tag,
		Data:    inner.Bytes(),
	}
	var buf bytes.Buffer
	if err := entry.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
