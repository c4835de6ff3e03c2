package lock

import (
	"errors"
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
)

// Wheels is the number of independent digit wheels on the lock.
const Wheels = 4

// Digits is the number of positions on each wheel.
const Digits = 10

// ErrMalformedInput is returned when text can't be read as a lock state.
var ErrMalformedInput = errors.New("malformed lock state")

// State is the position of every wheel. It is a plain comparable value, so
// two parses of the same text are equal and a State can key a map.
type State [Wheels]uint8

// Zero is the all-zero state, the usual starting point of a search.
var Zero = State{}

// Parse reads the first Wheels characters of text as decimal digits.
// Anything after them is ignored.
func Parse(text string) (State, error) {
	var s State
	if len(text) < Wheels {
		return s, fmt.Errorf("%w: %q has fewer than %d digits", ErrMalformedInput, text, Wheels)
	}
	for i := 0; i < Wheels; i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return s, fmt.Errorf("%w: %q has non-digit %q at position %d", ErrMalformedInput, text, c, i)
		}
		s[i] = c - '0'
	}
	return s, nil
}

// MustParse is like Parse but panics on malformed input. Meant for tests
// and literals.
func MustParse(text string) State {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAll parses every entry of texts, stopping at the first bad one.
func ParseAll(texts []string) ([]State, error) {
	out := make([]State, 0, len(texts))
	for i, t := range texts {
		s, err := Parse(t)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (s State) String() string {
	var b [Wheels]byte
	for i, d := range s {
		b[i] = '0' + d
	}
	return string(b[:])
}

// Valid reports whether every wheel is within [0, Digits).
func (s State) Valid() bool {
	for _, d := range s {
		if d >= Digits {
			return false
		}
	}
	return true
}

// Neighbors returns the states one move away, in Moves order.
func (s State) Neighbors() [2 * Wheels]State {
	var out [2 * Wheels]State
	for i, d := range moves {
		out[i] = Apply(s, d)
	}
	return out
}

func (s State) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s[:])
}

func (s *State) Deserialize(r io.Reader) error {
	var b []byte
	if err := msgpack.UnmarshalRead(r, &b); err != nil {
		return err
	}
	if len(b) != Wheels {
		return fmt.Errorf("%w: encoded state has %d wheels", ErrMalformedInput, len(b))
	}
	var out State
	copy(out[:], b)
	if !out.Valid() {
		return fmt.Errorf("%w: encoded state %v out of range", ErrMalformedInput, b)
	}
	*s = out
	return nil
}
