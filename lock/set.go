package lock

import "sort"

// Set is an unordered collection of states.
type Set map[State]struct{}

func NewSet(states ...State) Set {
	s := make(Set, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

// ParseSet parses texts into a Set. Duplicates collapse.
func ParseSet(texts []string) (Set, error) {
	states, err := ParseAll(texts)
	if err != nil {
		return nil, err
	}
	return NewSet(states...), nil
}

func (s Set) Has(st State) bool {
	_, ok := s[st]
	return ok
}

func (s Set) Add(st State) {
	s[st] = struct{}{}
}

// Union returns a new set holding the members of both s and o.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for st := range s {
		out[st] = struct{}{}
	}
	for st := range o {
		out[st] = struct{}{}
	}
	return out
}

// Sorted lists the members in ascending numeric order.
func (s Set) Sorted() []State {
	out := make([]State, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// All returns every state of the lock in ascending order.
func All() []State {
	out := make([]State, 0, 10000)
	var s State
	for a := uint8(0); a < Digits; a++ {
		for b := uint8(0); b < Digits; b++ {
			for c := uint8(0); c < Digits; c++ {
				for d := uint8(0); d < Digits; d++ {
					s = State{a, b, c, d}
					out = append(out, s)
				}
			}
		}
	}
	return out
}
