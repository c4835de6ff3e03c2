package lock

// Delta is a per-wheel rotation. Every move in the table turns exactly one
// wheel by one notch.
type Delta [Wheels]int8

var moves = [2 * Wheels]Delta{
	{1, 0, 0, 0}, {-1, 0, 0, 0},
	{0, 1, 0, 0}, {0, -1, 0, 0},
	{0, 0, 1, 0}, {0, 0, -1, 0},
	{0, 0, 0, 1}, {0, 0, 0, -1},
}

// Moves returns a copy of the unit move table.
func Moves() []Delta {
	out := make([]Delta, len(moves))
	copy(out, moves[:])
	return out
}

// Apply turns the wheels of s by d, wrapping each one modulo Digits.
func Apply(s State, d Delta) State {
	var out State
	for i := range s {
		v := (int(s[i]) + int(d[i])) % Digits
		if v < 0 {
			v += Digits
		}
		out[i] = uint8(v)
	}
	return out
}

// WheelDistance is the fewest moves between a and b when nothing is
// forbidden: each wheel turns the short way round on its own.
func WheelDistance(a, b State) int {
	total := 0
	for i := range a {
		diff := int(a[i]) - int(b[i])
		if diff < 0 {
			diff = -diff
		}
		total += min(diff, Digits-diff)
	}
	return total
}
