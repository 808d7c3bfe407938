package core

import "testing"

func TestOppositeIsInvolution(t *testing.T) {
	for _, d := range Directions {
		if got := d.Opposite().Opposite(); got != d {
			t.Errorf("Opposite(Opposite(%s)) = %s, expected %s", d, got, d)
		}
	}
}

func TestOpposite(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
	}

	for _, tc := range tests {
		t.Run(string(tc.dir), func(t *testing.T) {
			if got := tc.dir.Opposite(); got != tc.expected {
				t.Errorf("Opposite() = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestClockwise(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		steps    int
		expected Direction
	}{
		{"up one step", Up, 1, Right},
		{"right one step", Right, 1, Down},
		{"left wraps to up", Left, 1, Up},
		{"full turn", Down, 4, Down},
		{"counter-clockwise", Up, -1, Left},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.dir.Clockwise(tc.steps); got != tc.expected {
				t.Errorf("Clockwise(%d) = %s, expected %s", tc.steps, got, tc.expected)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"UP", true},
		{"DOWN", true},
		{"LEFT", true},
		{"RIGHT", true},
		{"up", false},
		{"", false},
		{"NORTH", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			d, ok := ParseDirection(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseDirection(%q) ok = %v, expected %v", tc.input, ok, tc.ok)
			}
			if ok && string(d) != tc.input {
				t.Errorf("ParseDirection(%q) = %q", tc.input, d)
			}
		})
	}
}

func TestCoordStep(t *testing.T) {
	origin := C(5, 5)
	tests := []struct {
		dir      Direction
		expected Coord
	}{
		{Up, C(5, 4)},
		{Down, C(5, 6)},
		{Left, C(4, 5)},
		{Right, C(6, 5)},
	}

	for _, tc := range tests {
		if got := origin.Step(tc.dir); got != tc.expected {
			t.Errorf("Step(%s) = %v, expected %v", tc.dir, got, tc.expected)
		}
	}
}

func TestCoordInBounds(t *testing.T) {
	tests := []struct {
		name     string
		c        Coord
		expected bool
	}{
		{"origin", C(0, 0), true},
		{"far corner", C(9, 9), true},
		{"x at width", C(10, 0), false},
		{"y at height", C(0, 10), false},
		{"negative x", C(-1, 3), false},
		{"negative y", C(3, -1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.InBounds(10, 10); got != tc.expected {
				t.Errorf("InBounds() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestPairRoundTrip(t *testing.T) {
	c := C(3, 7)
	if got := FromPair(c.Pair()); got != c {
		t.Errorf("FromPair(Pair()) = %v, expected %v", got, c)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Error("Clamp(5, 0, 10) should be 5")
	}
	if Clamp(-5, 0, 10) != 0 {
		t.Error("Clamp(-5, 0, 10) should be 0")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Error("Clamp(15, 0, 10) should be 10")
	}
}
