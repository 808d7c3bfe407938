package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/game"
)

func TestBuiltinsRegistered(t *testing.T) {
	names := Names()
	expected := []string{"json", "msgpack"}
	if len(names) != len(expected) {
		t.Fatalf("Names() = %v, expected %v", names, expected)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Names()[%d] = %q, expected %q", i, names[i], expected[i])
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		binary     bool
		shouldFail bool
	}{
		{"", "json", false, false},
		{"json", "json", false, false},
		{"msgpack", "msgpack", true, false},
		{"xml", "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Get(tc.name)
			if tc.shouldFail {
				if err == nil {
					t.Errorf("Get(%q) should fail", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", tc.name, err)
			}
			if c.Name() != tc.expected || c.Binary() != tc.binary {
				t.Errorf("Get(%q) = %s (binary %v), expected %s (binary %v)",
					tc.name, c.Name(), c.Binary(), tc.expected, tc.binary)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Registering json twice should panic")
		}
	}()
	Register(jsonCodec{})
}

func sampleSnapshot() game.Snapshot {
	return game.Snapshot{
		Size: game.Size{Width: 60, Height: 37},
		Snakes: []game.SnakeState{{
			ID:     "p1",
			Score:  2,
			Color:  "lime",
			Pos:    [][2]int{{4, 5}, {4, 6}},
			Facing: core.Up,
			Name:   "linus",
		}},
		Tiles: []game.TileState{{Type: "tile:apple", Pos: [2]int{1, 2}}},
	}
}

func TestJSONSnapshotShape(t *testing.T) {
	c, _ := Get("json")
	data, err := c.Marshal(sampleSnapshot())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"size":{"width":60,"height":37},` +
		`"snakes":[{"id":"p1","score":2,"color":"lime","pos":[[4,5],[4,6]],"facing":"UP","name":"linus"}],` +
		`"tiles":[{"type":"tile:apple","pos":[1,2]}]}`
	if string(data) != expected {
		t.Errorf("JSON = %s\nexpected %s", data, expected)
	}
}

func TestCodecsAgree(t *testing.T) {
	snap := sampleSnapshot()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, _ := Get(name)
			data, err := c.Marshal(snap)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			var got game.Snapshot
			if err := c.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			// Compare through a canonical JSON rendering
			want, _ := json.Marshal(snap)
			have, _ := json.Marshal(got)
			if string(want) != string(have) {
				t.Errorf("%s decoded %s, expected %s", name, have, want)
			}
		})
	}
}

func TestDeathShape(t *testing.T) {
	c, _ := Get("json")
	data, err := c.Marshal(game.Death{PlayerID: "p1", Name: "n", Color: "red", Score: 7, Cause: game.CauseWall})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"cause":"wall-collision"`) {
		t.Errorf("Death JSON = %s, expected wall-collision cause", data)
	}
}
