package matrix

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gravity/pkg/core/gravity"
)

func buildLayout(t *testing.T) (gravity.Result, Layout) {
	t.Helper()
	cfg := gravity.DefaultConfig()
	tasks := []gravity.Task{
		gravity.NewTask("ship", 9, 120, gravity.Q1),
		gravity.NewTask("plan", 6, 60, gravity.Q2),
		{ID: "tidy", Label: "Tidy the desk"},
	}
	res := gravity.Build(tasks, cfg)
	return res, FromResult(res, cfg)
}

func TestFromResult(t *testing.T) {
	res, l := buildLayout(t)

	if len(l.Nodes) != len(res.Nodes) {
		t.Fatalf("got %d nodes, want %d", len(l.Nodes), len(res.Nodes))
	}
	for i, n := range l.Nodes {
		src := res.Nodes[i]
		if n.ID != src.ID || n.R != src.R || n.Theta != src.Theta {
			t.Errorf("node %d = %+v, want fields of %+v", i, n, src)
		}
		x, y := src.Cartesian()
		if math.Abs(n.X-x) > 1e-9 || math.Abs(n.Y-y) > 1e-9 {
			t.Errorf("node %s at (%v,%v), want (%v,%v)", n.ID, n.X, n.Y, x, y)
		}
		if n.Placement != res.Placements[i].String() {
			t.Errorf("node %s placement = %q, want %q", n.ID, n.Placement, res.Placements[i])
		}
	}
	if l.Overflow == nil {
		t.Error("Overflow should be an empty slice, not nil")
	}
	if l.Nodes[2].DisplayLabel() != "Tidy the desk" || l.Nodes[0].DisplayLabel() != "ship" {
		t.Errorf("DisplayLabel = %q / %q", l.Nodes[2].DisplayLabel(), l.Nodes[0].DisplayLabel())
	}
	if l.Nodes[2].Quadrant != gravity.Q4 {
		t.Errorf("unassigned quadrant = %v, want Q4", l.Nodes[2].Quadrant)
	}
}

func TestPolarNodesRoundTrip(t *testing.T) {
	res, l := buildLayout(t)
	for i, n := range l.PolarNodes() {
		if n != res.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, n, res.Nodes[i])
		}
	}
}

func TestLayoutExtent(t *testing.T) {
	l := Layout{
		Config: gravity.Config{RMax: 100},
		Nodes: []Node{
			{X: 150, Y: 0, Width: 40, Height: 20, BoxScale: 1},
			{X: 0, Y: -50, Width: 10, Height: 10, BoxScale: 2},
		},
	}
	if got := l.Extent(); got != 170 {
		t.Errorf("Extent() = %v, want 170", got)
	}

	l.Nodes = l.Nodes[1:]
	if got := l.Extent(); got != 100 {
		t.Errorf("Extent() = %v, want RMax 100", got)
	}
}

func TestMarshalUnmarshalLayout(t *testing.T) {
	_, l := buildLayout(t)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	if !strings.Contains(string(data), `"placement": "clean"`) {
		t.Errorf("output lacks placement field:\n%s", data)
	}

	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(got.Nodes) != len(l.Nodes) || got.Config != l.Config || got.Summary != l.Summary {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"InvalidJSON", `{nodes:`, "unmarshal layout"},
		{"NoNodes", `{"nodes": [], "overflow": []}`, "must contain nodes"},
		{"MissingNodes", `{}`, "must contain nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestUnmarshalLayoutNilOverflow(t *testing.T) {
	l, err := UnmarshalLayout([]byte(`{"nodes": [{"id": "a", "quadrant": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if l.Overflow == nil {
		t.Error("Overflow should default to an empty slice")
	}
}

func TestLayoutFile(t *testing.T) {
	_, l := buildLayout(t)
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.Nodes[1].ID != "plan" {
		t.Errorf("Nodes[1].ID = %q, want plan", got.Nodes[1].ID)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestMarshalTasks(t *testing.T) {
	a := []gravity.Task{gravity.NewTask("a", 5, 10, gravity.Q1), gravity.NewTask("b", 3, 0, gravity.Q2)}
	b := []gravity.Task{gravity.NewTask("a", 5, 10, gravity.Q1), gravity.NewTask("b", 3, 0, gravity.Q2)}
	reordered := []gravity.Task{b[1], b[0]}

	da, err := MarshalTasks(a)
	if err != nil {
		t.Fatal(err)
	}
	db, _ := MarshalTasks(b)
	dr, _ := MarshalTasks(reordered)

	if string(da) != string(db) {
		t.Error("equal tasks should marshal identically")
	}
	if string(da) == string(dr) {
		t.Error("task order should be part of the canonical form")
	}

	empty, err := MarshalTasks(nil)
	if err != nil || string(empty) != "[]" {
		t.Errorf("MarshalTasks(nil) = %s, %v", empty, err)
	}

	nan := math.NaN()
	if _, err := MarshalTasks([]gravity.Task{{ID: "x", Priority: &nan}}); err == nil {
		t.Error("NaN priority cannot be encoded and should fail")
	}
}
