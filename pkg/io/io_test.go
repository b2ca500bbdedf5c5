package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/errors"
	"github.com/matzehuels/gravity/pkg/matrix"
)

func TestReadTasksFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "JSONList",
			format: FormatJSON,
			input:  `[{"id": "ship", "priority": 9, "time_minutes": 120, "quadrant": 1}, {"id": "tidy", "quadrant": 4}]`,
		},
		{
			name:   "JSONWrapped",
			format: FormatJSON,
			input:  `{"tasks": [{"id": "ship", "priority": 9, "time_minutes": 120, "quadrant": 1}, {"id": "tidy", "quadrant": 4}]}`,
		},
		{
			name:   "YAMLList",
			format: FormatYAML,
			input: `
- id: ship
  priority: 9
  time_minutes: 120
  quadrant: 1
- id: tidy
  quadrant: 4
`,
		},
		{
			name:   "YAMLWrapped",
			format: FormatYAML,
			input: `
tasks:
  - id: ship
    priority: 9
    time_minutes: 120
    quadrant: 1
  - id: tidy
    quadrant: 4
`,
		},
		{
			name:   "TOML",
			format: FormatTOML,
			input: `
[[tasks]]
id = "ship"
priority = 9
time_minutes = 120
quadrant = 1

[[tasks]]
id = "tidy"
quadrant = 4
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := ReadTasks(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadTasks: %v", err)
			}
			if len(tasks) != 2 {
				t.Fatalf("got %d tasks, want 2", len(tasks))
			}
			ship, tidy := tasks[0], tasks[1]
			if ship.ID != "ship" || ship.PriorityValue() != 9 || ship.TimeValue() != 120 || ship.Quadrant != gravity.Q1 {
				t.Errorf("ship = %+v", ship)
			}
			if tidy.ID != "tidy" || tidy.Priority != nil || tidy.TimeMinutes != nil || tidy.Quadrant != gravity.Q4 {
				t.Errorf("tidy = %+v", tidy)
			}
		})
	}
}

func TestReadTasksAssignsMissingIDs(t *testing.T) {
	tasks, err := ReadTasks(strings.NewReader(`[{"priority": 3}, {"id": "kept"}, {}]`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(tasks[0].ID); err != nil {
		t.Errorf("tasks[0].ID = %q, want a UUID", tasks[0].ID)
	}
	if tasks[1].ID != "kept" {
		t.Errorf("tasks[1].ID = %q, want kept", tasks[1].ID)
	}
	if tasks[0].ID == tasks[2].ID {
		t.Error("generated ids should be unique")
	}
}

func TestReadTasksEmpty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		input := "[]"
		if f != FormatJSON {
			input = ""
		}
		tasks, err := ReadTasks(strings.NewReader(input), f)
		if err != nil {
			t.Errorf("%s: %v", f, err)
			continue
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("%s: tasks = %v, want empty slice", f, tasks)
		}
	}
}

func TestReadTasksErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"MalformedJSON", FormatJSON, `[{"id": }]`, errors.ErrCodeInvalidFormat},
		{"MalformedYAML", FormatYAML, "tasks: [id: : :", errors.ErrCodeInvalidFormat},
		{"MalformedTOML", FormatTOML, "[[tasks]\nid=", errors.ErrCodeInvalidFormat},
		{"WrongType", FormatJSON, `[{"id": "a", "priority": "high"}]`, errors.ErrCodeInvalidFormat},
		{"ControlCharID", FormatJSON, `[{"id": "a\u0007b"}]`, errors.ErrCodeInvalidTask},
		{"LabelNullByte", FormatJSON, `[{"id": "a", "label": "x\u0000y"}]`, errors.ErrCodeInvalidTask},
		{"UnknownFormat", Format("xml"), `<tasks/>`, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTasks(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"tasks.json":    FormatJSON,
		"TASKS.JSON":    FormatJSON,
		"a/b/today.yml": FormatYAML,
		"today.yaml":    FormatYAML,
		"plan.toml":     FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("tasks.csv"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("csv: err = %v, want UNSUPPORTED", err)
	}
}

func TestImportTasks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "today.yaml")
	if err := os.WriteFile(path, []byte("- id: a\n  priority: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := ImportTasks(path)
	if err != nil {
		t.Fatalf("ImportTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].PriorityValue() != 7 {
		t.Errorf("tasks = %+v", tasks)
	}

	_, err = ImportTasks(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteTasksRoundTrip(t *testing.T) {
	in := []gravity.Task{
		gravity.NewTask("a", 8, 30, gravity.Q2),
		{ID: "b", Label: "Label b", Width: 200, Height: 60},
	}

	var buf bytes.Buffer
	if err := WriteTasks(in, &buf); err != nil {
		t.Fatalf("WriteTasks: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"tasks\"") {
		t.Errorf("output should be a wrapped task list:\n%s", buf.String())
	}

	out, err := ReadTasks(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("ReadTasks: %v", err)
	}
	if len(out) != 2 || out[0].PriorityValue() != 8 || out[1].Label != "Label b" || out[1].Width != 200 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestExportTasksAndLayout(t *testing.T) {
	dir := t.TempDir()
	tasks := []gravity.Task{gravity.NewTask("a", 5, 10, gravity.Q1)}

	taskPath := filepath.Join(dir, "tasks.json")
	if err := ExportTasks(tasks, taskPath); err != nil {
		t.Fatalf("ExportTasks: %v", err)
	}
	if got, err := ImportTasks(taskPath); err != nil || len(got) != 1 {
		t.Errorf("re-import = %v, %v", got, err)
	}

	cfg := gravity.DefaultConfig()
	layout := matrix.FromResult(gravity.Build(tasks, cfg), cfg)
	layoutPath := filepath.Join(dir, "layout.json")
	if err := ExportLayout(layout, layoutPath); err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	if got, err := matrix.ReadLayoutFile(layoutPath); err != nil || got.Nodes[0].ID != "a" {
		t.Errorf("ReadLayoutFile = %+v, %v", got, err)
	}

	if err := ExportTasks(tasks, filepath.Join(dir, "no", "such", "dir.json")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
