package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gravity/pkg/matrix"
)

func TestMain(m *testing.M) {
	out = io.Discard
	os.Exit(m.Run())
}

// runCLI executes the root command with args and returns what commands
// wrote to cmd.OutOrStdout. Config lookups go to an empty temp directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if os.Getenv("XDG_CACHE_HOME") == "" {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

// captureOutput redirects status lines to a buffer for the rest of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	t.Cleanup(func() { out = io.Discard })
	return &buf
}

const sampleTasksYAML = `tasks:
  - id: ship release
    priority: 9
    time_minutes: 120
    quadrant: 1
  - id: plan sprint
    priority: 6
    time_minutes: 60
    quadrant: 2
  - id: tidy desk
    priority: 2
    time_minutes: 10
    quadrant: 4
`

func writeTasks(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(path, []byte(sampleTasksYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"layout", "angles", "visualize", "inspect", "watch", "serve", "config", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil || root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing persistent flags")
	}
}

func TestLayoutCommand(t *testing.T) {
	tasks := writeTasks(t)
	buf := captureOutput(t)

	if _, err := runCLI(t, "layout", tasks, "-f", "dot,json", "--table"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	base := strings.TrimSuffix(tasks, ".yaml")
	layout, err := matrix.ReadLayoutFile(base + ".layout.json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(layout.Nodes) != 3 {
		t.Errorf("got %d nodes", len(layout.Nodes))
	}
	for _, ext := range []string{".dot", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s artifact: %v", ext, err)
		}
	}
	for _, want := range []string{"Layout complete", "ship release", "fresh"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestLayoutCommandCaches(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tasks := writeTasks(t)

	if _, err := runCLI(t, "layout", tasks); err != nil {
		t.Fatal(err)
	}
	buf := captureOutput(t)
	if _, err := runCLI(t, "layout", tasks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "cached") {
		t.Errorf("second run should be served from cache:\n%s", buf.String())
	}
}

func TestLayoutCommandFlags(t *testing.T) {
	tasks := writeTasks(t)
	output := filepath.Join(t.TempDir(), "custom.layout.json")

	if _, err := runCLI(t, "layout", tasks, "--no-cache", "-o", output, "--alpha", "1", "--beta", "0"); err != nil {
		t.Fatal(err)
	}
	layout, err := matrix.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if layout.Config.Alpha != 1 || layout.Config.Beta != 0 {
		t.Errorf("config = %+v, want alpha=1 beta=0", layout.Config)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	tasks := writeTasks(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"layout", tasks, "-f", "gif"}},
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "none.yaml")}},
		{"invalid tuning", []string{"layout", tasks, "--tmax", "-5"}},
		{"no args", []string{"layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAnglesCommand(t *testing.T) {
	stdout, err := runCLI(t, "angles", writeTasks(t))
	if err != nil {
		t.Fatal(err)
	}
	// A lone task sits in the middle of its quadrant.
	for _, want := range []string{"ship release", "0.0°", "90.0°", "270.0°"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("angles output missing %q:\n%s", want, stdout)
		}
	}
}

func TestVisualizeCommand(t *testing.T) {
	tasks := writeTasks(t)
	if _, err := runCLI(t, "layout", tasks, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	layoutFile := strings.TrimSuffix(tasks, ".yaml") + ".layout.json"
	dotFile := filepath.Join(t.TempDir(), "matrix.dot")

	if _, err := runCLI(t, "visualize", layoutFile, "-f", "dot", "-o", dotFile, "--guides"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	data, err := os.ReadFile(dotFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "__ring_max") {
		t.Error("guides missing from dot output")
	}

	if _, err := runCLI(t, "visualize", tasks); err == nil {
		t.Error("a task file is not a layout")
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravity", "config.toml")

	stdout, err := runCLI(t, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(stdout) != path {
		t.Fatalf("config path = %q, err = %v", stdout, err)
	}

	if _, err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}

	buf := captureOutput(t)
	if _, err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "already exists") {
		t.Errorf("second init should warn, got %q", buf.String())
	}

	stdout, err = runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[engine]", "[cache]", `backend = "file"`, "[server]"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[engine]\nr_min = 400\nr_max = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", path, "layout", writeTasks(t)); err == nil {
		t.Error("invalid config should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	stdout, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "gravity") {
		t.Error("bash completion should mention the program")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		count                 int
		want                  string
	}{
		{"tasks.layout.json", "", "svg", 1, "tasks.svg"},
		{"tasks.layout.json", "out.svg", "svg", 1, "out.svg"},
		{"tasks.layout.json", "out/matrix", "png", 2, "out/matrix.png"},
		{"dir/plan.json", "", "dot", 2, "dir/plan.dot"},
	}
	for _, tt := range tests {
		if got := artifactPath(tt.input, tt.output, tt.format, tt.count); got != tt.want {
			t.Errorf("artifactPath(%q, %q, %q, %d) = %q, want %q", tt.input, tt.output, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestLayoutPath(t *testing.T) {
	if got := layoutPath("a/tasks.yaml", ""); got != "a/tasks.layout.json" {
		t.Errorf("layoutPath = %q", got)
	}
	if got := layoutPath("a/tasks.yaml", "x.json"); got != "x.json" {
		t.Errorf("layoutPath = %q", got)
	}
}

func TestWriteArtifactsMissingFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"png"},
		input:     filepath.Join(t.TempDir(), "x.layout.json"),
	})
	if err == nil {
		t.Error("missing artifact should fail")
	}
}
