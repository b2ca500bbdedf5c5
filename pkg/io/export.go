package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/matrix"
)

// WriteTasks encodes tasks as indented JSON and writes them to w, wrapped
// in a {"tasks": [...]} object. The output can be re-imported with
// [ReadTasks].
func WriteTasks(tasks []gravity.Task, w io.Writer) error {
	if tasks == nil {
		tasks = []gravity.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(taskFile{Tasks: tasks}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTasks writes tasks to a JSON file at path.
func ExportTasks(tasks []gravity.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTasks(tasks, f)
}

// ExportLayout writes a computed layout to a JSON file at path.
func ExportLayout(l matrix.Layout, path string) error {
	if err := matrix.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("export layout %s: %w", path, err)
	}
	return nil
}
