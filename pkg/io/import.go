package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/errors"
)

// Format names a task file encoding.
type Format string

// Supported task file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported task file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

type taskFile struct {
	Tasks []gravity.Task `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// ReadTasks decodes a task list from r in the given format.
//
// Tasks without an id are given a random UUID. The returned tasks are
// validated with [errors.ValidateTaskID] and [errors.ValidateLabel].
// ReadTasks does not close r.
func ReadTasks(r io.Reader, format Format) ([]gravity.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var tasks []gravity.Task
	switch format {
	case FormatJSON:
		tasks, err = decodeJSON(data)
	case FormatYAML:
		tasks, err = decodeYAML(data)
	case FormatTOML:
		tasks, err = decodeTOML(data)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported task format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s tasks", format)
	}
	return NormalizeTasks(tasks)
}

// ImportTasks reads the task file at path, picking the format from its
// extension.
func ImportTasks(path string) ([]gravity.Task, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "task file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTasks(f, format)
}

func decodeJSON(data []byte) ([]gravity.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tasks []gravity.Task
		err := json.Unmarshal(trimmed, &tasks)
		return tasks, err
	}
	var tf taskFile
	err := json.Unmarshal(trimmed, &tf)
	return tf.Tasks, err
}

func decodeYAML(data []byte) ([]gravity.Task, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var tasks []gravity.Task
		err := root.Decode(&tasks)
		return tasks, err
	}
	var tf taskFile
	err := root.Decode(&tf)
	return tf.Tasks, err
}

func decodeTOML(data []byte) ([]gravity.Task, error) {
	var tf taskFile
	if _, err := toml.Decode(string(data), &tf); err != nil {
		return nil, err
	}
	return tf.Tasks, nil
}

// NormalizeTasks assigns missing ids and validates the rest. Tasks that
// arrive through other channels (the HTTP API) go through the same checks.
func NormalizeTasks(tasks []gravity.Task) ([]gravity.Task, error) {
	if tasks == nil {
		tasks = []gravity.Task{}
	}
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		if err := errors.ValidateTaskID(tasks[i].ID); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTask, "task %d: %s", i, errors.UserMessage(err))
		}
		if err := errors.ValidateLabel(tasks[i].Label); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTask, "task %s: %s", tasks[i].ID, errors.UserMessage(err))
		}
	}
	return tasks, nil
}
