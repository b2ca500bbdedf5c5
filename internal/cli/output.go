package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gravity/pkg/errors"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // file the artifacts were derived from
	output    string // -o value: a file for one format, a base path for several
}

// writeArtifacts writes each artifact and returns the paths written, in
// format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return paths, fmt.Errorf("missing %s artifact", format)
		}
		path := artifactPath(p.input, p.output, format, len(p.formats))
		if err := errors.ValidateOutputPath(path); err != nil {
			return paths, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath picks the output file for one format. With a single format
// an explicit output is used as-is; otherwise the format becomes the
// extension of the output (or input) base name.
func artifactPath(input, output, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	base := output
	if base == "" {
		base = input
	}
	return trimExt(base) + "." + format
}

// trimExt strips the extension, treating ".layout.json" as one.
func trimExt(path string) string {
	if strings.HasSuffix(path, ".layout.json") {
		return strings.TrimSuffix(path, ".layout.json")
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// layoutPath is the default layout.json location for a task file.
func layoutPath(input, output string) string {
	if output != "" {
		return output
	}
	return trimExt(input) + ".layout.json"
}

// printArtifacts lists written files.
func printArtifacts(paths []string) {
	for _, p := range paths {
		printFile(p)
	}
}
