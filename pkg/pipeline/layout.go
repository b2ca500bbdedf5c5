package pipeline

import (
	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/matrix"
)

// GenerateLayout runs the engine over tasks and converts the result into
// its serialization format. The recorded config is the sanitised one the
// engine actually used.
func GenerateLayout(tasks []gravity.Task, cfg gravity.Config) matrix.Layout {
	cfg = cfg.Sanitize()
	return matrix.FromResult(gravity.Build(tasks, cfg), cfg)
}
