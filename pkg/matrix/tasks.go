package matrix

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/gravity/pkg/core/gravity"
)

// MarshalTasks returns the canonical JSON form of tasks. Order is kept
// because it decides tie-breaking in the engine.
func MarshalTasks(tasks []gravity.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []gravity.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}
