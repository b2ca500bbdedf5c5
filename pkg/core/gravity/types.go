package gravity

import (
	"fmt"
	"math"
)

// Quadrant identifies one of the four 90° sectors of the polar plane.
// The zero value means "not assigned".
type Quadrant int

// Quadrant identifiers.
const (
	Q1 Quadrant = iota + 1
	Q2
	Q3
	Q4
)

// Quadrants lists the valid quadrants in order.
var Quadrants = [...]Quadrant{Q1, Q2, Q3, Q4}

// Valid reports whether q is one of Q1..Q4.
func (q Quadrant) Valid() bool { return q >= Q1 && q <= Q4 }

// String returns "Q1".."Q4", or "Q?" for unassigned values.
func (q Quadrant) String() string {
	if !q.Valid() {
		return "Q?"
	}
	return fmt.Sprintf("Q%d", int(q))
}

// Normalize clamps q into [Q1, Q4]. An unassigned quadrant becomes def.
func (q Quadrant) Normalize(def Quadrant) Quadrant {
	return q.clamp(def)
}

func (q Quadrant) clamp(def Quadrant) Quadrant {
	switch {
	case q == 0:
		if def.Valid() {
			return def
		}
		return Q4
	case q < Q1:
		return Q1
	case q > Q4:
		return Q4
	}
	return q
}

// Task is the read-only input record supplied by the caller. Priority and
// TimeMinutes are pointers so that a missing value can be told apart from
// zero; the engine fills in defaults rather than rejecting the task.
type Task struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Priority    *float64 `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty"`
	TimeMinutes *float64 `json:"time_minutes,omitempty" yaml:"time_minutes,omitempty" toml:"time_minutes,omitempty"`
	Quadrant    Quadrant `json:"quadrant,omitempty" yaml:"quadrant,omitempty" toml:"quadrant,omitempty"`

	// Width and Height are footprint hints from the rendering layer.
	// Zero means "use the configured default".
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// NewTask is a convenience constructor for tasks with every attribute set.
func NewTask(id string, priority, timeMinutes float64, q Quadrant) Task {
	return Task{ID: id, Priority: &priority, TimeMinutes: &timeMinutes, Quadrant: q}
}

// PriorityValue returns the priority, or the default of 5 when missing.
func (t Task) PriorityValue() float64 {
	if t.Priority == nil {
		return DefaultPriority
	}
	return *t.Priority
}

// TimeValue returns the time estimate in minutes, or 0 when missing.
func (t Task) TimeValue() float64 {
	if t.TimeMinutes == nil {
		return 0
	}
	return *t.TimeMinutes
}

// Weight computes the task's importance scalar under cfg.
func (t Task) Weight(cfg Config) float64 {
	return ComputeWeight(t.PriorityValue(), t.TimeValue(), cfg)
}

// footprint returns the task's width and height, substituting config
// defaults for missing or negative hints.
func (t Task) footprint(cfg Config) (float64, float64) {
	w, h := t.Width, t.Height
	if !(w > 0) {
		w = cfg.NodeWidth
	}
	if !(h > 0) {
		h = cfg.NodeHeight
	}
	return w, h
}

// WeightedTask is the input of the angle stage.
type WeightedTask struct {
	ID       string
	Weight   float64
	Quadrant Quadrant
}

// PolarNode is a task's position on the polar plane plus its footprint.
// Theta is in degrees, normalised into [0, 360).
type PolarNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Weight   float64  `json:"weight"`
	Quadrant Quadrant `json:"quadrant"`
	R        float64  `json:"r"`
	Theta    float64  `json:"theta"`
	BoxScale float64  `json:"box_scale"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// EffectiveRadius is the radius of the circle used to approximate the
// node's footprint in collision tests.
func (n PolarNode) EffectiveRadius() float64 {
	return math.Max(n.Width, n.Height) * n.BoxScale / 2
}

// Cartesian projects the node's centre onto the plane.
func (n PolarNode) Cartesian() (x, y float64) {
	rad := n.Theta * math.Pi / 180
	return n.R * math.Cos(rad), n.R * math.Sin(rad)
}
