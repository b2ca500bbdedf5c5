package gravity

// Result is the output of [Build]: resolved nodes (in task order), their
// placement outcomes, the overflow ids and a per-quadrant summary.
type Result struct {
	Nodes      []PolarNode
	Placements []Placement
	Overflow   []string
	Summary    Summary
}

// QuadrantSummary aggregates the tasks of a single quadrant.
type QuadrantSummary struct {
	Quadrant    Quadrant `json:"quadrant" bson:"quadrant"`
	Count       int      `json:"count" bson:"count"`
	TotalWeight float64  `json:"total_weight" bson:"total_weight"`
}

// Summary aggregates a layout. TotalWeight is what a "daily target weight"
// control compares against.
type Summary struct {
	Quadrants   [4]QuadrantSummary `json:"quadrants" bson:"quadrants"`
	TotalWeight float64            `json:"total_weight" bson:"total_weight"`
	Overflow    int                `json:"overflow" bson:"overflow"`
}

// Build runs the full pipeline on tasks: weight, radius and scale, angle
// assignment and collision resolution. The config is sanitised first, and
// tasks are never modified.
func Build(tasks []Task, cfg Config) Result {
	cfg = cfg.Sanitize()

	weighted := make([]WeightedTask, len(tasks))
	for i, t := range tasks {
		weighted[i] = WeightedTask{
			ID:       t.ID,
			Weight:   t.Weight(cfg),
			Quadrant: t.Quadrant.clamp(cfg.DefaultQuadrant),
		}
	}
	angles := assignAngles(weighted, cfg)

	nodes := make([]PolarNode, len(tasks))
	for i, t := range tasks {
		w := weighted[i].Weight
		width, height := t.footprint(cfg)
		nodes[i] = PolarNode{
			ID:       t.ID,
			Label:    t.Label,
			Weight:   w,
			Quadrant: weighted[i].Quadrant,
			R:        ComputeRadius(w, cfg),
			Theta:    angles[i],
			BoxScale: ComputeBoxScale(w, cfg),
			Width:    width,
			Height:   height,
		}
	}

	res := ResolveCollisions(nodes, cfg)
	return Result{
		Nodes:      res.Nodes,
		Placements: res.Placements,
		Overflow:   res.Overflow,
		Summary:    summarize(res),
	}
}

func summarize(res Resolution) Summary {
	var s Summary
	for i, q := range Quadrants {
		s.Quadrants[i].Quadrant = q
	}
	for _, n := range res.Nodes {
		qs := &s.Quadrants[n.Quadrant-1]
		qs.Count++
		qs.TotalWeight += n.Weight
		s.TotalWeight += n.Weight
	}
	s.Overflow = len(res.Overflow)
	return s
}
