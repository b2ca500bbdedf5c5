// Package gravity computes the radial "gravity matrix" layout for tasks.
//
// # Overview
//
// Each task is reduced to a single importance weight, placed on a polar
// plane partitioned into four 90° quadrants, and nudged outward until no two
// task markers overlap. Heavier tasks sit closer to the centre and render
// larger.
//
// The pipeline has four stages, each usable on its own:
//
//  1. [ComputeWeight]: priority (1–10) and time estimate (minutes) to a
//     weight in [0, 1]. Priority is linear, time is logarithmic.
//  2. [ComputeRadius] and [ComputeBoxScale]: weight to distance from centre
//     (inverted) and visual scale.
//  3. [AssignAnglesSorted]: even spacing inside each quadrant, heaviest
//     first.
//  4. [ResolveCollisions]: bounded outward spiral search, confined to the
//     node's own quadrant.
//
// [Build] chains all four.
//
// # Configuration
//
// Every function takes a [Config] by value. Nothing is stored at package
// level, so alternate tunings can be tested side by side:
//
//	cfg := gravity.DefaultConfig()
//	cfg.Alpha, cfg.Beta = 0.5, 0.5
//	res := gravity.Build(tasks, cfg)
//
// # Malformed Input
//
// Nothing in this package returns an error. Priorities outside [1, 10] are
// clamped, negative time estimates count as zero, and missing values default
// to 5 and 0. A node that cannot be placed within [Config.MaxIter] moves is
// reported in the overflow list but still gets a position, so the caller
// always has a complete set of nodes to draw.
//
// # Coordinates
//
// Angles are degrees in [0, 360). Quadrant 1 is [-45°, 45°) and wraps through
// 0°; quadrants 2–4 follow counter-clockwise. [PolarNode.Cartesian] gives the
// projected centre; mapping to screen pixels is left to the renderer.
package gravity
