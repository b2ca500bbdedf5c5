// Package io reads task lists from JSON, YAML and TOML files and writes
// tasks and layouts back out as JSON.
//
// # Task Files
//
// A task file is either a bare list of tasks or an object with a "tasks"
// key. These are equivalent:
//
//	[{"id": "ship", "priority": 9, "time_minutes": 120, "quadrant": 1}]
//
//	{"tasks": [{"id": "ship", "priority": 9, "time_minutes": 120, "quadrant": 1}]}
//
// YAML uses the same field names:
//
//	tasks:
//	  - id: ship
//	    priority: 9
//	    time_minutes: 120
//	    quadrant: 1
//
// TOML has no top-level arrays, so only the wrapped form is accepted:
//
//	[[tasks]]
//	id = "ship"
//	priority = 9
//	time_minutes = 120
//	quadrant = 1
//
// # Task Fields
//
// Only the id is checked here:
//   - id: optional; a random UUID is assigned when empty
//   - label: optional display text
//   - priority: 1..10, defaults to 5 in the engine when omitted
//   - time_minutes: estimate, defaults to 0 when omitted
//   - quadrant: 1..4, the configured default quadrant when omitted
//   - width, height: footprint hints in points
//
// Out-of-range priorities, times and quadrants are left for the engine to
// clamp. Ids with control characters and oversized labels are rejected
// with an INVALID_TASK error.
//
// # Import
//
// Use [ImportTasks] to read a file, picking the format from its extension,
// or [ReadTasks] with an explicit [Format]:
//
//	tasks, err := io.ImportTasks("today.yaml")
//
// # Export
//
// [WriteTasks] and [ExportTasks] write the normalized task list, with
// generated ids filled in, so a re-import yields identical tasks.
// [ExportLayout] writes a computed layout as JSON.
package io
