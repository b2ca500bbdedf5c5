// Package matrix provides the serialization types for computed gravity
// layouts.
//
// This package defines the canonical wire format for a layout, used for
// JSON files, API responses, caching and the render stage.
//
// # Architecture
//
// The package sits at the serialization boundary between the engine and
// everything downstream of it:
//
//   - [Layout], [Node]: Serialization types (this package)
//   - pkg/core/gravity.Result: In-memory engine output
//
// Use [FromResult] to convert an engine result and [Layout.PolarNodes] to
// go back to engine nodes.
//
// # Layout Format
//
// Nodes keep the order of the input tasks. Each node carries both its polar
// and Cartesian position so that consumers need no trigonometry:
//
//	{
//	  "nodes": [
//	    {"id": "ship", "quadrant": 1, "weight": 0.82, "r": 97.6, "theta": 0,
//	     "x": 97.6, "y": 0, "box_scale": 1.34, "width": 120, "height": 40,
//	     "placement": "clean"}
//	  ],
//	  "overflow": [],
//	  "summary": {...},
//	  "config": {...}
//	}
//
// Common operations:
//
//	layout := matrix.FromResult(res, cfg)       // Result → Layout
//	matrix.WriteLayoutFile(layout, "out.json")  // Layout → File
//	layout, _ = matrix.ReadLayoutFile("out.json")
//
// # Cache Keys
//
// [MarshalTasks] produces a canonical byte form of a task list. Hashing it
// yields a stable key for the layout cache.
package matrix
