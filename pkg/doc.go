// Package pkg holds the libraries behind the gravity task matrix.
//
// # Overview
//
// Gravity places tasks on a radial plane split into four quadrants. Heavy
// tasks (high priority, short duration) sit near the centre; light ones
// drift outward. The pkg directory is organized into:
//
//  1. [core/gravity] - the layout engine (weight, radius, angle, collisions)
//  2. [matrix] - the serializable Layout produced by the engine
//  3. [render/polar] - Graphviz DOT, SVG and PNG output
//  4. [pipeline] - cached orchestration (tasks → layout → artifacts)
//  5. [io], [config], [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
//	Task file (JSON/YAML/TOML)
//	         ↓
//	    [io] package (decode, normalize)
//	         ↓
//	    [core/gravity] package (weight → radius/angle → resolve)
//	         ↓
//	    [matrix] package (Layout)
//	         ↓
//	    [render/polar] package (DOT → SVG/PNG)
//
// [core/gravity]: github.com/matzehuels/gravity/pkg/core/gravity
// [matrix]: github.com/matzehuels/gravity/pkg/matrix
// [render/polar]: github.com/matzehuels/gravity/pkg/render/polar
// [pipeline]: github.com/matzehuels/gravity/pkg/pipeline
// [io]: github.com/matzehuels/gravity/pkg/io
// [config]: github.com/matzehuels/gravity/pkg/config
// [cache]: github.com/matzehuels/gravity/pkg/cache
// [errors]: github.com/matzehuels/gravity/pkg/errors
// [observability]: github.com/matzehuels/gravity/pkg/observability
// [buildinfo]: github.com/matzehuels/gravity/pkg/buildinfo
package pkg
