package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gravity/pkg/matrix"
	"github.com/matzehuels/gravity/pkg/render/polar"
)

// RenderFromLayout generates output artifacts in the requested formats.
// The DOT source is built once and shared by every Graphviz format; each
// format renders on its own goroutine with its own Graphviz instance.
func RenderFromLayout(ctx context.Context, l matrix.Layout, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	dot := polar.ToDOT(l, opts.polarOptions())

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, l, dot, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l matrix.Layout, dot, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return polar.RenderSVG(ctx, dot)
	case FormatPNG:
		return polar.RenderPNG(ctx, dot)
	case FormatDOT:
		return []byte(dot), nil
	case FormatJSON:
		return matrix.MarshalLayout(l)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := matrix.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, parsed, opts)
}
