package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/evotree/evotree/pkg/tree"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats     []string
	CommonNames bool // label nodes with common names (dot, svg)
	LeftToRight bool // horizontal layout (dot, svg)
}

// Render exports root in every requested format.
func Render(ctx context.Context, root *tree.Node, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatJSON}
	}

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = tree.ToDOT(root, tree.DOTOptions{CommonNames: opts.CommonNames, LeftToRight: opts.LeftToRight})
		}
		return dot
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ValidateFormat(format); err != nil {
			return nil, err
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(root, "", "  ")
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = tree.RenderSVG(ctx, dotFor())
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
