// Package pipeline wires resolution, lineage fetching and tree merging into
// the flow shared by the CLI and the HTTP API.
//
// # Architecture
//
// Adding a species takes two steps:
//
//  1. Preview: resolve the name, fetch its lineage and merge it into an
//     empty scratch tree so the user can inspect it.
//  2. Confirm: merge the previewed lineage into the main tree and schedule
//     a debounced save.
//
// [Runner] performs step 1 and holds no state. [Workspace] owns the main
// tree and the pending previews.
//
// # Usage
//
//	runner := pipeline.NewRunner(resolver, fetcher, logger)
//	ws := pipeline.Open(ctx, runner, treeStore, saver, logger)
//	defer ws.Close()
//
//	p, err := ws.Preview(ctx, "lion")
//	if err != nil {
//	    return err
//	}
//	if p.Matched {
//	    fmt.Println("Matched species:", p.Species)
//	}
//	main, err := ws.Confirm(p.ID)
package pipeline

import (
	"fmt"
	"strings"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidateFormat checks that format is a supported export format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %s (must be %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

func formatNames() []string {
	return []string{FormatJSON, FormatDOT, FormatSVG}
}
