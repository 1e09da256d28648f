package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evotree/evotree/pkg/pipeline"
)

// resolveCommand creates the "resolve" command: name → key, stage and
// lineage, without touching the main tree.
func (c *CLI) resolveCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a species name and print its lineage",
		Long: `Resolve a common or scientific species name against the GBIF backbone and
print the taxon key, the stage that found it and the main-rank lineage.

Examples:
  evotree resolve lion
  evotree resolve "Quercus robur"
  evotree resolve red foxes --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			p, err := c.lookup(cmd, a.runner, name)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPreview(c, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")
	return cmd
}

// lookup resolves name and fetches its lineage behind a spinner.
func (c *CLI) lookup(cmd *cobra.Command, runner *pipeline.Runner, name string) (*pipeline.Preview, error) {
	ctx := cmd.Context()
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Resolving %q...", name))
	spin.Start()

	prog := newProgress(c.Logger)
	p, stats, err := runner.PreviewWithStats(ctx, name)
	spin.Stop()
	if err != nil {
		return nil, c.userError(err)
	}
	c.Logger.Debug("lookup timings", "resolve", stats.ResolveTime, "lineage", stats.LineageTime)
	prog.done(fmt.Sprintf("Resolved %q to %s", name, p.Species))
	return p, nil
}

// printPreview prints what a lookup found.
func printPreview(c *CLI, p *pipeline.Preview) {
	w := c.out
	title := StyleSpecies.Render(p.Species)
	if p.CommonName != "" {
		title += " " + StyleDim.Render("("+p.CommonName+")")
	}
	printSuccess(w, "%s", title)
	if p.Matched {
		printInfo(w, "Matched species: %s", StyleHighlight.Render(p.Species))
	}
	printKeyValue(w, "key", fmt.Sprint(p.Resolution.Key))
	printKeyValue(w, "stage", string(p.Resolution.Stage))
	if p.Resolution.Query != p.Input {
		printKeyValue(w, "query", p.Resolution.Query)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, renderPath(p.Path))
}
