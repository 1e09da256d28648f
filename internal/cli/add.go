package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// addCommand creates the "add" command: preview a species' lineage, ask for
// confirmation and merge it into the main tree.
func (c *CLI) addCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a species to the tree",
		Long: `Resolve a species name, show the lineage that would be added and merge it
into the saved tree once confirmed.

Examples:
  evotree add lion
  evotree add "grey wolf" --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Resolving %q...", name))
			spin.Start()
			p, err := a.ws.Preview(ctx, name)
			spin.Stop()
			if err != nil {
				return c.userError(err)
			}

			printPreview(c, p)
			fmt.Fprintln(c.out)

			if !yes {
				ok, err := confirm(c.in, c.out, fmt.Sprintf("Add %s to the tree?", p.Species))
				if err != nil {
					return err
				}
				if !ok {
					a.ws.Discard(p.ID)
					printInfo(c.out, "Nothing added")
					return nil
				}
			}

			root, err := a.ws.Confirm(p.ID)
			if err != nil {
				return c.userError(err)
			}
			printSuccess(c.out, "Added %s", StyleSpecies.Render(p.Species))
			printStats(c.out, root.Stats())
			printNextStep(c.out, "View the tree", "evotree tree show")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "add without asking for confirmation")
	return cmd
}

// confirm asks a yes/no question on w and reads the answer from r. Anything
// other than y or yes, including end of input, is a no.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprint(w, question+" "+StyleDim.Render("[y/N]")+" ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
