package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evotree/evotree/pkg/pipeline"
	"github.com/evotree/evotree/pkg/tree"
)

// treeCommand creates the "tree" command group for the saved main tree.
func (c *CLI) treeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show, export or reset the saved tree",
	}

	cmd.AddCommand(c.treeShowCommand())
	cmd.AddCommand(c.treeExportCommand())
	cmd.AddCommand(c.treeNormalizeCommand())
	cmd.AddCommand(c.treeClearCommand())

	return cmd
}

func (c *CLI) treeShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			root := a.ws.Tree()
			if asJSON {
				data, err := root.Encode()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.out, string(data))
				return err
			}

			fmt.Fprintln(c.out, renderTree(root))
			fmt.Fprintln(c.out)
			printStats(c.out, root.Stats())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON instead of the tree view")
	return cmd
}

func (c *CLI) treeExportCommand() *cobra.Command {
	var (
		format      string
		output      string
		commonNames bool
		leftToRight bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved tree as DOT, SVG or JSON",
		Long: `Export the saved tree. SVG output is laid out with Graphviz.

Examples:
  evotree tree export --format svg -o tree.svg
  evotree tree export --format dot --common-names | dot -Tpng > tree.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			format = strings.ToLower(strings.TrimSpace(format))
			if err := pipeline.ValidateFormat(format); err != nil {
				return c.userError(err)
			}

			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			artifacts, err := pipeline.Render(ctx, a.ws.Tree(), pipeline.RenderOptions{
				Formats:     []string{format},
				CommonNames: commonNames,
				LeftToRight: leftToRight,
			})
			if err != nil {
				return err
			}
			data := artifacts[format]

			if output == "" || output == "-" {
				_, err = c.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(c.out, "Exported %s", format)
			printFile(c.out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot, svg or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&commonNames, "common-names", false, "label nodes with common names where known")
	cmd.Flags().BoolVar(&leftToRight, "left-to-right", false, "lay the tree out horizontally")
	return cmd
}

func (c *CLI) treeNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Group kingdoms attached directly to the root under their domain",
		Long: `Repair trees saved by older versions, where kingdoms were attached directly
to "Life". Each such kingdom is moved under its domain and duplicate domains
are merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			before := a.ws.Tree()
			after := a.ws.Normalize()
			if tree.Equal(before, after) {
				printInfo(c.out, "Tree is already normalized")
				return nil
			}
			printSuccess(c.out, "Normalized tree")
			printStats(c.out, after.Stats())
			return nil
		},
	}
}

func (c *CLI) treeClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			if !yes {
				s := a.ws.Tree().Stats()
				ok, err := confirm(c.in, c.out, fmt.Sprintf("Delete the saved tree (%d species)?", s.Leaves))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.ws.Clear(ctx); err != nil {
				return c.userError(err)
			}
			printSuccess(c.out, "Cleared saved tree")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
