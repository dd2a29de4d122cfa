package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/pipeline"
)

// diagramFormats are the formats handled by the render command.
var diagramFormats = []string{pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		pf         profileFlags
		formats    string
		output     string
		detailed   bool
		horizontal bool
		maxLabel   int
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a tree as a Graphviz diagram (DOT, SVG or PNG)",
		Long: `Draw the tree as a node-link diagram. Folded duplicates are drawn as dashed
edges to the subtree they repeat.

Examples:
  cargo tree | treetui render --cargo -f svg -o deps.svg
  treetui render deps.json --cargo -f png -o deps.png
  treetui render listing.txt -f svg,png -o listing   # listing.svg, listing.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := parseFormats(formats)
			if len(list) == 0 {
				return fmt.Errorf("no output format given")
			}
			for _, f := range list {
				if !slices.Contains(diagramFormats, f) {
					return fmt.Errorf("render writes %s, not %q", strings.Join(diagramFormats, ", "), f)
				}
			}
			if len(list) > 1 && output == "" {
				return fmt.Errorf("rendering %d formats needs --output", len(list))
			}
			if output == "" && slices.Contains(list, pipeline.FormatPNG) && isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("refusing to write png to a terminal; use --output")
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			runner, res, err := c.load(cmd, &pf, argOrEmpty(args))
			if err != nil {
				return err
			}
			defer runner.Close()

			for _, f := range list {
				var sp *spinner
				if f != pipeline.FormatDOT && isTerminal(cmd.ErrOrStderr()) {
					sp = startSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+f)
				}
				out, err := runner.Render(ctx, res, pipeline.RenderOptions{
					Format:     f,
					Detailed:   detailed,
					MaxLabel:   maxLabel,
					Horizontal: horizontal,
				})
				sp.stop()
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, outputPath(output, f, len(list) > 1), out); err != nil {
					return err
				}
			}
			if output != "" {
				prog.done("Rendered tree", "nodes", res.Arena.Len(), "formats", strings.Join(list, ","))
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or base name when rendering several formats")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add node ids and depths to labels")
	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "lay the tree out left to right")
	cmd.Flags().IntVar(&maxLabel, "max-label", 40, "truncate labels wider than this (0: never)")

	return cmd
}

// parseFormats splits a comma-separated format list, dropping blanks and
// repeats.
func parseFormats(s string) []string {
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// outputPath names the file for one format. With several formats the
// output is a base name that gets the format as extension.
func outputPath(output, format string, multi bool) string {
	if output == "" || !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}
