package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/treetui/pkg/io"
	"github.com/matzehuels/treetui/pkg/pipeline"
)

// isTreeFile reports whether name is a tree saved by "parse -f json".
func isTreeFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// load reads and parses the input named by name. A .json file is taken as a
// saved tree and imported instead of parsed. The caller closes the returned
// runner.
func (c *CLI) load(cmd *cobra.Command, pf *profileFlags, name string) (*pipeline.Runner, *pipeline.Result, error) {
	ctx := cmd.Context()
	p, err := pf.resolve(cmd, c.config())
	if err != nil {
		return nil, nil, err
	}
	var input []byte
	if !isTreeFile(name) {
		if input, err = readInput(cmd.InOrStdin(), name); err != nil {
			return nil, nil, err
		}
	}

	runner, err := c.newRunner(ctx, pf.noCache)
	if err != nil {
		return nil, nil, err
	}
	res, err := parseOrImport(ctx, runner, name, input, pipeline.Options{Profile: p, Refresh: pf.refresh})
	if err != nil {
		_ = runner.Close()
		return nil, nil, err
	}
	return runner, res, nil
}

// parseOrImport parses input, or imports name when it is a saved tree.
func parseOrImport(ctx context.Context, runner *pipeline.Runner, name string, input []byte, opts pipeline.Options) (*pipeline.Result, error) {
	if isTreeFile(name) {
		res, err := pipeline.Import(name, opts.Profile)
		if err == nil {
			loggerFromContext(ctx).Debug("imported tree", "path", name, "nodes", res.Arena.Len())
		}
		return res, err
	}
	return runner.Parse(ctx, input, opts)
}

// exportTree saves res as JSON at path, keeping resolved refs.
func exportTree(cmd *cobra.Command, res *pipeline.Result, path string) error {
	if err := tio.ExportJSON(res.Arena, res.Refs(), path); err != nil {
		return err
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		pf     profileFlags
		format string
		style  string
		output string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Rebuild a drawn tree and write it as JSON or text",
		Long: `Rebuild the tree drawn in a file (or stdin) and write it out.

JSON output lists every node with its parent and children; resolved
duplicate markers carry a "ref" to the node they repeat. Text output redraws
the tree, expanding folded duplicates. A saved .json tree is read back as
is; view and render accept one too.

Examples:
  cargo tree | treetui parse --cargo -o deps.json
  treetui parse deps.json -f text --cargo
  treetui parse listing.txt -f text --style tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatJSON && format != pipeline.FormatText {
				return fmt.Errorf("parse writes json or text, not %q (see \"treetui render\")", format)
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			runner, res, err := c.load(cmd, &pf, argOrEmpty(args))
			if err != nil {
				return err
			}
			defer runner.Close()

			if format == pipeline.FormatJSON && output != "" {
				err = exportTree(cmd, res, output)
			} else {
				var out []byte
				if out, err = runner.Render(cmd.Context(), res, pipeline.RenderOptions{Format: format, Style: style}); err == nil {
					err = writeOutput(cmd, output, out)
				}
			}
			if err != nil {
				return err
			}
			if stats {
				printStats(cmd.ErrOrStderr(), res.Arena.Len(), res.Arena.Height(), res.Stats.Ignored, res.CacheHit)
			}
			loggerFromContext(cmd.Context()).Debug("parse finished", "lines", res.Stats.Lines, "took", res.Duration)
			if output != "" {
				prog.done("Parsed tree", "nodes", res.Arena.Len())
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json or text")
	cmd.Flags().StringVar(&style, "style", pipeline.StyleCompact, "text connectors: compact or tree")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print parse statistics to stderr")

	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}
