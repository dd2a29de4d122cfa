package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/pipeline"
	"github.com/matzehuels/treetui/pkg/watch"
)

// viewCommand creates the interactive browser command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		pf        profileFlags
		watchFile bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a drawn tree interactively",
		Long: `Open the tree in a terminal browser. The root starts with its children
visible; deeper levels are expanded on demand.

Keys: ↑/↓ or j/k move, enter toggles, → expands, ← jumps to the parent,
e expands the whole subtree, g/G jump to the top/bottom, y copies the label,
q quits.

Examples:
  cargo tree | treetui --cargo
  tree -a | treetui view --profile tree
  treetui view deps.txt --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := argOrEmpty(args)
			if watchFile && (name == "" || name == "-") {
				return fmt.Errorf("--watch needs a file argument")
			}

			runner, res, err := c.load(cmd, &pf, name)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newTreeModel(title(name, res), res)
			if watchFile {
				src, err := c.watchInput(cmd, &pf, runner, name)
				if err != nil {
					return err
				}
				m.watch = src
			}

			opts := []tea.ProgramOption{
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if !isTerminal(cmd.InOrStdin()) {
				// The tree came through stdin; keys come from the terminal.
				opts = append(opts, tea.WithInputTTY())
			}
			_, err = tea.NewProgram(m, opts...).Run()
			return err
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload when the file changes")

	return cmd
}

// watchInput starts watching name and returns the source of reload messages
// for the browser. The watcher stops with the command's context.
func (c *CLI) watchInput(cmd *cobra.Command, pf *profileFlags, runner *pipeline.Runner, name string) (*watchSource, error) {
	ctx := cmd.Context()
	p, err := pf.resolve(cmd, c.config())
	if err != nil {
		return nil, err
	}

	errs := make(chan error, 1)
	w, err := watch.New(name, watch.WithOnError(func(err error) {
		select {
		case errs <- err:
		default:
		}
	}))
	if err != nil {
		return nil, err
	}
	changes, err := w.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", name, err)
	}
	loggerFromContext(ctx).Debug("watching", "path", w.Path(), "polling", w.Polling())

	return &watchSource{
		changes: changes,
		errs:    errs,
		reload: func() tea.Msg {
			var data []byte
			if !isTreeFile(name) {
				b, err := os.ReadFile(name)
				if err != nil {
					return reloadMsg{err: err}
				}
				data = b
			}
			res, err := parseOrImport(ctx, runner, name, data, pipeline.Options{Profile: p})
			return reloadMsg{res: res, err: err}
		},
	}, nil
}

// title is the browser heading: the file name or "stdin" plus the node count.
func title(name string, res *pipeline.Result) string {
	if name == "" || name == "-" {
		name = "stdin"
	} else {
		name = filepath.Base(name)
	}
	return fmt.Sprintf("%s · %d nodes", name, res.Arena.Len())
}
