package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/config"
)

// profilesCommand creates the profiles listing command.
func (c *CLI) profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List parse profiles",
		Long: `List the built-in parse profiles and those defined in the config file.
Select one with --profile; single fields can still be overridden with flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			fmt.Fprintln(cmd.OutOrStdout(), profileTable(cfg))
			if cfg.Path != "" {
				printDetail(cmd.OutOrStdout(), "Config: %s", cfg.Path)
			}
			return nil
		},
	}
}

func profileTable(cfg *config.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	names := cfg.ProfileNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p, _ := cfg.Profile(name)
		fold := "-"
		if p.FoldDuplicates {
			fold = strconv.Quote(p.Marker)
		}
		source := "config"
		if cfg.IsBuiltin(name) {
			source = "builtin"
		}
		if name == cfg.DefaultProfile {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			p.Pattern,
			strconv.Itoa(p.AnchorGroup),
			strconv.Itoa(p.DataGroup),
			strconv.FormatBool(!p.NoHeading),
			fold,
			source,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Profile", "Pattern", "Node", "Data", "Heading", "Fold", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cell.Foreground(colorCyan)
			case col == 6 && row < len(rows) && rows[row][6] == "config":
				return cell.Foreground(colorYellow)
			}
			return cell
		})
	return t.Render()
}
