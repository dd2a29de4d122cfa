package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetui/pkg/config"
	"github.com/matzehuels/treetui/pkg/tree"
)

// profileFlags selects a parse profile and overrides single fields of it.
type profileFlags struct {
	profile   string
	cargo     bool
	regex     string
	node      int
	data      int
	skipHead  bool
	skipLines int
	marker    string
	noCache   bool
	refresh   bool
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.profile, "profile", "p", "", "parse profile (see \"treetui profiles\")")
	fs.BoolVarP(&f.cargo, "cargo", "c", false, `fold repeated "cargo tree" subtrees marked with " (*)"`)
	fs.StringVarP(&f.regex, "regex", "r", "", "pattern locating each node's connector")
	fs.IntVarP(&f.node, "node", "n", 1, "capture group whose start is the node's column")
	fs.IntVarP(&f.data, "data", "d", 0, "capture group holding the label (0: text after the node group)")
	fs.BoolVarP(&f.skipHead, "skip-head", "H", false, "do not use the first non-node line as the root label")
	fs.IntVarP(&f.skipLines, "skip-lines", "s", 0, "number of leading lines to discard")
	fs.StringVar(&f.marker, "marker", tree.DefaultMarker, "suffix of repeated-subtree lines (implies folding)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the parse cache")
	fs.BoolVar(&f.refresh, "refresh", false, "reparse even when a cached tree exists")

	_ = cmd.RegisterFlagCompletionFunc("profile", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.BuiltinNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolve looks up the selected profile and applies the flags the user set.
func (f *profileFlags) resolve(cmd *cobra.Command, cfg *config.Config) (config.Profile, error) {
	p, err := cfg.Profile(f.profile)
	if err != nil {
		return p, err
	}

	fs := cmd.Flags()
	if f.cargo {
		p.FoldDuplicates = true
		if p.Marker == "" {
			p.Marker = tree.DefaultMarker
		}
	}
	if fs.Changed("regex") {
		p.Pattern = f.regex
	}
	if fs.Changed("node") {
		p.AnchorGroup = f.node
	}
	if fs.Changed("data") {
		p.DataGroup = f.data
	}
	if fs.Changed("skip-head") {
		p.NoHeading = f.skipHead
	}
	if fs.Changed("skip-lines") {
		p.SkipLines = f.skipLines
	}
	if fs.Changed("marker") {
		p.Marker = f.marker
		p.FoldDuplicates = true
	}
	return p, p.Validate()
}
