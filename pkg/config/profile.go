package config

import (
	"maps"
	"slices"

	"github.com/matzehuels/treetui/pkg/errors"
	"github.com/matzehuels/treetui/pkg/tree"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

// Built-in profile names.
const (
	ProfileDefault = "default"
	ProfileCargo   = "cargo"
	ProfileTree    = "tree"
)

// TreePattern matches the output of the tree command, which pads connectors
// with non-breaking spaces in UTF-8 locales.
const TreePattern = `[│\s\x{00A0}]*([├└]──[\s\x{00A0}])`

// Profile is a named set of parse settings.
type Profile struct {
	Name           string `toml:"-" yaml:"-" json:"name"`
	Pattern        string `toml:"pattern" yaml:"pattern" json:"pattern"`
	AnchorGroup    int    `toml:"anchor_group" yaml:"anchor_group" json:"anchor_group"`
	DataGroup      int    `toml:"data_group" yaml:"data_group" json:"data_group"`
	SkipLines      int    `toml:"skip_lines" yaml:"skip_lines" json:"skip_lines"`
	NoHeading      bool   `toml:"no_heading" yaml:"no_heading" json:"no_heading"`
	FoldDuplicates bool   `toml:"fold_duplicates" yaml:"fold_duplicates" json:"fold_duplicates"`
	Marker         string `toml:"marker" yaml:"marker" json:"marker,omitempty"`
}

var builtins = map[string]Profile{
	ProfileDefault: {
		Name:        ProfileDefault,
		Pattern:     treeparse.DefaultPattern,
		AnchorGroup: 1,
	},
	ProfileCargo: {
		Name:           ProfileCargo,
		Pattern:        treeparse.DefaultPattern,
		AnchorGroup:    1,
		FoldDuplicates: true,
		Marker:         tree.DefaultMarker,
	},
	ProfileTree: {
		Name:        ProfileTree,
		Pattern:     TreePattern,
		AnchorGroup: 1,
	},
}

// Builtin returns the built-in profile with the given name.
func Builtin(name string) (Profile, bool) {
	p, ok := builtins[name]
	return p, ok
}

// BuiltinNames returns the built-in profile names in sorted order.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// ParseConfig returns the classifier settings of p.
func (p Profile) ParseConfig() treeparse.Config {
	return treeparse.Config{Pattern: p.Pattern, AnchorGroup: p.AnchorGroup, DataGroup: p.DataGroup}
}

// ParseOptions returns the builder settings of p.
func (p Profile) ParseOptions() treeparse.Options {
	return treeparse.Options{
		SkipLines:      p.SkipLines,
		Heading:        !p.NoHeading,
		FoldDuplicates: p.FoldDuplicates,
		Marker:         p.Marker,
	}
}

// Validate checks that the pattern compiles, exposes the configured groups
// and that the remaining settings are in range.
func (p Profile) Validate() error {
	if p.Name != "" {
		if err := errors.ValidateProfileName(p.Name); err != nil {
			return err
		}
	}
	if err := errors.ValidatePattern(p.Pattern, p.AnchorGroup, p.DataGroup); err != nil {
		return err
	}
	if p.SkipLines < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "skip_lines must not be negative")
	}
	if p.FoldDuplicates && p.Marker != "" {
		if err := errors.ValidateMarker(p.Marker); err != nil {
			return err
		}
	}
	return nil
}

// overrides is a user profile as written in a config file. Nil fields are
// inherited from the base profile.
type overrides struct {
	Base           string  `toml:"base" yaml:"base"`
	Pattern        *string `toml:"pattern" yaml:"pattern"`
	AnchorGroup    *int    `toml:"anchor_group" yaml:"anchor_group"`
	DataGroup      *int    `toml:"data_group" yaml:"data_group"`
	SkipLines      *int    `toml:"skip_lines" yaml:"skip_lines"`
	NoHeading      *bool   `toml:"no_heading" yaml:"no_heading"`
	FoldDuplicates *bool   `toml:"fold_duplicates" yaml:"fold_duplicates"`
	Marker         *string `toml:"marker" yaml:"marker"`
}

func (o overrides) apply(p Profile) Profile {
	if o.Pattern != nil {
		p.Pattern = *o.Pattern
	}
	if o.AnchorGroup != nil {
		p.AnchorGroup = *o.AnchorGroup
	}
	if o.DataGroup != nil {
		p.DataGroup = *o.DataGroup
	}
	if o.SkipLines != nil {
		p.SkipLines = *o.SkipLines
	}
	if o.NoHeading != nil {
		p.NoHeading = *o.NoHeading
	}
	if o.FoldDuplicates != nil {
		p.FoldDuplicates = *o.FoldDuplicates
	}
	if o.Marker != nil {
		p.Marker = *o.Marker
	}
	return p
}
