// Package config loads parse profiles and service settings.
//
// A profile bundles everything needed to read one family of tree drawings:
// the node pattern and its capture groups, how many header lines to skip,
// whether the first plain line names the root, and duplicate folding.
// Three profiles are built in:
//
//   - default: "├─"/"└─" connectors of any length
//   - cargo:   cargo tree output, " (*)" duplicates folded
//   - tree:    output of the tree command, non-breaking spaces included
//
// User profiles live in $XDG_CONFIG_HOME/treetui/config.toml, or in any TOML
// or YAML file passed explicitly:
//
//	default_profile = "cargo"
//
//	[profiles.npm]
//	base = "default"
//	pattern = '[│\s]*([├└]─┬?─?\s*)'
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
// Fields omitted from a user profile are inherited from its base, which
// defaults to the built-in default profile.
package config
