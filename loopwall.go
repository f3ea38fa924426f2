package loopwall

import _ "embed"

// Version is stamped from the .version file at build time.
//
//go:embed .version
var Version string

// DefaultConfig is the TOML config installed by `loopwall --installconfig`.
//
//go:embed default_config.toml
var DefaultConfig string
