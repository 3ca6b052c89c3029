// Package cli wires together the Cobra command tree for the checkgate binary.
//
// The root command reads a scan report, reconciles it against the issue
// tracker, and returns a deterministic exit code for CI gating. The config and
// version subcommands manage settings and print build information.
package cli
