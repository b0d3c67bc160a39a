// Package cli parses the hbond_analyzer command line: global options, one
// subcommand and its own options, and the run configuration.
package cli
