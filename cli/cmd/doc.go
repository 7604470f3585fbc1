// Package cmd implements the strux subcommands: conv, fmt, lex, init, and
// repl.
//
// Every command reads one document from an ordered list of sources. Files
// are deduplicated by device and inode, and standard input ("-") is read
// last, so constants may be kept in a separate file:
//
//	strux conv -f consts.sx -f doc.sx -o doc.yaml
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
