//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

const (
	// Name is the command name and the base name of the per-user config and
	// cache directories.
	Name = "strux"
	// Description is the one-line summary shown in help output.
	Description = "Structured-data compiler for the strux configuration DSL"
)

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
