package cmd

import (
	"context"

	"github.com/ardnew/strux/cli/cmd/repl"
	"github.com/ardnew/strux/log"
	"github.com/ardnew/strux/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Source []string `help:"Source file(s) whose constants preload the session." short:"f"`
	Format string   `default:"strux" enum:"strux,yaml,json,xml" help:"Result format (${enum})."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var preload string

	if len(r.Source) > 0 {
		src, err := NewSource(r.Source...)
		if err != nil {
			return err
		}

		if preload, err = src.ReadAll(); err != nil {
			return err
		}
	}

	return repl.Run(ctx, repl.Config{
		CacheDir: kongVar(ctx, CacheIdentifier, pkg.CacheDir()),
		Logger:   log.Default(),
		Preload:  preload,
		Format:   r.Format,
	})
}
