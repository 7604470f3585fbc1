package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/strux/cli"
	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	var serr *lang.SyntaxError

	switch {
	case err == nil:
		return

	case errors.As(err, &serr):
		fmt.Fprintln(os.Stderr, "Syntax error:", serr.Msg)
		log.Debug("syntax error", slog.Any("error", err))

	default:
		log.Error("run failed", slog.Any("error", err)) // slog uses LogValue()
	}

	os.Exit(1)
}
