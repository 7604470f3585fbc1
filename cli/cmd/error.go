package cmd

import "github.com/ardnew/strux/lang"

var (
	ErrOpenSource  = lang.NewError("open source")
	ErrNoSource    = lang.NewError("no readable source")
	ErrWriteOutput = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrWatch       = lang.NewError("watch sources")
	ErrWatchStdin  = lang.NewError("cannot watch standard input")
)
