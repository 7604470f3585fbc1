// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is built once from functional options and never changes; use
// [Logger.Wrap] to derive one with different settings and [Logger.With] to
// attach attributes.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//	logger.Info("converted", slog.String("output", path))
//
// Attributes are [slog.Attr] values, so errors implementing [slog.LogValuer]
// render as structured groups.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-token parser
// output. Messages below the configured level are discarded.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. Text output is colorized when
// [WithPretty] is enabled and the destination is a terminal.
//
// # Package-Level Logger
//
// Functions such as [Info] and [DebugContext] write through a package-level
// logger that writes to standard error until replaced with [SetDefault] or
// reconfigured with [Config].
package log
