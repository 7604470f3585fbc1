// Package cli contains the command line interface for strux.
//
// # Usage
//
//	strux conv -f service.sx -o service.yaml
//	strux -f service.sx -o - --format json --select 'servers[0]'
//	strux fmt service.sx
//	strux repl
//
// conv is the default command, so its flags may follow the program name
// directly.
//
// # Configuration
//
// Flag defaults are read from a configuration file in the user config
// directory (for example ~/.config/strux/config) written in the strux
// language, and from config.json beside it. See [resolve] for the format;
// "strux init" writes the current settings there. Command-line flags
// override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o strux .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/strux/pprof)
package cli
