// Package profile wraps [github.com/pkg/profile] so that strux can record
// runtime profiles of large conversions.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof ./...
//	strux conv -f big.sx -o big.yaml --pprof-mode cpu --pprof-dir ./prof
//	go tool pprof -http=: ./prof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
