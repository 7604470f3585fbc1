package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name from ctx, or fallback.
func kongVar(ctx context.Context, name, fallback string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[name]; ok && v != "" {
			return v
		}
	}

	return fallback
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is an ordered set of inputs read as a single document.
type Source struct {
	paths []string
	stdin io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// NewSource resolves the given paths into a [Source].
//
// Paths naming the same file (through symlinks or relative forms) are kept
// once, at their first position. Every "-", and any path naming the file
// behind os.Stdin, selects standard input, which is read after all regular
// files.
func NewSource(paths ...string) (*Source, error) {
	var src Source

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, haveStdinKey := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			src.stdin = os.Stdin

			continue
		}

		resolved, key, err := resolveFile(path)
		if err != nil {
			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if haveStdinKey && key == stdinKey {
			src.stdin = os.Stdin

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		src.paths = append(src.paths, resolved)
	}

	if src.IsZero() {
		return nil, ErrNoSource.With(slog.Any("paths", paths))
	}

	return &src, nil
}

// IsZero reports whether s has no inputs.
func (s *Source) IsZero() bool { return s == nil || (len(s.paths) == 0 && s.stdin == nil) }

// Paths returns the resolved regular files of s in reading order.
func (s *Source) Paths() []string { return append([]string(nil), s.paths...) }

// Stdin reports whether s reads standard input.
func (s *Source) Stdin() bool { return s.stdin != nil }

// Open returns a reader over every input of s, each followed by a newline so
// that tokens never run together across file boundaries.
func (s *Source) Open() (io.ReadCloser, error) {
	var (
		readers []io.Reader
		closers []io.Closer
	)

	for _, path := range s.paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll(closers)

			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		readers = append(readers, f, strings.NewReader("\n"))
		closers = append(closers, f)
	}

	if s.stdin != nil {
		readers = append(readers, s.stdin)
	}

	return &multiReadCloser{Reader: io.MultiReader(readers...), closers: closers}, nil
}

// Parse reads and parses the document held by s.
func (s *Source) Parse(ctx context.Context) (*lang.Value, error) {
	r, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	val, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "parsed source",
		slog.Any("paths", s.paths),
		slog.Bool("stdin", s.stdin != nil),
		slog.Bool("result", val != nil),
	)

	return val, nil
}

// ReadAll returns the concatenated text of s.
func (s *Source) ReadAll() (string, error) {
	r, err := s.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

type multiReadCloser struct {
	io.Reader

	closers []io.Closer
}

func (m *multiReadCloser) Close() error { return closeAll(m.closers) }

func closeAll(closers []io.Closer) (err error) {
	for _, c := range closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// resolveFile returns the absolute, symlink-free form of path and its
// identity.
func resolveFile(path string) (string, fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if !ok {
		// Without inode data, identify the file by its resolved path.
		return resolved, fileKey{ino: xxh3.HashString(resolved)}, nil
	}

	return resolved, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
