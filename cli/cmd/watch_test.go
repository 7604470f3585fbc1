package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ardnew/strux/lang"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}

		time.Sleep(10 * time.Millisecond)
	}
}

func TestConvRun_Watch(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.sx", "struct { v = 1.0 }")
	out := filepath.Join(dir, "out.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := Conv{Output: out, Source: []string{in}, Watch: true}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	read := func() string {
		data, _ := os.ReadFile(out)

		return string(data)
	}

	waitFor(t, "initial conversion", func() bool { return read() == `{"v":1}`+"\n" })

	// A broken edit is logged and leaves the last good output in place.
	writeFile(t, dir, "in.sx", "struct { v = ")
	writeFile(t, dir, "unrelated.sx", "struct { v = 3.0 }")
	time.Sleep(100 * time.Millisecond)

	if got := read(); got != `{"v":1}`+"\n" {
		t.Fatalf("output after broken edit = %q", got)
	}

	// Replace by rename, as many editors save.
	tmp := writeFile(t, dir, "in.sx.tmp", "struct { v = 2.0 }")
	if err := os.Rename(tmp, in); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "reconversion", func() bool { return read() == `{"v":2}`+"\n" })

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v after cancel, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_ClearsParseCache(t *testing.T) {
	lang.ClearCache()
	t.Cleanup(lang.ClearCache)

	dir := t.TempDir()
	in := writeFile(t, dir, "in.sx", "1.0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		runs   atomic.Int32
		cached atomic.Int32
	)

	run := func() error {
		// Entries left by earlier runs must be gone before each parse.
		cached.Store(int32(lang.CacheLen()))

		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}

		_, err = lang.ParseReader(ctx, strings.NewReader(string(data)))
		runs.Add(1)

		return err
	}

	done := make(chan error, 1)
	go func() { done <- watch(ctx, []string{in}, run) }()

	waitFor(t, "initial run", func() bool { return runs.Load() >= 1 })

	for i, src := range []string{"2.0", "3.0", "4.0"} {
		writeFile(t, dir, "in.sx", src)

		want := int32(i + 2)
		waitFor(t, "run after "+src, func() bool { return runs.Load() >= want })

		if n := cached.Load(); n != 0 {
			t.Fatalf("run %d started with %d cached entries, want 0", want, n)
		}
	}

	if n := lang.CacheLen(); n > 1 {
		t.Errorf("CacheLen() = %d after watch runs, want at most 1", n)
	}

	cancel()
	<-done
}
