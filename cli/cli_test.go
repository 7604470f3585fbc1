package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/strux/pkg"
)

// isolate points the per-user directories at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	return dir
}

func noExit(t *testing.T) func(int) {
	return func(code int) { t.Fatalf("unexpected exit(%d)", code) }
}

func TestRun_ConvWithConfig(t *testing.T) {
	dir := isolate(t)

	in := filepath.Join(dir, "in.sx")
	out := filepath.Join(dir, "out.json")

	if err := os.WriteFile(in, []byte(`struct { b = 1.0, a = 'x' }`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := mkdirAllRequired(); err != nil {
		t.Fatal(err)
	}

	conf := `struct { indent = 0.0, sort_keys = 'true', log_level = 'error' }`
	if err := os.WriteFile(configPath(baseConfig), []byte(conf), 0o600); err != nil {
		t.Fatal(err)
	}

	// conv is the default command.
	if err := Run(context.Background(), noExit(t), "-f", in, "-o", out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if want := `{"a":"x","b":1}` + "\n"; string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}

	// Flags override the configuration file.
	if err := Run(context.Background(), noExit(t), "conv", "-f", in, "-o", out, "--indent=2"); err != nil {
		t.Fatal(err)
	}

	data, err = os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if want := "{\n  \"a\": \"x\",\n  \"b\": 1\n}\n"; string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestRun_Init(t *testing.T) {
	isolate(t)

	if err := Run(context.Background(), noExit(t), "--log-level=warn", "init"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(pkg.ConfigDir(), baseConfig)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	r, err := resolve(context.Background())(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-level"); got != "warn" {
		t.Errorf("log-level in generated config = %#v, want warn\n%s", got, data)
	}

	if err := Run(context.Background(), noExit(t), "init"); err == nil {
		t.Error("second init without --force succeeded")
	}

	if err := Run(context.Background(), noExit(t), "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestLogScan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"conv", "--log-level", "debug", "--log-format=json",
		"--no-log-pretty", "--log-caller=true", "--log-time-layout", "kitchen",
		"--", "--log-level=error",
	})

	if f.Level != "debug" || f.Format != "json" || f.Pretty || !f.Caller || f.TimeLayout != "kitchen" {
		t.Errorf("scan() = %+v", f)
	}
}

func TestBoolFlag(t *testing.T) {
	tests := []struct {
		name, value string
		assigned    bool
		want, ok    bool
	}{
		{"--log-caller", "", false, true, true},
		{"--no-log-caller", "", false, false, true},
		{"--log-caller", "false", true, false, true},
		{"--no-log-caller", "false", true, true, true},
		{"--log-caller", "maybe", true, false, false},
	}

	for _, tt := range tests {
		got, ok := boolFlag(tt.name, tt.value, tt.assigned)
		if got != tt.want || ok != tt.ok {
			t.Errorf("boolFlag(%q, %q, %v) = (%v, %v), want (%v, %v)",
				tt.name, tt.value, tt.assigned, got, ok, tt.want, tt.ok)
		}
	}
}
