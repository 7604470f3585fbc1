package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/strux/lang"
)

type initCLI struct {
	LogLevel  string           `default:"info"`
	LogPretty bool             `default:"true"`
	Indent    int              `default:"4"`
	Tags      []string         `default:"a,b"`
	Empty     string           `default:""`
	Secret    string           `default:"x"     hidden:""`
	Version   kong.VersionFlag `short:"V"`

	Init Init `cmd:""`
}

func runInit(t *testing.T, confPath string, args ...string) error {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Name("strux"), kong.Vars{
		ConfigIdentifier: confPath,
	})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return cli.Init.Run(WithContext(context.Background(), ktx))
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{name: "create_new_config"},
		{
			name: "overwrite_existing_with_force",
			args: []string{"--force"},
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "strux", "config")

			if tt.setup != nil {
				if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
					t.Fatal(err)
				}

				tt.setup(t, confPath)
			}

			err := runInit(t, confPath, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				data, _ := os.ReadFile(confPath)
				if string(data) != "existing content" {
					t.Errorf("existing file modified: %q", data)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			checkConfig(t, confPath)
		})
	}
}

func checkConfig(t *testing.T, confPath string) {
	t.Helper()

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(data), "--[[ strux configuration") {
		t.Errorf("missing header:\n%s", data)
	}

	got, err := lang.ParseString(context.Background(), string(data))
	if err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, data)
	}

	want := lang.NewStruct(
		&lang.Field{Key: "log_level", Value: lang.NewText("info")},
		&lang.Field{Key: "log_pretty", Value: lang.NewText("true")},
		&lang.Field{Key: "indent", Value: lang.NewNumber(4)},
		&lang.Field{Key: "tags", Value: lang.NewList(lang.NewText("a"), lang.NewText("b"))},
	)
	if !got.Equal(want) {
		t.Errorf("config = %#v, want %#v", got.Native(), want.Native())
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *lang.Value
	}{
		{"nil", nil, nil},
		{"empty_string", "", nil},
		{"empty_slice", []string{}, nil},
		{"bool", false, lang.NewText("false")},
		{"int", 3, lang.NewNumber(3)},
		{"negative", -3, lang.NewText("-3")},
		{"float", 0.5, lang.NewNumber(0.5)},
		{"string", "RFC3339", lang.NewText("RFC3339")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flagValue(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("flagValue(%v) = %#v, want %#v", tt.in, got.Native(), tt.want.Native())
			}
		})
	}
}
