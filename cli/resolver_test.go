package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%s): %v", name, err)
	}

	return val
}

func TestResolve(t *testing.T) {
	src := `
--[[ settings ]]
set level = 'debug'
struct {
  log_level = |level|,
  log_pretty = 'false',
  indent = 4.0,
  ratio = .25,
  source = (list 'a.sx' 'b.sx'),
  nested = struct { x = 1.0 },
  matrix = (list (list 1.0)),
}`

	r, err := resolve(context.Background())(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log_level", "debug"},
		{"log-level", "debug"},
		{"log-pretty", "false"},
		{"indent", "4"},
		{"ratio", "0.25"},
		{"source", "a.sx,b.sx"},
		{"nested", nil},
		{"matrix", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := resolveFlag(t, r, tt.flag); got != tt.want {
				t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_Ignored(t *testing.T) {
	tests := map[string]string{
		"syntax_error": "struct { log_level = }",
		"not_a_struct": "(list 'debug')",
		"no_result":    "set a = 1.0",
		"empty":        "",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := resolve(context.Background())(strings.NewReader(src))
			if err != nil {
				t.Fatalf("loader error: %v", err)
			}

			if got := resolveFlag(t, r, "log-level"); got != nil {
				t.Errorf("Resolve(log-level) = %#v, want nil", got)
			}
		})
	}
}

func TestResolve_KongDefaults(t *testing.T) {
	var cli struct {
		LogLevel string   `default:"info"`
		Indent   int      `default:"2"`
		Sort     bool     `default:"false"`
		Source   []string `default:"-"`
	}

	r, err := resolve(context.Background())(strings.NewReader(
		`struct { log_level = 'warn', indent = 8.0, sort = 'true', source = (list 'x' 'y') }`,
	))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--indent=3"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "warn" || cli.Indent != 3 || !cli.Sort {
		t.Errorf("parsed %+v", cli)
	}

	if len(cli.Source) != 2 || cli.Source[0] != "x" || cli.Source[1] != "y" {
		t.Errorf("Source = %q, want [x y]", cli.Source)
	}
}
