package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "strux" {
		t.Errorf("expected Name %q, got %q", "strux", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("expected Version %q, got %q", want, Version())
	}

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version()) {
		t.Errorf("Version %q is not semantic", Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("expected at least one author")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestUserDirs(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))

	if got, want := ConfigDir(), filepath.Join(tmp, "config", Prefix()); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	if got, want := CacheDir(), filepath.Join(tmp, "cache", Prefix()); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}
