package driver

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Entry != "ContentView" || cfg.Scheduler != SchedulerImmediate || cfg.Output != OutputOutline {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.Level())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "evalui.yml", `
entry: CounterView
log_level: DEBUG
scheduler: manual
aliases:
  simple_identifier: identifier
fixtures:
  - "fixtures/*.yaml"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Entry != "CounterView" || cfg.Scheduler != SchedulerManual || cfg.Level() != slog.LevelDebug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Output != OutputOutline {
		t.Fatalf("expected default output, got %q", cfg.Output)
	}
	if cfg.Aliases["simple_identifier"] != "identifier" {
		t.Fatalf("unexpected aliases %v", cfg.Aliases)
	}

	if err := os.MkdirAll(filepath.Join(dir, "fixtures"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "fixtures"), "a.yaml", "kind: source_file\n")
	paths, err := cfg.FixturePaths()
	if err != nil || len(paths) != 1 || filepath.Base(paths[0]) != "a.yaml" {
		t.Fatalf("unexpected fixture paths %v (%v)", paths, err)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "evalui.toml", `
entry = "SettingsView"
scheduler = "serial"
output = "msgpack"

[aliases]
value_argument = "argument"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Entry != "SettingsView" || cfg.Scheduler != SchedulerSerial || cfg.Output != OutputMsgpack {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Aliases["value_argument"] != "argument" {
		t.Fatalf("unexpected aliases %v", cfg.Aliases)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name     string
		contents string
	}{
		{"evalui.yml", "entry: A\ncolour: blue\n"},
		{"evalui.toml", "entry = \"A\"\ncolour = \"blue\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, dir, tc.name, tc.contents))
			if err == nil || !strings.Contains(err.Error(), "colour") {
				t.Fatalf("expected unknown key error, got %v", err)
			}
		})
	}
}

func TestLoadConfigAggregatesValidationIssues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "evalui.yml", `
log_level: loud
scheduler: eager
output: json
fixtures: [""]
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", verr.Issues)
	}
	if !strings.HasPrefix(err.Error(), "config validation failed:") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, "evalui.toml", "entry = \"A\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("expected config to be found, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
