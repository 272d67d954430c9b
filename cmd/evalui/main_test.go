package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/hostkit"
)

const counterFixture = "../../pkg/parser/testdata/counter.yaml"

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--color", "off"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRenderOutline(t *testing.T) {
	stdout, stderr, code := runCLI(t, "render", "--entry", "CounterView", counterFixture)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Text text=Count: 0") || !strings.Contains(stdout, "Button title=Increment") {
		t.Fatalf("unexpected outline:\n%s", stdout)
	}
}

func TestRenderTapsButtons(t *testing.T) {
	for _, scheduler := range []string{"immediate", "manual", "serial"} {
		t.Run(scheduler, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, "render", "--entry", "CounterView", "--scheduler", scheduler,
				"--tap", "Increment", "--tap", "Increment", counterFixture)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			if !strings.Contains(stdout, "Text text=Count: 2") {
				t.Fatalf("expected two taps, got:\n%s", stdout)
			}
		})
	}
}

func TestRenderMsgpackDecodes(t *testing.T) {
	stdout, stderr, code := runCLI(t, "render", "--entry", "CounterView", "--output", "msgpack", counterFixture)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	nodes, err := hostkit.Decode([]byte(stdout))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text := hostkit.FindKind(nodes, "Text"); text == nil || text.Props["text"] != "Count: 0" {
		t.Fatalf("unexpected nodes:\n%s", hostkit.Outline(nodes))
	}
}

func TestRenderFromConfigFixtures(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(counterFixture)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	config := "entry: CounterView\noutput: yaml\nfixtures:\n  - " + abs + "\n  - " + abs + "\n"
	path := filepath.Join(dir, "evalui.yml")
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stdout, stderr, code := runCLI(t, "--config", path, "render")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if strings.Count(stdout, "== ") != 2 || !strings.Contains(stdout, "Count: 0") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestRenderReportsFailures(t *testing.T) {
	_, stderr, code := runCLI(t, "render", "--entry", "MissingView", counterFixture)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "MissingView") || !strings.Contains(stderr, "1 of 1 fixtures failed") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestRenderRejectsBadFlags(t *testing.T) {
	_, stderr, code := runCLI(t, "render", "--scheduler", "eager", counterFixture)
	if code != 1 || !strings.Contains(stderr, "scheduler") {
		t.Fatalf("expected scheduler validation error, got %d: %s", code, stderr)
	}
}

func TestDumpIR(t *testing.T) {
	stdout, stderr, code := runCLI(t, "dump-ir", counterFixture)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := decoded["body"]; !ok {
		t.Fatalf("expected body in %v", decoded)
	}

	stdout, stderr, code = runCLI(t, "dump-ir", "--format", "yaml", counterFixture)
	if code != 0 || !strings.Contains(stdout, "CounterView") {
		t.Fatalf("unexpected yaml dump (%d): %s%s", code, stdout, stderr)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, code := runCLI(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "evalui" || payload.Version != cliToolVersion {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestInspectListsProgramBindings(t *testing.T) {
	stdout, stderr, code := runCLI(t, "inspect", counterFixture)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if strings.TrimSpace(stdout) != "CounterView\tstruct CounterView" {
		t.Fatalf("unexpected bindings:\n%s", stdout)
	}

	stdout, _, code = runCLI(t, "inspect", "--all", counterFixture)
	if code != 0 || !strings.Contains(stdout, "CounterView\t") || strings.Count(stdout, "\n") < 2 {
		t.Fatalf("expected built-ins with --all, got:\n%s", stdout)
	}
}

func TestCatalogListsHostBuilders(t *testing.T) {
	stdout, _, code := runCLI(t, "catalog")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "views: ") || !strings.Contains(stdout, "Button") || !strings.Contains(stdout, "modifiers: ") || !strings.Contains(stdout, "padding") {
		t.Fatalf("unexpected catalog:\n%s", stdout)
	}
}
