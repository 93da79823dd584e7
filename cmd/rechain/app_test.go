package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/rechain/pkg/config"
	"github.com/Veraticus/rechain/pkg/display"
)

const fruit = "apple\nbanana\ncherry"

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	reporter := display.NewReporter(&stderr, name, false)
	code := run(context.Background(), args, &stdout, &stderr, reporter)
	return stdout.String(), stderr.String(), code
}

func TestRun_FileScenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		want    string
	}{
		{
			name:    "whole document filter prints the document once",
			content: fruit,
			args:    []string{"-e", "an"},
			want:    fruit + "\n",
		},
		{
			name:    "multiline splits a file into lines",
			content: fruit,
			args:    []string{"-m", "-e", "an"},
			want:    "banana\n",
		},
		{
			name:    "out group narrows a line",
			content: "id=42 ok",
			args:    []string{"--multiline", "--regex", `(?P<out>\d+)`},
			want:    "42\n",
		},
		{
			name:    "narrow then filter",
			content: "admin@example.com\nroot@example.com",
			args:    []string{"-m", "-e", `(?P<out>\w+)@`, "-e", "^a"},
			want:    "admin\n",
		},
		{
			name:    "no patterns prints verbatim",
			content: fruit,
			args:    []string{"-m"},
			want:    fruit + "\n",
		},
		{
			name:    "no match prints nothing",
			content: fruit,
			args:    []string{"-e", "kiwi"},
			want:    "",
		},
		{
			name:    "commas stay inside a pattern",
			content: "aaaa\nb",
			args:    []string{"-m", "-e", "(?P<out>a{1,2})"},
			want:    "aa\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, tt.content)
			stdout, stderr, code := runCLI(t, append(tt.args, path)...)

			if code != exitOK {
				t.Fatalf("exit code = %d, stderr = %q", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRun_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/file.txt":
			_, _ = fmt.Fprint(w, fruit)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("URLs split into lines by default", func(t *testing.T) {
		stdout, stderr, code := runCLI(t, "-e", "an", server.URL+"/file.txt")
		if code != exitOK {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
		if stdout != "banana\n" {
			t.Errorf("stdout = %q, want %q", stdout, "banana\n")
		}
	})

	t.Run("multiline keeps URL whole", func(t *testing.T) {
		stdout, stderr, code := runCLI(t, "-m", "-e", "an", server.URL+"/file.txt")
		if code != exitOK {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
		if stdout != fruit+"\n" {
			t.Errorf("stdout = %q, want %q", stdout, fruit+"\n")
		}
	})

	t.Run("non-success status is fatal", func(t *testing.T) {
		stdout, stderr, code := runCLI(t, server.URL+"/missing")
		if code != exitFailure {
			t.Fatalf("exit code = %d, want %d", code, exitFailure)
		}
		if stdout != "" {
			t.Errorf("stdout = %q, want empty", stdout)
		}
		if !strings.Contains(stderr, "404") {
			t.Errorf("stderr %q does not mention status", stderr)
		}
	})
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{
			name:       "bad regex fails before reading input",
			args:       []string{"-e", "(unclosed", "/definitely/not/here.txt"},
			wantCode:   exitFailure,
			wantStderr: "invalid regex #1",
		},
		{
			name:       "missing file",
			args:       []string{"-e", "x", "/definitely/not/here.txt"},
			wantCode:   exitFailure,
			wantStderr: "failed to read /definitely/not/here.txt",
		},
		{
			name:       "missing argument",
			args:       []string{"-e", "x"},
			wantCode:   exitUsage,
			wantStderr: "missing FILE_OR_URL",
		},
		{
			name:       "extra argument",
			args:       []string{"a.txt", "b.txt"},
			wantCode:   exitUsage,
			wantStderr: `unexpected argument "b.txt"`,
		},
		{
			name:       "unknown flag",
			args:       []string{"--bogus", "a.txt"},
			wantCode:   exitUsage,
			wantStderr: "unknown flag: --bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.dat")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'x'}, 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	_, stderr, code := runCLI(t, path)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr, "valid UTF-8") {
		t.Errorf("stderr %q does not mention UTF-8", stderr)
	}
}

func TestRun_PatternFile(t *testing.T) {
	input := writeInput(t, "admin@example.com\nroot@example.com")
	patterns := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(patterns, []byte("- '(?P<out>\\w+)@'\n"), 0o600); err != nil {
		t.Fatalf("failed to write patterns: %v", err)
	}

	stdout, stderr, code := runCLI(t, "-m", "-f", patterns, "-e", "^r", input)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "root\n" {
		t.Errorf("stdout = %q, want %q", stdout, "root\n")
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	stdout, _, code := runCLI(t, "--help")
	if code != exitOK {
		t.Errorf("--help exit code = %d", code)
	}
	for _, want := range []string{"Usage: rechain", "--regex", "--multiline", `"out"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output does not contain %q", want)
		}
	}

	stdout, _, code = runCLI(t, "--version")
	if code != exitOK {
		t.Errorf("--version exit code = %d", code)
	}
	if stdout != "rechain "+version+"\n" {
		t.Errorf("version output = %q", stdout)
	}
}

func TestRun_Verbose(t *testing.T) {
	path := writeInput(t, fruit)

	stdout, stderr, code := runCLI(t, "-v", "-e", "an", path)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != fruit+"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	for _, want := range []string{"compiled stage", "acquired input", "filter finished"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr does not contain %q", want)
		}
	}
}

func TestNewDependencies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Target = "input.txt"
	cfg.Patterns = []string{`(?P<out>\d+)`, `4`}

	var stdout, stderr bytes.Buffer
	deps, err := NewDependencies(cfg, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Config != cfg {
		t.Error("expected config to be set")
	}
	if deps.Logger == nil {
		t.Error("expected logger to be created")
	}
	if deps.Chain == nil || deps.Chain.Len() != 2 {
		t.Error("expected two-stage chain")
	}
	if deps.Source == nil {
		t.Error("expected source to be created")
	}
	if deps.Runner == nil {
		t.Error("expected runner to be created")
	}
}

func TestNewDependencies_InvalidPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Target = "input.txt"
	cfg.Patterns = []string{`[`}

	var stdout, stderr bytes.Buffer
	if _, err := NewDependencies(cfg, &stdout, &stderr); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestApplication_RunCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, fruit)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{server.URL}, &stdout, &stderr, display.NewReporter(&stderr, name, false))
	if code != exitInterrupt {
		t.Errorf("exit code = %d, want %d", code, exitInterrupt)
	}
}

// cancelAfterWriter cancels the run once it has accepted a number of writes,
// the way an interrupt arriving mid-output would.
type cancelAfterWriter struct {
	bytes.Buffer
	after  int
	writes int
	cancel context.CancelFunc
}

func (w *cancelAfterWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes == w.after {
		w.cancel()
	}
	return w.Buffer.Write(p)
}

func TestRun_InterruptDuringLineOutput(t *testing.T) {
	path := writeInput(t, "apple\nbanana\ncherry\nmango\npeach")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stdout := &cancelAfterWriter{after: 2, cancel: cancel}

	var stderr bytes.Buffer
	code := run(ctx, []string{"-m", "-e", "a", path}, stdout, &stderr, display.NewReporter(&stderr, name, false))

	if code != exitInterrupt {
		t.Fatalf("exit code = %d, want %d (stderr %q)", code, exitInterrupt, stderr.String())
	}
	if stdout.String() != "apple\nbanana\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "apple\nbanana\n")
	}
	if !strings.Contains(stderr.String(), "context canceled") {
		t.Errorf("stderr %q does not report cancellation", stderr.String())
	}
}
