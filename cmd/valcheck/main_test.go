package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"mercator-hq/valcheck/pkg/cli"
)

// run executes the command line and returns its exit code and output.
func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return cli.ExitCode(err), out.String(), errOut.String()
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "unresolved lookup key fails",
			args:       []string{"analyze", "--color", "never", "testdata/orders.yaml"},
			wantCode:   cli.ExitFindings,
			wantStdout: "orders",
		},
		{
			name:       "parse error",
			args:       []string{"analyze", "testdata/broken.yaml"},
			wantCode:   cli.ExitUsage,
			wantStderr: "broken.yaml",
		},
		{
			name:     "missing file",
			args:     []string{"analyze", "testdata/missing.yaml"},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "unknown format",
			args:     []string{"analyze", "--format", "xml", "testdata/orders.yaml"},
			wantCode: cli.ExitUsage,
		},
		{
			name:     "no arguments",
			args:     []string{"analyze"},
			wantCode: cli.ExitUsage,
		},
		{
			name:       "sarif",
			args:       []string{"analyze", "--format", "sarif", "testdata/orders.yaml"},
			wantCode:   cli.ExitFindings,
			wantStdout: "2.1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstdout: %s\nstderr: %s", code, tt.wantCode, stdout, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}

func TestAnalyze_ToolConfigAndOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")
	textfile := filepath.Join(t.TempDir(), "valcheck.prom")

	code, _, stderr := run(t, "--config", "testdata/tool.yaml",
		"analyze", "-o", out, "--metrics-textfile", textfile, "testdata/orders.yaml")
	if code != cli.ExitFindings {
		t.Fatalf("exit code = %d, want %d (stderr %s)", code, cli.ExitFindings, stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var rep struct {
		Cultures    []string `json:"cultures"`
		Diagnostics []struct {
			Severity string `json:"severity"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, data)
	}
	if strings.Join(rep.Cultures, ",") != "en,fr" {
		t.Errorf("cultures = %v, want [en fr]", rep.Cultures)
	}
	for _, d := range rep.Diagnostics {
		if d.Severity == "info" {
			t.Errorf("min_severity warning let an info diagnostic through")
		}
	}

	metricsText, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("reading metrics textfile: %v", err)
	}
	if !strings.Contains(string(metricsText), `valcheck_analysis_runs_total{status="errors"} 1`) {
		t.Errorf("metrics textfile missing run count:\n%s", metricsText)
	}
}

func TestQuery(t *testing.T) {
	code, stdout, stderr := run(t, "query", "--field", "Code", "--severity", "error", "--format", "json", "testdata/orders.yaml")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, want 0 (stderr %s)", code, stderr)
	}

	var got []struct {
		File    string `json:"file"`
		Count   int    `json:"count"`
		Matches []struct {
			Severity string `json:"severity"`
		} `json:"matches"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].Count == 0 {
		t.Fatalf("query matches = %+v, want errors for Code", got)
	}
	for _, m := range got[0].Matches {
		if m.Severity != "error" {
			t.Errorf("match severity = %q, want error", m.Severity)
		}
	}

	code, _, _ = run(t, "query", "--severity", "fatal", "testdata/orders.yaml")
	if code != cli.ExitUsage {
		t.Errorf("invalid severity exit code = %d, want %d", code, cli.ExitUsage)
	}
}

func TestQuery_CountAndFirst(t *testing.T) {
	code, stdout, _ := run(t, "query", "--severity", "error", "--first", "testdata/orders.yaml")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "orders.yaml: 1 match(es)") {
		t.Errorf("--first output:\n%s", stdout)
	}

	_, stdout, _ = run(t, "query", "--kind", "field", "--count", "testdata/orders.yaml")
	if !strings.Contains(stdout, "orders.yaml: 2 match(es)") {
		t.Errorf("--count output:\n%s", stdout)
	}
	if strings.Contains(stdout, "\n  ") {
		t.Errorf("--count printed matches:\n%s", stdout)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "--config", "testdata/missing.yaml", "version")
	if code != cli.ExitOK {
		t.Fatalf("version should not load configuration, exit code = %d", code)
	}
	if !strings.Contains(stdout, "valcheck "+Version) {
		t.Errorf("version output = %q", stdout)
	}

	_, stdout, _ = run(t, "version", "--format", "json")
	var info versionInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("version JSON: %v", err)
	}
	if info.Version != Version || info.GoVersion == "" {
		t.Errorf("version info = %+v", info)
	}
}

func TestConditions(t *testing.T) {
	code, stdout, _ := run(t, "conditions")
	if code != cli.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"range", "regExp", "all", "not"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("conditions output missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	code, stdout, _ := run(t, "--config", "testdata/tool.yaml", "config", "show")
	if code != cli.ExitOK {
		t.Fatalf("config show exit code = %d", code)
	}
	for _, want := range []string{"analysis:", "id: fr", "format: json"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}

	code, stdout, _ = run(t, "config", "validate")
	if code != cli.ExitOK || !strings.Contains(stdout, "built-in defaults") {
		t.Errorf("config validate = %d %q", code, stdout)
	}

	code, _, _ = run(t, "--config", "testdata/missing.yaml", "config", "validate")
	if code != cli.ExitUsage {
		t.Errorf("missing config exit code = %d", code)
	}
}

func TestCompletion(t *testing.T) {
	code, stdout, _ := run(t, "completion", "bash")
	if code != cli.ExitOK || !strings.Contains(stdout, "valcheck") {
		t.Errorf("completion bash = %d, %d bytes", code, len(stdout))
	}
}
