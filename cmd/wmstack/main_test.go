package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/wmstack/internal/ipc"
	"github.com/1broseidon/wmstack/internal/runtimepath"
	"github.com/1broseidon/wmstack/internal/scenario"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlan(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
windows:
  - name: editor
  - name: find
    type: dialog
    transient_for: editor
  - name: osd
    ontop: true
panels:
  - name: bar
`)
	out, err := execute(t, "plan", path)
	if err != nil {
		t.Fatalf("plan error: %v", err)
	}

	// Rows are "<position> <id> <layer> <name>"; the title and summary
	// lines do not start with a position.
	var order []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		order = append(order, fields[3])
	}
	want := []string{"bar", "editor", "find", "osd"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v\n%s", order, want, out)
	}
	if !strings.Contains(out, "3 stacked, 1 refreshes, 4 commands") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestPlan_JSON(t *testing.T) {
	path := writeFile(t, "scenario.yaml", "windows:\n  - name: a\n  - name: b\n    ontop: true\npanels:\n  - name: bar\n")
	out, err := execute(t, "plan", "--json", path)
	if err != nil {
		t.Fatalf("plan error: %v", err)
	}

	var res scenario.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("plan output is not JSON: %v\n%s", err, out)
	}
	var got []string
	for _, p := range res.Order {
		got = append(got, p.Name+"/"+p.Layer)
	}
	want := []string{"bar/panel", "a/normal", "b/ontop"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPlan_InvalidScenario(t *testing.T) {
	path := writeFile(t, "scenario.yaml", "windows:\n  - name: a\n    type: popup\n")
	if _, err := execute(t, "plan", path); err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("plan error = %v, want unknown type", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := writeFile(t, "config.yaml", "log_level: debug\nreconcile_interval: 30s\n")

	out, err := execute(t, "--config", path, "config", "validate")
	if err != nil || strings.TrimSpace(out) != "config: ok" {
		t.Fatalf("validate = %q, %v", out, err)
	}

	out, err = execute(t, "--config", path, "config", "print")
	if err != nil {
		t.Fatalf("print error: %v", err)
	}
	if !strings.Contains(out, "# file: "+path) || !strings.Contains(out, "log_level: debug") {
		t.Errorf("print output:\n%s", out)
	}

	out, err = execute(t, "--config", path, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("print --defaults error: %v", err)
	}
	if !strings.Contains(out, "log_level: info") || strings.Contains(out, "# file:") {
		t.Errorf("print --defaults output:\n%s", out)
	}

	out, err = execute(t, "--config", path, "config", "explain", "log_level")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	if !strings.Contains(out, "source: "+path+":1:") || !strings.Contains(out, "debug") {
		t.Errorf("explain output:\n%s", out)
	}

	out, err = execute(t, "--config", path, "config", "explain", "ipc.enabled")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	if !strings.Contains(out, "source: default") {
		t.Errorf("explain output:\n%s", out)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := writeFile(t, "config.yaml", "log_level: loud\n")
	if _, err := execute(t, "--config", path, "config", "validate"); err == nil {
		t.Fatal("validate accepted an invalid log level")
	}
}

func TestStackRaise_RejectsBadID(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "none.sock"))
	for _, id := range []string{"zero", "0"} {
		if _, err := execute(t, "stack", "raise", id); err == nil || !strings.Contains(err.Error(), "invalid window id") {
			t.Errorf("raise %q error = %v, want invalid window id", id, err)
		}
	}
}

func TestStatus_NoDaemon(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "none.sock"))
	if _, err := execute(t, "status"); err == nil {
		t.Fatal("status succeeded without a daemon")
	}
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	printStatus(newPrinter(&out), &ipc.StatusData{
		SessionID:     "01ABC",
		StartedAt:     now.Add(-3 * time.Minute),
		Windows:       4,
		Panels:        1,
		Refreshes:     1234,
		LastCommands:  1,
		DaemonRunning: true,
	}, now)

	for _, want := range []string{"running", "01ABC", "3 minutes ago", "1,234", "1 command\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintStack(t *testing.T) {
	var out bytes.Buffer
	printStack(newPrinter(&out), &ipc.StackData{
		Windows: []ipc.WindowEntry{
			{ID: 0x400001, Layer: "normal", Class: "xterm", Title: "shell"},
			{ID: 0x400002, Layer: "ignore", TransientFor: 0x400001},
		},
		Panels: []ipc.PanelEntry{{ID: 0x500001, OnTop: true, Visible: false}},
		Dirty:  true,
	})

	s := out.String()
	for _, want := range []string{
		`0x400001`,
		`xterm "shell"`,
		"transient for 0x400001",
		"screen 0, ontop, hidden",
		"restack pending",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("stack output missing %q:\n%s", want, s)
		}
	}
	if strings.Index(s, "0x400001") > strings.Index(s, "0x400002") {
		t.Errorf("windows not bottom to top:\n%s", s)
	}
}
