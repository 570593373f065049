package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	relaxerrors "github.com/relaxui/relax/internal/errors"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&globalFlags{})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoCommand(t *testing.T) {
	out, err := execute(t, "", "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	for _, want := range []string{"## 0. mount", "## 1. add Buy milk", "Walk the dog", "Replayed 10 steps"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestDemoCommandScriptFromStdin(t *testing.T) {
	out, err := execute(t, "toggle 1\nclear\n", "demo", "--items", "a,b", "--script", "-")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "## 2. clear") || !strings.Contains(out, "1 left") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDemoCommandBadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("jump\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "demo", "--script", path); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("demo with a bad script = %v", err)
	}
}

func TestInvalidLogFlag(t *testing.T) {
	if _, err := execute(t, "", "--log-level", "loud", "demo"); err == nil {
		t.Error("invalid log level accepted")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}

func TestReportError(t *testing.T) {
	relaxerrors.DisableColors()
	defer relaxerrors.EnableColors()
	coded := relaxerrors.New(relaxerrors.CodeConfigInvalid).WithDetail(`log.level "loud"`)

	var buf bytes.Buffer
	reportError(&buf, coded, false)
	if !strings.Contains(buf.String(), "E020") || !strings.Contains(buf.String(), `log.level "loud"`) {
		t.Errorf("text report = %q", buf.String())
	}

	buf.Reset()
	reportError(&buf, coded, true)
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON report %q: %v", buf.String(), err)
	}
	if decoded["code"] != "E020" {
		t.Errorf("code = %v", decoded["code"])
	}

	buf.Reset()
	reportError(&buf, errors.New("plain"), false)
	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("plain report = %q", buf.String())
	}
}
