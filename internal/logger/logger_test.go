package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("DOCASSIST_CONFIG_HOME", "")
	t.Setenv("DOCASSIST_LOG_FILE", "")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if want := filepath.Join(dir, "xdg", "docassist", "docassist.log"); got != want {
		t.Fatalf("xdg path = %q, want %q", got, want)
	}

	t.Setenv("DOCASSIST_CONFIG_HOME", filepath.Join(dir, "cfg"))
	if got, _ := Path(); got != filepath.Join(dir, "cfg", "docassist.log") {
		t.Fatalf("config home path = %q", got)
	}

	t.Setenv("DOCASSIST_LOG_FILE", filepath.Join(dir, "explicit.log"))
	if got, _ := Path(); got != filepath.Join(dir, "explicit.log") {
		t.Fatalf("explicit path = %q", got)
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "out.log")
	t.Setenv("DOCASSIST_LOG_FILE", path)

	if err := Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("document saved", "id", "abc")
	Debug("hidden at info level")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "document saved") || !strings.Contains(out, "abc") {
		t.Fatalf("log missing entry: %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("debug entry written at info level: %q", out)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Close()
	Info("dropped")
	Warn("dropped")
	Error("dropped")
}
