package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"buzz/internal/config"

	"go.uber.org/zap"
)

func TestInitialize_DisabledWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(CloseAll)

	if err := Initialize(dir, config.LoggingConfig{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	Auth("should be dropped")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("logs directory should not be created in production mode")
	}
	if Path() != "" {
		t.Fatalf("expected no log path, got %s", Path())
	}
}

func TestInitialize_DebugModeWritesCategorisedJSON(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseAll)

	err := Initialize(dir, config.LoggingConfig{DebugMode: true, Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Auth("code requested", zap.String("op", "request_code"))
	AuthDebug("request traced")
	CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{`"category":"auth"`, `"msg":"code requested"`, `"op":"request_code"`, `"msg":"request traced"`} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %s:\n%s", want, content)
		}
	}
}

func TestGet_DisabledCategoryIsNoop(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(CloseAll)

	err := Initialize(dir, config.LoggingConfig{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"ui": false},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsCategoryEnabled(CategoryUI) {
		t.Fatal("ui should be disabled")
	}
	Get(CategoryUI).Info("hidden ui line")
	Get(CategoryAuth).Debug("below level")
	Boot("visible boot line")
	CloseAll()

	data, _ := os.ReadFile(filepath.Join(dir, LogFileName))
	content := string(data)
	if strings.Contains(content, "hidden ui line") {
		t.Error("disabled category was written")
	}
	if strings.Contains(content, "below level") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(content, "visible boot line") {
		t.Error("enabled category missing")
	}
}

func TestGet_CachesPerCategory(t *testing.T) {
	t.Cleanup(CloseAll)
	if err := Initialize(t.TempDir(), config.LoggingConfig{DebugMode: true}); err != nil {
		t.Fatal(err)
	}
	if Get(CategoryAuth) != Get(CategoryAuth) {
		t.Fatal("expected cached logger")
	}
}

func TestInitialize_DebugModeRequiresDir(t *testing.T) {
	t.Cleanup(CloseAll)
	if err := Initialize("", config.LoggingConfig{DebugMode: true}); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
