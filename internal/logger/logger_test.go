package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// initFile routes logging to a fresh file in a temp dir and returns its path.
func initFile(t *testing.T, level string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexfractal.log")
	opts := FileOptions(level, path)
	opts.Compress = false
	if err := Init(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	opts := FileOptions("debug", path)
	opts.MaxSizeMB = 1 // smallest size lumberjack accepts
	opts.MaxBackups = 2
	opts.Compress = false
	if err := Init(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	// ~250 bytes per line, well over 1MB in total.
	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("joint %d: %s", i, payload)
	}
	Sync()

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "rotate.log" || !strings.HasPrefix(name, "rotate-") {
			continue
		}
		rotated++
		// rotate-YYYY-MM-DDTHH-MM-SS.mmm.log
		if !strings.Contains(name, "-20") || !strings.HasSuffix(name, ".log") {
			t.Errorf("unexpected rotated file name %s", name)
		}
	}
	if rotated == 0 {
		t.Errorf("expected at least one rotated file, found %d entries", len(entries))
	}
}

func TestLevels(t *testing.T) {
	all := []string{"DEBUG", "INFO", "WARN", "ERROR"}

	for i, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			path := initFile(t, level)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, path)
			for j, name := range all {
				present := strings.Contains(content, name)
				if want := j >= i; present != want {
					t.Errorf("level %s: %s present=%v, want %v", level, name, present, want)
				}
			}
		})
	}
}

func TestEmptyLevelMeansInfo(t *testing.T) {
	path := initFile(t, "")

	Debug("hidden")
	Info("shown")

	content := readLog(t, path)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Errorf("expected info level output, got %q", content)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	before := Log
	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if Log != before {
		t.Error("a failed Init must keep the previous logger")
	}
}

func TestFileOptions(t *testing.T) {
	opts := FileOptions("warn", "/tmp/test.log")

	if opts.File != "/tmp/test.log" || opts.Level != "warn" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.MaxSizeMB != 50 || opts.MaxBackups != 3 || opts.MaxAgeDays != 7 || !opts.Compress {
		t.Errorf("unexpected rotation policy %+v", opts)
	}
	if opts.Console {
		t.Error("file options should not log to the console")
	}
}

func TestNamedBeforeInit(t *testing.T) {
	Log = zap.NewNop()
	Sugar = Log.Sugar()
	// Discarded without panicking.
	Named("regenerate").Info("dropped")
	Info("dropped")
	Sync()
}

func TestNamedComponent(t *testing.T) {
	path := initFile(t, "info")

	Named("regenerate").Info("fractal regenerated")

	content := readLog(t, path)
	if !strings.Contains(content, "regenerate") {
		t.Errorf("expected component name in log output, got %q", content)
	}
}
