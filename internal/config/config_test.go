package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tododay", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "tododay", DefaultDBName) {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Log.Path != filepath.Join(dir, "tododay", DefaultLogName) {
		t.Fatalf("unexpected log path %q", cfg.Log.Path)
	}
	if cfg.Keys.Quit != "q" || cfg.Keys.SaveNotes != "ctrl+s" {
		t.Fatalf("unexpected default keys %#v", cfg.Keys)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate() error = %v", err)
	}
	if again != cfg {
		t.Fatalf("expected written defaults to round trip, got %#v", again)
	}
}

func TestLoadOrCreateOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
db_path = "/custom/days.db"

[log]
level = "debug"
path = ""

[keys]
toggle = " "
stats = "S"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if cfg.DBPath != "/custom/days.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Path != "" {
		t.Fatalf("unexpected log config %#v", cfg.Log)
	}
	if cfg.Keys.Toggle != " " || cfg.Keys.Stats != "S" {
		t.Fatalf("expected key overrides, got %#v", cfg.Keys)
	}
	if cfg.Keys.Down != "j" {
		t.Fatalf("expected untouched keys to keep defaults, got %q", cfg.Keys.Down)
	}
}

func TestLoadOrCreateResolvesRelativeDBPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`db_path = "data/days.db"`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "data", "days.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
}

func TestLoadOrCreateRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"empty db path": `db_path = "  "`,
		"bad log level": "[log]\nlevel = \"loud\"",
		"empty key":     "[keys]\nquit = \"\"",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := LoadOrCreate(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadOrCreateRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = "), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err := LoadOrCreate(path)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/tododay.toml")
	got, err := ResolvePath()
	if err != nil {
		t.Fatalf("ResolvePath() error = %v", err)
	}
	if got != "/etc/tododay.toml" {
		t.Fatalf("expected env override, got %q", got)
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err = ResolvePath()
	if err != nil {
		t.Fatalf("ResolvePath() error = %v", err)
	}
	if got != filepath.Join("/xdg", AppName, DefaultConfigFileName) {
		t.Fatalf("unexpected xdg path %q", got)
	}
}
