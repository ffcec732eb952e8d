package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tododay"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tododay.db"
	DefaultLogName        = "tododay.log"
	EnvConfigPath         = "TODODAY_CONFIG"
)

// Keymap binds each action to a key string as bubbletea reports it
// (for example "j", "shift+down", "ctrl+s").
type Keymap struct {
	Quit       string `toml:"quit"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	MoveUp     string `toml:"move_up"`
	MoveDown   string `toml:"move_down"`
	Left       string `toml:"left"`
	Right      string `toml:"right"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	New        string `toml:"new"`
	Rollover   string `toml:"rollover"`
	Notes      string `toml:"notes"`
	Edit       string `toml:"edit"`
	DailyTodos string `toml:"daily_todos"`
	Stats      string `toml:"stats"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Back       string `toml:"back"`
	SaveNotes  string `toml:"save_notes"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// Path of the log file. Empty disables logging.
	Path string `toml:"path"`
}

type Config struct {
	DBPath string    `toml:"db_path"`
	Log    LogConfig `toml:"log"`
	Keys   Keymap    `toml:"keys"`
}

// ResolvePath picks the config file location from the environment.
func ResolvePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative paths inside the file resolve
// against the directory that holds it.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Validate checks the values a run cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	for _, b := range c.Keys.bindings() {
		if strings.TrimSpace(b.key) == "" {
			return fmt.Errorf("keys.%s must not be empty", b.name)
		}
	}
	return nil
}

type namedKey struct {
	name string
	key  string
}

func (k Keymap) bindings() []namedKey {
	return []namedKey{
		{"quit", k.Quit},
		{"up", k.Up},
		{"down", k.Down},
		{"move_up", k.MoveUp},
		{"move_down", k.MoveDown},
		{"left", k.Left},
		{"right", k.Right},
		{"toggle", k.Toggle},
		{"delete", k.Delete},
		{"new", k.New},
		{"rollover", k.Rollover},
		{"notes", k.Notes},
		{"edit", k.Edit},
		{"daily_todos", k.DailyTodos},
		{"stats", k.Stats},
		{"confirm", k.Confirm},
		{"cancel", k.Cancel},
		{"back", k.Back},
		{"save_notes", k.SaveNotes},
	}
}

func (c Config) resolve(dir string) Config {
	c.DBPath = resolveIn(dir, c.DBPath)
	if c.Log.Path != "" {
		c.Log.Path = resolveIn(dir, c.Log.Path)
	}
	return c
}

func resolveIn(dir, p string) string {
	if p == ":memory:" || strings.HasPrefix(p, "file:") || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DBPath: DefaultDBName,
		Log: LogConfig{
			Level: "info",
			Path:  DefaultLogName,
		},
		Keys: Keymap{
			Quit:       "q",
			Up:         "k",
			Down:       "j",
			MoveUp:     "K",
			MoveDown:   "J",
			Left:       "h",
			Right:      "l",
			Toggle:     "x",
			Delete:     "d",
			New:        "n",
			Rollover:   "N",
			Notes:      "tab",
			Edit:       "e",
			DailyTodos: "t",
			Stats:      "s",
			Confirm:    "enter",
			Cancel:     "esc",
			Back:       "esc",
			SaveNotes:  "ctrl+s",
		},
	}
}
