package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"tasklet/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasklet.db"
	DefaultLogName        = "tasklet.log"
	DefaultStorageKey     = "todos"
	appDirName            = "tasklet"
	configEnvVar          = "TASKLET_CONFIG"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	Search    string `toml:"search"`
	Sort      string `toml:"sort"`
	Due       string `toml:"due"`
	ClearDue  string `toml:"clear_due"`
	OpenLink  string `toml:"open_link"`
	ClearFind string `toml:"clear_search"`
}

type Config struct {
	DBPath      string `toml:"db_path"`
	StorageKey  string `toml:"storage_key"`
	DefaultSort string `toml:"default_sort"`
	Locale      string `toml:"locale"`
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	Keys        Keymap `toml:"keys"`
}

// SortOrder returns the parsed default sort.
func (c Config) SortOrder() task.SortOrder {
	o, err := task.ParseSortOrder(c.DefaultSort)
	if err != nil {
		return task.SortNone
	}
	return o
}

// Language returns the collation language for alphabetical sorts.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// ResolveConfigPath picks $TASKLET_CONFIG, then the user config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(configEnvVar); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults there first when
// the file does not exist. Relative data paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
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
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = string(task.SortNone)
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) validate() error {
	if _, err := task.ParseSortOrder(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	return nil
}

func (c Config) resolve(dir string) Config {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:      DefaultDBName,
		StorageKey:  DefaultStorageKey,
		DefaultSort: string(task.SortNone),
		Locale:      "en",
		LogPath:     DefaultLogName,
		LogLevel:    "info",
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Delete:    "d",
			Confirm:   "enter",
			Cancel:    "esc",
			Search:    "/",
			Sort:      "s",
			Due:       "t",
			ClearDue:  "T",
			OpenLink:  "o",
			ClearFind: "ctrl+l",
		},
	}
}
