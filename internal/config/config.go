package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultAutosaveDelay is the quiet period after the last edit before the
// document is written back to the store.
const DefaultAutosaveDelay = 2 * time.Second

type EditorOptions struct {
	AutosaveDelay string `toml:"autosave-delay"`
	Encoding      string `toml:"encoding"`
	LineNumbers   string `toml:"line-numbers"`
	ShowKeywords  *bool  `toml:"show-keywords"`
}

type StoreOptions struct {
	Path  string `toml:"path"`
	Owner string `toml:"owner"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	LineNumberForeground string `toml:"line-number-foreground"`
	MarkerForeground     string `toml:"marker-foreground"`
	KeywordForeground    string `toml:"keyword-foreground"`
	KeywordBackground    string `toml:"keyword-background"`
	SelectionForeground  string `toml:"selection-foreground"`
	SelectionBackground  string `toml:"selection-background"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Store  StoreOptions      `toml:"store"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	showKeywords := true
	return Config{
		Editor: EditorOptions{
			AutosaveDelay: DefaultAutosaveDelay.String(),
			Encoding:      "utf-8",
			LineNumbers:   "absolute",
			ShowKeywords:  &showKeywords,
		},
		Store: StoreOptions{
			Owner: defaultOwner(),
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			LineNumberForeground: "#3E4B59",
			MarkerForeground:     "#59C2FF",
			KeywordForeground:    "#000000",
			KeywordBackground:    "#FFD700",
			SelectionForeground:  "#B3B1AD",
			SelectionBackground:  "#27425A",
		},
		Keymap: map[string]string{
			"ctrl+s": "save",
			"ctrl+z": "undo",
			"ctrl+y": "redo",
			"ctrl+q": "quit",
			"ctrl+c": "quit",
			"ctrl+k": "toggle_keywords",
			"ctrl+l": "toggle_line_numbers",
			"pgup":   "page_up",
			"pgdn":   "page_down",
			"ctrl+a": "select_all",
		},
	}
}

// AutosaveInterval parses autosave-delay. An unparseable or non-positive
// value yields DefaultAutosaveDelay.
func (o EditorOptions) AutosaveInterval() time.Duration {
	d, err := time.ParseDuration(o.AutosaveDelay)
	if err != nil || d <= 0 {
		return DefaultAutosaveDelay
	}
	return d
}

// KeywordsEnabled reports whether keyword highlighting starts switched on.
func (o EditorOptions) KeywordsEnabled() bool {
	return o.ShowKeywords == nil || *o.ShowKeywords
}

// Load reads config.toml from ConfigDir and merges it over Default. A
// missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, finish(&cfg)
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.AutosaveDelay != "" {
		if _, err := time.ParseDuration(userCfg.Editor.AutosaveDelay); err != nil {
			return cfg, fmt.Errorf("editor.autosave-delay: %w", err)
		}
		cfg.Editor.AutosaveDelay = userCfg.Editor.AutosaveDelay
	}
	if userCfg.Editor.Encoding != "" {
		cfg.Editor.Encoding = userCfg.Editor.Encoding
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.ShowKeywords != nil {
		cfg.Editor.ShowKeywords = userCfg.Editor.ShowKeywords
	}
	if userCfg.Store.Path != "" {
		cfg.Store.Path = userCfg.Store.Path
	}
	if userCfg.Store.Owner != "" {
		cfg.Store.Owner = userCfg.Store.Owner
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, finish(&cfg)
}

// finish fills values that depend on the environment.
func finish(cfg *Config) error {
	if cfg.Store.Path != "" {
		return nil
	}
	dir, err := DataDir()
	if err != nil {
		return err
	}
	cfg.Store.Path = filepath.Join(dir, "docassist.db")
	return nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.MarkerForeground, src.MarkerForeground)
	set(&dst.KeywordForeground, src.KeywordForeground)
	set(&dst.KeywordBackground, src.KeywordBackground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Both a bare table and one wrapped in
// [theme] are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	md, err := toml.Decode(string(data), &wrap)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	if md.IsDefined("theme") {
		return wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("DOCASSIST_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "docassist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docassist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir holds the document database.
func DataDir() (string, error) {
	if v := os.Getenv("DOCASSIST_DATA_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "docassist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "docassist"), nil
}

// StateDir holds per-user view state such as the last cursor of each
// document.
func StateDir() (string, error) {
	if v := os.Getenv("DOCASSIST_STATE_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "docassist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "docassist"), nil
}

func defaultOwner() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
