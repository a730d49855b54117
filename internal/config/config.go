// Package config loads lector.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lector/internal/checker"
	"lector/internal/lexer"
	"lector/internal/reflow"
)

// FileName is the configuration file searched for.
const FileName = "lector.toml"

// Config is the decoded lector.toml. Zero values mean "not set"; Load fills
// defaults for keys the file leaves out.
type Config struct {
	Path string `toml:"-"`

	Extract  Extract  `toml:"extract"`
	Checkers Checkers `toml:"checkers"`
	Wordlist Wordlist `toml:"wordlist"`
	Reflow   Reflow   `toml:"reflow"`
	Cache    Cache    `toml:"cache"`
	Run      Run      `toml:"run"`
}

type Extract struct {
	DocComments bool `toml:"doc_comments"`
	DevComments bool `toml:"dev_comments"`
}

type Checkers struct {
	Enabled []string `toml:"enabled"`
}

type Wordlist struct {
	Dictionaries      []string `toml:"dictionaries"`
	Words             []string `toml:"words"`
	Transform         []string `toml:"transform"`
	AllowConcatenated bool     `toml:"allow_concatenated"`
	AllowDashed       bool     `toml:"allow_dashed"`
	AllowEmojis       bool     `toml:"allow_emojis"`
	MaxSuggestions    int      `toml:"max_suggestions"`
}

type Reflow struct {
	MaxLineLength int      `toml:"max_line_length"`
	Unbreakable   []string `toml:"unbreakable"`
}

type Cache struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

type Run struct {
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used without a lector.toml.
func Default() *Config {
	cc := checker.DefaultConfig()
	enabled := make([]string, len(cc.Enabled))
	for i, k := range cc.Enabled {
		enabled[i] = k.String()
	}
	return &Config{
		Extract:  Extract{DocComments: true},
		Checkers: Checkers{Enabled: enabled},
		Wordlist: Wordlist{
			AllowEmojis:    cc.Wordlist.AllowEmojis,
			MaxSuggestions: cc.Wordlist.MaxSuggestions,
		},
		Reflow: Reflow{MaxLineLength: reflow.DefaultMaxWidth},
	}
}

// Load decodes path. Relative dictionary paths and the cache dir are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	// списки из файла заменяют умолчания целиком, пустой список тоже
	if meta.IsDefined("checkers", "enabled") && len(cfg.Checkers.Enabled) == 0 {
		return nil, fmt.Errorf("%s: [checkers].enabled is empty", path)
	}
	if cfg.Reflow.MaxLineLength <= 0 {
		return nil, fmt.Errorf("%s: [reflow].max_line_length must be positive", path)
	}
	if cfg.Run.Jobs < 0 {
		return nil, fmt.Errorf("%s: [run].jobs must not be negative", path)
	}
	base := filepath.Dir(path)
	for i, d := range cfg.Wordlist.Dictionaries {
		cfg.Wordlist.Dictionaries[i] = resolve(base, d)
	}
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = resolve(base, cfg.Cache.Dir)
	}
	cfg.Path = path
	return cfg, nil
}

func resolve(base, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Find walks up from startDir to locate lector.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit when set, otherwise the nearest lector.toml above
// startDir, otherwise the defaults.
func Discover(explicit, startDir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// CheckerConfig converts the checker sections.
func (c *Config) CheckerConfig() (checker.Config, error) {
	out := checker.Config{
		Wordlist: checker.WordlistConfig{
			Dictionaries:      c.Wordlist.Dictionaries,
			Words:             c.Wordlist.Words,
			Transform:         c.Wordlist.Transform,
			AllowConcatenated: c.Wordlist.AllowConcatenated,
			AllowDashed:       c.Wordlist.AllowDashed,
			AllowEmojis:       c.Wordlist.AllowEmojis,
			MaxSuggestions:    c.Wordlist.MaxSuggestions,
		},
		Cache: checker.CacheConfig{Dir: c.Cache.Dir, Disabled: c.Cache.Disabled},
	}
	for _, name := range c.Checkers.Enabled {
		k, err := checker.ParseKind(name)
		if err != nil {
			return checker.Config{}, err
		}
		out.Enabled = append(out.Enabled, k)
	}
	return out, nil
}

// ReflowConfig converts the [reflow] section.
func (c *Config) ReflowConfig() reflow.Config {
	return reflow.Config{MaxWidth: c.Reflow.MaxLineLength, Unbreakable: c.Reflow.Unbreakable}
}

// LexerOptions converts the [extract] section.
func (c *Config) LexerOptions() lexer.Options {
	return lexer.Options{DocComments: c.Extract.DocComments, DevComments: c.Extract.DevComments}
}
