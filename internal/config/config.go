// Package config reads and writes dotted keys such as user.name in ini
// files: the repository's .sit/config with a fallback to ~/.sitconfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/KostasZigo/sit/internal/constants"
)

// NotFound is the value Lookup reports for keys that are not set.
const NotFound = "NOT_FOUND"

var (
	// ErrNotFound is returned by Get for keys that are not set anywhere.
	ErrNotFound = errors.New("config key not found")

	// ErrInvalidKey is returned for keys not of the form section.name.
	ErrInvalidKey = errors.New("invalid config key")
)

// Scope selects which file Set writes.
type Scope int

const (
	ScopeRepository Scope = iota
	ScopeGlobal
)

// Config resolves keys against the repository file, then the global file.
type Config struct {
	repoFile   string
	globalFile string
}

// New returns a Config for the repository whose metadata lives in sitDir.
// An empty sitDir limits lookups to the global file.
func New(sitDir string) *Config {
	c := &Config{globalFile: GlobalFile()}
	if sitDir != "" {
		c.repoFile = filepath.Join(sitDir, constants.ConfigFile)
	}
	return c
}

// NewWithFiles is New with explicit file locations.
func NewWithFiles(repoFile, globalFile string) *Config {
	return &Config{repoFile: repoFile, globalFile: globalFile}
}

// GlobalFile returns ~/.sitconfig, or "" when the home directory is unknown.
func GlobalFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.GlobalConfigFile)
}

func splitKey(key string) (section, name string, err error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return section, name, nil
}

// Get returns the value of key, or ErrNotFound.
func (c *Config) Get(key string) (string, error) {
	section, name, err := splitKey(key)
	if err != nil {
		return "", err
	}

	for _, file := range []string{c.repoFile, c.globalFile} {
		if file == "" {
			continue
		}
		cfg, err := ini.LooseLoad(file)
		if err != nil {
			return "", fmt.Errorf("failed to load config %s: %w", file, err)
		}
		if val := cfg.Section(section).Key(name).String(); val != "" {
			return val, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Lookup returns the value of key or NotFound.
func (c *Config) Lookup(key string) string {
	val, err := c.Get(key)
	if err != nil {
		return NotFound
	}
	return val
}

// Set stores key = value in the file selected by scope.
func (c *Config) Set(scope Scope, key, value string) error {
	section, name, err := splitKey(key)
	if err != nil {
		return err
	}

	file := c.repoFile
	if scope == ScopeGlobal {
		file = c.globalFile
	}
	if file == "" {
		return fmt.Errorf("no config file for %s", key)
	}

	cfg, err := ini.LooseLoad(file)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", file, err)
	}
	cfg.Section(section).Key(name).SetValue(value)

	if err := cfg.SaveTo(file); err != nil {
		return fmt.Errorf("failed to save config %s: %w", file, err)
	}
	return nil
}
