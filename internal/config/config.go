package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Library locates the read-only document library databases.
type Library struct {
	Root       string `toml:"root"`
	MetadataDB string `toml:"metadata_db"`
	FulltextDB string `toml:"fulltext_db"`
}

// Select contains the default meeting selection filters.
type Select struct {
	Author      string   `toml:"author"`
	TagPrefixes []string `toml:"tag_prefixes"`
}

// Reports contains report output settings.
type Reports struct {
	Dir string `toml:"dir"`
}

// LLM contains extraction mode and connection settings.
type LLM struct {
	Mode            string `toml:"mode"`
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	MaxInputChars   int    `toml:"max_input_chars"`
	MaxOutputTokens int    `toml:"max_output_tokens"`
	FocusMarker     string `toml:"focus_marker"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Debug contains per-meeting LLM capture settings.
type Debug struct {
	Capture     bool   `toml:"capture"`
	TitleFilter string `toml:"title_filter"`
	Dir         string `toml:"dir"`
}

// Render contains PDF rendering settings.
type Render struct {
	PandocPDFEngine string `toml:"pandoc_pdf_engine"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for meetscan.
type Config struct {
	Library Library `toml:"library"`
	Select  Select  `toml:"select"`
	Reports Reports `toml:"reports"`
	LLM     LLM     `toml:"llm"`
	Debug   Debug   `toml:"debug"`
	Render  Render  `toml:"render"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/meetscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("meetscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories meetscan writes to. The library
// directories are deliberately excluded: the library is read-only.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Reports.Dir}
	if c.Debug.Capture {
		dirs = append(dirs, c.Debug.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MetadataDBPath returns the resolved path of the library metadata database.
func (c *Config) MetadataDBPath() string {
	if strings.TrimSpace(c.Library.MetadataDB) != "" {
		return c.Library.MetadataDB
	}
	return filepath.Join(c.Library.Root, "metadata.db")
}

// FulltextDBPath returns the resolved path of the library full-text database.
func (c *Config) FulltextDBPath() string {
	if strings.TrimSpace(c.Library.FulltextDB) != "" {
		return c.Library.FulltextDB
	}
	return filepath.Join(c.Library.Root, "full-text-search.db")
}

// PdftotextBinary returns the executable used for PDF transcript fallback.
func (c *Config) PdftotextBinary() string {
	return "pdftotext"
}

// PandocBinary returns the executable used for report PDF rendering.
func (c *Config) PandocBinary() string {
	return "pandoc"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
