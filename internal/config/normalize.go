package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeSelect()
	if err := c.normalizeReports(); err != nil {
		return err
	}
	c.normalizeLLM()
	if err := c.normalizeDebug(); err != nil {
		return err
	}
	c.normalizeRender()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	var err error
	if c.Library.Root, err = expandPath(c.Library.Root); err != nil {
		return fmt.Errorf("library.root: %w", err)
	}
	if strings.TrimSpace(c.Library.MetadataDB) != "" {
		if c.Library.MetadataDB, err = expandPath(c.Library.MetadataDB); err != nil {
			return fmt.Errorf("library.metadata_db: %w", err)
		}
	}
	if strings.TrimSpace(c.Library.FulltextDB) != "" {
		if c.Library.FulltextDB, err = expandPath(c.Library.FulltextDB); err != nil {
			return fmt.Errorf("library.fulltext_db: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSelect() {
	// An explicit empty author disables the filter, so only whitespace is trimmed.
	c.Select.Author = strings.TrimSpace(c.Select.Author)

	prefixes := make([]string, 0, len(c.Select.TagPrefixes))
	seen := make(map[string]struct{}, len(c.Select.TagPrefixes))
	for _, prefix := range c.Select.TagPrefixes {
		trimmed := strings.TrimSpace(prefix)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		prefixes = append(prefixes, trimmed)
	}
	if len(prefixes) == 0 {
		prefixes = defaultTagPrefixes()
	}
	c.Select.TagPrefixes = prefixes
}

func (c *Config) normalizeReports() error {
	if strings.TrimSpace(c.Reports.Dir) == "" {
		c.Reports.Dir = defaultReportsDir
	}
	var err error
	if c.Reports.Dir, err = expandPath(c.Reports.Dir); err != nil {
		return fmt.Errorf("reports.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.Mode = strings.ToLower(strings.TrimSpace(c.LLM.Mode))
	if c.LLM.Mode == "" {
		c.LLM.Mode = defaultLLMMode
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.MaxInputChars < 0 {
		c.LLM.MaxInputChars = 0
	}
	if c.LLM.MaxOutputTokens <= 0 {
		c.LLM.MaxOutputTokens = defaultLLMMaxOutput
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSecs
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("MEETSCAN_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeDebug() error {
	c.Debug.TitleFilter = strings.TrimSpace(c.Debug.TitleFilter)
	if strings.TrimSpace(c.Debug.Dir) == "" {
		c.Debug.Dir = filepath.Join(c.Reports.Dir, "debug")
		return nil
	}
	var err error
	if c.Debug.Dir, err = expandPath(c.Debug.Dir); err != nil {
		return fmt.Errorf("debug.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.PandocPDFEngine = strings.TrimSpace(c.Render.PandocPDFEngine)
	if c.Render.PandocPDFEngine == "" {
		c.Render.PandocPDFEngine = defaultPandocPDFEngine
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
