package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSelect(); err != nil {
		return err
	}
	if err := c.validateReports(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if strings.TrimSpace(c.Library.Root) == "" && strings.TrimSpace(c.Library.MetadataDB) == "" {
		return errors.New("library.root or library.metadata_db must be set")
	}
	return nil
}

func (c *Config) validateSelect() error {
	if len(c.Select.TagPrefixes) == 0 {
		return errors.New("select.tag_prefixes must contain at least one prefix")
	}
	return nil
}

func (c *Config) validateReports() error {
	if strings.TrimSpace(c.Reports.Dir) == "" {
		return errors.New("reports.dir must be set")
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Mode {
	case "none":
		return nil
	case "openai":
	default:
		return fmt.Errorf("llm.mode must be %q or %q, got %q", "none", "openai", c.LLM.Mode)
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/meetscan/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when llm.mode is %q. Set MEETSCAN_LLM_API_KEY env var or edit %s (create with 'meetscan config init')", c.LLM.Mode, defaultPath)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set when llm.mode is \"openai\"")
	}
	return nil
}
