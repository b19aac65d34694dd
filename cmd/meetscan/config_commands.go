package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"meetscan/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set library.root, and llm.api_key (or export MEETSCAN_LLM_API_KEY) for openai mode.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s (exists: %s)\n\n", path, yesNo(exists))
			fmt.Fprintf(out, "library.root         = %s\n", cfg.Library.Root)
			fmt.Fprintf(out, "library.metadata_db  = %s\n", cfg.MetadataDBPath())
			fmt.Fprintf(out, "library.fulltext_db  = %s\n", cfg.FulltextDBPath())
			fmt.Fprintf(out, "select.author        = %s\n", cfg.Select.Author)
			fmt.Fprintf(out, "select.tag_prefixes  = %s\n", strings.Join(cfg.Select.TagPrefixes, ", "))
			fmt.Fprintf(out, "reports.dir          = %s\n", cfg.Reports.Dir)
			fmt.Fprintf(out, "llm.mode             = %s\n", cfg.LLM.Mode)
			fmt.Fprintf(out, "llm.model            = %s\n", cfg.LLM.Model)
			fmt.Fprintf(out, "llm.api_key set      = %s\n", yesNo(cfg.LLM.APIKey != ""))
			fmt.Fprintf(out, "llm.max_input_chars  = %d\n", cfg.LLM.MaxInputChars)
			fmt.Fprintf(out, "llm.max_output_tokens = %d\n", cfg.LLM.MaxOutputTokens)
			fmt.Fprintf(out, "debug.capture        = %s\n", yesNo(cfg.Debug.Capture))
			fmt.Fprintf(out, "debug.dir            = %s\n", cfg.Debug.Dir)
			fmt.Fprintf(out, "logging.level        = %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "logging.format       = %s\n", cfg.Logging.Format)
			return nil
		},
	}
}
