package config

const (
	defaultLibraryRoot     = "~/Calibre Library"
	defaultReportsDir      = "~/.local/share/meetscan/reports"
	defaultAuthor          = "Tactiq"
	defaultLLMMode         = "openai"
	defaultLLMBaseURL      = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel        = "gpt-5.1"
	defaultLLMMaxInput     = 20000
	defaultLLMMaxOutput    = 800
	defaultLLMTimeoutSecs  = 60
	defaultPandocPDFEngine = "xelatex"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultTagPrefixes() []string {
	return []string{"Meetings.", "Meeting."}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Library: Library{
			Root: defaultLibraryRoot,
		},
		Select: Select{
			Author:      defaultAuthor,
			TagPrefixes: defaultTagPrefixes(),
		},
		Reports: Reports{
			Dir: defaultReportsDir,
		},
		LLM: LLM{
			Mode:            defaultLLMMode,
			BaseURL:         defaultLLMBaseURL,
			Model:           defaultLLMModel,
			MaxInputChars:   defaultLLMMaxInput,
			MaxOutputTokens: defaultLLMMaxOutput,
			TimeoutSeconds:  defaultLLMTimeoutSecs,
		},
		Render: Render{
			PandocPDFEngine: defaultPandocPDFEngine,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
