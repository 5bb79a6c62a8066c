package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that call external services.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. Zero means no client timeout;
	// the run context still applies.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "filing-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// InputConfig locates the filing to process.
type InputConfig struct {
	// PDF is a local path or an http(s) URL.
	PDF string `json:"pdf" yaml:"pdf" mapstructure:"pdf"`

	// DownloadDir receives filings fetched by URL.
	DownloadDir string `json:"download_dir" yaml:"download_dir" mapstructure:"download_dir"`
}

// ConversionBackend identifies the PDF text extraction tool.
type ConversionBackend string

const (
	BackendNative    ConversionBackend = "native"
	BackendPdftotext ConversionBackend = "pdftotext"
)

// ConversionConfig holds settings for the text extraction stage.
type ConversionConfig struct {
	// Backend selects the extractor: native (in-process) or pdftotext (container).
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TextPath is where the intermediate form-feed delimited text file is written.
	TextPath string `json:"text_path" yaml:"text_path" mapstructure:"text_path"`

	// Strict runs a full structural validation of the PDF before extraction.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`
}

// GenerationConfig holds settings for the query generation stage.
type GenerationConfig struct {
	// Model is the completion model identifier (e.g. "claude-3-5-sonnet-20241022").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// MaxTokens is the completion token budget (default 1000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxQueries caps the number of parsed queries sent to search (default 20).
	// A negative value disables the cap.
	MaxQueries int `json:"max_queries" yaml:"max_queries" mapstructure:"max_queries"`

	// TopicsFile optionally overrides the built-in topic list.
	TopicsFile string `json:"topics_file,omitempty" yaml:"topics_file,omitempty" mapstructure:"topics_file"`
}

// SearchConfig holds settings for the batch search stage.
type SearchConfig struct {
	// NumResults is the number of results requested per query (default 5).
	NumResults int `json:"num_results" yaml:"num_results" mapstructure:"num_results"`

	// Type is the search type passed to the service (default "auto").
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// UseAutoprompt lets the service rewrite queries. Off by default.
	UseAutoprompt bool `json:"use_autoprompt" yaml:"use_autoprompt" mapstructure:"use_autoprompt"`

	// FailFast aborts the batch on the first failed query instead of
	// recording the failure and continuing.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`
}

// LogConfig selects the diagnostic logger's level and encoding.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Input      InputConfig      `json:"input" yaml:"input" mapstructure:"input"`
	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	Conversion ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Generation GenerationConfig `json:"generate" yaml:"generate" mapstructure:"generate"`
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// Defaults used when configuration leaves a field unset.
const (
	DefaultModel       = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens   = 1000
	DefaultMaxQueries  = 20
	DefaultNumResults  = 5
	DefaultSearchType  = "auto"
	DefaultTextPath    = "output.txt"
	DefaultPDFPath     = "epic_v_apple.pdf"
	DefaultDownloadDir = "filings"
)

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *PipelineConfig) ApplyDefaults() {
	if c.Input.PDF == "" {
		c.Input.PDF = DefaultPDFPath
	}
	if c.Input.DownloadDir == "" {
		c.Input.DownloadDir = DefaultDownloadDir
	}
	if c.Conversion.Backend == "" {
		c.Conversion.Backend = BackendNative
	}
	if c.Conversion.TextPath == "" {
		c.Conversion.TextPath = DefaultTextPath
	}
	if c.Generation.Model == "" {
		c.Generation.Model = DefaultModel
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = DefaultMaxTokens
	}
	if c.Generation.MaxQueries == 0 {
		c.Generation.MaxQueries = DefaultMaxQueries
	}
	if c.Search.NumResults <= 0 {
		c.Search.NumResults = DefaultNumResults
	}
	if c.Search.Type == "" {
		c.Search.Type = DefaultSearchType
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
