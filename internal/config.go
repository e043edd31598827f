package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. KZSTATEMENTS_WORKERS.
const EnvPrefix = "KZSTATEMENTS"

// Export names accepted in the exports list.
const (
	ExportJSON = "json"
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

var allExports = []string{ExportJSON, ExportCSV, ExportXLSX}

// Detection holds the detector thresholds.
type Detection struct {
	Accept  float64 `yaml:"accept_threshold" envconfig:"ACCEPT_THRESHOLD"`
	Certain float64 `yaml:"certain_threshold" envconfig:"CERTAIN_THRESHOLD"`
}

type Config struct {
	// DataDir holds one sub-folder per bank; the folder name is the bank hint.
	DataDir   string `yaml:"data_dir,omitempty" envconfig:"DATA_DIR"`
	OutputDir string `yaml:"output_dir,omitempty" envconfig:"OUTPUT_DIR"`

	Detection Detection `yaml:"detection" envconfig:"DETECTION"`

	// Workers is the number of files processed in parallel.
	Workers int `yaml:"workers" envconfig:"WORKERS"`

	// Exports selects the combined outputs: json, csv, xlsx.
	Exports []string `yaml:"exports" envconfig:"EXPORTS"`

	// ReportWarningsLimit caps the warnings listed per file in parse_report.json.
	ReportWarningsLimit int `yaml:"report_warnings_limit" envconfig:"REPORT_WARNINGS_LIMIT"`

	// Skip lists filename patterns ignored in directory mode.
	Skip []string `yaml:"skip,omitempty" envconfig:"SKIP"`

	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	skipRegexes []*regexp.Regexp `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.kz-statements/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kz-statements", "config.yaml")
}

// NewDefaultConfig returns the built-in settings used when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:   "data",
		OutputDir: "output",
		Detection: Detection{
			Accept:  0.3,
			Certain: 0.9,
		},
		Workers:             runtime.NumCPU(),
		Exports:             slices.Clone(allExports),
		ReportWarningsLimit: 5,
		LogLevel:            "info",
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// KZSTATEMENTS_* environment overrides. A missing file is an error only when
// mustExist is set (an explicit --config).
func LoadConfig(path string, mustExist bool) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !mustExist:
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings and compiles the skip patterns. Call it
// again after changing fields by hand.
func (c *Config) Validate() error {
	if c.Detection.Accept < 0 || c.Detection.Accept > 1 {
		return fmt.Errorf("invalid accept_threshold %v: must be within [0, 1]", c.Detection.Accept)
	}
	if c.Detection.Certain < c.Detection.Accept || c.Detection.Certain > 1 {
		return fmt.Errorf("invalid certain_threshold %v: must be within [accept_threshold, 1]", c.Detection.Certain)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.ReportWarningsLimit < 0 {
		c.ReportWarningsLimit = 0
	}
	for _, e := range c.Exports {
		if !slices.Contains(allExports, e) {
			return fmt.Errorf("unknown export %q (available: %v)", e, allExports)
		}
	}

	c.skipRegexes = c.skipRegexes[:0]
	for _, pattern := range c.Skip {
		re, err := regexp.Compile("(?i)" + pattern) // case-insensitive
		if err != nil {
			return fmt.Errorf("invalid skip pattern %q: %w", pattern, err)
		}
		c.skipRegexes = append(c.skipRegexes, re)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ShouldSkip returns true if the file name matches any skip pattern
func (c *Config) ShouldSkip(name string) bool {
	if c == nil {
		return false
	}
	for _, re := range c.skipRegexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Exporting reports whether the named export is enabled.
func (c *Config) Exporting(name string) bool {
	return c != nil && slices.Contains(c.Exports, name)
}
