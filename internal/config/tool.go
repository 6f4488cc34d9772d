// Package config loads the optional JSON file that tunes the pickplace
// tool. Every field is optional; the Get* accessors supply defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/pickplace.report/internal/preview"
	"github.com/banshee-data/pickplace.report/internal/scanlog"
	"github.com/banshee-data/pickplace.report/internal/units"
)

// ToolConfig is the root configuration of the pickplace tool.
type ToolConfig struct {
	// Scan log codec
	LogFileName   *string `json:"log_file_name,omitempty"`
	NumericPolicy *string `json:"numeric_policy,omitempty"` // "default_zero" or "strict"
	AtomicWrite   *bool   `json:"atomic_write,omitempty"`
	YAMLIndent    *int    `json:"yaml_indent,omitempty"` // 0 keeps the source indent

	// Matcher
	MatchSeed *int64 `json:"match_seed,omitempty"` // unset means clock-seeded

	// Output
	AngleUnits        *string  `json:"angle_units,omitempty"`
	PreviewSizeInches *float64 `json:"preview_size_inches,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyToolConfig returns a ToolConfig with all fields set to nil.
func EmptyToolConfig() *ToolConfig {
	return &ToolConfig{}
}

// DefaultToolConfig returns a ToolConfig with every defaulted field set
// explicitly. MatchSeed stays nil.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		LogFileName:       ptrString(scanlog.DefaultFileName),
		NumericPolicy:     ptrString(scanlog.PolicyNameDefaultZero),
		AtomicWrite:       ptrBool(false),
		YAMLIndent:        ptrInt(0),
		AngleUnits:        ptrString(units.Radians),
		PreviewSizeInches: ptrFloat64(preview.DefaultSizeInches),
	}
}

// LoadToolConfig loads a ToolConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to their defaults.
func LoadToolConfig(path string) (*ToolConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyToolConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ToolConfig) Validate() error {
	if c.LogFileName != nil {
		name := *c.LogFileName
		if name == "" || name != filepath.Base(name) {
			return fmt.Errorf("log_file_name must be a bare file name, got %q", name)
		}
	}

	if c.NumericPolicy != nil {
		if _, err := scanlog.ParseNumericPolicy(*c.NumericPolicy); err != nil {
			return err
		}
	}

	if c.YAMLIndent != nil && *c.YAMLIndent != 0 {
		if *c.YAMLIndent < 2 || *c.YAMLIndent > 9 {
			return fmt.Errorf("yaml_indent must be 0 or between 2 and 9, got %d", *c.YAMLIndent)
		}
	}

	if c.AngleUnits != nil && !units.IsValid(*c.AngleUnits) {
		return fmt.Errorf("angle_units must be one of %s, got %q", units.GetValidUnitsString(), *c.AngleUnits)
	}

	if c.PreviewSizeInches != nil {
		if *c.PreviewSizeInches <= 0 || *c.PreviewSizeInches > 100 {
			return fmt.Errorf("preview_size_inches must be in (0, 100], got %f", *c.PreviewSizeInches)
		}
	}

	return nil
}

// GetLogFileName returns the log_file_name value or the default.
func (c *ToolConfig) GetLogFileName() string {
	if c.LogFileName == nil || *c.LogFileName == "" {
		return scanlog.DefaultFileName
	}
	return *c.LogFileName
}

// GetNumericPolicy returns the parsed numeric_policy or the default-zero
// policy.
func (c *ToolConfig) GetNumericPolicy() scanlog.NumericPolicy {
	if c.NumericPolicy == nil {
		return scanlog.PolicyDefaultZero
	}
	p, err := scanlog.ParseNumericPolicy(*c.NumericPolicy)
	if err != nil {
		return scanlog.PolicyDefaultZero // default on parse error
	}
	return p
}

// GetAtomicWrite returns the atomic_write value or the default.
func (c *ToolConfig) GetAtomicWrite() bool {
	if c.AtomicWrite == nil {
		return false // default: overwrite in place
	}
	return *c.AtomicWrite
}

// GetYAMLIndent returns the yaml_indent value, 0 meaning the source indent.
func (c *ToolConfig) GetYAMLIndent() int {
	if c.YAMLIndent == nil {
		return 0
	}
	return *c.YAMLIndent
}

// GetMatchSeed returns the match_seed value and whether it was set.
func (c *ToolConfig) GetMatchSeed() (int64, bool) {
	if c.MatchSeed == nil {
		return 0, false
	}
	return *c.MatchSeed, true
}

// GetAngleUnits returns the angle_units value or the default.
func (c *ToolConfig) GetAngleUnits() string {
	if c.AngleUnits == nil || *c.AngleUnits == "" {
		return units.Radians
	}
	return *c.AngleUnits
}

// GetPreviewSizeInches returns the preview_size_inches value or the default.
func (c *ToolConfig) GetPreviewSizeInches() float64 {
	if c.PreviewSizeInches == nil {
		return preview.DefaultSizeInches
	}
	return *c.PreviewSizeInches
}

// CodecOptions translates the scan log settings into codec options.
func (c *ToolConfig) CodecOptions() []scanlog.Option {
	return []scanlog.Option{
		scanlog.WithFileName(c.GetLogFileName()),
		scanlog.WithNumericPolicy(c.GetNumericPolicy()),
		scanlog.WithAtomicWrite(c.GetAtomicWrite()),
		scanlog.WithIndent(c.GetYAMLIndent()),
	}
}
