// Package config handles configuration loading and validation for imagelinks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imagelinks/internal/filter"
	"imagelinks/internal/linktable"
	"imagelinks/internal/normalizer"
	"imagelinks/internal/scanner"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "imagelinks.json"

// RawContentHost serves repository files over HTTPS.
const RawContentHost = "https://raw.githubusercontent.com"

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Configuration holds all settings for imagelinks. Every field has a fixed
// default; the optional config file only overrides what it names.
type Configuration struct {
	RepoName       string `json:"repoName"`
	Branch         string `json:"branch"`
	BaseURL        string `json:"baseUrl,omitempty"` // Overrides the raw.githubusercontent.com base
	ImageDirectory string `json:"imageDirectory"`
	URLPath        string `json:"urlPath,omitempty"` // Path segment in URLs; defaults to ImageDirectory
	OutputFile     string `json:"outputFile"`

	Extensions    []string `json:"extensions"`
	SymlinkPolicy string   `json:"symlinkPolicy"`

	LowercaseKeys    bool                      `json:"lowercaseKeys"`
	AllowParentheses bool                      `json:"allowParentheses"`
	FoldDiacritics   bool                      `json:"foldDiacritics"`
	Substitutions    []normalizer.Substitution `json:"substitutions,omitempty"`

	CollisionMode  linktable.CollisionMode `json:"collisionMode"`
	EscapeNonASCII bool                    `json:"escapeNonAscii"`
	EscapeURLs     bool                    `json:"escapeUrls"`

	Verbose bool `json:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	policy := normalizer.DefaultPolicy()
	return &Configuration{
		RepoName:         "xtwon/twon-elo-system",
		Branch:           "main",
		ImageDirectory:   "images",
		OutputFile:       "drive_links.json",
		Extensions:       filter.DefaultImageExtensions(),
		SymlinkPolicy:    scanner.SymlinkPolicyFollow,
		LowercaseKeys:    policy.Lowercase,
		AllowParentheses: policy.AllowParentheses,
		FoldDiacritics:   policy.FoldDiacritics,
		CollisionMode:    linktable.LastWins,
		EscapeNonASCII:   true,
		EscapeURLs:       false,
	}
}

// ApplyDefaults fills empty string and list fields with their defaults.
// Boolean fields are left alone since false is a meaningful setting.
func (c *Configuration) ApplyDefaults() {
	defaults := Default()

	if c.RepoName == "" && c.BaseURL == "" {
		c.RepoName = defaults.RepoName
	}
	if c.Branch == "" && c.BaseURL == "" {
		c.Branch = defaults.Branch
	}
	if c.ImageDirectory == "" {
		c.ImageDirectory = defaults.ImageDirectory
	}
	if c.OutputFile == "" {
		c.OutputFile = defaults.OutputFile
	}
	if len(c.Extensions) == 0 {
		c.Extensions = defaults.Extensions
	}
	if c.SymlinkPolicy == "" {
		c.SymlinkPolicy = defaults.SymlinkPolicy
	}
	if c.CollisionMode == "" {
		c.CollisionMode = defaults.CollisionMode
	}
}

// Validate checks that the configuration can drive a run.
// It returns the first error found by ValidateConfig.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return &ConfigError{
		Type:    ValidationError,
		Message: fmt.Sprintf("%s: %s", first.Field, first.Message),
	}
}

// Policy returns the normalizer policy selected by the configuration.
func (c *Configuration) Policy() normalizer.Policy {
	return normalizer.Policy{
		Lowercase:        c.LowercaseKeys,
		AllowParentheses: c.AllowParentheses,
		FoldDiacritics:   c.FoldDiacritics,
	}
}

// ResolvedBaseURL returns the URL prefix without a trailing slash.
func (c *Configuration) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return RawContentHost + "/" + strings.Trim(c.RepoName, "/") + "/" + strings.Trim(c.Branch, "/")
}

// ResolvedURLPath returns the path segment placed between the base URL and
// the filename, in slash form without surrounding slashes. An absolute image
// directory contributes only its last element.
func (c *Configuration) ResolvedURLPath() string {
	segment := c.URLPath
	if segment == "" {
		dir := filepath.Clean(c.ImageDirectory)
		if filepath.IsAbs(dir) {
			dir = filepath.Base(dir)
		}
		segment = filepath.ToSlash(dir)
		segment = strings.TrimPrefix(segment, "./")
		if segment == "." {
			segment = ""
		}
	}
	return strings.Trim(segment, "/")
}

// Load reads and parses a configuration file from the given path.
// Fields absent from the file keep their defaults.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault loads the configuration file if it exists, or returns the
// built-in configuration if it does not.
func LoadOrDefault(filePath string) (*Configuration, error) {
	config, err := Load(filePath)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == FileNotFound && cfgErr.Message == "" {
			return Default(), nil
		}
		return nil, err
	}
	return config, nil
}

// Save serializes and writes a configuration to the given path.
func Save(config *Configuration, filePath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}

	return nil
}
