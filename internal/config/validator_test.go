package config

import (
	"testing"

	"imagelinks/internal/normalizer"
)

// validConfig returns a configuration that passes validation with no warnings.
func validConfig(t *testing.T) *Configuration {
	cfg := Default()
	cfg.ImageDirectory = t.TempDir()
	return cfg
}

func hasField(findings []ConfigValidationError, field string) bool {
	for _, f := range findings {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestValidateConfigDefaults(t *testing.T) {
	result := ValidateConfig(validConfig(t))

	if !result.Valid {
		t.Errorf("expected valid configuration, got errors %+v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{"bad repo name", func(c *Configuration) { c.RepoName = "just-a-name" }, "repoName"},
		{"empty branch", func(c *Configuration) { c.Branch = " " }, "branch"},
		{"relative base url", func(c *Configuration) { c.BaseURL = "cdn/images" }, "baseUrl"},
		{"ftp base url", func(c *Configuration) { c.BaseURL = "ftp://example.com" }, "baseUrl"},
		{"empty image directory", func(c *Configuration) { c.ImageDirectory = "" }, "imageDirectory"},
		{"empty output file", func(c *Configuration) { c.OutputFile = "" }, "outputFile"},
		{"no extensions", func(c *Configuration) { c.Extensions = nil }, "extensions"},
		{"blank extension", func(c *Configuration) { c.Extensions = []string{"."} }, "extensions[0]"},
		{"compound extension", func(c *Configuration) { c.Extensions = []string{".png", ".tar.gz"} }, "extensions[1]"},
		{"unknown symlink policy", func(c *Configuration) { c.SymlinkPolicy = "maybe" }, "symlinkPolicy"},
		{"unknown collision mode", func(c *Configuration) { c.CollisionMode = "first-wins" }, "collisionMode"},
		{"bad substitution", func(c *Configuration) {
			c.Substitutions = []normalizer.Substitution{{Pattern: "[", Replacement: ""}}
		}, "substitutions[0].pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			result := ValidateConfig(cfg)
			if result.Valid {
				t.Fatal("expected configuration to be invalid")
			}
			if !hasField(result.Errors, tt.field) {
				t.Errorf("expected error on %s, got %+v", tt.field, result.Errors)
			}
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should return an error")
			}
		})
	}
}

func TestValidateConfigWarnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{"case-sensitive keys", func(c *Configuration) { c.LowercaseKeys = false }, "lowercaseKeys"},
		{"missing image directory", func(c *Configuration) { c.ImageDirectory = c.ImageDirectory + "/nope" }, "imageDirectory"},
		{"duplicate extension", func(c *Configuration) { c.Extensions = []string{".png", "PNG"} }, "extensions[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			result := ValidateConfig(cfg)
			if !result.Valid {
				t.Fatalf("warnings must not invalidate the configuration: %+v", result.Errors)
			}
			if !hasField(result.Warnings, tt.field) {
				t.Errorf("expected warning on %s, got %+v", tt.field, result.Warnings)
			}
		})
	}
}

func TestValidateBaseURLSkipsRepoChecks(t *testing.T) {
	cfg := validConfig(t)
	cfg.BaseURL = "https://cdn.example.com/assets"
	cfg.RepoName = ""
	cfg.Branch = ""

	if result := ValidateConfig(cfg); !result.Valid {
		t.Errorf("repoName and branch are unused with a baseUrl, got %+v", result.Errors)
	}
}
