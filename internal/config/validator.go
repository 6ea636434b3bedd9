package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"imagelinks/internal/linktable"
	"imagelinks/internal/normalizer"
	"imagelinks/internal/scanner"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "extensions[0]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// ValidateConfig checks the configuration for errors and returns all findings.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	var findings []ConfigValidationError
	findings = append(findings, ValidateLocations(cfg)...)
	findings = append(findings, ValidateExtensions(cfg)...)
	findings = append(findings, ValidatePolicies(cfg)...)

	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateLocations checks the URL base, the image directory and the output file.
// A missing image directory is only a warning; the run reports it itself.
func ValidateLocations(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ConfigValidationError{
				Field:    "baseUrl",
				Message:  fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.BaseURL),
				Severity: SeverityError,
			})
		}
	} else {
		if strings.Count(strings.Trim(cfg.RepoName, "/"), "/") != 1 {
			errs = append(errs, ConfigValidationError{
				Field:    "repoName",
				Message:  fmt.Sprintf("must have the form owner/name, got %q", cfg.RepoName),
				Severity: SeverityError,
			})
		}
		if strings.TrimSpace(cfg.Branch) == "" {
			errs = append(errs, ConfigValidationError{
				Field:    "branch",
				Message:  "cannot be empty",
				Severity: SeverityError,
			})
		}
	}

	if strings.TrimSpace(cfg.ImageDirectory) == "" {
		errs = append(errs, ConfigValidationError{
			Field:    "imageDirectory",
			Message:  "cannot be empty",
			Severity: SeverityError,
		})
	} else if _, err := os.Stat(cfg.ImageDirectory); os.IsNotExist(err) {
		errs = append(errs, ConfigValidationError{
			Field:    "imageDirectory",
			Message:  fmt.Sprintf("directory does not exist: %s", cfg.ImageDirectory),
			Severity: SeverityWarning,
		})
	}

	if strings.TrimSpace(cfg.OutputFile) == "" {
		errs = append(errs, ConfigValidationError{
			Field:    "outputFile",
			Message:  "cannot be empty",
			Severity: SeverityError,
		})
	}

	return errs
}

// ValidateExtensions checks the image extension allow-list.
func ValidateExtensions(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	if len(cfg.Extensions) == 0 {
		errs = append(errs, ConfigValidationError{
			Field:    "extensions",
			Message:  "must contain at least one extension",
			Severity: SeverityError,
		})
	}

	seen := make(map[string]bool)
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if trimmed == "" || strings.ContainsAny(trimmed, `./\`) {
			errs = append(errs, ConfigValidationError{
				Field:    field,
				Message:  fmt.Sprintf("invalid extension %q", ext),
				Severity: SeverityError,
			})
			continue
		}
		lower := strings.ToLower(trimmed)
		if seen[lower] {
			errs = append(errs, ConfigValidationError{
				Field:    field,
				Message:  fmt.Sprintf("duplicate extension %q (matching ignores case)", ext),
				Severity: SeverityWarning,
			})
		}
		seen[lower] = true
	}

	return errs
}

// ValidatePolicies checks the enumerated settings and the substitution rules.
func ValidatePolicies(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	switch cfg.SymlinkPolicy {
	case scanner.SymlinkPolicyFollow, scanner.SymlinkPolicySkip, scanner.SymlinkPolicyError:
	default:
		errs = append(errs, ConfigValidationError{
			Field:    "symlinkPolicy",
			Message:  fmt.Sprintf("must be one of follow, skip, error; got %q", cfg.SymlinkPolicy),
			Severity: SeverityError,
		})
	}

	if _, err := linktable.ParseCollisionMode(string(cfg.CollisionMode)); err != nil {
		errs = append(errs, ConfigValidationError{
			Field:    "collisionMode",
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	for i, sub := range cfg.Substitutions {
		if _, err := normalizer.CompileRules([]normalizer.Substitution{sub}); err != nil {
			errs = append(errs, ConfigValidationError{
				Field:    fmt.Sprintf("substitutions[%d].pattern", i),
				Message:  fmt.Sprintf("invalid pattern %q", sub.Pattern),
				Severity: SeverityError,
			})
		}
	}

	// Case sensitivity changes every key the spreadsheet joins against.
	if !cfg.LowercaseKeys {
		errs = append(errs, ConfigValidationError{
			Field:    "lowercaseKeys",
			Message:  "keys keep their original case; spreadsheet lookups must match case exactly",
			Severity: SeverityWarning,
		})
	}

	return errs
}
