package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"imagelinks/internal/linktable"
	"imagelinks/internal/normalizer"
	"imagelinks/internal/scanner"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genNonEmptyString generates non-empty strings for configuration fields.
func genNonEmptyString() gopter.Gen {
	return gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0
	})
}

// genConfiguration generates a valid Configuration object.
func genConfiguration() gopter.Gen {
	return gopter.CombineGens(
		genNonEmptyString(), // owner
		genNonEmptyString(), // repo
		genNonEmptyString(), // branch
		gen.OneConstOf("", "https://cdn.example.com/assets"),
		genNonEmptyString(), // image directory
		gen.OneConstOf("", "img"),
		genNonEmptyString(), // output file stem
		gen.Bool(),          // custom extensions
		gen.OneConstOf(scanner.SymlinkPolicyFollow, scanner.SymlinkPolicySkip, scanner.SymlinkPolicyError),
		gen.SliceOfN(5, gen.Bool()),
		gen.OneConstOf(string(linktable.LastWins), string(linktable.ErrorOnCollision)),
		gen.Bool(), // substitutions
	).Map(func(vals []interface{}) *Configuration {
		flags := vals[9].([]bool)
		cfg := &Configuration{
			RepoName:         vals[0].(string) + "/" + vals[1].(string),
			Branch:           vals[2].(string),
			BaseURL:          vals[3].(string),
			ImageDirectory:   vals[4].(string),
			URLPath:          vals[5].(string),
			OutputFile:       vals[6].(string) + ".json",
			Extensions:       []string{".jpg", ".jpeg", ".png"},
			SymlinkPolicy:    vals[8].(string),
			LowercaseKeys:    flags[0],
			AllowParentheses: flags[1],
			FoldDiacritics:   flags[2],
			EscapeNonASCII:   flags[3],
			EscapeURLs:       flags[4],
			CollisionMode:    linktable.CollisionMode(vals[10].(string)),
		}
		if vals[7].(bool) {
			cfg.Extensions = []string{".png", ".webp"}
		}
		if vals[11].(bool) {
			cfg.Substitutions = []normalizer.Substitution{{Pattern: "#", Replacement: "_no_"}}
		}
		return cfg
	})
}

func TestConfigurationRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Configuration round-trip preserves data", prop.ForAll(
		func(config *Configuration) bool {
			tmpFile := filepath.Join(t.TempDir(), "imagelinks.json")

			if err := Save(config, tmpFile); err != nil {
				t.Logf("Save failed: %v", err)
				return false
			}

			loaded, err := Load(tmpFile)
			if err != nil {
				t.Logf("Load failed: %v", err)
				return false
			}

			if !reflect.DeepEqual(config, loaded) {
				t.Logf("Expected %+v, got %+v", config, loaded)
				return false
			}
			return true
		},
		genConfiguration(),
	))

	properties.TestingRun(t)
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "imagelinks.json")
	content := `{"outputFile": "links.json", "lowercaseKeys": false}`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.OutputFile = "links.json"
	want.LowercaseKeys = false

	if !reflect.DeepEqual(want, cfg) {
		t.Errorf("Expected %+v, got %+v", want, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imagelinks.json")

	_, err := Load(path)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != FileNotFound {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "imagelinks.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if !reflect.DeepEqual(Default(), cfg) {
		t.Errorf("expected default configuration, got %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "imagelinks.json")
	if err := os.WriteFile(tmpFile, []byte(`{"outputFile": `), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadOrDefault(tmpFile)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != InvalidJSON {
		t.Fatalf("expected INVALID_JSON, got %v", err)
	}
}

func TestLoadRejectsInvalidConfiguration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "imagelinks.json")
	if err := os.WriteFile(tmpFile, []byte(`{"collisionMode": "first-wins"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := Load(tmpFile)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != ValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Configuration{}
	cfg.ApplyDefaults()

	defaults := Default()
	if cfg.RepoName != defaults.RepoName || cfg.Branch != defaults.Branch {
		t.Errorf("expected repo defaults, got %q@%q", cfg.RepoName, cfg.Branch)
	}
	if cfg.ImageDirectory != "images" || cfg.OutputFile != "drive_links.json" {
		t.Errorf("expected path defaults, got %q and %q", cfg.ImageDirectory, cfg.OutputFile)
	}
	if !reflect.DeepEqual(cfg.Extensions, defaults.Extensions) {
		t.Errorf("expected default extensions, got %v", cfg.Extensions)
	}
	if cfg.CollisionMode != linktable.LastWins {
		t.Errorf("expected last-wins, got %q", cfg.CollisionMode)
	}
	if cfg.LowercaseKeys {
		t.Error("ApplyDefaults must not touch boolean fields")
	}

	withBase := &Configuration{BaseURL: "https://cdn.example.com"}
	withBase.ApplyDefaults()
	if withBase.RepoName != "" {
		t.Error("repoName should stay empty when baseUrl is set")
	}
}

func TestResolvedURLs(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Configuration
		wantBase string
		wantPath string
	}{
		{
			name:     "defaults",
			cfg:      *Default(),
			wantBase: "https://raw.githubusercontent.com/xtwon/twon-elo-system/main",
			wantPath: "images",
		},
		{
			name:     "base override with trailing slash",
			cfg:      Configuration{BaseURL: "https://cdn.example.com/", ImageDirectory: "./pics/"},
			wantBase: "https://cdn.example.com",
			wantPath: "pics",
		},
		{
			name:     "explicit url path wins over directory",
			cfg:      Configuration{RepoName: "o/r", Branch: "dev", ImageDirectory: "/tmp/x/images", URLPath: "/assets/img/"},
			wantBase: "https://raw.githubusercontent.com/o/r/dev",
			wantPath: "assets/img",
		},
		{
			name:     "absolute directory uses its name",
			cfg:      Configuration{RepoName: "o/r", Branch: "main", ImageDirectory: "/srv/images/"},
			wantBase: "https://raw.githubusercontent.com/o/r/main",
			wantPath: "images",
		},
		{
			name:     "nested relative directory kept",
			cfg:      Configuration{RepoName: "o/r", Branch: "main", ImageDirectory: "static/images"},
			wantBase: "https://raw.githubusercontent.com/o/r/main",
			wantPath: "static/images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvedBaseURL(); got != tt.wantBase {
				t.Errorf("ResolvedBaseURL() = %q, want %q", got, tt.wantBase)
			}
			if got := tt.cfg.ResolvedURLPath(); got != tt.wantPath {
				t.Errorf("ResolvedURLPath() = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestPolicyFromConfiguration(t *testing.T) {
	cfg := Default()
	if got := cfg.Policy(); got != normalizer.DefaultPolicy() {
		t.Errorf("default configuration should select the default policy, got %+v", got)
	}

	cfg.AllowParentheses = true
	if !cfg.Policy().AllowParentheses {
		t.Error("expected AllowParentheses to carry over")
	}
}
