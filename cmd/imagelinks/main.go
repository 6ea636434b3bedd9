// Package main provides the CLI entry point for imagelinks.
package main

import (
	"errors"
	"fmt"
	"os"

	"imagelinks/internal/builder"
	"imagelinks/internal/config"
	"imagelinks/internal/output"
	"imagelinks/internal/scanner"

	"github.com/spf13/cobra"
)

// rootCmd builds the command. It takes no arguments; everything it needs
// comes from the built-in configuration and the optional imagelinks.json.
func rootCmd() *cobra.Command {
	var initConfig bool

	cmd := &cobra.Command{
		Use:   "imagelinks",
		Short: "Generate a name-to-URL lookup table for the image directory",
		Long: `imagelinks lists the image directory, turns every image filename into a
normalized lookup key, and writes a JSON object mapping each key to the
image's public URL.

Settings are fixed defaults, optionally overridden by imagelinks.json in the
current directory. Use --init to write those defaults to imagelinks.json.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initConfig {
				return writeDefaultConfig(config.DefaultPath, output.DefaultConfig())
			}
			return run(config.DefaultPath, output.DefaultConfig())
		},
	}
	cmd.Flags().BoolVar(&initConfig, "init", false, "write the default configuration to "+config.DefaultPath+" and exit")
	return cmd
}

// writeDefaultConfig creates configPath holding the built-in settings.
// An existing file is left untouched.
func writeDefaultConfig(configPath string, outCfg output.Config) error {
	_, err := os.Stat(configPath)
	if err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), configPath); err != nil {
		return err
	}
	output.New(outCfg).Info("Wrote default configuration to %s", configPath)
	return nil
}

// run loads the configuration and performs one build. Returned errors are
// printed by cobra. A missing image directory is reported here and is not
// an error.
func run(configPath string, outCfg output.Config) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	outCfg.Verbose = outCfg.Verbose || cfg.Verbose
	out := output.New(outCfg)

	for _, w := range config.ValidateConfig(cfg).Warnings {
		if w.Field == "imageDirectory" {
			continue // reported below if the run needs it
		}
		out.Warn("%s: %s", w.Field, w.Message)
	}

	b, err := builder.New(cfg, out)
	if err != nil {
		return err
	}

	summary, err := b.Run()
	if err != nil {
		if scanner.IsNotFound(err) {
			out.Error("Folder '%s' not found. Make sure you run imagelinks from your repo root.", cfg.ImageDirectory)
			return nil
		}
		return err
	}

	if out.IsVerbose() {
		out.Info("%s", summary.PrintSummary())
	}
	return nil
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
