// Package builder produces the image link table: it lists the image
// directory, keeps the images, derives a key and a URL for each one, and
// writes the resulting table.
package builder

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"imagelinks/internal/config"
	"imagelinks/internal/filter"
	"imagelinks/internal/linktable"
	"imagelinks/internal/normalizer"
	"imagelinks/internal/output"
	"imagelinks/internal/scanner"
)

// Builder runs one link-table build for a fixed configuration.
type Builder struct {
	cfg        *config.Configuration
	out        *output.Output
	normalizer *normalizer.Normalizer
	filter     *filter.ExtensionFilter
	baseURL    string
	urlPath    string
}

// New prepares a Builder from cfg. It fails only when the configured
// substitution rules do not compile or the collision mode is unknown.
func New(cfg *config.Configuration, out *output.Output) (*Builder, error) {
	if out == nil {
		out = output.Discard()
	}

	extra, err := normalizer.CompileRules(cfg.Substitutions)
	if err != nil {
		return nil, fmt.Errorf("failed to compile substitutions: %w", err)
	}
	if _, err := linktable.ParseCollisionMode(string(cfg.CollisionMode)); err != nil {
		return nil, err
	}

	return &Builder{
		cfg:        cfg,
		out:        out,
		normalizer: normalizer.NewWithRules(cfg.Policy(), extra),
		filter:     filter.NewExtensionFilter(cfg.Extensions),
		baseURL:    cfg.ResolvedBaseURL(),
		urlPath:    cfg.ResolvedURLPath(),
	}, nil
}

// Key returns the lookup key for filename under the builder's policy.
func (b *Builder) Key(filename string) string {
	return b.normalizer.Normalize(filename)
}

// URL returns the public URL for filename.
func (b *Builder) URL(filename string) string {
	return URLFor(b.baseURL, b.urlPath, filename, b.cfg.EscapeURLs)
}

// Build scans the image directory and assembles the link table in memory.
//
// Files are processed in name order. With the last-wins collision mode a
// later file replaces an earlier one with the same key; with the error mode
// Build stops at the first collision. Files whose names are not valid UTF-8
// or normalize to an empty key are left out with a warning.
func (b *Builder) Build() (*linktable.Table, *Summary, error) {
	start := time.Now()

	mode, _ := linktable.ParseCollisionMode(string(b.cfg.CollisionMode))
	table := linktable.New(mode)

	b.out.Verbose("Extensions: %s", strings.Join(b.filter.Extensions(), ", "))
	b.out.Verbose("Rules: %s", strings.Join(b.ruleNames(), ", "))

	files, err := scanner.ScanWithOptions(b.cfg.ImageDirectory, scanner.ScanOptions{
		SymlinkPolicy: b.cfg.SymlinkPolicy,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", b.cfg.ImageDirectory, err)
	}

	summary := &Summary{
		FilesFound: len(files),
		OutputFile: b.cfg.OutputFile,
	}
	b.out.Info("Found %d files in %s", len(files), b.cfg.ImageDirectory)

	b.out.StartProgress(len(files))
	defer b.out.EndProgress()

	for i, file := range files {
		b.out.UpdateProgress(i+1, "")

		if !b.filter.Accepts(file.Name) {
			summary.Skipped++
			b.out.Verbose("  Skipped (not an image): %s", file.Name)
			continue
		}

		// JSON cannot carry these names byte for byte.
		if !utf8.ValidString(file.Name) {
			summary.Skipped++
			b.out.Warn("skipped %q: filename is not valid UTF-8", file.FullPath)
			continue
		}

		key := b.Key(file.Name)
		if key == "" {
			summary.Skipped++
			b.out.Warn("skipped %s: filename yields an empty key", file.FullPath)
			continue
		}

		link := b.URL(file.Name)
		previous, taken := table.Source(key)
		if err := table.Put(key, link, file.Name); err != nil {
			return nil, nil, err
		}
		if taken && previous != file.Name {
			b.out.Verbose("  Replaced: %s (was %s)", key, previous)
		}
		summary.Added++
		b.out.Info("  Added: %s -> %s", key, link)
	}

	summary.Entries = table.Len()
	summary.Duration = time.Since(start)
	return table, summary, nil
}

func (b *Builder) ruleNames() []string {
	rules := b.normalizer.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// Run builds the table and writes it to the configured output file.
// Nothing is written if the build fails.
func (b *Builder) Run() (*Summary, error) {
	table, summary, err := b.Build()
	if err != nil {
		return nil, err
	}

	opts := linktable.DefaultWriteOptions()
	opts.EscapeNonASCII = b.cfg.EscapeNonASCII
	if err := table.Write(b.cfg.OutputFile, opts); err != nil {
		return nil, err
	}

	b.out.Info("Updated %s with %d entries.", b.cfg.OutputFile, table.Len())
	return summary, nil
}

// URLFor joins base, the path segment and the original filename with
// slashes. When escape is set the filename is percent-encoded as a single
// path segment; otherwise it is used verbatim.
func URLFor(base, segment, filename string, escape bool) string {
	if escape {
		filename = url.PathEscape(filename)
	}
	parts := make([]string, 0, 3)
	if base = strings.TrimRight(base, "/"); base != "" {
		parts = append(parts, base)
	}
	if segment = strings.Trim(segment, "/"); segment != "" {
		parts = append(parts, segment)
	}
	parts = append(parts, filename)
	return strings.Join(parts, "/")
}
