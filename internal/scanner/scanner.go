// Package scanner lists the image directory for imagelinks.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// NotADirectory indicates the path exists but is a regular file.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a scan error for a missing directory.
func IsNotFound(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr) && scanErr.Type == DirectoryNotFound
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	SymlinkPolicy string // "follow", "skip", or "error"
}

// DefaultScanOptions returns the default scan options.
// Symlinked images are listed like regular files.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		SymlinkPolicy: SymlinkPolicyFollow,
	}
}

// FileEntry represents a file found during scanning.
type FileEntry struct {
	Name     string // Filename only, exactly as stored on disk
	FullPath string // Directory joined with Name
}

// Scan lists the files directly inside directory with default options.
func Scan(directory string) ([]FileEntry, error) {
	return ScanWithOptions(directory, DefaultScanOptions())
}

// ScanWithOptions lists the files directly inside directory.
// Subdirectories are not entered and not returned. Entries come back
// sorted by name, so callers iterating them see a stable order.
func ScanWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{
				Type: DirectoryNotFound,
				Path: directory,
				Err:  err,
			}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{
				Type: PermissionDenied,
				Path: directory,
				Err:  err,
			}
		}
		return nil, err
	}

	if !info.IsDir() {
		return nil, &ScanError{
			Type: NotADirectory,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{
				Type: PermissionDenied,
				Path: directory,
				Err:  err,
			}
		}
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())

		include, err := isFile(fullPath, entry, opts)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}

		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: fullPath,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// isFile decides whether a directory entry is listed, applying the symlink policy.
func isFile(fullPath string, entry os.DirEntry, opts ScanOptions) (bool, error) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.Type().IsRegular(), nil
	}

	switch opts.SymlinkPolicy {
	case SymlinkPolicyError:
		return false, &ScanError{
			Type: SymlinkError,
			Path: fullPath,
			Err:  errors.New("symlink encountered with error policy"),
		}
	case SymlinkPolicySkip:
		return false, nil
	}

	target, err := os.Stat(fullPath)
	if err != nil {
		return false, nil // broken symlink
	}
	return target.Mode().IsRegular(), nil
}
