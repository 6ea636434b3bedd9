package builder

import (
	"fmt"
	"time"
)

// Summary contains statistics from one build.
type Summary struct {
	FilesFound int           // Files listed in the image directory
	Added      int           // Images that produced an entry (including overwritten ones)
	Skipped    int           // Non-images and names that normalize to an empty key
	Entries    int           // Distinct keys in the table
	OutputFile string        // Where the table is written
	Duration   time.Duration // Total processing time
}

// PrintSummary returns a one-line description of the build.
func (s *Summary) PrintSummary() string {
	return fmt.Sprintf("Indexed %d files: %d added, %d skipped, %d entries in %s (%s)",
		s.FilesFound, s.Added, s.Skipped, s.Entries, s.OutputFile, s.Duration.Round(time.Millisecond))
}
