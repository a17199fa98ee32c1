package runner

import (
	"time"

	"github.com/Sumatoshi-tech/importgroups/pkg/annotate"
)

// Status is the final state of one eligible file.
type Status string

// File statuses.
const (
	StatusUpdated          Status = "updated"
	StatusUnchanged        Status = "unchanged"
	StatusNoImports        Status = "no-imports"
	StatusAlreadyAnnotated Status = "already-annotated"
	StatusSkippedBinary    Status = "skipped-binary"
	StatusFailed           Status = "failed"
)

func statusOf(outcome annotate.Outcome) Status {
	switch outcome {
	case annotate.OutcomeUpdated:
		return StatusUpdated
	case annotate.OutcomeNoImports:
		return StatusNoImports
	case annotate.OutcomeAlreadyAnnotated:
		return StatusAlreadyAnnotated
	default:
		return StatusUnchanged
	}
}

// GroupInfo describes one annotated import group.
type GroupInfo struct {
	Category string `json:"category" yaml:"category"`
	Source   string `json:"source"   yaml:"source"`
	Lines    int    `json:"lines"    yaml:"lines"`
}

// FileResult is the outcome for a single file.
type FileResult struct {
	Path         string      `json:"path"                    yaml:"path"`
	Status       Status      `json:"status"                  yaml:"status"`
	Groups       []GroupInfo `json:"groups,omitempty"        yaml:"groups,omitempty"`
	BytesWritten int         `json:"bytes_written,omitempty" yaml:"bytes_written,omitempty"`
	Error        string      `json:"error,omitempty"         yaml:"error,omitempty"`

	// Before and After hold the file content when the run keeps it for diffs.
	Before string `json:"-" yaml:"-"`
	After  string `json:"-" yaml:"-"`

	Err error `json:"-" yaml:"-"`
}

// Changed reports whether the file was (or, in a dry run, would be) rewritten.
func (fr FileResult) Changed() bool {
	return fr.Status == StatusUpdated
}

// Summary accumulates the results of a run.
type Summary struct {
	Root         string         `json:"root"          yaml:"root"`
	DryRun       bool           `json:"dry_run"       yaml:"dry_run"`
	Scanned      int            `json:"scanned"       yaml:"scanned"`
	Changed      int            `json:"changed"       yaml:"changed"`
	Failed       int            `json:"failed"        yaml:"failed"`
	BytesWritten int64          `json:"bytes_written" yaml:"bytes_written"`
	Categories   map[string]int `json:"categories"    yaml:"categories"`
	Files        []FileResult   `json:"files"         yaml:"files"`
	Duration     time.Duration  `json:"duration_ns"   yaml:"duration"`

	// Errors lists every file access failure, including unreadable directories.
	Errors []error `json:"-" yaml:"-"`
}

func newSummary(root string, dryRun bool) *Summary {
	categories := make(map[string]int, len(annotate.Categories()))
	for _, c := range annotate.Categories() {
		categories[c.String()] = 0
	}

	return &Summary{Root: root, DryRun: dryRun, Categories: categories}
}

func (s *Summary) add(fr FileResult) {
	s.Scanned++
	s.Files = append(s.Files, fr)

	switch fr.Status {
	case StatusUpdated:
		s.Changed++
		s.BytesWritten += int64(fr.BytesWritten)

		for _, g := range fr.Groups {
			s.Categories[g.Category]++
		}
	case StatusFailed:
		s.Failed++
		s.Errors = append(s.Errors, fr.Err)
	default:
	}
}

// ChangedFiles returns the results of files that were rewritten.
func (s *Summary) ChangedFiles() []FileResult {
	var out []FileResult

	for _, fr := range s.Files {
		if fr.Changed() {
			out = append(out, fr)
		}
	}

	return out
}

// CountByStatus returns how many files ended in each status.
func (s *Summary) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, fr := range s.Files {
		counts[fr.Status]++
	}

	return counts
}
