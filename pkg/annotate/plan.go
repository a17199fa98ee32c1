package annotate

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/importgroups/pkg/textutil"
)

// headerRule is the dashed rule drawn above and below each header label.
var headerRule = strings.Repeat("-", 44)

// HeaderDelimiter opens every section header. A block already containing it
// is considered annotated and left alone.
var HeaderDelimiter = "/*" + headerRule + "*"

// Header returns the three comment lines announcing a group of category c.
func Header(c Category) []string {
	return []string{
		HeaderDelimiter,
		" * " + c.String(),
		" *" + headerRule + "*/",
	}
}

// Outcome describes what planning decided for a file.
type Outcome int

// Planning outcomes.
const (
	OutcomeUpdated Outcome = iota
	OutcomeUnchanged
	OutcomeNoImports
	OutcomeAlreadyAnnotated
)

var outcomeNames = [...]string{
	OutcomeUpdated:          "updated",
	OutcomeUnchanged:        "unchanged",
	OutcomeNoImports:        "no-imports",
	OutcomeAlreadyAnnotated: "already-annotated",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}

	return outcomeNames[o]
}

// Group is one blank-line delimited run of lines inside the import block.
type Group struct {
	Lines    []string
	Source   string
	Category Category
}

// Result is the outcome of planning a single file.
type Result struct {
	Content    string
	Outcome    Outcome
	Block      Block
	Groups     []Group
	LineEnding textutil.LineEnding
}

// Changed reports whether Content differs from the planned input.
func (r Result) Changed() bool {
	return r.Outcome == OutcomeUpdated
}

// Planner computes annotated file content without touching any filesystem.
type Planner struct {
	classifier *Classifier
}

// NewPlanner returns a planner classifying groups with c.
func NewPlanner(c *Classifier) *Planner {
	return &Planner{classifier: c}
}

// Plan rewrites the import block of content with a header above every group.
// Groups keep their original order and are separated by exactly one blank
// line. Lines outside the block are preserved verbatim.
func (p *Planner) Plan(content string) Result {
	le := textutil.DetectLineEnding(content)
	lines := textutil.SplitLines(content, le)
	block := FindBlock(lines)

	res := Result{
		Content:    content,
		Outcome:    OutcomeUnchanged,
		Block:      block,
		LineEnding: le,
	}

	blockLines := lines[block.Start:block.End]

	if !slices.ContainsFunc(blockLines, IsImportLine) {
		res.Outcome = OutcomeNoImports

		// A header right after the directive stops the scan before any import.
		if block.End < len(lines) && isAnnotated(lines[block.End]) {
			res.Outcome = OutcomeAlreadyAnnotated
		}

		return res
	}

	if slices.ContainsFunc(blockLines, isAnnotated) {
		res.Outcome = OutcomeAlreadyAnnotated

		return res
	}

	raw := SplitGroups(blockLines)
	groups := make([]Group, 0, len(raw))

	for _, groupLines := range raw {
		source := ExtractSource(FirstImport(groupLines))
		groups = append(groups, Group{
			Lines:    groupLines,
			Source:   source,
			Category: p.classifier.Classify(source),
		})
	}

	res.Groups = groups

	rebuilt := make([]string, 0, len(lines)+len(groups)*4)
	rebuilt = append(rebuilt, lines[:block.Start]...)

	for i, g := range groups {
		if i > 0 {
			rebuilt = append(rebuilt, "")
		}

		rebuilt = append(rebuilt, Header(g.Category)...)
		rebuilt = append(rebuilt, g.Lines...)
	}

	rebuilt = append(rebuilt, lines[block.End:]...)

	updated := textutil.JoinLines(rebuilt, le)
	if updated == content {
		return res
	}

	res.Content = updated
	res.Outcome = OutcomeUpdated

	return res
}

func isAnnotated(line string) bool {
	return strings.Contains(line, HeaderDelimiter)
}
