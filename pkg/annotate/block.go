package annotate

import (
	"regexp"

	"github.com/Sumatoshi-tech/importgroups/pkg/textutil"
)

var (
	directivePattern = regexp.MustCompile(`^\s*['"]use (client|server)['"];?\s*$`)
	importPattern    = regexp.MustCompile(`^\s*import\b`)
	sourcePattern    = regexp.MustCompile(`from\s+['"]([^'"]+)['"]|import\s+['"]([^'"]+)['"]`)
)

// Block is the half-open line range [Start, End) of the leading import region.
type Block struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Len returns the number of lines in the block.
func (b Block) Len() int {
	return b.End - b.Start
}

// IsImportLine reports whether line starts an import statement.
func IsImportLine(line string) bool {
	return importPattern.MatchString(line)
}

// IsDirective reports whether line is a "use client" or "use server" pragma.
func IsDirective(line string) bool {
	return directivePattern.MatchString(line)
}

// FindBlock locates the import block: leading blank lines and at most one
// mode directive are skipped, then import and blank lines are consumed up to
// the first line that is neither.
func FindBlock(lines []string) Block {
	idx := skipBlank(lines, 0)

	if idx < len(lines) && IsDirective(lines[idx]) {
		idx = skipBlank(lines, idx+1)
	}

	end := idx
	for end < len(lines) && (textutil.IsBlank(lines[end]) || IsImportLine(lines[end])) {
		end++
	}

	return Block{Start: idx, End: end}
}

func skipBlank(lines []string, idx int) int {
	for idx < len(lines) && textutil.IsBlank(lines[idx]) {
		idx++
	}

	return idx
}

// SplitGroups partitions lines into runs of non-blank lines. Blank runs only
// separate groups and are not returned.
func SplitGroups(lines []string) [][]string {
	var (
		groups  [][]string
		current []string
	)

	for _, line := range lines {
		if textutil.IsBlank(line) {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}

			continue
		}

		current = append(current, line)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}

// FirstImport returns the first import line of a group, or "" when the group
// has none.
func FirstImport(group []string) string {
	for _, line := range group {
		if IsImportLine(line) {
			return line
		}
	}

	return ""
}

// ExtractSource returns the module specifier of a single physical import
// line: the quoted string after "from", or after a bare "import". Statements
// whose specifier sits on a later line yield "".
func ExtractSource(line string) string {
	m := sourcePattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}

	if m[1] != "" {
		return m[1]
	}

	return m[2]
}
