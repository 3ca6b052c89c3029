package finding

import (
	"fmt"
	"strings"
)

// CodeFence opens and closes a preformatted block in the tracker's markup.
const CodeFence = "{code}"

// titleUnsafe are stripped from check names because the tracker's search
// syntax treats them as operators.
var titleUnsafe = strings.NewReplacer(
	"?", "",
	"!", "",
	"%", "",
	"@", "",
	"*", "",
	`"`, "",
)

// DeriveProject returns the last path segment of the scan root, found by
// removing the relative file path from the absolute one.
func DeriveProject(f Finding) string {
	root := strings.TrimSuffix(f.FileAbsPath, f.FilePath)
	root = strings.TrimRight(root, `/\`)
	if i := strings.LastIndexAny(root, `/\`); i >= 0 {
		return root[i+1:]
	}
	return root
}

// SafeTitle builds the ticket summary with search-unsafe characters removed
// from the check name.
func SafeTitle(f Finding, project string) string {
	return fmt.Sprintf("Project: %s ISSUE: %s File: %s",
		project, titleUnsafe.Replace(f.CheckName), f.FilePath)
}

// RenderSnippet formats code lines as "N: text" inside a code fence. Lines are
// concatenated as-is; scanner text already carries its own newlines.
func RenderSnippet(lines []CodeLine) string {
	var sb strings.Builder
	sb.WriteString(CodeFence)
	for _, l := range lines {
		fmt.Fprintf(&sb, "%d: %s", l.Number, l.Text)
	}
	sb.WriteString(CodeFence)
	return sb.String()
}

// RenderDescription composes the ticket body. The fingerprint is always the
// last line.
func RenderDescription(f Finding, snippet string, fp Fingerprint, project string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ISSUE: %s\n", f.CheckName)
	fmt.Fprintf(&sb, "REPO: %s\n", project)
	fmt.Fprintf(&sb, "FILE: %s LINES: %s\n", f.FilePath, f.FileLineRange)
	if f.HasGuideline() {
		fmt.Fprintf(&sb, "Guideline: %s\n", *f.Guideline)
	}
	sb.WriteString(snippet)
	sb.WriteString("\n\n")
	sb.WriteString(string(fp))
	return sb.String()
}

// StripFence removes code fence markers for plain console output.
func StripFence(s string) string {
	return strings.ReplaceAll(s, CodeFence, "")
}

// Normalized is everything derived from a Finding that ticket drafting needs.
type Normalized struct {
	Project     string
	Fingerprint Fingerprint
	Title       string
	Description string
}

// Normalize derives project, fingerprint, title, and description in one pass.
func Normalize(f Finding) Normalized {
	project := DeriveProject(f)
	fp := f.Fingerprint(project)
	return Normalized{
		Project:     project,
		Fingerprint: fp,
		Title:       SafeTitle(f, project),
		Description: RenderDescription(f, RenderSnippet(f.CodeBlock), fp, project),
	}
}
