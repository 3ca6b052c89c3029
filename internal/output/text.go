package output

import (
	"fmt"
	"io"

	"github.com/dshills/checkgate/internal/finding"
	"github.com/dshills/checkgate/internal/tracker"
)

// SuccessMessage is printed when a run leaves nothing for the developer to fix.
const SuccessMessage = "Scan completed, no new findings"

// TextWriter outputs the console report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	if report.Result == nil || !report.HasNovel() {
		ew := &errWriter{w: w}
		if report.Result != nil && len(report.Filed) > 0 {
			ew.printf("Filed %d new finding(s) on %s\n", len(report.Filed), report.Branch)
		}
		ew.println(SuccessMessage)
		return ew.err
	}
	return PrintDrafts(w, report.Buffered, report.Branch)
}

// PrintDrafts prints a header naming the branch, then the title and
// fence-stripped description of each draft.
func PrintDrafts(w io.Writer, drafts []tracker.Draft, branch string) error {
	ew := &errWriter{w: w}
	ew.printf("[*] NEW Issues in %s\n\n", branch)
	for _, d := range drafts {
		ew.printf("[!] %s\n\n", d.Title)
		ew.printf("%s\n\n\n\n", finding.StripFence(d.Description))
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
