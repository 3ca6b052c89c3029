package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/checkgate/internal/reconcile"
)

// Report is what a writer renders: the engine result plus run metadata.
type Report struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	RunID   string `json:"runId"`
	Commit  string `json:"commit,omitempty"`
	DryRun  bool   `json:"dryRun,omitempty"`
	*reconcile.Result
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to outPath, or to stdout when outPath is empty.
func WriteReport(report *Report, format, outPath string, stdout io.Writer) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = stdout
	}

	return writer.Write(w, report)
}
