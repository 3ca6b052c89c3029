package finding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// InputError reports scan output that is malformed or has an unexpected shape.
type InputError struct {
	// Index is the position in failed_checks, or -1 for document-level problems.
	Index int
	Field string
	Err   error
}

func (e *InputError) Error() string {
	switch {
	case e.Index < 0 && e.Field == "":
		return fmt.Sprintf("invalid scan input: %v", e.Err)
	case e.Index < 0:
		return fmt.Sprintf("invalid scan input: %s: %v", e.Field, e.Err)
	case e.Field == "":
		return fmt.Sprintf("invalid scan input: failed_checks[%d]: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("invalid scan input: failed_checks[%d].%s: %v", e.Index, e.Field, e.Err)
	}
}

func (e *InputError) Unwrap() error { return e.Err }

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

var errMissing = errors.New("missing required field")

type scanReport struct {
	CheckType string `json:"check_type"`
	Results   *struct {
		FailedChecks *[]json.RawMessage `json:"failed_checks"`
	} `json:"results"`
}

// rawFinding uses pointers so absent fields can be told apart from empty ones.
type rawFinding struct {
	CheckID       string     `json:"check_id"`
	CheckName     *string    `json:"check_name"`
	FileAbsPath   *string    `json:"file_abs_path"`
	FilePath      *string    `json:"file_path"`
	FileLineRange LineRange  `json:"file_line_range"`
	CodeBlock     []CodeLine `json:"code_block"`
	Guideline     *string    `json:"guideline"`
}

// Parse reads a scan document and returns its failed checks in input order.
func Parse(r io.Reader) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scan input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &InputError{Index: -1, Err: errors.New("empty document")}
	}

	var reportData json.RawMessage
	switch data[0] {
	case '[':
		var reports []json.RawMessage
		if err := json.Unmarshal(data, &reports); err != nil {
			return nil, &InputError{Index: -1, Err: err}
		}
		if len(reports) == 0 {
			return nil, &InputError{Index: -1, Err: errors.New("document is an empty array")}
		}
		reportData = reports[0]
	case '{':
		reportData = data
	default:
		return nil, &InputError{Index: -1, Err: errors.New("document must be a JSON array or object")}
	}

	var rep scanReport
	if err := json.Unmarshal(reportData, &rep); err != nil {
		return nil, &InputError{Index: -1, Err: err}
	}
	if rep.Results == nil {
		return nil, &InputError{Index: -1, Field: "results", Err: errMissing}
	}
	if rep.Results.FailedChecks == nil {
		return nil, &InputError{Index: -1, Field: "results.failed_checks", Err: errMissing}
	}

	raws := *rep.Results.FailedChecks
	findings := make([]Finding, 0, len(raws))
	for i, raw := range raws {
		f, err := decodeFinding(i, raw)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}

func decodeFinding(index int, data json.RawMessage) (Finding, error) {
	var raw rawFinding
	if err := json.Unmarshal(data, &raw); err != nil {
		return Finding{}, &InputError{Index: index, Err: err}
	}

	required := []struct {
		name    string
		present bool
	}{
		{"file_abs_path", raw.FileAbsPath != nil},
		{"file_path", raw.FilePath != nil},
		{"check_name", raw.CheckName != nil},
		{"file_line_range", raw.FileLineRange != nil},
		{"code_block", raw.CodeBlock != nil},
	}
	for _, r := range required {
		if !r.present {
			return Finding{}, &InputError{Index: index, Field: r.name, Err: errMissing}
		}
	}

	return Finding{
		CheckID:       raw.CheckID,
		CheckName:     *raw.CheckName,
		FileAbsPath:   *raw.FileAbsPath,
		FilePath:      *raw.FilePath,
		FileLineRange: raw.FileLineRange,
		CodeBlock:     raw.CodeBlock,
		Guideline:     raw.Guideline,
	}, nil
}
