package finding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CodeLine is a single (line number, source text) pair from a code block.
type CodeLine struct {
	Number int
	Text   string
}

// UnmarshalJSON decodes the scanner's two-element [lineNumber, "text"] form.
func (c *CodeLine) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("code line must be a [number, text] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("code line must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Number); err != nil {
		return fmt.Errorf("code line number: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Text); err != nil {
		return fmt.Errorf("code line text: %w", err)
	}
	return nil
}

// MarshalJSON encodes the line back into its pair form.
func (c CodeLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Number, c.Text})
}

// LineRange is the scanner's file_line_range, usually [start, end].
type LineRange []int

// String renders the range as a bracketed, comma-separated list: "[10, 12]".
func (r LineRange) String() string {
	parts := make([]string, len(r))
	for i, n := range r {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Finding is one failed check from the scan. Values are not modified after
// Parse returns them.
type Finding struct {
	CheckID       string     `json:"check_id,omitempty"`
	CheckName     string     `json:"check_name"`
	FileAbsPath   string     `json:"file_abs_path"`
	FilePath      string     `json:"file_path"`
	FileLineRange LineRange  `json:"file_line_range"`
	CodeBlock     []CodeLine `json:"code_block"`
	Guideline     *string    `json:"guideline"`
}

// HasGuideline reports whether the scanner supplied a guideline (null in the
// input means absent).
func (f Finding) HasGuideline() bool {
	return f.Guideline != nil
}
