package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/checkgate/internal/reconcile"
	"github.com/dshills/checkgate/internal/tracker"
)

func sampleDraft() tracker.Draft {
	return tracker.Draft{
		ProjectKey:  "DEVSEC",
		Title:       "Project: infra ISSUE: CKV_AWS_20 File: /s3.tf",
		Description: "ISSUE: CKV_AWS_20\nREPO: infra\nFILE: /s3.tf LINES: [10, 11]\n{code}10: foo11: bar{code}\n\nabc123",
		IssueType:   tracker.IssueTypeTask,
		Fingerprint: "abc123",
	}
}

func TestTextWriter_NoNovelFindings(t *testing.T) {
	report := &Report{Result: &reconcile.Result{Branch: "feature/x", Processed: 3, Tracked: 3}}

	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if got := buf.String(); got != SuccessMessage+"\n" {
		t.Errorf("output = %q, want success message only", got)
	}
}

func TestTextWriter_FiledOnProtectedBranch(t *testing.T) {
	report := &Report{Result: &reconcile.Result{
		Branch:    "develop",
		Protected: true,
		Filed:     []reconcile.FiledPair{{TrackingKey: "DEVSEC-1", WorkKey: "PAY-1"}},
	}}

	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Filed 1 new finding(s) on develop") {
		t.Errorf("output missing filed summary: %q", out)
	}
	if !strings.HasSuffix(out, SuccessMessage+"\n") {
		t.Errorf("output should end with success message: %q", out)
	}
}

func TestTextWriter_Buffered(t *testing.T) {
	report := &Report{Result: &reconcile.Result{
		Branch:   "feature/xyz",
		Buffered: []tracker.Draft{sampleDraft()},
	}}

	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "[*] NEW Issues in feature/xyz\n\n") {
		t.Errorf("missing branch header: %q", out)
	}
	if strings.Count(out, "[!] ") != 1 {
		t.Errorf("expected exactly one title line: %q", out)
	}
	if !strings.Contains(out, "[!] Project: infra ISSUE: CKV_AWS_20 File: /s3.tf\n") {
		t.Errorf("missing title: %q", out)
	}
	if strings.Contains(out, "{code}") {
		t.Errorf("code fences should be stripped: %q", out)
	}
	if !strings.Contains(out, "\n10: foo11: bar\n") {
		t.Errorf("snippet lines not printed contiguously: %q", out)
	}
	if strings.Contains(out, SuccessMessage) {
		t.Error("success message printed alongside new findings")
	}
}

func TestPrintDrafts_Multiple(t *testing.T) {
	a, b := sampleDraft(), sampleDraft()
	b.Title = "Project: infra ISSUE: CKV_AWS_21 File: /s3.tf"

	var buf bytes.Buffer
	if err := PrintDrafts(&buf, []tracker.Draft{a, b}, "bugfix/1"); err != nil {
		t.Fatalf("PrintDrafts error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "CKV_AWS_20") > strings.Index(out, "CKV_AWS_21") {
		t.Error("drafts printed out of order")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintDrafts_WriteError(t *testing.T) {
	err := PrintDrafts(failWriter{}, []tracker.Draft{sampleDraft()}, "x")
	if err == nil || err.Error() != "disk full" {
		t.Errorf("err = %v, want disk full", err)
	}
}

func TestGetWriter(t *testing.T) {
	for _, f := range []string{"", "text", "json"} {
		if _, err := GetWriter(f); err != nil {
			t.Errorf("GetWriter(%q) error: %v", f, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("GetWriter(sarif) should fail")
	}
}
