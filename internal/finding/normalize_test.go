package finding

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDeriveProject(t *testing.T) {
	tests := []struct {
		name string
		abs  string
		rel  string
		want string
	}{
		{"leading slash rel", "/home/ci/build/payments-api/main.tf", "/main.tf", "payments-api"},
		{"nested rel", "/work/infra/modules/vpc/main.tf", "/modules/vpc/main.tf", "infra"},
		{"rel without slash", "/work/infra/main.tf", "main.tf", "infra"},
		{"windows separators", `C:\ci\repo\main.tf`, `\main.tf`, "repo"},
		{"bare root", "repo/main.tf", "/main.tf", "repo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveProject(Finding{FileAbsPath: tt.abs, FilePath: tt.rel})
			if got != tt.want {
				t.Errorf("DeriveProject = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeTitle(t *testing.T) {
	f := Finding{CheckName: `Ensure "no" wildcard!`, FilePath: "/iam.tf"}
	got := SafeTitle(f, "repo")
	want := "Project: repo ISSUE: Ensure no wildcard File: /iam.tf"
	if got != want {
		t.Errorf("SafeTitle = %q, want %q", got, want)
	}

	f.CheckName = `?!%@*"`
	if got := SafeTitle(f, "repo"); strings.ContainsAny(got, `?!%@*"`) {
		t.Errorf("SafeTitle kept unsafe characters: %q", got)
	}
}

func TestRenderSnippet(t *testing.T) {
	got := RenderSnippet([]CodeLine{{10, "foo"}, {11, "bar"}})
	want := "{code}10: foo11: bar{code}"
	if got != want {
		t.Errorf("RenderSnippet = %q, want %q", got, want)
	}
	if stripped := StripFence(got); stripped != "10: foo11: bar" {
		t.Errorf("StripFence = %q, want %q", stripped, "10: foo11: bar")
	}
}

func TestRenderSnippet_Empty(t *testing.T) {
	if got := RenderSnippet(nil); got != "{code}{code}" {
		t.Errorf("RenderSnippet(nil) = %q", got)
	}
}

func TestRenderDescription(t *testing.T) {
	f := Finding{
		CheckName:     "Ensure S3 versioning",
		FilePath:      "/s3.tf",
		FileLineRange: LineRange{1, 2},
	}

	t.Run("without guideline", func(t *testing.T) {
		got := RenderDescription(f, "{code}1: a{code}", "abc123", "infra")
		want := "ISSUE: Ensure S3 versioning\nREPO: infra\nFILE: /s3.tf LINES: [1, 2]\n{code}1: a{code}\n\nabc123"
		if got != want {
			t.Errorf("RenderDescription =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("with guideline", func(t *testing.T) {
		g := f
		g.Guideline = strPtr("https://docs.example/s3")
		got := RenderDescription(g, "{code}{code}", "abc123", "infra")
		want := "ISSUE: Ensure S3 versioning\nREPO: infra\nFILE: /s3.tf LINES: [1, 2]\nGuideline: https://docs.example/s3\n{code}{code}\n\nabc123"
		if got != want {
			t.Errorf("RenderDescription =\n%q\nwant\n%q", got, want)
		}
	})
}

func TestNormalize(t *testing.T) {
	f := Finding{
		CheckName:     "CKV_AWS_20",
		FileAbsPath:   "/ci/terraform-infra/s3.tf",
		FilePath:      "/s3.tf",
		FileLineRange: LineRange{3, 4},
		CodeBlock:     []CodeLine{{3, "acl = \"public-read\"\n"}},
	}
	n := Normalize(f)
	if n.Project != "terraform-infra" {
		t.Errorf("Project = %q", n.Project)
	}
	if n.Fingerprint != "54661c31f7573c27d633464349ee5a66" {
		t.Errorf("Fingerprint = %q", n.Fingerprint)
	}
	lines := strings.Split(n.Description, "\n")
	if last := lines[len(lines)-1]; last != string(n.Fingerprint) {
		t.Errorf("last description line = %q, want fingerprint", last)
	}
	if !strings.Contains(n.Description, "{code}3: acl = \"public-read\"\n{code}") {
		t.Errorf("Description missing snippet: %q", n.Description)
	}
}
