package finding

import "testing"

func TestFingerprintOf_Golden(t *testing.T) {
	// Digests already stored in tracker tickets; these must never change.
	tests := []struct {
		project, check, path string
		want                 Fingerprint
	}{
		{"terraform-infra", "CKV_AWS_20", "/s3.tf", "54661c31f7573c27d633464349ee5a66"},
		{"repo", "Ensure no wildcard", "/main.tf", "9435c79c4b664ffa5b2f8f1059e8969d"},
	}
	for _, tt := range tests {
		if got := FingerprintOf(tt.project, tt.check, tt.path); got != tt.want {
			t.Errorf("FingerprintOf(%q, %q, %q) = %q, want %q", tt.project, tt.check, tt.path, got, tt.want)
		}
	}
}

func TestFingerprint_IgnoresLinesAndCode(t *testing.T) {
	a := Finding{
		CheckName:     "Ensure S3 bucket has versioning",
		FileAbsPath:   "/src/infra/s3.tf",
		FilePath:      "/s3.tf",
		FileLineRange: LineRange{1, 3},
		CodeBlock:     []CodeLine{{1, "resource \"aws_s3_bucket\" \"a\" {\n"}},
	}
	b := a
	b.FileLineRange = LineRange{40, 52}
	b.CodeBlock = []CodeLine{{40, "# moved\n"}, {41, "resource {}\n"}}

	if a.Fingerprint("infra") != b.Fingerprint("infra") {
		t.Error("fingerprint changed when only lines and code changed")
	}
}

func TestFingerprint_DistinctFields(t *testing.T) {
	base := FingerprintOf("proj", "check", "/a.tf")
	variants := map[string]Fingerprint{
		"project": FingerprintOf("proj2", "check", "/a.tf"),
		"check":   FingerprintOf("proj", "check2", "/a.tf"),
		"path":    FingerprintOf("proj", "check", "/b.tf"),
	}
	for field, fp := range variants {
		if fp == base {
			t.Errorf("changing %s did not change the fingerprint", field)
		}
	}
}

func TestFingerprint_Format(t *testing.T) {
	fp := FingerprintOf("p", "c", "f")
	if len(fp) != 32 {
		t.Fatalf("len = %d, want 32", len(fp))
	}
	for _, r := range fp {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("fingerprint %q is not lowercase hex", fp)
		}
	}
}
