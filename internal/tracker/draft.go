package tracker

import "github.com/dshills/checkgate/internal/finding"

// IssueTypeTask is the issue type every ticket is filed as.
const IssueTypeTask = "Task"

// LinkTypeRelates is the link created between tracking and work tickets.
const LinkTypeRelates = "Relates"

// Draft is ticket content that has not been submitted.
type Draft struct {
	ProjectKey  string              `json:"projectKey"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	IssueType   string              `json:"issueType"`
	Fingerprint finding.Fingerprint `json:"fingerprint"`
}

// NewDraft builds a Task draft for projectKey from a normalized finding.
func NewDraft(projectKey string, n finding.Normalized) Draft {
	return Draft{
		ProjectKey:  projectKey,
		Title:       n.Title,
		Description: n.Description,
		IssueType:   IssueTypeTask,
		Fingerprint: n.Fingerprint,
	}
}

// ForProject returns a copy of the draft filed under another project.
func (d Draft) ForProject(projectKey string) Draft {
	d.ProjectKey = projectKey
	return d
}

// LinkResult describes a created link.
type LinkResult struct {
	Type        string `json:"type"`
	TrackingKey string `json:"trackingKey"`
	WorkKey     string `json:"workKey"`
}
