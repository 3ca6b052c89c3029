package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/dshills/checkgate/internal/finding"
)

const (
	defaultTimeout = 60 * time.Second
	searchPageSize = 50
)

var issueKeyRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-[0-9]+$`)

// Options configures a JiraClient. All string fields are required.
type Options struct {
	BaseURL string
	User    string
	Token   string
	// Project is the key novelty searches are scoped to.
	Project string
	Timeout time.Duration
	// Transport overrides the underlying round tripper; nil uses the default.
	Transport http.RoundTripper
}

// JiraClient talks to the Jira REST API on behalf of one project.
type JiraClient struct {
	project string
	jira    *jira.Client
}

// NewJiraClient builds a client authenticated with basic auth (user + API token).
func NewJiraClient(opts Options) (*JiraClient, error) {
	switch {
	case opts.BaseURL == "":
		return nil, errors.New("tracker base URL is required")
	case opts.User == "":
		return nil, errors.New("tracker user is required")
	case opts.Token == "":
		return nil, errors.New("tracker token is required")
	case opts.Project == "":
		return nil, errors.New("tracker project key is required")
	}

	tp := jira.BasicAuthTransport{
		Username:  opts.User,
		Password:  opts.Token,
		Transport: opts.Transport,
	}
	httpCli := tp.Client()
	httpCli.Timeout = opts.Timeout
	if httpCli.Timeout <= 0 {
		httpCli.Timeout = defaultTimeout
	}

	cli, err := jira.NewClient(httpCli, strings.TrimRight(opts.BaseURL, "/")+"/")
	if err != nil {
		return nil, fmt.Errorf("creating jira client: %w", err)
	}
	return &JiraClient{project: opts.Project, jira: cli}, nil
}

// Project returns the key novelty searches are scoped to.
func (c *JiraClient) Project() string { return c.project }

// IsNovel reports whether no ticket in the project carries fp in its
// description. Full-text search can return near matches, so each hit is
// checked for the exact fingerprint. An empty result is novel.
func (c *JiraClient) IsNovel(ctx context.Context, fp finding.Fingerprint) (bool, error) {
	jql := fmt.Sprintf(`project = "%s" AND description ~ "%s"`, c.project, fp)

	startAt := 0
	for {
		issues, resp, err := c.jira.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: searchPageSize,
			Fields:     []string{"description"},
		})
		if err != nil {
			return false, remoteError("search", resp, err)
		}
		for _, issue := range issues {
			if issue.Fields != nil && strings.Contains(issue.Fields.Description, string(fp)) {
				return false, nil
			}
		}

		startAt += len(issues)
		if len(issues) == 0 || resp == nil || startAt >= resp.Total {
			return true, nil
		}
	}
}

// FetchKey resolves an issue id to its display key (e.g. "DEVSEC-42").
func (c *JiraClient) FetchKey(ctx context.Context, id string) (string, error) {
	issue, resp, err := c.jira.Issue.GetWithContext(ctx, id, nil)
	if err != nil {
		return "", remoteError("get issue "+id, resp, err)
	}
	if issue.Key == "" {
		return "", &RemoteError{Op: "get issue " + id, Err: errors.New("response has no issue key")}
	}
	return issue.Key, nil
}

// Create files the draft and returns the new issue id.
func (c *JiraClient) Create(ctx context.Context, d Draft) (string, error) {
	issueType := d.IssueType
	if issueType == "" {
		issueType = IssueTypeTask
	}
	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     jira.Project{Key: d.ProjectKey},
			Summary:     d.Title,
			Description: d.Description,
			Type:        jira.IssueType{Name: issueType},
		},
	}

	created, resp, err := c.jira.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return "", remoteError("create issue in "+d.ProjectKey, resp, err)
	}
	if created == nil || created.ID == "" {
		return "", &RemoteError{Op: "create issue in " + d.ProjectKey, Err: errors.New("response has no issue id")}
	}
	return created.ID, nil
}

// Link relates the tracking ticket (inward) to the work ticket (outward) and
// attaches annotation as the link comment.
func (c *JiraClient) Link(ctx context.Context, trackingKey, workKey, annotation string) (LinkResult, error) {
	for _, k := range []string{trackingKey, workKey} {
		if !issueKeyRe.MatchString(k) {
			return LinkResult{}, fmt.Errorf("invalid issue key %q", k)
		}
	}

	link := &jira.IssueLink{
		Type:         jira.IssueLinkType{Name: LinkTypeRelates},
		InwardIssue:  &jira.Issue{Key: trackingKey},
		OutwardIssue: &jira.Issue{Key: workKey},
		Comment:      &jira.Comment{Body: annotation},
	}
	resp, err := c.jira.Issue.AddLinkWithContext(ctx, link)
	if err != nil {
		return LinkResult{}, remoteError("link "+trackingKey+" to "+workKey, resp, err)
	}
	return LinkResult{Type: LinkTypeRelates, TrackingKey: trackingKey, WorkKey: workKey}, nil
}
