// Package reconcile decides, finding by finding, whether a scan result is
// already tracked and what to do with the ones that are not.
//
// On protected branches a novel finding becomes a tracking ticket in the
// security project, a work ticket in the team project, and a link between the
// two. On every other branch it is buffered in the [Result] so the caller can
// print it and fail the build.
//
// Filing is not transactional: if the work ticket or the link fails, the
// tracking ticket already exists. The next run finds its fingerprint and
// skips the finding, so the pair has to be completed by hand.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/checkgate/internal/finding"
	"github.com/dshills/checkgate/internal/tracker"
)

// LinkComment annotates every tracking/work link.
const LinkComment = "Ticket used for Security Metric, Project ticket used to track work"

// DefaultProtectedBranches are branch-name prefixes on which tickets are filed.
var DefaultProtectedBranches = []string{"master", "develop", "release"}

// ErrNoTeamProject is returned when a protected-branch run has nowhere to file
// work tickets.
var ErrNoTeamProject = errors.New("team project key is required on protected branches")

// Tracker is the subset of the issue tracker the engine drives.
type Tracker interface {
	IsNovel(ctx context.Context, fp finding.Fingerprint) (bool, error)
	FetchKey(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, d tracker.Draft) (string, error)
	Link(ctx context.Context, trackingKey, workKey, annotation string) (tracker.LinkResult, error)
}

// Options configures an Engine.
type Options struct {
	SecurityProject   string
	TeamProject       string
	ProtectedBranches []string
	// Out receives one line per created ticket and link. Nil discards.
	Out io.Writer
	Log *zap.Logger
}

// FiledPair records the tickets created for one novel finding.
type FiledPair struct {
	Fingerprint finding.Fingerprint `json:"fingerprint"`
	Title       string              `json:"title"`
	TrackingID  string              `json:"trackingId"`
	TrackingKey string              `json:"trackingKey"`
	WorkID      string              `json:"workId"`
	WorkKey     string              `json:"workKey"`
}

// Result summarizes one reconciliation run.
type Result struct {
	Branch    string          `json:"branch"`
	Protected bool            `json:"protected"`
	Processed int             `json:"processed"`
	Tracked   int             `json:"tracked"`
	Repeated  int             `json:"repeated"`
	Filed     []FiledPair     `json:"filed"`
	Buffered  []tracker.Draft `json:"buffered"`
}

// HasNovel reports whether novel findings were buffered instead of filed.
func (r *Result) HasNovel() bool { return len(r.Buffered) > 0 }

// Engine runs reconciliation against a Tracker.
type Engine struct {
	tracker Tracker
	opts    Options
	log     *zap.Logger
}

// New returns an Engine. Empty ProtectedBranches means DefaultProtectedBranches.
func New(t Tracker, opts Options) *Engine {
	if len(opts.ProtectedBranches) == 0 {
		opts.ProtectedBranches = DefaultProtectedBranches
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{tracker: t, opts: opts, log: log}
}

// IsProtected reports whether branch starts with any of the protected
// prefixes, ignoring case.
func IsProtected(branch string, protected []string) bool {
	b := strings.ToLower(branch)
	for _, p := range protected {
		if p == "" {
			continue
		}
		if strings.HasPrefix(b, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Run processes findings in order. Any tracker failure aborts the run and is
// returned as is; the partial Result is discarded.
func (e *Engine) Run(ctx context.Context, findings []finding.Finding, branch string) (*Result, error) {
	res := &Result{
		Branch:    branch,
		Protected: IsProtected(branch, e.opts.ProtectedBranches),
		Filed:     []FiledPair{},
		Buffered:  []tracker.Draft{},
	}
	if res.Protected && e.opts.TeamProject == "" {
		return nil, ErrNoTeamProject
	}
	e.log.Info("reconciling findings",
		zap.String("branch", branch),
		zap.Bool("protected", res.Protected),
		zap.Int("findings", len(findings)),
	)

	// Two findings can share a fingerprint (same check on the same file).
	// Only the first one is acted on.
	seen := make(map[finding.Fingerprint]bool, len(findings))

	for i, f := range findings {
		res.Processed++
		n := finding.Normalize(f)
		log := e.log.With(
			zap.Int("index", i),
			zap.String("fingerprint", string(n.Fingerprint)),
			zap.String("check", f.CheckName),
			zap.String("file", f.FilePath),
		)

		if seen[n.Fingerprint] {
			res.Repeated++
			log.Debug("fingerprint already handled in this run")
			continue
		}
		seen[n.Fingerprint] = true

		novel, err := e.tracker.IsNovel(ctx, n.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("checking finding %d: %w", i, err)
		}
		if !novel {
			res.Tracked++
			log.Debug("finding already tracked")
			continue
		}

		draft := tracker.NewDraft(e.opts.SecurityProject, n)
		if !res.Protected {
			log.Info("novel finding buffered")
			res.Buffered = append(res.Buffered, draft)
			continue
		}

		pair, err := e.file(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("filing finding %d: %w", i, err)
		}
		log.Info("novel finding filed",
			zap.String("tracking", pair.TrackingKey),
			zap.String("work", pair.WorkKey),
		)
		res.Filed = append(res.Filed, pair)
	}

	e.log.Info("reconciliation finished",
		zap.Int("processed", res.Processed),
		zap.Int("tracked", res.Tracked),
		zap.Int("filed", len(res.Filed)),
		zap.Int("buffered", len(res.Buffered)),
	)
	return res, nil
}

// file creates the tracking and work tickets for draft and links them.
func (e *Engine) file(ctx context.Context, draft tracker.Draft) (FiledPair, error) {
	pair := FiledPair{Fingerprint: draft.Fingerprint, Title: draft.Title}

	trackingID, err := e.tracker.Create(ctx, draft)
	if err != nil {
		return pair, err
	}
	pair.TrackingID = trackingID
	fmt.Fprintf(e.opts.Out, "Tracking ticket created: %s\n", trackingID)

	workID, err := e.tracker.Create(ctx, draft.ForProject(e.opts.TeamProject))
	if err != nil {
		return pair, err
	}
	pair.WorkID = workID
	fmt.Fprintf(e.opts.Out, "Work ticket created: %s\n", workID)

	if pair.TrackingKey, err = e.tracker.FetchKey(ctx, trackingID); err != nil {
		return pair, err
	}
	if pair.WorkKey, err = e.tracker.FetchKey(ctx, workID); err != nil {
		return pair, err
	}

	link, err := e.tracker.Link(ctx, pair.TrackingKey, pair.WorkKey, LinkComment)
	if err != nil {
		return pair, err
	}
	fmt.Fprintf(e.opts.Out, "Linked %s %s %s\n", link.TrackingKey, strings.ToLower(link.Type), link.WorkKey)
	return pair, nil
}
