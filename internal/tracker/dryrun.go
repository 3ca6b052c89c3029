package tracker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/checkgate/internal/finding"
)

const dryRunPrefix = "DRYRUN"

// Searcher answers novelty queries.
type Searcher interface {
	IsNovel(ctx context.Context, fp finding.Fingerprint) (bool, error)
}

// DryRun searches through a real tracker but never writes to it. Created
// issues get placeholder ids of the form "DRYRUN-<n>".
type DryRun struct {
	Search Searcher
	Log    *zap.Logger

	created int
}

func (d *DryRun) IsNovel(ctx context.Context, fp finding.Fingerprint) (bool, error) {
	return d.Search.IsNovel(ctx, fp)
}

func (d *DryRun) FetchKey(_ context.Context, id string) (string, error) {
	if !strings.HasPrefix(id, dryRunPrefix+"-") {
		return "", fmt.Errorf("dry run: unknown issue id %q", id)
	}
	return id, nil
}

func (d *DryRun) Create(_ context.Context, draft Draft) (string, error) {
	d.created++
	id := fmt.Sprintf("%s-%d", dryRunPrefix, d.created)
	d.logger().Info("dry run: would create issue",
		zap.String("id", id),
		zap.String("project", draft.ProjectKey),
		zap.String("summary", draft.Title),
		zap.String("fingerprint", string(draft.Fingerprint)),
	)
	return id, nil
}

func (d *DryRun) Link(_ context.Context, trackingKey, workKey, annotation string) (LinkResult, error) {
	d.logger().Info("dry run: would link issues",
		zap.String("tracking", trackingKey),
		zap.String("work", workKey),
		zap.String("comment", annotation),
	)
	return LinkResult{Type: LinkTypeRelates, TrackingKey: trackingKey, WorkKey: workKey}, nil
}

// Created returns the number of issues that would have been filed.
func (d *DryRun) Created() int { return d.created }

func (d *DryRun) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
