package gitctx

import (
	"errors"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// BranchEnv lists the CI variables consulted for the branch, in order.
var BranchEnv = []string{
	"BITBUCKET_BRANCH",
	"GITHUB_HEAD_REF",
	"GITHUB_REF_NAME",
	"CI_COMMIT_REF_NAME",
	"BRANCH_NAME",
}

// CommitEnv lists the CI variables consulted for the commit, in order.
var CommitEnv = []string{
	"BITBUCKET_COMMIT",
	"GITHUB_SHA",
	"CI_COMMIT_SHA",
}

// ErrNoBranch is returned when no source yields a branch name.
var ErrNoBranch = errors.New("branch could not be determined; pass --branch")

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// Detect opens the repository containing dir. Branch is empty on a detached
// HEAD; Head is empty in a repository without commits.
func Detect(dir string) (RepoMeta, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}

	var meta RepoMeta
	if wt, err := repo.Worktree(); err == nil {
		meta.Root = wt.Filesystem.Root()
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD points at a branch with no commits yet.
		if sym, serr := repo.Storer.Reference(plumbing.HEAD); serr == nil && sym.Target().IsBranch() {
			meta.Branch = sym.Target().Short()
		}
		return meta, nil
	}
	if err != nil {
		return RepoMeta{}, fmt.Errorf("reading HEAD: %w", err)
	}
	meta.Head = ref.Hash().String()
	if ref.Name().IsBranch() {
		meta.Branch = ref.Name().Short()
	}
	return meta, nil
}

// ResolveBranch returns flag when set, then the first non-empty CI variable,
// then the branch checked out in dir.
func ResolveBranch(flag, dir string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := firstEnv(BranchEnv); v != "" {
		return v, nil
	}
	meta, err := Detect(dir)
	if err != nil || meta.Branch == "" {
		return "", ErrNoBranch
	}
	return meta.Branch, nil
}

// ResolveCommit works like ResolveBranch for the commit hash. An unresolvable
// commit is not an error; it only annotates the report.
func ResolveCommit(flag, dir string) string {
	if flag != "" {
		return flag
	}
	if v := firstEnv(CommitEnv); v != "" {
		return v
	}
	meta, err := Detect(dir)
	if err != nil {
		return ""
	}
	return meta.Head
}

func firstEnv(keys []string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
