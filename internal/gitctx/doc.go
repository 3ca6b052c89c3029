// Package gitctx resolves the branch and commit a scan ran against.
//
// CI systems check out a detached HEAD, so the branch name normally comes from
// the CI environment. The local repository, read with go-git, is the fallback
// for runs outside CI.
package gitctx
