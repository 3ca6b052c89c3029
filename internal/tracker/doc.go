// Package tracker files and links tickets in Jira.
//
// [JiraClient] is scoped to one project key, the security board, which is
// where novelty searches run. It performs no retries: every failed call comes
// back as a [*RemoteError] and callers are expected to abort the run.
//
// [DryRun] answers novelty searches through a real client but only logs the
// tickets and links it would create.
package tracker
