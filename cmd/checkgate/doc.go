// Checkgate gates CI builds on static-analysis findings that nobody is
// tracking yet.
//
// It reads a Checkov JSON report, fingerprints every failed check, and
// searches the security Jira project for each fingerprint. On protected
// branches novel findings are filed as a security tracking ticket linked to a
// team work ticket; on any other branch they are printed and the build fails.
//
// Usage:
//
//	checkov -d . -o json | checkgate -b "$BRANCH"        # gate a feature branch
//	checkgate -b develop -p PAY -i results.json        # file tickets for PAY
//	checkgate -b master -p PAY -i results.json --dry-run
//	checkgate config show                              # effective settings
//
// Exit codes: 0 nothing new, 1 novel findings, 2 usage or configuration
// error, 3 tracker authentication failure, 4 tracker or runtime failure,
// 5 malformed scan input.
package main
