// Package redact keeps tracker credentials out of logs, error messages, and
// printed configuration.
//
// Detection combines exact matches on values the caller knows to be secret
// (the configured API token) with regex heuristics for credential shapes that
// show up in HTTP errors: basic and bearer authorization headers, Atlassian
// API tokens, AWS access key IDs, and key/token assignments.
package redact
