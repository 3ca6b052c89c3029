// Package config loads and merges checkgate configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (JIRA_URL, SECURITY_JIRA_USER, SECURITY_JIRA_TOKEN,
//     CHECKGATE_SECURITY_PROJECT, CHECKGATE_TEAM_PROJECT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/checkgate/config.json, or CHECKGATE_CONFIG)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [Validate] to check that the
// tracker credentials are present before any remote call is made. The
// tracker token is never written to the config file.
package config
