package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/dshills/checkgate/internal/redact"
)

// Environment variables read by mergeEnv.
const (
	EnvTrackerURL        = "JIRA_URL"
	EnvTrackerUser       = "SECURITY_JIRA_USER"
	EnvTrackerToken      = "SECURITY_JIRA_TOKEN"
	EnvTokenSecretID     = "SECURITY_JIRA_TOKEN_SECRET_ID"
	EnvAWSRegion         = "AWS_REGION"
	EnvSecurityProject   = "CHECKGATE_SECURITY_PROJECT"
	EnvTeamProject       = "CHECKGATE_TEAM_PROJECT"
	EnvProtectedBranches = "CHECKGATE_PROTECTED_BRANCHES"
	EnvFormat            = "CHECKGATE_FORMAT"
	EnvTimeoutSeconds    = "CHECKGATE_TIMEOUT_SECONDS"
	EnvConfigPath        = "CHECKGATE_CONFIG"
)

// Config represents the checkgate configuration.
type Config struct {
	Tracker TrackerConfig `json:"tracker"`
	Policy  PolicyConfig  `json:"policy"`
	Format  string        `json:"format"`
	Log     LogConfig     `json:"log"`
}

// TrackerConfig holds the Jira connection and project keys.
type TrackerConfig struct {
	URL   string `json:"url,omitempty"`
	User  string `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
	// TokenSecretID names an AWS Secrets Manager secret holding the token,
	// consulted only when Token is empty.
	TokenSecretID   string `json:"tokenSecretId,omitempty"`
	AWSRegion       string `json:"awsRegion,omitempty"`
	SecurityProject string `json:"securityProject"`
	TeamProject     string `json:"teamProject,omitempty"`
	TimeoutSeconds  int    `json:"timeoutSeconds"`
}

// PolicyConfig controls which branches file tickets.
type PolicyConfig struct {
	ProtectedBranches []string `json:"protectedBranches"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool   `json:"debug"`
	File  string `json:"file,omitempty"`
}

// Error is a configuration problem detected before any tracker call.
type Error struct {
	Keys   []string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Reason, strings.Join(e.Keys, ", "))
}

// IsConfigError reports whether err is (or wraps) a configuration Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Tracker: TrackerConfig{
			SecurityProject: "DEVSEC",
			TimeoutSeconds:  60,
		},
		Policy: PolicyConfig{
			ProtectedBranches: []string{"master", "develop", "release"},
		},
		Format: "text",
	}
}

// ConfigDir returns the platform-appropriate config directory for checkgate.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "checkgate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "checkgate"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "checkgate"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "checkgate"), nil
	default:
		return filepath.Join(home, ".config", "checkgate"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file. The tracker token is dropped.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	cfg.Tracker.Token = ""
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadFileWithDefaults overlays the config file on the defaults, ignoring the
// environment. Commands that rewrite the file start from it.
func LoadFileWithDefaults() (Config, error) {
	cfg := Default()
	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Tracker.URL != "" {
		dst.Tracker.URL = src.Tracker.URL
	}
	if src.Tracker.User != "" {
		dst.Tracker.User = src.Tracker.User
	}
	if src.Tracker.Token != "" {
		dst.Tracker.Token = src.Tracker.Token
	}
	if src.Tracker.TokenSecretID != "" {
		dst.Tracker.TokenSecretID = src.Tracker.TokenSecretID
	}
	if src.Tracker.AWSRegion != "" {
		dst.Tracker.AWSRegion = src.Tracker.AWSRegion
	}
	if src.Tracker.SecurityProject != "" {
		dst.Tracker.SecurityProject = src.Tracker.SecurityProject
	}
	if src.Tracker.TeamProject != "" {
		dst.Tracker.TeamProject = src.Tracker.TeamProject
	}
	if src.Tracker.TimeoutSeconds > 0 {
		dst.Tracker.TimeoutSeconds = src.Tracker.TimeoutSeconds
	}
	if len(src.Policy.ProtectedBranches) > 0 {
		dst.Policy.ProtectedBranches = src.Policy.ProtectedBranches
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Log.File != "" {
		dst.Log.File = src.Log.File
	}
	dst.Log.Debug = src.Log.Debug || dst.Log.Debug
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv(EnvTrackerURL); v != "" {
		cfg.Tracker.URL = v
	}
	if v := os.Getenv(EnvTrackerUser); v != "" {
		cfg.Tracker.User = v
	}
	if v := os.Getenv(EnvTrackerToken); v != "" {
		cfg.Tracker.Token = v
	}
	if v := os.Getenv(EnvTokenSecretID); v != "" {
		cfg.Tracker.TokenSecretID = v
	}
	if v := os.Getenv(EnvAWSRegion); v != "" {
		cfg.Tracker.AWSRegion = v
	}
	if v := os.Getenv(EnvSecurityProject); v != "" {
		cfg.Tracker.SecurityProject = v
	}
	if v := os.Getenv(EnvTeamProject); v != "" {
		cfg.Tracker.TeamProject = v
	}
	if v := os.Getenv(EnvProtectedBranches); v != "" {
		cfg.Policy.ProtectedBranches = splitList(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Keys: []string{EnvTimeoutSeconds}, Reason: "must be an integer"}
		}
		cfg.Tracker.TimeoutSeconds = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["securityProject"]; ok && v != "" {
		cfg.Tracker.SecurityProject = v
	}
	if v, ok := overrides["teamProject"]; ok && v != "" {
		cfg.Tracker.TeamProject = v
	}
	if v, ok := overrides["protectedBranches"]; ok && v != "" {
		cfg.Policy.ProtectedBranches = splitList(v)
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["timeoutSeconds"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Keys: []string{"--timeout"}, Reason: "must be an integer"}
		}
		cfg.Tracker.TimeoutSeconds = n
	}
	if v, ok := overrides["logFile"]; ok && v != "" {
		cfg.Log.File = v
	}
	if v, ok := overrides["debug"]; ok && v == "true" {
		cfg.Log.Debug = true
	}
	return nil
}

// Validate checks that everything needed to reach the tracker is present.
func Validate(cfg Config) error {
	var missing []string
	if cfg.Tracker.URL == "" {
		missing = append(missing, EnvTrackerURL)
	}
	if cfg.Tracker.User == "" {
		missing = append(missing, EnvTrackerUser)
	}
	if cfg.Tracker.Token == "" {
		missing = append(missing, EnvTrackerToken)
	}
	if cfg.Tracker.SecurityProject == "" {
		missing = append(missing, EnvSecurityProject)
	}
	if len(missing) > 0 {
		return &Error{Keys: missing, Reason: "missing required setting"}
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return &Error{Keys: []string{"format"}, Reason: fmt.Sprintf("unsupported value %q", cfg.Format)}
	}
	if cfg.Tracker.TimeoutSeconds <= 0 {
		return &Error{Keys: []string{"tracker.timeoutSeconds"}, Reason: "must be positive"}
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.Tracker.Token = redact.Mask(c.Tracker.Token)
	c.Policy.ProtectedBranches = append([]string(nil), c.Policy.ProtectedBranches...)
	return c
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "tracker.url":
		cfg.Tracker.URL = value
	case "tracker.user":
		cfg.Tracker.User = value
	case "tracker.token":
		return fmt.Errorf("tracker.token is not stored in the config file; set %s instead", EnvTrackerToken)
	case "tracker.tokenSecretId":
		cfg.Tracker.TokenSecretID = value
	case "tracker.awsRegion":
		cfg.Tracker.AWSRegion = value
	case "tracker.securityProject":
		cfg.Tracker.SecurityProject = value
	case "tracker.teamProject":
		cfg.Tracker.TeamProject = value
	case "tracker.timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("tracker.timeoutSeconds must be an integer: %w", err)
		}
		cfg.Tracker.TimeoutSeconds = n
	case "policy.protectedBranches":
		cfg.Policy.ProtectedBranches = splitList(value)
	case "format":
		cfg.Format = value
	case "log.file":
		cfg.Log.File = value
	case "log.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("log.debug must be a boolean: %w", err)
		}
		cfg.Log.Debug = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
