package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/checkgate/internal/config"
	"github.com/dshills/checkgate/internal/finding"
	"github.com/dshills/checkgate/internal/gitctx"
	"github.com/dshills/checkgate/internal/logging"
	"github.com/dshills/checkgate/internal/output"
	"github.com/dshills/checkgate/internal/reconcile"
	"github.com/dshills/checkgate/internal/secrets"
	"github.com/dshills/checkgate/internal/tracker"
)

// Reconcile flags
var (
	flagBranch            string
	flagCommit            string
	flagProject           string
	flagInputFile         string
	flagFormat            string
	flagOut               string
	flagDryRun            bool
	flagDebug             bool
	flagLogFile           string
	flagSecurityProject   string
	flagProtectedBranches string
	flagTimeout           int
)

func addReconcileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagBranch, "branch", "b", "", "Branch the scan ran on (default: CI environment, then local HEAD)")
	cmd.Flags().StringVarP(&flagCommit, "commit", "c", "", "Commit the scan ran on")
	cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Team project key for work tickets (required on protected branches)")
	cmd.Flags().StringVarP(&flagInputFile, "input-file", "i", "", "Checkov JSON report (default: stdin)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Search the tracker but do not create tickets or links")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Also write JSON logs to this file (rotated)")
	cmd.Flags().StringVar(&flagSecurityProject, "security-project", "", "Security project key for tracking tickets")
	cmd.Flags().StringVar(&flagProtectedBranches, "protected-branches", "", "Protected branch prefixes (comma-separated)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Tracker request timeout in seconds")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProject != "" {
		m["teamProject"] = flagProject
	}
	if flagSecurityProject != "" {
		m["securityProject"] = flagSecurityProject
	}
	if flagProtectedBranches != "" {
		m["protectedBranches"] = flagProtectedBranches
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagTimeout > 0 {
		m["timeoutSeconds"] = strconv.Itoa(flagTimeout)
	}
	if flagLogFile != "" {
		m["logFile"] = flagLogFile
	}
	if flagDebug {
		m["debug"] = "true"
	}
	return m
}

// runParams are the resolved inputs of one reconciliation run.
type runParams struct {
	cfg     config.Config
	branch  string
	commit  string
	input   io.Reader
	outPath string
	dryRun  bool
	runID   string
	tracker reconcile.Tracker
	stdout  io.Writer
	stderr  io.Writer
	log     *zap.Logger
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	runID := uuid.NewString()

	cfg, err := config.Load(buildOverrides())
	if err != nil {
		exitCode = fail(nil, stderr, err)
		return nil
	}

	baseLog, err := logging.New(logging.Options{Debug: cfg.Log.Debug, File: cfg.Log.File, Console: stderr})
	if err != nil {
		exitCode = fail(nil, stderr, err)
		return nil
	}
	defer func() { _ = baseLog.Sync() }()
	log := baseLog.With(zap.String("run_id", runID))

	if err := resolveToken(ctx, &cfg, log); err != nil {
		exitCode = fail(log, stderr, err, cfg.Tracker.Token)
		return nil
	}
	if err := config.Validate(cfg); err != nil {
		exitCode = fail(log, stderr, err, cfg.Tracker.Token)
		return nil
	}

	branch, err := gitctx.ResolveBranch(flagBranch, ".")
	if err != nil {
		exitCode = fail(log, stderr, &config.Error{Keys: []string{"--branch"}, Reason: err.Error()})
		return nil
	}

	input, closeInput, err := openInput(flagInputFile, log)
	if err != nil {
		exitCode = fail(log, stderr, err)
		return nil
	}
	defer closeInput()

	client, err := tracker.NewJiraClient(tracker.Options{
		BaseURL: cfg.Tracker.URL,
		User:    cfg.Tracker.User,
		Token:   cfg.Tracker.Token,
		Project: cfg.Tracker.SecurityProject,
		Timeout: time.Duration(cfg.Tracker.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		exitCode = fail(log, stderr, &config.Error{Keys: []string{config.EnvTrackerURL}, Reason: err.Error()}, cfg.Tracker.Token)
		return nil
	}

	code, err := reconcileAndReport(ctx, runParams{
		cfg:     cfg,
		branch:  branch,
		commit:  gitctx.ResolveCommit(flagCommit, "."),
		input:   input,
		outPath: flagOut,
		dryRun:  flagDryRun,
		runID:   runID,
		tracker: client,
		stdout:  stdout,
		stderr:  stderr,
		log:     log,
	})
	if err != nil {
		exitCode = fail(log, stderr, err, cfg.Tracker.Token)
		return nil
	}
	exitCode = code
	return nil
}

// reconcileAndReport parses the scan, runs the engine, and writes the report.
// It returns the exit code for a completed run; errors are left to fail.
func reconcileAndReport(ctx context.Context, p runParams) (int, error) {
	findings, err := finding.Parse(p.input)
	if err != nil {
		return 0, err
	}
	p.log.Debug("scan parsed", zap.Int("findings", len(findings)))

	t := p.tracker
	var dry *tracker.DryRun
	if p.dryRun {
		dry = &tracker.DryRun{Search: p.tracker, Log: p.log}
		t = dry
	}

	// Ticket-creation lines share stdout with the text report only.
	engineOut := p.stdout
	if p.cfg.Format == "json" || p.outPath != "" {
		engineOut = p.stderr
	}

	engine := reconcile.New(t, reconcile.Options{
		SecurityProject:   p.cfg.Tracker.SecurityProject,
		TeamProject:       p.cfg.Tracker.TeamProject,
		ProtectedBranches: p.cfg.Policy.ProtectedBranches,
		Out:               engineOut,
		Log:               p.log,
	})

	res, err := engine.Run(ctx, findings, p.branch)
	if err != nil {
		return 0, err
	}
	if dry != nil {
		p.log.Info("dry run complete", zap.Int("would_create", dry.Created()))
	}

	report := &output.Report{
		Tool:    "checkgate",
		Version: version,
		RunID:   p.runID,
		Commit:  p.commit,
		DryRun:  p.dryRun,
		Result:  res,
	}
	if err := output.WriteReport(report, p.cfg.Format, p.outPath, p.stdout); err != nil {
		return 0, fmt.Errorf("writing output: %w", err)
	}

	if res.HasNovel() {
		return ExitFindings, nil
	}
	return ExitSuccess, nil
}

// resolveToken fills in the tracker token from Secrets Manager when only a
// secret id is configured.
func resolveToken(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracker.Token != "" || cfg.Tracker.TokenSecretID == "" {
		return nil
	}
	log.Debug("fetching tracker token", zap.String("secret_id", cfg.Tracker.TokenSecretID))
	fetcher, err := secrets.NewAWSFetcher(ctx, cfg.Tracker.AWSRegion)
	if err != nil {
		return err
	}
	return fetchToken(ctx, cfg, fetcher)
}

func fetchToken(ctx context.Context, cfg *config.Config, f secrets.Fetcher) error {
	token, err := f.GetSecret(ctx, cfg.Tracker.TokenSecretID)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", config.EnvTokenSecretID, err)
	}
	cfg.Tracker.Token = token
	return nil
}

// openInput opens path, or stdin when path is empty or "-".
func openInput(path string, log *zap.Logger) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		log.Info("reading from stdin")
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &finding.InputError{Index: -1, Err: err}
	}
	return f, func() { f.Close() }, nil
}
