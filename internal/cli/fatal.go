package cli

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/checkgate/internal/config"
	"github.com/dshills/checkgate/internal/finding"
	"github.com/dshills/checkgate/internal/reconcile"
	"github.com/dshills/checkgate/internal/redact"
	"github.com/dshills/checkgate/internal/tracker"
)

// classify maps an error to a short kind and the process exit code.
func classify(err error) (string, int) {
	switch {
	case config.IsConfigError(err), errors.Is(err, reconcile.ErrNoTeamProject):
		return "config", ExitUsageError
	case finding.IsInputError(err):
		return "input", ExitInputError
	case tracker.IsAuthError(err):
		return "auth", ExitAuthError
	case tracker.IsRemoteError(err):
		return "remote", ExitRuntimeError
	default:
		return "runtime", ExitRuntimeError
	}
}

// fail reports err with known secrets scrubbed and returns the exit code. A
// nil logger means logging is not set up yet; the error goes to stderr.
func fail(log *zap.Logger, stderr io.Writer, err error, known ...string) int {
	kind, code := classify(err)
	msg := redact.Secrets(err.Error(), known...)
	if log == nil {
		fmt.Fprintf(stderr, "Error: %s\n", msg)
		return code
	}
	log.Error("run failed", zap.String("kind", kind), zap.String("error", msg), zap.Int("exit_code", code))
	return code
}
