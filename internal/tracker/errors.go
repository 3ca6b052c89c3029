package tracker

import (
	"errors"
	"fmt"
	"net/http"

	jira "github.com/andygrunwald/go-jira"
)

// RemoteError is a failed call to the tracker.
type RemoteError struct {
	Op     string
	Status int // 0 when no HTTP response was received
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("tracker %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("tracker %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a tracker rejection of the credentials.
func IsAuthError(err error) bool {
	var re *RemoteError
	if !errors.As(err, &re) {
		return false
	}
	return re.Status == http.StatusUnauthorized || re.Status == http.StatusForbidden
}

// IsRemoteError reports whether err came from a tracker call.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func remoteError(op string, resp *jira.Response, err error) error {
	re := &RemoteError{Op: op, Err: err}
	if resp != nil && resp.Response != nil {
		re.Status = resp.StatusCode
	}
	return re
}
