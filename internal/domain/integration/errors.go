package integration

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrItemAlreadySynced indicates a unique-constraint style conflict: the
	// destination already holds a link for this record. The sync loops treat
	// this as a normal skip, not a fault.
	ErrItemAlreadySynced = errors.New("integration: item already synced")
	// ErrOperationNotFound indicates the remote side does not know the operation id
	ErrOperationNotFound = errors.New("integration: bulk operation not found")
)

// SubmissionError indicates the export request was rejected at submit time.
// Messages holds the remote request-level error messages verbatim.
type SubmissionError struct {
	Messages []string
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("integration: bulk export submission rejected: %s",
		strings.Join(e.Messages, "\n"))
}

// RemoteOperationError indicates a terminal non-success status was observed
// while polling. The specific kind (FAILED, CANCELED, EXPIRED) is preserved
// so callers can distinguish them.
type RemoteOperationError struct {
	OperationID string
	Status      OperationStatus
}

// Error implements the error interface
func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("integration: bulk operation %s terminated with status %s",
		e.OperationID, e.Status)
}

// TimeoutError indicates polling exhausted the configured attempts without
// observing a terminal status.
type TimeoutError struct {
	OperationID string
	Attempts    int
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("integration: bulk operation %s timed out after %d poll attempts",
		e.OperationID, e.Attempts)
}

// DownloadError indicates the export artifact could not be fetched.
type DownloadError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface
func (e *DownloadError) Error() string {
	return fmt.Sprintf("integration: artifact download from %s failed with status %d",
		e.URL, e.StatusCode)
}
