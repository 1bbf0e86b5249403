package integration

// ---------------------------------------------------------------------------
// OperationStatus represents the status of a remote bulk export operation
// ---------------------------------------------------------------------------

// OperationStatus represents the status of a remote bulk export operation.
// Transitions are driven entirely by the remote side; the importer only
// observes and classifies.
type OperationStatus string

const (
	// OperationStatusCreated indicates the operation was accepted but not started
	OperationStatusCreated OperationStatus = "CREATED"
	// OperationStatusRunning indicates the export is being computed
	OperationStatusRunning OperationStatus = "RUNNING"
	// OperationStatusCompleted indicates the export finished and a result URL is available
	OperationStatusCompleted OperationStatus = "COMPLETED"
	// OperationStatusFailed indicates the remote side failed the export
	OperationStatusFailed OperationStatus = "FAILED"
	// OperationStatusCanceled indicates the operation was canceled remotely
	OperationStatusCanceled OperationStatus = "CANCELED"
	// OperationStatusExpired indicates the operation expired before completion
	OperationStatusExpired OperationStatus = "EXPIRED"
)

// IsValid returns true if the status is one of the six known values
func (s OperationStatus) IsValid() bool {
	switch s {
	case OperationStatusCreated, OperationStatusRunning, OperationStatusCompleted,
		OperationStatusFailed, OperationStatusCanceled, OperationStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition can occur
func (s OperationStatus) IsTerminal() bool {
	switch s {
	case OperationStatusCompleted, OperationStatusFailed,
		OperationStatusCanceled, OperationStatusExpired:
		return true
	default:
		return false
	}
}

// IsFailure returns true for the terminal non-success statuses
func (s OperationStatus) IsFailure() bool {
	switch s {
	case OperationStatusFailed, OperationStatusCanceled, OperationStatusExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of OperationStatus
func (s OperationStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// BulkOperation
// ---------------------------------------------------------------------------

// BulkOperation is a remote asynchronous export job identified by an opaque
// id and observed only through polling. ResultURL is set once the operation
// reaches COMPLETED.
type BulkOperation struct {
	ID        string
	Status    OperationStatus
	ResultURL string
}
