package integration

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status OperationStatus
		want   bool
	}{
		{"created", OperationStatusCreated, true},
		{"running", OperationStatusRunning, true},
		{"completed", OperationStatusCompleted, true},
		{"failed", OperationStatusFailed, true},
		{"canceled", OperationStatusCanceled, true},
		{"expired", OperationStatusExpired, true},
		{"unknown", OperationStatus("PAUSED"), false},
		{"empty", OperationStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestOperationStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status OperationStatus
		want   bool
	}{
		{"created is not terminal", OperationStatusCreated, false},
		{"running is not terminal", OperationStatusRunning, false},
		{"completed is terminal", OperationStatusCompleted, true},
		{"failed is terminal", OperationStatusFailed, true},
		{"canceled is terminal", OperationStatusCanceled, true},
		{"expired is terminal", OperationStatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestOperationStatus_IsFailure(t *testing.T) {
	tests := []struct {
		name   string
		status OperationStatus
		want   bool
	}{
		{"completed is not a failure", OperationStatusCompleted, false},
		{"running is not a failure", OperationStatusRunning, false},
		{"failed", OperationStatusFailed, true},
		{"canceled", OperationStatusCanceled, true},
		{"expired", OperationStatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsFailure())
		})
	}
}

func TestRecord_ID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Product/1", Record{"id": "gid://shopify/Product/1"}.ID())
	assert.Equal(t, "632910392", Record{"id": float64(632910392)}.ID())
	assert.Equal(t, "7", Record{"id": json.Number("7")}.ID())
	assert.Equal(t, "", Record{}.ID())
	assert.Equal(t, "", Record{"id": true}.ID())
}

func TestErrorTypes(t *testing.T) {
	t.Run("submission error joins messages", func(t *testing.T) {
		err := &SubmissionError{Messages: []string{"Invalid query", "Throttled"}}
		assert.Contains(t, err.Error(), "Invalid query")
		assert.Contains(t, err.Error(), "Throttled")
	})

	t.Run("remote operation error carries status", func(t *testing.T) {
		err := &RemoteOperationError{OperationID: "op-1", Status: OperationStatusCanceled}
		assert.Contains(t, err.Error(), "op-1")
		assert.Contains(t, err.Error(), "CANCELED")

		var remoteErr *RemoteOperationError
		assert.True(t, errors.As(error(err), &remoteErr))
		assert.Equal(t, OperationStatusCanceled, remoteErr.Status)
	})

	t.Run("timeout error carries attempt count", func(t *testing.T) {
		err := &TimeoutError{OperationID: "op-2", Attempts: 10}
		assert.Contains(t, err.Error(), "op-2")
		assert.Contains(t, err.Error(), "10")
	})

	t.Run("download error carries url and status code", func(t *testing.T) {
		err := &DownloadError{URL: "https://example.com/data.jsonl", StatusCode: 503}
		assert.Contains(t, err.Error(), "https://example.com/data.jsonl")
		assert.Contains(t, err.Error(), "503")
	})
}
