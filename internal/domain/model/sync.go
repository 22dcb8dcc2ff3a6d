package model

import "time"

// SyncOperation names the store interaction a sync error belongs to.
type SyncOperation string

const (
	SyncOperationPull   SyncOperation = "pull"
	SyncOperationPush   SyncOperation = "push"
	SyncOperationDecode SyncOperation = "decode"
)

// SyncError records one failed interaction with the external store.
type SyncError struct {
	At        time.Time
	Operation SyncOperation
	Message   string
}

// SyncStatus describes the state of synchronization with the external store.
// Errors are ordered most recent first.
type SyncStatus struct {
	LastSyncAt *time.Time
	Connected  bool
	InFlight   bool
	Errors     []SyncError
}
