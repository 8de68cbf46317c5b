package model

import "fmt"

// ConfigError signals a configuration problem detected before any work
// begins: missing endpoint, invalid sample size, unknown output format.
// The run must fail fast on this error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// CollaboratorError wraps a failure from the document-store collaborator
// encountered while sampling a single container. It never escapes into the
// inference core; it is recorded against that container and the run
// continues with the remaining containers.
type CollaboratorError struct {
	Container ContainerIdentity
	Op        string
	Err       error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator error sampling %s.%s during %s: %v", e.Container.Database, e.Container.Name, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// ValidationError wraps a failure encountered while validating a single
// relationship's referential integrity. The relationship still receives a
// composite score computed from its remaining factors.
type ValidationError struct {
	Relationship string // human-readable identity, e.g. "orders.StoreId -> stores"
	Err          error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %v", e.Relationship, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SnapshotCorruptionError signals that a loaded snapshot's checksum did not
// match its contents. Loading still returns the snapshot; this error is
// logged as a warning, not propagated as a failure.
type SnapshotCorruptionError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *SnapshotCorruptionError) Error() string {
	return fmt.Sprintf("snapshot %s: checksum mismatch: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// FatalError signals an unrecoverable failure during setup, such as being
// unable to list databases. The run must abort with a non-zero exit.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error during %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
