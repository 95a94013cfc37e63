// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Corpus errors
	ErrCorpusNotFound = "CORPUS_NOT_FOUND"
	ErrCorpusLocked   = "CORPUS_LOCKED"
	ErrConfigInvalid  = "CONFIG_INVALID"

	// Run errors
	ErrPlanFailed       = "PLAN_FAILED"
	ErrApplyFailed      = "APPLY_FAILED"
	ErrBackupFailed     = "BACKUP_FAILED"
	ErrRollbackFailed   = "ROLLBACK_FAILED"
	ErrSnapshotNotFound = "SNAPSHOT_NOT_FOUND"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnReadError     = "FILE_READ_ERROR"
	WarnUnresolved    = "UNRESOLVED_REFERENCE"
	WarnAmbiguous     = "AMBIGUOUS_REFERENCE"
	WarnAnchorMissing = "HEADING_ANCHOR_MISSING"
	WarnBlocked       = "MOVE_BLOCKED"
	WarnRolledBack    = "RUN_ROLLED_BACK"
)
