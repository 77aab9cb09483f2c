package logger

// Standard field names for structured logging.
const (
	FieldRunID      = "run_id"
	FieldLanguage   = "language"
	FieldPlatform   = "platform"
	FieldArtifact   = "artifact"
	FieldOutDir     = "out_dir"
	FieldCommand    = "command"
	FieldDir        = "dir"
	FieldExitCode   = "exit_code"
	FieldDurationMS = "duration_ms"
	FieldState      = "state"
	FieldDigest     = "digest"
	FieldError      = "error"
)
