package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidExtension is returned when a path does not carry the extension the namer expects.
	ErrInvalidExtension = zerr.New("invalid extension")

	// ErrUnreadableArtifact is returned when a compiled artifact is missing or cannot be parsed.
	ErrUnreadableArtifact = zerr.New("unreadable artifact")

	// ErrStoreFault is returned when the persisted build graph cannot be loaded or committed.
	ErrStoreFault = zerr.New("build state store fault")

	// ErrStoreLocked is returned when another build holds the state store of the same artifact root.
	ErrStoreLocked = zerr.New("build state store is locked by another build")

	// ErrNoActiveTransaction is returned when a store mutation is attempted outside Begin/Commit.
	ErrNoActiveTransaction = zerr.New("no active transaction")

	// ErrSourceRootUnreadable is returned when the source root cannot be listed.
	ErrSourceRootUnreadable = zerr.New("source root unreadable")

	// ErrCompilerUnavailable is returned when the compiler process could not be started.
	ErrCompilerUnavailable = zerr.New("compiler could not be started")

	// ErrCompilationFailed is returned when a build completed but at least one unit failed to compile.
	ErrCompilationFailed = zerr.New("compilation failed")

	// ErrInvalidConfig is returned when the configuration file cannot be parsed or is inconsistent.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownStateBackend is returned when the configured state backend is not supported.
	ErrUnknownStateBackend = zerr.New("unknown state backend")
)
