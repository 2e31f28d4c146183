package domain

import "time"

// StateBackend names a BuildStateStore implementation.
type StateBackend string

const (
	// StateBackendFile persists the graph as a JSON file replaced by rename.
	StateBackendFile StateBackend = "file"
	// StateBackendSQLite persists the graph in an embedded sqlite database.
	StateBackendSQLite StateBackend = "sqlite"
)

// DefaultCompilerCommand compiles one Java source with javac.
var DefaultCompilerCommand = []string{
	"javac",
	"-d", "{artifact_root}",
	"-cp", "{artifact_root}",
	"-sourcepath", "{source_root}",
	"-implicit:none",
	"{source}",
}

// CompilerSpec describes how to invoke the external compiler for one unit.
type CompilerSpec struct {
	// Command is the argv template. Placeholders: {source}, {source_root}, {artifact_root}.
	Command []string
	// Env holds variables added to the compiler's environment.
	Env map[string]string
	// EnvFile is an optional dotenv file loaded beneath Env.
	EnvFile string
}

// Config is the resolved configuration of a build.
type Config struct {
	SourceRoot   string
	ArtifactRoot string
	SourceExt    string
	ArtifactExt  string
	Ignore       []string
	Compiler     CompilerSpec
	State        StateBackend
	Debounce     time.Duration
}

// DefaultConfig returns the built-in configuration for a javac toolchain.
func DefaultConfig() *Config {
	return &Config{
		SourceRoot:   "src",
		ArtifactRoot: "classes",
		SourceExt:    ".java",
		ArtifactExt:  ".class",
		Compiler: CompilerSpec{
			Command: append([]string(nil), DefaultCompilerCommand...),
		},
		State:    StateBackendFile,
		Debounce: 200 * time.Millisecond,
	}
}

// Namer returns the ArtifactNamer of the configured extensions.
func (c *Config) Namer() ArtifactNamer {
	return NewArtifactNamer(c.SourceExt, c.ArtifactExt)
}
