package config

// Inccfile represents the structure of the incc.yaml configuration file.
type Inccfile struct {
	Version     string      `yaml:"version"`
	SourceDir   string      `yaml:"source_dir"`
	ArtifactDir string      `yaml:"artifact_dir"`
	SourceExt   string      `yaml:"source_ext"`
	ArtifactExt string      `yaml:"artifact_ext"`
	Ignore      []string    `yaml:"ignore"`
	Compiler    CompilerDTO `yaml:"compiler"`
	State       StateDTO    `yaml:"state"`
	Watch       WatchDTO    `yaml:"watch"`
}

// CompilerDTO represents the compiler section.
type CompilerDTO struct {
	Command []string          `yaml:"command"`
	Env     map[string]string `yaml:"env"`
	EnvFile string            `yaml:"env_file"`
}

// StateDTO represents the state section.
type StateDTO struct {
	Backend string `yaml:"backend"`
}

// WatchDTO represents the watch section.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}
