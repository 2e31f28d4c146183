package domain

import "path/filepath"

const (
	// StateDirName is the name of the hidden state directory nested under the artifact root.
	StateDirName = ".incc"

	// GraphFileName is the name of the build graph file of the file backend.
	GraphFileName = "graph.json"

	// GraphDBName is the name of the build graph database of the sqlite backend.
	GraphDBName = "graph.db"

	// LockFileName is the name of the lock file guarding a build against concurrent writers.
	LockFileName = "lock"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "incc.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// StatePath returns the state directory of the given artifact root.
func StatePath(artifactRoot string) string {
	return filepath.Join(artifactRoot, StateDirName)
}

// GraphFilePath returns the path of the JSON graph file for the given artifact root.
func GraphFilePath(artifactRoot string) string {
	return filepath.Join(artifactRoot, StateDirName, GraphFileName)
}

// GraphDBPath returns the path of the sqlite graph database for the given artifact root.
func GraphDBPath(artifactRoot string) string {
	return filepath.Join(artifactRoot, StateDirName, GraphDBName)
}

// LockPath returns the path of the writer lock for the given artifact root.
func LockPath(artifactRoot string) string {
	return filepath.Join(artifactRoot, StateDirName, LockFileName)
}
