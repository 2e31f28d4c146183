package domain

// SourceUnit identifies one compilable file of the current run.
// It is rebuilt from a directory listing every run and never persisted.
type SourceUnit struct {
	// RelativePath is the slash-separated path below the source root. It is the unit's key.
	RelativePath string
	// SourcePath is the absolute path of the source file.
	SourcePath string
	// ArtifactPath is the absolute path where the compiled artifact is expected.
	ArtifactPath string
}

// Digest is a content digest rendered as hex. NoDigest means the file did not exist.
type Digest string

// NoDigest is the digest of a file that does not exist.
const NoDigest Digest = ""

// Missing reports whether the digest stands for an absent file.
func (d Digest) Missing() bool {
	return d == NoDigest
}

// String returns the hex form of the digest.
func (d Digest) String() string {
	return string(d)
}
