package ports

import "go.trai.ch/incc/internal/core/domain"

// ContentHasher defines the interface for computing content digests.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type ContentHasher interface {
	// HashFile returns the digest of the file's bytes.
	// A file that does not exist yields domain.NoDigest and a nil error.
	HashFile(path string) (domain.Digest, error)

	// HashTree returns a digest of every file under root whose extension is listed,
	// visited in lexicographic depth-first order.
	HashTree(root string, extensions []string) (domain.Digest, error)
}
