package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentHasher = (*Hasher)(nil)

// Hasher computes xxhash digests of files and trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// HashFile returns the digest of the file's content, or domain.NoDigest if it does not exist.
func (h *Hasher) HashFile(path string) (domain.Digest, error) {
	sum, err := h.computeFileHash(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.NoDigest, nil
		}
		return domain.NoDigest, err
	}
	return domain.Digest(fmt.Sprintf("%016x", sum)), nil
}

// HashTree hashes every file below root whose extension is listed.
// Each file contributes its slash-separated relative path, a separator and its content hash.
func (h *Hasher) HashTree(root string, extensions []string) (domain.Digest, error) {
	hasher := xxhash.New()

	for path, err := range h.walker.WalkFiles(root, nil) {
		if err != nil {
			return domain.NoDigest, zerr.With(zerr.Wrap(err, "failed to walk tree"), "root", root)
		}
		if !slices.Contains(extensions, filepath.Ext(path)) {
			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return domain.NoDigest, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		if err := h.hashFile(filepath.ToSlash(rel), path, hasher); err != nil {
			return domain.NoDigest, err
		}
	}

	return domain.Digest(fmt.Sprintf("%016x", hasher.Sum64())), nil
}

func (h *Hasher) hashFile(rel, path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(rel))
	_, _ = mainHasher.Write([]byte{0})

	sum, err := h.computeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

// computeFileHash computes the XXHash of a file's content.
func (h *Hasher) computeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
