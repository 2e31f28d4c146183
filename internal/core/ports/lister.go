package ports

// SourceLister lists the compilable files of a source root.
//
//go:generate mockgen -source=lister.go -destination=mocks/mock_lister.go -package=mocks
type SourceLister interface {
	// List returns the slash-separated paths, relative to root, of every file
	// with the given extension, sorted. Ignored names are matched per path element.
	List(root, ext string, ignores []string) ([]string, error)
}
