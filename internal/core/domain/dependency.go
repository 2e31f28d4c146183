package domain

// DependencyInfo is what a compiled artifact declares about itself.
type DependencyInfo struct {
	// Identity is the compiler-internal name of the unit. It may differ from the relative path.
	Identity InternedString

	// References holds the identities the artifact refers to, possibly including its own.
	References []InternedString
}

// ReferencesOthers returns each reference that is not the artifact's own identity.
func (d *DependencyInfo) ReferencesOthers() []InternedString {
	out := make([]InternedString, 0, len(d.References))
	for _, ref := range d.References {
		if ref == d.Identity {
			continue
		}
		out = append(out, ref)
	}
	return out
}
