package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain into entries, outermost first.
// A joined error contributes its leading members as entries and continues with the last one,
// which is where errors.Join(sentinel, cause) keeps the cause.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	current := err

	for current != nil {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			errs := joined.Unwrap()
			if len(errs) == 0 {
				break
			}
			for _, e := range errs[:len(errs)-1] {
				entries = append(entries, headEntry(e))
			}
			current = errs[len(errs)-1]
			continue
		}

		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}
		// zerr.With on a plain error produces an empty message around the cause.
		if m.Message() != "" || len(m.Metadata()) > 0 {
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: m.Metadata()})
		}
		current = errors.Unwrap(current)
	}

	return mergeAnonymous(entries)
}

func headEntry(err error) ErrorEntry {
	if m, ok := err.(messager); ok {
		return ErrorEntry{Message: m.Message(), Metadata: m.Metadata()}
	}
	return ErrorEntry{Message: err.Error()}
}

// mergeAnonymous folds metadata-only entries into the entry that follows them.
func mergeAnonymous(entries []ErrorEntry) []ErrorEntry {
	out := make([]ErrorEntry, 0, len(entries))
	var pending map[string]any
	for _, e := range entries {
		if e.Message == "" {
			if pending == nil {
				pending = make(map[string]any)
			}
			maps.Copy(pending, e.Metadata)
			continue
		}
		if pending != nil {
			if e.Metadata == nil {
				e.Metadata = make(map[string]any)
			}
			maps.Copy(e.Metadata, pending)
			pending = nil
		}
		out = append(out, e)
	}
	return out
}

// leadingKeys name what an error is about. They are listed before other metadata, in this order.
var leadingKeys = []string{"unit", "path", "backend"}

// metadataKeys returns the keys of metadata with leading keys first and the rest sorted.
func metadataKeys(metadata map[string]any) []string {
	keys := make([]string, 0, len(metadata))
	for _, k := range leadingKeys {
		if _, ok := metadata[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(metadata)) {
		if !slices.Contains(leadingKeys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// formatErrorEntries renders entries as
//
//	Error: main
//	       key: value
//
//	  Caused by:
//	    → cause
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		head, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, k := range metadataKeys(entry.Metadata) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
