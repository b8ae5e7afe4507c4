package analysis

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"funcmetrics/internal/core/errors"
)

var debugAssertions atomic.Bool

// SetDebugAssertions makes SplitByClasses and SplitByFiles log a warning when
// a group key reappears after a different key.
func SetDebugAssertions(on bool) {
	debugAssertions.Store(on)
}

// SplitByClasses drops free functions and groups consecutive methods with the
// same class name.
//
// Precondition: methods of one class are contiguous once free functions are
// removed. The input is not sorted; a class whose methods are split by
// another class yields several groups.
func SplitByClasses(entries []Entry) [][]Entry {
	methods := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Function.HasClass() {
			methods = append(methods, e)
		}
	}
	return splitRuns(methods, ClassKey, "class")
}

// SplitByFiles groups consecutive entries with the same filename.
//
// Precondition: entries of one file are contiguous, which AnalyseFunctions
// guarantees. A file whose entries are interleaved with another file's
// yields several groups.
func SplitByFiles(entries []Entry) [][]Entry {
	return splitRuns(entries, FileKey, "file")
}

// ClassKey and FileKey are the grouping keys used by the split functions.
func ClassKey(e Entry) string { return e.Function.ClassName }
func FileKey(e Entry) string  { return e.Function.Filename }

func splitRuns(entries []Entry, key func(Entry) string, label string) [][]Entry {
	if len(entries) == 0 {
		return nil
	}
	var seen map[string]bool
	if debugAssertions.Load() {
		seen = make(map[string]bool)
	}

	var groups [][]Entry
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i < len(entries) && key(entries[i]) == key(entries[start]) {
			continue
		}
		k := key(entries[start])
		if seen != nil {
			if seen[k] {
				slog.Warn("group key reappears after a different key; input is not contiguous",
					"group", label, "key", k, "index", start)
			}
			seen[k] = true
		}
		groups = append(groups, entries[start:i:i])
		start = i
	}
	return groups
}

// CheckContiguity returns a validation error naming the first key that
// reappears after a different key was seen.
func CheckContiguity(entries []Entry, key func(Entry) string) error {
	seen := make(map[string]bool)
	for i, e := range entries {
		k := key(e)
		if i > 0 && key(entries[i-1]) == k {
			continue
		}
		if seen[k] {
			err := &errors.DomainError{
				Code:    errors.CodeValidationError,
				Message: fmt.Sprintf("key %q reappears at index %d", k, i),
			}
			return err.WithContext(errors.CtxSymbol, k)
		}
		seen[k] = true
	}
	return nil
}
