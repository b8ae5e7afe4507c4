package analysis

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/function"
)

func entry(file, class, name string) Entry {
	return Entry{Function: function.Function{Name: name, ClassName: class, Filename: file}}
}

func TestSplitByFilesTwoFiles(t *testing.T) {
	const n1, n2 = 3, 2
	var entries []Entry
	for i := 0; i < n1; i++ {
		entries = append(entries, entry("a.py", "", "f"))
	}
	for i := 0; i < n2; i++ {
		entries = append(entries, entry("b.py", "", "g"))
	}

	groups := SplitByFiles(entries)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], n1)
	assert.Len(t, groups[1], n2)
	assert.Equal(t, "a.py", groups[0][0].Function.Filename)
	assert.Equal(t, "b.py", groups[1][0].Function.Filename)
}

func TestSplitByClassesDropsFreeFunctions(t *testing.T) {
	entries := []Entry{
		entry("a.py", "", "setup"),
		entry("a.py", "Shape", "area"),
		entry("a.py", "", "helper"),
		entry("a.py", "Shape", "perimeter"),
		entry("a.py", "Shape", "scale"),
		entry("a.py", "", "main"),
	}

	groups := SplitByClasses(entries)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Shape.area", "Shape.perimeter", "Shape.scale"}, qualifiedNames(groups[0]))
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, SplitByFiles(nil))
	assert.Empty(t, SplitByClasses([]Entry{entry("a.py", "", "f")}))
}

func TestSplitKeepsKnownLimitation(t *testing.T) {
	entries := []Entry{
		entry("a.py", "A", "one"),
		entry("a.py", "B", "two"),
		entry("a.py", "A", "three"),
	}
	groups := SplitByClasses(entries)
	require.Len(t, groups, 3, "a non-contiguous class splits into several groups")
	assert.Equal(t, "A", groups[2][0].Function.ClassName)
}

func TestGroupsDoNotAliasOnAppend(t *testing.T) {
	entries := []Entry{entry("a.py", "", "f"), entry("b.py", "", "g")}
	groups := SplitByFiles(entries)
	_ = append(groups[0], entry("z.py", "", "z"))
	assert.Equal(t, "b.py", entries[1].Function.Filename)
}

func TestCheckContiguity(t *testing.T) {
	ok := []Entry{entry("a.py", "", "f"), entry("a.py", "", "g"), entry("b.py", "", "h")}
	assert.NoError(t, CheckContiguity(ok, FileKey))

	bad := []Entry{entry("a.py", "", "f"), entry("b.py", "", "g"), entry("a.py", "", "h")}
	err := CheckContiguity(bad, FileKey)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
	assert.Contains(t, err.Error(), "a.py")
}

func TestDebugAssertionsLogReappearingKey(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	SetDebugAssertions(true)
	t.Cleanup(func() {
		SetDebugAssertions(false)
		slog.SetDefault(prev)
	})

	bad := []Entry{entry("a.py", "", "f"), entry("b.py", "", "g"), entry("a.py", "", "h")}
	groups := SplitByFiles(bad)
	assert.Len(t, groups, 3)
	assert.Contains(t, buf.String(), "key=a.py")

	buf.Reset()
	SplitByFiles(bad[:2])
	assert.Empty(t, buf.String())
}
