package recent_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/attuned.audit/internal/recent"
)

func TestRecordOrdersAndDeduplicates(t *testing.T) {
	list := recent.Open("")

	require.NoError(t, list.Record("https://github.com/o/a"))
	require.NoError(t, list.Record("https://github.com/o/b/"))
	require.NoError(t, list.Record("https://github.com/o/a//"))

	require.Equal(t, []string{"https://github.com/o/a", "https://github.com/o/b"}, list.Entries())
}

func TestRecordCapsAtMaxEntries(t *testing.T) {
	list := recent.Open("")
	for i := 0; i < recent.MaxEntries+5; i++ {
		require.NoError(t, list.Record(fmt.Sprintf("https://github.com/o/r%d", i)))
	}

	entries := list.Entries()
	require.Len(t, entries, recent.MaxEntries)
	require.Equal(t, fmt.Sprintf("https://github.com/o/r%d", recent.MaxEntries+4), entries[0])
	require.Equal(t, "https://github.com/o/r5", entries[recent.MaxEntries-1])
}

func TestRecordIgnoresBlank(t *testing.T) {
	list := recent.Open("")
	require.NoError(t, list.Record("   "))
	require.Empty(t, list.Entries())
}

func TestListSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "repos.json")

	first := recent.Open(path)
	require.NoError(t, first.Record("https://github.com/o/a"))
	require.NoError(t, first.Record("https://github.com/o/b"))

	second := recent.Open(path)
	require.Equal(t, []string{"https://github.com/o/b", "https://github.com/o/a"}, second.Entries())
}

func TestOpenToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	list := recent.Open(path)
	require.Empty(t, list.Entries())

	require.NoError(t, list.Record("https://github.com/o/a"))
	require.Equal(t, []string{"https://github.com/o/a"}, recent.Open(path).Entries())
}
