package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/unicode/norm"
)

func TestResolve_NormalizationInsensitive(t *testing.T) {
	target := "송도고_환경데이터.csv"

	tests := []struct {
		name       string
		storedName string
		targetName string
	}{
		{
			name:       "NFC stored, NFC target",
			storedName: norm.NFC.String(target),
			targetName: norm.NFC.String(target),
		},
		{
			name:       "NFD stored, NFC target",
			storedName: norm.NFD.String(target),
			targetName: norm.NFC.String(target),
		},
		{
			name:       "NFC stored, NFD target",
			storedName: norm.NFC.String(target),
			targetName: norm.NFD.String(target),
		},
		{
			name:       "NFD stored, NFD target",
			storedName: norm.NFD.String(target),
			targetName: norm.NFD.String(target),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			storedPath := filepath.Join(dir, tt.storedName)
			require.NoError(t, os.WriteFile(storedPath, []byte("time,temperature\n"), 0644))

			resolver := NewResolver(nil)
			resolved, err := resolver.Resolve(dir, tt.targetName)
			require.NoError(t, err)

			// The resolved path points at the actual on-disk entry.
			_, statErr := os.Stat(resolved)
			assert.NoError(t, statErr)
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0644))

	resolver := NewResolver(nil)
	_, err := resolver.Resolve(dir, "송도고_환경데이터.csv")

	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "송도고_환경데이터.csv", notFound.Target)
}

func TestResolve_MissingDirectory(t *testing.T) {
	resolver := NewResolver(nil)
	_, err := resolver.Resolve(filepath.Join(t.TempDir(), "does-not-exist"), "anything.csv")

	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestResolve_EmptyTarget(t *testing.T) {
	resolver := NewResolver(nil)
	_, err := resolver.Resolve(t.TempDir(), "")
	require.Error(t, err)

	// Empty target is invalid input, not a not-found.
	var notFound *ErrNotFound
	assert.False(t, errors.As(err, &notFound))
}

func TestResolve_ASCIIName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.csv"), []byte("x"), 0644))

	resolver := NewResolver(nil)
	resolved, err := resolver.Resolve(dir, "plain.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plain.csv"), resolved)
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.CSV"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	resolver := NewResolver(nil)
	found, err := resolver.FindCSVFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a.CSV", "b.csv"}, names)
}

func TestFindExcelFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "growth.xlsx"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.xls"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("x"), 0644))

	resolver := NewResolver(nil)
	found, err := resolver.FindExcelFiles(dir)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
