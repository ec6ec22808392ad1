// Package testutil exposes the SVD fixtures shared by tests.
package testutil

import (
	"embed"
	"io/fs"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.svd
var fixtures embed.FS

// Fixture returns the named SVD fixture and fails t if it does not exist.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile(path.Join("testdata", name))
	require.NoError(t, err, "fixture %s", name)
	return data
}

// FixtureNames lists the embedded fixtures by base name.
func FixtureNames() ([]string, error) {
	matches, err := fs.Glob(fixtures, "testdata/*.svd")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = path.Base(m)
	}
	return names, nil
}
