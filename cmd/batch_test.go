package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.csv")
	content := "url,notes\nacme.example,good lead\n\nbeta.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := readURLList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme.example", "beta.example"}, urls)
}

func TestReadURLListEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.csv")
	require.NoError(t, os.WriteFile(path, []byte("url\n\n"), 0o644))

	_, err := readURLList(path)
	assert.Error(t, err)
}

func TestReadURLListMissingFile(t *testing.T) {
	_, err := readURLList(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
