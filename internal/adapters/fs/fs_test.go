package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/fs"
)

// writeFiles creates each relative path under root with its content.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		".git/x.tag":             "",
		"node_modules/dep/y.tag": "",
		"ignored/z.tag":          "",
		"b.tag":                  "",
		"a/c.tag":                "",
		"a/readme.md":            "",
		"a/b/d.tag":              "",
	})

	walker := fs.NewWalker()

	var files []string
	for path, err := range walker.WalkFiles(tmpDir, ".tag", []string{"ignored"}) {
		require.NoError(t, err)
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{".git/x.tag", "a/b/d.tag", "a/c.tag", "b.tag", "node_modules/dep/y.tag"}, files)
}

func TestWalker_WalkFiles_IgnorePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		".git/x.tag":             "",
		"node_modules/dep/y.tag": "",
		"a/build-1/z.tag":        "",
		"a/c.tag":                "",
	})

	var files []string
	for path, err := range fs.NewWalker().WalkFiles(tmpDir, ".tag", []string{".*", "node_modules", "build-*"}) {
		require.NoError(t, err)
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"a/c.tag"}, files)
}

func TestWalker_WalkFiles_RootIsNeverIgnored(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "node_modules")
	writeFiles(t, tmpDir, map[string]string{"a.tag": ""})

	var files []string
	for path, err := range fs.NewWalker().WalkFiles(tmpDir, ".tag", []string{"node_modules"}) {
		require.NoError(t, err)
		files = append(files, filepath.Base(path))
	}

	assert.Equal(t, []string{"a.tag"}, files)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"a.tag": "", "b.tag": "", "c.tag": ""})

	count := 0
	for _, err := range fs.NewWalker().WalkFiles(tmpDir, ".tag", nil) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	var errs []error
	for path, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), ".tag", nil) {
		assert.Empty(t, path)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestVerifier(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"a.js": "a"})
	v := fs.NewVerifier()

	ok, err := v.Exists(filepath.Join(tmpDir, "a.js"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Exists(filepath.Join(tmpDir, "nope.js"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"a.js": "alpha", "b.js": "beta", "c.js": "alpha"})
	h := fs.NewHasher()

	a := filepath.Join(tmpDir, "a.js")
	b := filepath.Join(tmpDir, "b.js")
	c := filepath.Join(tmpDir, "c.js")

	ha, err := h.ComputeFileHash(a)
	require.NoError(t, err)
	hc, err := h.ComputeFileHash(c)
	require.NoError(t, err)
	assert.Equal(t, ha, hc)

	d1, err := h.ComputeOutputHash([]string{a, b})
	require.NoError(t, err)
	d2, err := h.ComputeOutputHash([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 16)

	d3, err := h.ComputeOutputHash([]string{b, a})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3, "digest is order sensitive")

	_, err = h.ComputeOutputHash([]string{filepath.Join(tmpDir, "missing.js")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "output file missing")

	_, err = h.ComputeFileHash(filepath.Join(tmpDir, "missing.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
