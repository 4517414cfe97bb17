package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("SupportedExtensionsOnly", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "a.py", "import os\n")
		writeFile(t, root, "b.ts", "export const x = 1\n")
		writeFile(t, root, "readme.md", "# hi\n")
		writeFile(t, root, "c.go", "package main\n")

		records, stats, err := Scan(root, Options{})
		require.NoError(t, err)

		assert.Equal(t, 0, stats.SkippedFiles)
		require.Len(t, records, 2)
		assert.Equal(t, "a.py", records[0].Path)
		assert.Equal(t, LangPython, records[0].Language)
		assert.Equal(t, "b.ts", records[1].Path)
		assert.Equal(t, LangTypeScript, records[1].Language)
	})

	t.Run("LanguageTable", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "a.py", "")
		writeFile(t, root, "b.js", "")
		writeFile(t, root, "c.jsx", "")
		writeFile(t, root, "d.ts", "")
		writeFile(t, root, "e.tsx", "")

		records, _, err := Scan(root, Options{})
		require.NoError(t, err)
		require.Len(t, records, 5)

		langs := make(map[string]Language)
		for _, r := range records {
			langs[r.Path] = r.Language
		}
		assert.Equal(t, LangPython, langs["a.py"])
		assert.Equal(t, LangJavaScript, langs["b.js"])
		assert.Equal(t, LangJSX, langs["c.jsx"])
		assert.Equal(t, LangTypeScript, langs["d.ts"])
		assert.Equal(t, LangTSX, langs["e.tsx"])
	})

	t.Run("UnknownSupportedExtensionDefaultsToOther", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "page.vue", "<template></template>\n")

		ext := DefaultExtensions()
		ext[".vue"] = LangOther

		records, _, err := Scan(root, Options{Extensions: ext})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, LangOther, records[0].Language)
	})

	t.Run("PrunesIgnoredDirectories", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "src/app.py", "x = 1\n")
		writeFile(t, root, "node_modules/lib/index.js", "module.exports = {}\n")
		writeFile(t, root, "__pycache__/app.py", "x = 1\n")
		writeFile(t, root, ".git/hooks/pre-commit.py", "x = 1\n")

		records, _, err := Scan(root, Options{})
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "src/app.py", records[0].Path)
	})

	t.Run("HonorsGitignore", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, ".gitignore", "generated/\nsecret.py\n")
		writeFile(t, root, "app.py", "x = 1\n")
		writeFile(t, root, "secret.py", "x = 1\n")
		writeFile(t, root, "generated/out.py", "x = 1\n")

		records, _, err := Scan(root, Options{})
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "app.py", records[0].Path)
	})

	t.Run("LOCIsNewlineCountPlusOne", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "a.py", "one\ntwo\nthree")
		writeFile(t, root, "empty.py", "")

		records, _, err := Scan(root, Options{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		byPath := make(map[string]FileRecord)
		for _, r := range records {
			byPath[r.Path] = r
		}
		assert.Equal(t, 3, byPath["a.py"].LOC)
		assert.Equal(t, 1, byPath["empty.py"].LOC)
	})

	t.Run("ByteCapBoundsContent", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "big.py", strings.Repeat("a", 500))

		records, _, err := Scan(root, Options{MaxFileBytes: 100})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Len(t, records[0].Content, 100)
	})

	t.Run("InvalidUTF8Replaced", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		path := filepath.Join(root, "bad.py")
		require.NoError(t, os.WriteFile(path, []byte{'x', 0xff, 0xfe, '\n'}, 0o644))

		records, stats, err := Scan(root, Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, stats.SkippedFiles)
		require.Len(t, records, 1)
		assert.True(t, strings.Contains(string(records[0].Content), "�"))
	})

	t.Run("DeterministicOrder", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "z.py", "")
		writeFile(t, root, "a/m.py", "")
		writeFile(t, root, "b.py", "")

		records, _, err := Scan(root, Options{})
		require.NoError(t, err)

		paths := make([]string, len(records))
		for i, r := range records {
			paths[i] = r.Path
		}
		assert.Equal(t, []string{"a/m.py", "b.py", "z.py"}, paths)
	})

	t.Run("MissingRootFails", func(t *testing.T) {
		t.Parallel()
		_, _, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
		assert.Error(t, err)
	})
}

func TestLanguageStats(t *testing.T) {
	t.Parallel()

	records := []FileRecord{
		{Path: "a.py", Language: LangPython, LOC: 10},
		{Path: "b.py", Language: LangPython, LOC: 20},
		{Path: "c.ts", Language: LangTypeScript, LOC: 5},
		{Path: "d.js", Language: LangJavaScript, LOC: 1},
	}

	stats := LanguageStats(records)
	assert.InDelta(t, 50.0, stats[LangPython], 0.01)
	assert.InDelta(t, 25.0, stats[LangTypeScript], 0.01)
	assert.InDelta(t, 25.0, stats[LangJavaScript], 0.01)

	assert.Equal(t, 36, TotalLOC(records))
	assert.Empty(t, LanguageStats(nil))
}
