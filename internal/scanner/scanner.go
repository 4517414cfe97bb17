// Package scanner discovers the analyzable source files of a repository.
//
// It walks a repository root, prunes ignored directories before descending
// into them, reads bounded file content, and tags each file with its
// language. The scan is best-effort: unreadable files are skipped and
// counted, never fatal.
package scanner

import (
	"bytes"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Language identifies the source language of a file.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangJSX        Language = "jsx"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangOther      Language = "other"
)

// FileRecord represents one scanned source file.
type FileRecord struct {
	// Path is the repo-relative path, forward-slash separated.
	Path string

	// Language is the detected source language.
	Language Language

	// LOC is the line count (newline count + 1).
	LOC int

	// Content is the bounded file content. It is only valid for the
	// duration of an analysis run and is never persisted.
	Content []byte
}

// IsJsTs reports whether the record is a JavaScript or TypeScript family file.
func (f *FileRecord) IsJsTs() bool {
	switch f.Language {
	case LangJavaScript, LangJSX, LangTypeScript, LangTSX:
		return true
	}
	return false
}

// DefaultMaxFileBytes is the per-file read cap.
const DefaultMaxFileBytes = 200_000

// DefaultExtensions maps supported file extensions to languages.
func DefaultExtensions() map[string]Language {
	return map[string]Language{
		".py":  LangPython,
		".js":  LangJavaScript,
		".jsx": LangJSX,
		".ts":  LangTypeScript,
		".tsx": LangTSX,
	}
}

// DefaultIgnoreDirs lists directory names that are pruned before descending.
func DefaultIgnoreDirs() []string {
	return []string{
		".git",
		".hg",
		".svn",
		"node_modules",
		"__pycache__",
		".venv",
		"venv",
		".tox",
		".eggs",
		".pytest_cache",
		".mypy_cache",
		".ruff_cache",
		"dist",
		"build",
		"coverage",
		"htmlcov",
	}
}

// Options configures a scan. Zero-value fields take defaults.
type Options struct {
	// Extensions maps supported extensions (with leading dot) to languages.
	Extensions map[string]Language

	// IgnoreDirs lists directory names pruned before descending.
	IgnoreDirs []string

	// MaxFileBytes caps the number of bytes read per file.
	MaxFileBytes int
}

func (o Options) withDefaults() Options {
	if o.Extensions == nil {
		o.Extensions = DefaultExtensions()
	}
	if o.IgnoreDirs == nil {
		o.IgnoreDirs = DefaultIgnoreDirs()
	}
	if o.MaxFileBytes <= 0 {
		o.MaxFileBytes = DefaultMaxFileBytes
	}
	return o
}

// Stats summarizes scan degradation for observability.
type Stats struct {
	// SkippedFiles counts files that could not be read.
	SkippedFiles int
}

// Scan walks repoRoot and returns all supported files in ascending path
// order. A single unreadable file is skipped and counted; the scan as a
// whole only fails when the root itself cannot be walked.
func Scan(repoRoot string, opts Options) ([]FileRecord, Stats, error) {
	opts = opts.withDefaults()
	stats := Stats{}

	ignored := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, dir := range opts.IgnoreDirs {
		ignored[dir] = struct{}{}
	}
	matcher := loadGitignore(repoRoot)

	var records []FileRecord

	err := filepath.WalkDir(repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal.
			if path == repoRoot {
				return err
			}
			stats.SkippedFiles++
			return nil
		}

		if d.IsDir() {
			if path == repoRoot {
				return nil
			}
			if _, skip := ignored[d.Name()]; skip {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.Match(splitPath(repoRoot, path), true) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		lang, supported := opts.Extensions[ext]
		if !supported {
			return nil
		}
		if matcher != nil && matcher.Match(splitPath(repoRoot, path), false) {
			return nil
		}

		content, readErr := readBounded(path, opts.MaxFileBytes)
		if readErr != nil {
			stats.SkippedFiles++
			return nil
		}

		relPath, relErr := filepath.Rel(repoRoot, path)
		if relErr != nil {
			stats.SkippedFiles++
			return nil
		}

		records = append(records, FileRecord{
			Path:     filepath.ToSlash(relPath),
			Language: lang,
			LOC:      bytes.Count(content, []byte("\n")) + 1,
			Content:  content,
		})
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, stats, nil
}

// readBounded reads at most maxBytes from path, replacing invalid UTF-8
// sequences so that decode problems never fail the scan.
func readBounded(path string, maxBytes int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)))
	if err != nil {
		return nil, err
	}
	return bytes.ToValidUTF8(content, []byte("�")), nil
}

// loadGitignore loads root .gitignore patterns, if present.
func loadGitignore(repoRoot string) gitignore.Matcher {
	content, err := os.ReadFile(filepath.Join(repoRoot, ".gitignore"))
	if err != nil {
		return nil
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// splitPath splits a path relative to the repo root into components for
// gitignore matching.
func splitPath(repoRoot, path string) []string {
	rel, err := filepath.Rel(repoRoot, path)
	if err != nil {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// LanguageStats returns the language distribution as percentages with one
// decimal of precision.
func LanguageStats(records []FileRecord) map[Language]float64 {
	counts := make(map[Language]int)
	for i := range records {
		counts[records[i].Language]++
	}

	total := len(records)
	if total == 0 {
		total = 1
	}

	stats := make(map[Language]float64, len(counts))
	for lang, n := range counts {
		stats[lang] = math.Round(float64(n)*1000/float64(total)) / 10
	}
	return stats
}

// TotalLOC sums line counts across all records.
func TotalLOC(records []FileRecord) int {
	total := 0
	for i := range records {
		total += records[i].LOC
	}
	return total
}
