package logquery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultLines is the result bound applied when the caller does not
	// ask for one.
	DefaultLines = 100

	// MaxLines is the hard cap; larger requests are clamped, not failed.
	MaxLines = 1000
)

// ErrInvalidLevel reports a level filter value outside the known set.
// It is a caller mistake and is surfaced, unlike an empty result.
var ErrInvalidLevel = errors.New("invalid log level filter")

// Options control one query.
type Options struct {
	// Lines bounds the result set; clamped to [1, MaxLines], zero means
	// DefaultLines
	Lines int

	// Level filters records to one level, case-insensitive; empty means
	// no level filter
	Level string

	// Search filters records whose raw text contains this substring,
	// case-insensitive; empty means no search filter
	Search string

	// IncludeRotated also reads rotated backup files, oldest first, so
	// recency ordering holds across a rotation boundary
	IncludeRotated bool
}

// Engine reads recently written application log lines back from the
// rotation writer's files. It only ever opens files for reading and
// holds no handle between queries: reopening by path per query is what
// makes it naturally pick up the post-rotation file.
type Engine struct {
	path string
}

// NewEngine creates an engine bound to the active log file path. An
// empty path is valid and yields empty results (file logging disabled).
func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

// Path returns the active log file path.
func (e *Engine) Path() string {
	return e.path
}

// Query returns the most recent matching records, newest first.
//
// The file content is read as a snapshot at open time. A final line not
// yet terminated by a newline is treated as a partial write and excluded
// from the snapshot; it will appear in the next query. A missing file is
// an empty result, not an error. At the moment of rotation the boundary
// line may be excluded from one snapshot; this is inherent to lock-free
// reading of an externally rotated file.
func (e *Engine) Query(opts Options) ([]Record, error) {
	level := ""
	if opts.Level != "" {
		level = CanonicalLevel(opts.Level)
		if level == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, opts.Level)
		}
	}

	limit := opts.Lines
	switch {
	case limit == 0:
		limit = DefaultLines
	case limit < 0:
		limit = 1
	case limit > MaxLines:
		limit = MaxLines
	}

	if e.path == "" {
		return []Record{}, nil
	}

	var lines []string
	if opts.IncludeRotated {
		for _, backup := range e.BackupFiles() {
			lines = append(lines, readSnapshot(backup)...)
		}
	}
	lines = append(lines, readSnapshot(e.path)...)

	// Parse and filter in chronological order
	matched := make([]Record, 0, len(lines))
	search := strings.ToLower(opts.Search)
	for _, line := range lines {
		rec := parseLine(line)
		if level != "" && rec.Level != level {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Raw), search) {
			continue
		}
		matched = append(matched, rec)
	}

	// Keep the last limit entries, then return them newest first
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}

// BackupFiles lists rotated backups of the active file in chronological
// order, oldest first. The rotation writer names backups
// name-<timestamp>.ext, so a lexical sort is a chronological sort.
func (e *Engine) BackupFiles() []string {
	if e.path == "" {
		return nil
	}

	dir := filepath.Dir(e.path)
	base := filepath.Base(e.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		// Compressed backups are skipped; the engine reads plain text only
		if !strings.HasSuffix(name, ext) {
			continue
		}
		backups = append(backups, filepath.Join(dir, name))
	}
	sort.Strings(backups)
	return backups
}

// readSnapshot reads the complete lines present in the file at open
// time. Missing files and read errors yield no lines; the writer owns
// the file and this reader never blocks it.
func readSnapshot(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}

	// A tail not ending in a newline is a partial write in progress;
	// exclude it from this snapshot rather than returning a garbled line.
	if data[len(data)-1] != '\n' {
		if i := strings.LastIndexByte(string(data), '\n'); i >= 0 {
			data = data[:i+1]
		} else {
			return nil
		}
	}

	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
