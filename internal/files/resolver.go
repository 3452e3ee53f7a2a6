package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound reports that no directory entry matched the target name
// under either normalization form.
type ErrNotFound struct {
	Dir    string
	Target string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no file matching %q in %s", e.Target, e.Dir)
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Resolver finds files by logical name regardless of how the filesystem
// encoded multi-codepoint characters. macOS stores Hangul filenames
// decomposed (NFD) while most tools produce composed (NFC) names; the two
// are canonically equivalent but byte-different.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a new file resolver
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger.With(slog.String("component", "file_resolver"))}
}

// Resolve returns the path of the first entry in dir whose name equals
// target under NFC or NFD normalization. A missing or unreadable directory
// resolves to not-found rather than a distinct error: either way the
// dataset file is unavailable.
func (r *Resolver) Resolve(dir, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("target name must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Debug("directory not readable",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return "", &ErrNotFound{Dir: dir, Target: target}
	}

	targetNFC := norm.NFC.String(target)
	targetNFD := norm.NFD.String(target)

	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if norm.NFC.String(name) == targetNFC || norm.NFD.String(name) == targetNFD {
			matches = append(matches, filepath.Join(dir, name))
		}
	}

	if len(matches) == 0 {
		return "", &ErrNotFound{Dir: dir, Target: target}
	}
	if len(matches) > 1 {
		// Should not happen with valid input; first match wins but the
		// duplication is worth surfacing.
		r.logger.Debug("multiple entries match target name",
			slog.String("target", target),
			slog.Int("matches", len(matches)))
	}

	return matches[0], nil
}

// FindCSVFiles lists all CSV files in dir, sorted by name.
func (r *Resolver) FindCSVFiles(dir string) ([]FileInfo, error) {
	return r.findByExtension(dir, ".csv")
}

// FindExcelFiles lists all xlsx/xls files in dir, sorted by name.
func (r *Resolver) FindExcelFiles(dir string) ([]FileInfo, error) {
	return r.findByExtension(dir, ".xlsx", ".xls")
}

func (r *Resolver) findByExtension(dir string, exts ...string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		lower := strings.ToLower(name)
		matched := false
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
