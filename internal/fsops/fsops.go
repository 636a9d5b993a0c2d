// Package fsops is the filesystem collaborator around the pure parsing and
// generation core: path validation, size limits, environment overrides, and
// the atomic in-place file update.
package fsops

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxFileSizeEnv   = "TOC_MARKDOWN_MAX_FILE_SIZE"
	maxLineLengthEnv = "TOC_MARKDOWN_MAX_LINE_LENGTH"
)

// MarkdownExtensions lists the file extensions accepted as Markdown input.
var MarkdownExtensions = []string{".md", ".markdown"}

// MaxFileSize resolves the maximum allowed file size in bytes, honouring the
// TOC_MARKDOWN_MAX_FILE_SIZE environment override.
func MaxFileSize(fallback int64) (int64, error) {
	raw := os.Getenv(maxFileSizeEnv)
	if raw == "" {
		return fallback, nil
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q (expected positive integer)", maxFileSizeEnv, raw)
	}
	return size, nil
}

// MaxLineLength resolves the maximum allowed line length in characters,
// honouring the TOC_MARKDOWN_MAX_LINE_LENGTH environment override.
func MaxLineLength(fallback int) (int, error) {
	raw := os.Getenv(maxLineLengthEnv)
	if raw == "" {
		return fallback, nil
	}
	length, err := strconv.Atoi(raw)
	if err != nil || length <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q (expected positive integer)", maxLineLengthEnv, raw)
	}
	return length, nil
}

// ContainsSymlink reports whether the path or any of its parents is a
// symlink.
func ContainsSymlink(path string) bool {
	for current := path; ; {
		if info, err := os.Lstat(current); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return false
		}
		current = parent
	}
}

// NormalizePath resolves and validates a Markdown file path: no symlinks
// anywhere on the path, the file must exist, be a regular file, live under
// baseDir, and carry a Markdown extension. It returns the absolute path.
func NormalizePath(raw string, baseDir string) (string, error) {
	path := expandUser(raw)

	if ContainsSymlink(path) {
		return "", fmt.Errorf("symlinks are not supported for security reasons: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", path, err)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s does not exist", path)
		}
		return "", fmt.Errorf("error resolving %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", abs)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", baseDir, err)
	}
	if !contained(base, abs) {
		return "", fmt.Errorf("%s is outside of the working directory %s", abs, base)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	for _, allowed := range MarkdownExtensions {
		if ext == allowed {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%s is not a Markdown file; supported extensions are: %s",
		abs, strings.Join(MarkdownExtensions, ", "))
}

func expandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func contained(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CollectStat returns file metadata without following symlinks, rejecting
// symlinks and anything that is not a regular file.
func CollectStat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks are not supported: %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return info, nil
}

// EnforceFileSize guards against files exceeding the configured maximum.
func EnforceFileSize(info os.FileInfo, maxSize int64, path string) error {
	if info.Size() > maxSize {
		return fmt.Errorf("%s exceeds the maximum allowed size of %d bytes", path, maxSize)
	}
	return nil
}

// EnsureUnchanged fails when the file identity, size, or modification time
// differ between two snapshots taken around processing.
func EnsureUnchanged(before, after os.FileInfo, path string) error {
	if !os.SameFile(before, after) ||
		before.Size() != after.Size() ||
		!before.ModTime().Equal(after.ModTime()) {
		return fmt.Errorf("%s changed during processing; refusing to overwrite", path)
	}
	return nil
}

// UpdateTOC rewrites the file with tocLines spliced over the region between
// the marker lines at tocStart and tocEnd (inclusive, zero-based). The new
// content is written to a temporary file in the same directory, synced, and
// moved over the original atomically. The original permissions are restored,
// ownership preservation is attempted, and the pre-read access time from
// initial is put back afterwards; the modification time reflects the update.
//
// expected is the stat captured right after reading; a re-stat before the
// write detects concurrent modification and aborts.
func UpdateTOC(lines []string, path string, tocLines []string, tocStart, tocEnd int, expected, initial os.FileInfo) error {
	current, err := CollectStat(path)
	if err != nil {
		return err
	}
	if err := EnsureUnchanged(expected, current, path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".toc-markdown-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename succeeds

	w := bufio.NewWriter(tmp)
	writeErr := writeLines(w, lines[:tocStart])
	if writeErr == nil {
		writeErr = writeLines(w, tocLines)
	}
	if writeErr == nil && tocEnd+1 < len(lines) {
		writeErr = writeLines(w, lines[tocEnd+1:])
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", tmpPath, writeErr)
	}

	if err := os.Chmod(tmpPath, expected.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve permissions of %s: %w", path, err)
	}
	if st, ok := expected.Sys().(*syscall.Stat_t); ok {
		if err := os.Chown(tmpPath, int(st.Uid), int(st.Gid)); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).
				Msg("could not preserve file ownership (requires elevated privileges)")
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	// Put back the access time from before the file was first read. The
	// modification time is deliberately left at the time of the update.
	if atime, ok := accessTime(initial); ok {
		if updated, err := os.Stat(path); err == nil {
			if err := os.Chtimes(path, atime, updated.ModTime()); err != nil {
				log.Warn().Err(err).Str("file", filepath.Base(path)).
					Msg("could not restore access time")
			}
		}
	}

	return nil
}

func writeLines(w *bufio.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// accessTime extracts the access time from platform stat data when exposed.
func accessTime(info os.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Atim.Sec, st.Atim.Nsec), true
}
