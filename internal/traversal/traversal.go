// Package traversal turns a directory or a dropped file set into the
// root-relative, slash-separated candidate paths the filter works on.
package traversal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ogdakke/pathfilter/internal/logger"
)

// IgnoreFileName is the file looked up at the upload root.
const IgnoreFileName = ".gitignore"

var ErrNotDirectory = errors.New("not a directory")

// Upload is a set of candidate files below Root.
type Upload struct {
	Root string
	// Paths are relative to Root, use "/" separators and are in lexical order.
	Paths []string
}

// WalkDirectory lists every regular file below root. Symlinks and special
// files are skipped. Nothing is filtered here.
func WalkDirectory(root string) (Upload, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Upload{}, fmt.Errorf("could not stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return Upload{}, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	upload := Upload{Root: root}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		// Skip symlinks and special files
		if d.Type()&fs.ModeType != 0 {
			logger.Trace("Skipping non-regular file", "path", path)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		upload.Paths = append(upload.Paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Upload{}, fmt.Errorf("error walking %s: %w", root, err)
	}

	logger.Debug("Directory walked", "root", root, "files", len(upload.Paths))
	return upload, nil
}

// NormalizePath converts backslashes to "/" and drops leading "./" and "/".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for {
		switch {
		case strings.HasPrefix(path, "./"):
			path = path[2:]
		case strings.HasPrefix(path, "/"):
			path = path[1:]
		default:
			return path
		}
	}
}

// StripRoot removes the folder segment every path shares, as produced when a
// single folder is dropped. It returns the stripped paths and the removed
// segment, or the normalized paths and "" when there is no common root.
func StripRoot(paths []string) ([]string, string) {
	normalized := make([]string, len(paths))
	for i, p := range paths {
		normalized[i] = NormalizePath(p)
	}

	root := ""
	for i, p := range normalized {
		segment, _, found := strings.Cut(p, "/")
		if !found {
			return normalized, ""
		}
		if i == 0 {
			root = segment
		} else if segment != root {
			return normalized, ""
		}
	}
	if root == "" {
		return normalized, ""
	}

	stripped := make([]string, len(normalized))
	for i, p := range normalized {
		stripped[i] = strings.TrimPrefix(p, root+"/")
	}
	logger.Debug("Stripped upload root", "root", root, "paths", len(stripped))
	return stripped, root
}

// LocateIgnoreFile reports whether the root-relative paths contain an ignore
// file at the upload root. Nested ignore files are not considered.
func LocateIgnoreFile(paths []string) (string, bool) {
	for _, p := range paths {
		if p == IgnoreFileName {
			return p, true
		}
	}
	return "", false
}

// ReadIgnoreFile returns the text of the ignore file at path.
func ReadIgnoreFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read ignore file: %w", err)
	}
	logger.Debug("Ignore file read", "path", path, "bytes", len(data))
	return string(data), nil
}
