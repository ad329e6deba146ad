// Package scanner discovers candidate memory documents under a root.
//
// Traversal is filepath.WalkDir, which visits entries in lexical order.
// For date-prefixed filenames lexical order is chronological order, which
// the timeline relies on.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultExtensions are the recognized text-document extensions.
var DefaultExtensions = []string{".md", ".markdown"}

// FileInfo describes one discovered document.
type FileInfo struct {
	// Path is the absolute path of the document.
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
}

// Options configures a scan.
type Options struct {
	// Extensions are the accepted file extensions (default DefaultExtensions).
	Extensions []string
	// ExcludeDirs are directory base names never descended into,
	// e.g. the on-disk store artifact.
	ExcludeDirs []string
}

// Scanner walks a document root for candidate files.
type Scanner struct {
	opts Options
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	return &Scanner{opts: opts}
}

// Scan returns every candidate document under root in lexical path order.
// Hidden files and directories (leading dot) are excluded, as are the
// configured ExcludeDirs. Entries that cannot be accessed are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip entries we can't access
		}

		name := d.Name()

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if strings.HasPrefix(name, ".") || s.isExcludedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !s.hasDocumentExtension(name) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    name,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// hasDocumentExtension reports whether name carries a recognized extension.
func (s *Scanner) hasDocumentExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range s.opts.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// isExcludedDir reports whether a directory base name is excluded.
func (s *Scanner) isExcludedDir(name string) bool {
	for _, d := range s.opts.ExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}
