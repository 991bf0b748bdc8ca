package server

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Kush-Singh-26/testserver/internal/config"
)

var (
	// ErrOutsideRoot is returned when a request path resolves outside the served root.
	ErrOutsideRoot = errors.New("path outside root")
	// ErrUnsupportedType is returned for extensions missing from the MIME table.
	ErrUnsupportedType = errors.New("unsupported file type")
)

const indexFile = "index.html"

// resolvePath maps a URL path onto an absolute file path under root.
// Paths ending in "/" refer to a directory and get index.html appended.
func resolvePath(root, urlPath string) (string, error) {
	if urlPath == "" || strings.HasSuffix(urlPath, "/") {
		urlPath += indexFile
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root directory: %w", err)
	}

	// Join cleans, so any ".." segments are applied before the containment check.
	fullPath := filepath.Join(absRoot, filepath.FromSlash(urlPath))

	relPath, err := filepath.Rel(absRoot, fullPath)
	if err != nil {
		return "", fmt.Errorf("path validation error: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, urlPath)
	}

	return fullPath, nil
}

// classify returns the Content-Type for the extension of the last path segment.
func classify(types config.MimeTable, resolvedPath string) (string, error) {
	ext := filepath.Ext(resolvedPath)
	mimeType, ok := types.Lookup(ext)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return mimeType, nil
}
