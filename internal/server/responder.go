package server

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/testserver/internal/config"
	"github.com/Kush-Singh-26/testserver/internal/metrics"
)

// Response bodies for the non-200 outcomes.
const (
	notFoundBody    = "404: no page found"
	unsupportedBody = "&lt;html&gt;&lt;head&gt;&lt;/head&gt;&lt;body&gt;The requested file type is not supported&lt;/body&gt;&lt;/html&gt;"
	forbiddenBody   = "403: forbidden"
	failedBody      = "500: internal server error"
)

// Responder answers every request with a file from root, or an error page.
type Responder struct {
	fs      afero.Fs
	root    string
	types   config.MimeTable
	logger  *slog.Logger
	metrics *metrics.ServeMetrics
}

// NewResponder creates a Responder reading from fsys under cfg.Root.
func NewResponder(fsys afero.Fs, cfg *config.Config, logger *slog.Logger, m *metrics.ServeMetrics) *Responder {
	root := cfg.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Responder{
		fs:      fsys,
		root:    root,
		types:   cfg.Types,
		logger:  logger,
		metrics: m,
	}
}

func (s *Responder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resolved, err := resolvePath(s.root, r.URL.Path)
	if err != nil {
		s.logger.Warn("Rejected request path", "path", r.URL.Path, "error", err)
		s.finish(w, http.StatusForbidden, forbiddenBody, metrics.Forbidden)
		return
	}

	s.logger.Info("Requested", "path", resolved)

	mimeType, err := classify(s.types, resolved)
	if err != nil {
		s.logger.Debug("Unsupported file type", "path", resolved, "error", err)
		s.finish(w, http.StatusNotFound, unsupportedBody, metrics.Unsupported)
		return
	}

	s.serveFile(w, resolved, mimeType)
}

func (s *Responder) serveFile(w http.ResponseWriter, path, mimeType string) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			s.finish(w, http.StatusNotFound, notFoundBody, metrics.NotFound)
			return
		}
		s.logger.Error("Failed to stat file", "path", path, "error", err)
		s.finish(w, http.StatusInternalServerError, failedBody, metrics.Failed)
		return
	}
	if info.IsDir() {
		s.finish(w, http.StatusNotFound, notFoundBody, metrics.NotFound)
		return
	}

	contents, err := afero.ReadFile(s.fs, path)
	if err != nil {
		// The file may have been removed between Stat and ReadFile.
		if isNotExist(err) {
			s.finish(w, http.StatusNotFound, notFoundBody, metrics.NotFound)
			return
		}
		s.logger.Error("Failed to read file", "path", path, "error", err)
		s.finish(w, http.StatusInternalServerError, failedBody, metrics.Failed)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(contents)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(contents); err != nil {
		s.logger.Debug("Failed to write response", "path", path, "error", err)
	}
	s.metrics.Record(metrics.Served, len(contents))
}

// isNotExist reports whether err means the path does not name a file,
// including a parent segment being a regular file.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// finish writes a text/html error page and records the outcome.
func (s *Responder) finish(w http.ResponseWriter, status int, body string, outcome metrics.Outcome) {
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
	s.metrics.Record(outcome, 0)
}
