package credential

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the token in a single file, surviving process restarts
type FileStore struct {
	path   string
	logger *slog.Logger
}

// Ensure FileStore implements the interface
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// DefaultPath returns the conventional token file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".devportal", "token")
	}
	return filepath.Join(home, ".devportal", "token")
}

// Save overwrites the token file
func (s *FileStore) Save(token string) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		s.logger.Warn("token store unavailable, save skipped",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		s.logger.Warn("token store unavailable, save skipped",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
	}
}

// Load reads the stored token if present
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("token store unreadable",
				slog.String("path", s.path),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the token file
func (s *FileStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("token store clear failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
	}
}
