// Package session persists authentication cookies across invocations.
// One file per username, named {username}_cookiejar, in a temporary-files
// directory. An empty or missing file means "no session".
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// FilePerms restricts credential files to owner-only read/write.
const FilePerms = 0o600

// Store reads and writes per-user credential files.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir. An empty dir falls back to the
// platform temp directory, matching where earlier versions kept their
// cookie jars.
func NewStore(dir string, logger *slog.Logger) *Store {
	if dir == "" {
		dir = os.TempDir()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{dir: dir, logger: logger}
}

// Path returns the credential file path for a username. Anonymous use (the
// empty username) maps every caller onto a single shared file.
func (s *Store) Path(username string) string {
	return filepath.Join(s.dir, username+"_cookiejar")
}

// cookieRecord is the on-disk shape of a single cookie. Only fields needed
// to replay the session are stored.
type cookieRecord struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Load reads the persisted cookies for a username. Returns (nil, nil) when
// the file is absent or empty.
func (s *Store) Load(username string) ([]*http.Cookie, error) {
	path := s.Path(username)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []cookieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("session: decoding %s: %w", path, err)
	}

	cookies := make([]*http.Cookie, 0, len(records))
	for _, r := range records {
		cookies = append(cookies, &http.Cookie{
			Name:     r.Name,
			Value:    r.Value,
			Domain:   r.Domain,
			Path:     r.Path,
			Expires:  r.Expires,
			Secure:   r.Secure,
			HttpOnly: r.HTTPOnly,
		})
	}

	s.logger.Info("session cookies loaded", slog.String("path", path))

	return cookies, nil
}

// Save writes cookies for a username atomically (write-to-temp + rename)
// with 0600 permissions. Never logs cookie values.
func (s *Store) Save(username string, cookies []*http.Cookie) error {
	records := make([]cookieRecord, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, cookieRecord{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding: %w", err)
	}

	path := s.Path(username)

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", s.dir, err)
	}

	// Atomic write: temp file in the same directory, then rename.
	tmp, err := os.CreateTemp(s.dir, ".cookiejar-*.tmp")
	if err != nil {
		return fmt.Errorf("session: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("session: setting permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: writing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("session: renaming: %w", err)
	}

	success = true

	s.logger.Info("session cookies saved", slog.String("path", path))

	return nil
}

// Purge truncates the credential file for a username. Missing files are
// not an error.
func (s *Store) Purge(username string) error {
	path := s.Path(username)

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", s.dir, err)
	}

	if err := os.WriteFile(path, nil, FilePerms); err != nil {
		return fmt.Errorf("session: purging %s: %w", path, err)
	}

	s.logger.Info("session cookies purged", slog.String("path", path))

	return nil
}
