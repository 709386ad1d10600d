package tracker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore persists the tracked set as a flat JSON file. Writes go to a
// temp file in the same directory followed by a rename, so a reader never
// observes a partially written record.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(ctx context.Context) *TrackedLinks {
	links := New()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("tracking file unreadable, starting from empty set",
				zap.String("path", s.path), zap.Error(err))
		}
		return links
	}
	if err := json.Unmarshal(data, links); err != nil {
		s.logger.Warn("tracking file corrupt, starting from empty set",
			zap.String("path", s.path), zap.Error(err))
		return New()
	}
	return links
}

func (s *FileStore) Save(ctx context.Context, links *TrackedLinks) error {
	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sent-links-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Reset(ctx context.Context) (*TrackedLinks, error) {
	links := New()
	if err := s.Save(ctx, links); err != nil {
		return nil, err
	}
	return links, nil
}
