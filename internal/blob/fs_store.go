package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// fsStore implements Store on the local filesystem. Root-relative public
// paths map onto files under the configured asset root directory.
type fsStore struct {
	root   string
	logger zerolog.Logger
}

// NewFSStore creates a filesystem-backed blob store rooted at the asset
// root directory.
func NewFSStore(root string, logger zerolog.Logger) Store {
	return &fsStore{
		root:   root,
		logger: logger.With().Str("component", "fs-blob-store").Logger(),
	}
}

// resolve maps a root-relative public path onto the local filesystem,
// rejecting paths that would escape the asset root.
func (s *fsStore) resolve(filePath string) (string, error) {
	cleaned := filepath.Clean("/" + strings.TrimPrefix(filePath, "/"))
	if cleaned == "/" {
		return "", fmt.Errorf("invalid blob path %q", filePath)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Write stores the content under the given path.
func (s *fsStore) Write(ctx context.Context, filePath string, content io.Reader) error {
	target, err := s.resolve(filePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		s.logger.Error().Err(err).Str("path", filePath).Msg("failed to create image directory")
		return fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}

	file, err := os.Create(target)
	if err != nil {
		s.logger.Error().Err(err).Str("path", filePath).Msg("failed to create image file")
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, content)
	if err != nil {
		s.logger.Error().Err(err).Str("path", filePath).Msg("failed to write image file")
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	s.logger.Debug().
		Str("path", filePath).
		Int64("bytes", written).
		Msg("image file written")

	return nil
}

// DeleteIfExists removes the file at the given path, tolerating an empty
// path and a missing file.
func (s *fsStore) DeleteIfExists(ctx context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}

	target, err := s.resolve(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", filePath).Msg("image file already absent")
			return nil
		}
		s.logger.Error().Err(err).Str("path", filePath).Msg("failed to delete image file")
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	s.logger.Debug().Str("path", filePath).Msg("image file deleted")
	return nil
}

// Exists reports whether a file is stored under the given path.
func (s *fsStore) Exists(ctx context.Context, filePath string) (bool, error) {
	target, err := s.resolve(filePath)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	return true, nil
}
