package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"media-viewer/domain/media"

	"github.com/moby/sys/atomicwriter"
)

// DefaultDirectory is the cache location relative to the working directory
const DefaultDirectory = ".view_cache"

// Store is the sink for derived artifacts. It is not a memoizing cache:
// every write replaces the previous file for the same source stem.
type Store struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	ensured bool
}

// NewStore creates a store rooted at dir. The directory is created lazily on first write.
func NewStore(dir string, log *slog.Logger) *Store {
	if dir == "" {
		dir = DefaultDirectory
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:    dir,
		logger: log.With(slog.String("component", "view_cache")),
	}
}

// Dir returns the cache root
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the cache directory if it does not exist yet
func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured {
		if _, err := os.Stat(s.dir); err == nil {
			return nil
		}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.dir, err)
	}
	s.ensured = true
	return nil
}

// Path returns the deterministic path for a source file's derived artifact
func (s *Store) Path(sourcePath string, kind media.DerivedKind) string {
	return filepath.Join(s.dir, media.DerivedFilename(sourcePath, kind))
}

// Write atomically replaces path with data, so readers never see a partial file
func (s *Store) Write(path string, data []byte) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write derived file %s: %w", path, err)
	}
	s.logger.Debug("derived file written", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}

// Read returns the contents of a derived file
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read derived file %s: %w", path, err)
	}
	return data, nil
}

// Ensure Store implements media.ArtifactStore
var _ media.ArtifactStore = (*Store)(nil)
