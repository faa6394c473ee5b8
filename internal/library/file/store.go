// Package file implements a library store over a JSON export on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/citedex/internal/library"
)

// Compile-time check: Store implements library.Store.
var _ library.Store = (*Store)(nil)

// Store loads the library from a JSON file. A watcher on the containing
// directory invalidates the cached version stamp, so Version stays cheap
// between writes and requests see new content after the exporter rewrites
// the file (editors and sync jobs typically replace, not append).
type Store struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	version string
	dirty   bool
}

type fileLibrary struct {
	Items       []json.RawMessage   `json:"items"`
	Collections map[string][]string `json:"collections"`
	Selected    []string            `json:"selected"`
}

// NewStore opens the library file store and starts the change watcher.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("library path is required")
	}
	s := &Store{path: path, logger: logger, dirty: true}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: atomic replaces (rename over the file) drop
	// watches placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

func (s *Store) watch() {
	base := filepath.Base(s.path)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			s.mu.Lock()
			s.dirty = true
			s.mu.Unlock()
			s.logger.Debug("library file changed", zap.String("op", ev.Op.String()))
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("library watcher error", zap.Error(err))
			s.mu.Lock()
			s.dirty = true
			s.mu.Unlock()
		}
	}
}

// Version returns a stamp derived from the file's mtime and size. The stat
// is skipped while the watcher has seen no change since the last call.
func (s *Store) Version(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty && s.version != "" {
		return s.version, nil
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return "", &library.Error{Op: "stat", Err: err}
	}
	s.version = fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())
	s.dirty = false
	return s.version, nil
}

// Load reads and decodes the whole library file.
func (s *Store) Load(ctx context.Context) (library.Library, error) {
	version, err := s.Version(ctx)
	if err != nil {
		return library.Library{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return library.Library{}, &library.Error{Op: "read", Err: err}
	}

	var raw fileLibrary
	if err := json.Unmarshal(data, &raw); err != nil {
		return library.Library{}, &library.Error{Op: "decode", Err: err}
	}

	lib := library.Library{
		Version:     version,
		Collections: raw.Collections,
		Selected:    raw.Selected,
	}
	for i, rawItem := range raw.Items {
		item, err := library.DecodeItem(rawItem)
		if err != nil {
			return library.Library{}, fmt.Errorf("item %d: %w", i, err)
		}
		lib.Items = append(lib.Items, item)
	}
	return lib, nil
}

// Ping checks that the library file is readable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return &library.Error{Op: "stat", Err: err}
	}
	return nil
}

// Close stops the change watcher.
func (s *Store) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}
