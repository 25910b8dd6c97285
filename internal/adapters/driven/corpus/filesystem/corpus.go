package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/logger"
)

// Ensure Corpus implements the interface.
var _ driven.DocumentStore = (*Corpus)(nil)

// reloadDelay coalesces bursts of filesystem events into one reload.
const reloadDelay = 200 * time.Millisecond

// Corpus is a read-only document store over a directory tree.
type Corpus struct {
	root string

	mu     sync.RWMutex
	docs   []domain.Document
	index  map[string]int
	loaded bool
}

// New creates a corpus rooted at root. Nothing is read until the first
// access or an explicit Load.
func New(root string) *Corpus {
	return &Corpus{root: root}
}

// Root returns the corpus directory.
func (c *Corpus) Root() string {
	return c.root
}

// Load rereads every supported file below the root. Files that cannot be
// read are skipped with a warning; an unreadable root is an error.
func (c *Corpus) Load(ctx context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus root %s is not a directory", c.root)
	}

	var docs []domain.Document
	err = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("Skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != c.root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSupported(path) {
			return nil
		}

		doc, err := c.readDocument(path, d)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	index := make(map[string]int, len(docs))
	for i, d := range docs {
		index[d.ID] = i
	}

	c.mu.Lock()
	c.docs = docs
	c.index = index
	c.loaded = true
	c.mu.Unlock()

	logger.Debug("Loaded %d documents from %s", len(docs), c.root)
	return nil
}

func (c *Corpus) readDocument(path string, d fs.DirEntry) (domain.Document, error) {
	text, err := readText(path)
	if err != nil {
		return domain.Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, fmt.Errorf("no text")
	}
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return domain.Document{}, err
	}
	info, err := d.Info()
	if err != nil {
		return domain.Document{}, err
	}
	name := filepath.Base(path)
	return domain.Document{
		ID:        filepath.ToSlash(rel),
		Title:     strings.TrimSuffix(name, filepath.Ext(name)),
		Text:      text,
		CreatedAt: info.ModTime().UTC(),
	}, nil
}

func (c *Corpus) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// Documents returns the current snapshot in ID order.
func (c *Corpus) Documents(ctx context.Context) ([]domain.Document, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

// GetDocument retrieves a document by its relative path.
func (c *Corpus) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := c.docs[i]
	return &doc, nil
}

// CountDocuments returns the number of loaded documents.
func (c *Corpus) CountDocuments(ctx context.Context) (int, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs), nil
}

// SaveDocument always fails: the directory is the source of truth.
func (c *Corpus) SaveDocument(_ context.Context, _ *domain.Document) error {
	return domain.ErrReadOnly
}

// DeleteDocument always fails: the directory is the source of truth.
func (c *Corpus) DeleteDocument(_ context.Context, _ string) error {
	return domain.ErrReadOnly
}

// Watch reloads the corpus after changes below the root and sends the new
// document count on the returned channel. The channel is closed when ctx
// is done or the watcher fails.
func (c *Corpus) Watch(ctx context.Context) (<-chan int, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addWatches(watcher, c.root); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan int)
	go func() {
		defer close(out)
		defer watcher.Close()

		timer := time.NewTimer(reloadDelay)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if c.handleEvent(watcher, event) {
					timer.Reset(reloadDelay)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Corpus watcher: %v", err)

			case <-timer.C:
				if err := c.Load(ctx); err != nil {
					logger.Warn("Corpus reload failed: %v", err)
					continue
				}
				count, _ := c.CountDocuments(ctx)
				logger.Info("Corpus reloaded: %d documents", count)
				select {
				case out <- count:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// addWatches watches dir and every non-hidden directory below it.
func (c *Corpus) addWatches(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// handleEvent reports whether event should trigger a reload. New
// directories are added to the watcher.
func (c *Corpus) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if isHidden(event.Name) {
		return false
	}
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := c.addWatches(watcher, event.Name); err != nil {
				logger.Warn("Corpus watcher: %v", err)
			}
			return true
		}
		return IsSupported(event.Name)
	case event.Has(fsnotify.Write):
		return IsSupported(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The path is gone, so a directory cannot be told from a file.
		return IsSupported(event.Name) || filepath.Ext(event.Name) == ""
	default:
		return false
	}
}
