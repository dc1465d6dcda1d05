package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"figBrowser/figure"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const DefaultDebounce = 250 * time.Millisecond

// DirSource emits the image files written into a directory as figures.
// Handlers run on the watcher goroutine, one figure at a time, in the order
// the files settled.
type DirSource struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      logrus.FieldLogger
	handlers []figure.Handler

	pending map[string]time.Time
	order   []string

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	stats Stats
}

// Stats counts what the source has seen since it was created.
type Stats struct {
	Events    int
	Delivered int
	Skipped   int
	Errors    int
	LastPath  string
}

func NewDirSource(dir string, debounce time.Duration, log logrus.FieldLogger) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &DirSource{
		watcher:  watcher,
		dir:      dir,
		debounce: debounce,
		log:      log.WithField("dir", dir),
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (s *DirSource) OnFigure(h figure.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start begins watching. It returns immediately; the source runs until ctx
// is done or Stop is called.
func (s *DirSource) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if err := s.watcher.Add(s.dir); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	s.running = true
	s.mu.Unlock()

	s.log.Info("Watching for figures")
	go s.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit. The source cannot be
// restarted.
func (s *DirSource) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.watcher.Close()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
}

// Scan emits the supported image files already in the directory, oldest
// first. Files with the same modification time are ordered by name. Call it
// before Start.
func (s *DirSource) Scan() (int, error) {
	files, err := figure.FindFigures(s.dir, "*", false)
	if err != nil {
		return 0, err
	}

	type entry struct {
		path string
		mod  time.Time
	}
	var entries []entry
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: f, mod: info.ModTime()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].mod.Equal(entries[j].mod) {
			return entries[i].mod.Before(entries[j].mod)
		}
		return entries[i].path < entries[j].path
	})

	delivered := 0
	for _, e := range entries {
		if s.deliver(e.path) {
			delivered++
		}
	}
	return delivered, nil
}

func (s *DirSource) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *DirSource) run(ctx context.Context) {
	defer close(s.doneCh)
	defer s.watcher.Close()

	ticker := time.NewTicker(s.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.flush(time.Time{})
			return
		case <-s.stopCh:
			s.flush(time.Time{})
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.mu.Lock()
			s.stats.Errors++
			s.mu.Unlock()
			s.log.Warnf("Watcher error: %v", err)
		case now := <-ticker.C:
			s.flush(now)
		}
	}
}

func (s *DirSource) handleEvent(event fsnotify.Event) {
	s.mu.Lock()
	s.stats.Events++
	s.mu.Unlock()

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !figure.IsFigureFile(event.Name) {
		return
	}

	if _, seen := s.pending[event.Name]; !seen {
		s.order = append(s.order, event.Name)
	}
	s.pending[event.Name] = time.Now()
}

// flush delivers the pending files that have been quiet for the debounce
// period. A zero now delivers everything.
func (s *DirSource) flush(now time.Time) {
	remaining := s.order[:0]
	for _, path := range s.order {
		last := s.pending[path]
		if !now.IsZero() && now.Sub(last) < s.debounce {
			remaining = append(remaining, path)
			continue
		}
		delete(s.pending, path)
		s.deliver(path)
	}
	s.order = remaining
}


func (s *DirSource) deliver(path string) bool {
	data, mt, err := figure.LoadFile(path)
	if err != nil {
		s.mu.Lock()
		s.stats.Skipped++
		s.mu.Unlock()
		s.log.WithField("file", filepath.Base(path)).Debugf("Skipping file: %v", err)
		return false
	}

	s.mu.Lock()
	s.stats.Delivered++
	s.stats.LastPath = path
	handlers := make([]figure.Handler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"file":      filepath.Base(path),
		"mime_type": mt,
	}).Debug("Figure file ready")
	for _, h := range handlers {
		h(data, string(mt))
	}
	return true
}
