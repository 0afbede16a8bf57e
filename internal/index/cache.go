package index

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

// Cache wraps a Scanner with a short-TTL shortcut cache. The cache is
// explicitly invalidated when fsnotify reports a change under any scanned
// root, so it never serves silently stale state beyond the TTL.
//
// The plain Scanner (rebuild per call) remains the default; Cache exists
// for the interactive loop where SEARCH_APPS / LIST_SHORTCUTS / OPEN_APP
// may hit the same index several times per reply.
type Cache struct {
	scanner *Scanner
	ttl     time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	entries []match.Candidate
	builtAt time.Time
	dirty   bool

	group   singleflight.Group
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCache builds a cache over the scanner's roots. Roots that cannot be
// watched are simply not watched; the TTL still bounds staleness.
func NewCache(scanner *Scanner, ttl time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	c := &Cache{
		scanner: scanner,
		ttl:     ttl,
		log:     log,
		dirty:   true,
		done:    make(chan struct{}),
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("index cache: watcher unavailable, TTL only", zap.Error(err))
		return c
	}
	c.watcher = w
	for _, root := range append(append([]string{}, scanner.DesktopRoots...), scanner.MenuRoots...) {
		if err := w.Add(root); err != nil {
			log.Debug("index cache: not watching root", zap.String("root", root), zap.Error(err))
		}
	}
	go c.watch()
	return c
}

// Shortcuts returns the cached candidate set, rebuilding when the TTL
// expired or a watched root changed. Concurrent rebuild requests are
// collapsed into one scan.
func (c *Cache) Shortcuts() []match.Candidate {
	c.mu.Lock()
	fresh := !c.dirty && time.Since(c.builtAt) < c.ttl
	entries := c.entries
	c.mu.Unlock()
	if fresh {
		return entries
	}

	v, _, _ := c.group.Do("shortcuts", func() (interface{}, error) {
		scanned := c.scanner.Shortcuts()
		c.mu.Lock()
		c.entries = scanned
		c.builtAt = time.Now()
		c.dirty = false
		c.mu.Unlock()
		return scanned, nil
	})
	return v.([]match.Candidate)
}

// Invalidate forces the next Shortcuts call to rescan.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// Close stops the watcher goroutine.
func (c *Cache) Close() error {
	close(c.done)
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

func (c *Cache) watch() {
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.log.Debug("index cache: invalidated", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			c.Invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.Debug("index cache: watch error", zap.Error(err))
		}
	}
}
