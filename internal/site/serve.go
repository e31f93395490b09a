package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const rebuildDebounce = 500 * time.Millisecond

// Serve builds the site, serves the output directory on addr and rebuilds on
// changes to content, layouts or static files until ctx is cancelled.
func (b *Builder) Serve(ctx context.Context, addr string) error {
	if err := b.Build(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range []string{b.cfg.ContentDir, b.cfg.LayoutsDir, b.cfg.StaticDir} {
		watchTree(watcher, root)
	}
	rb := newRebuilder(b.Build)
	go rb.run(ctx)
	go b.watch(ctx, watcher, rb)

	srv := &http.Server{Addr: addr, Handler: NoCacheHandler(b.cfg.OutputDir)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Serving site", "dir", b.cfg.OutputDir, "url", "http://localhost"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func watchTree(watcher *fsnotify.Watcher, root string) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Debug("Directory not found, not watching", "dir", root)
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("Error walking directory", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Warn("Failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("Error during directory walk", "dir", root, "error", err)
	}
}

// rebuilder runs requested rebuilds one at a time. Requests that arrive while
// a rebuild is running are coalesced into a single follow-up rebuild.
type rebuilder struct {
	build   func() error
	pending chan struct{}
}

func newRebuilder(build func() error) *rebuilder {
	return &rebuilder{build: build, pending: make(chan struct{}, 1)}
}

func (r *rebuilder) request() {
	select {
	case r.pending <- struct{}{}:
	default:
	}
}

func (r *rebuilder) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.pending:
			log.Info("Rebuilding site")
			if err := r.build(); err != nil {
				log.Error("Rebuild failed", "error", err)
			}
		}
	}
}

func (b *Builder) watch(ctx context.Context, watcher *fsnotify.Watcher, rb *rebuilder) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Warn("Failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, rb.request)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Watcher error", "error", err)
		}
	}
}

// NoCacheHandler serves dir without directory listings and with caching
// disabled.
func NoCacheHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
