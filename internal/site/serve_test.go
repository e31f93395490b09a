package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoCacheHandler(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "home")
	writeFile(t, filepath.Join(dir, "guide", "index.html"), "guide")
	writeFile(t, filepath.Join(dir, "empty", "file.txt"), "x")

	h := NoCacheHandler(dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guide/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guide", rec.Body.String())
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/empty/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRebuilderRunsOneBuildAtATime(t *testing.T) {
	var running, maxRunning, builds atomic.Int32
	started := make(chan struct{}, 10)
	release := make(chan struct{})

	rb := newRebuilder(func() error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		builds.Add(1)
		started <- struct{}{}
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rb.run(ctx)

	rb.request()
	<-started

	// edits while the first build is still running
	rb.request()
	rb.request()
	rb.request()

	close(release)
	<-started

	require.Eventually(t, func() bool { return running.Load() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Equal(t, int32(2), builds.Load())
}
