package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/doc-comments/internal/comments"
	"github.com/Bitlatte/doc-comments/internal/config"
)

func TestInjectDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<!DOCTYPE html><html><head><title>Home</title></head><body><div class=\"section\">Hi</div></body></html>")
	writeFile(t, filepath.Join(dir, "api", "module.html"), "<html><body><p>No head</p></body></html>")
	writeFile(t, filepath.Join(dir, "_static", "search.html"), "<html><head></head></html>")
	writeFile(t, filepath.Join(dir, "objects.inv"), "binary")

	assets, err := Init(config.Config{Comments: map[string]interface{}{"dokieli": true}}, comments.Extension{})
	require.NoError(t, err)

	n, err := InjectDir(dir, assets)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	home := loadPage(t, filepath.Join(dir, "index.html"))
	assert.Equal(t, "Home", home.Find("title").Text())
	assert.Equal(t, []string{
		"https://dokie.li/scripts/dokieli.js",
		"https://cdn.jsdelivr.net/npm/bootstrap@5.1.0/dist/js/bootstrap.bundle.min.js",
	}, scriptSources(home))
	assert.Equal(t, 1, home.Find(`head link[href="https://dokie.li/media/css/dokieli.css"]`).Length())
	assertScriptsAsync(t, home)

	module := loadPage(t, filepath.Join(dir, "api", "module.html"))
	assert.Len(t, scriptSources(module), 2)
	assert.Equal(t, "No head", module.Find("body p").Text())
	assertScriptsAsync(t, module)

	untouched, err := os.ReadFile(filepath.Join(dir, "_static", "search.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html><head></head></html>", string(untouched))
	assert.FileExists(t, filepath.Join(dir, "_static", "comments.css"))

	n, err = InjectDir(dir, assets)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, scriptSources(loadPage(t, filepath.Join(dir, "index.html"))), 2)
}
