package site

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

const (
	injectedMarker         = `<meta name="doc-comments" content="injected">` + "\n"
	injectedMarkerSelector = `meta[name="doc-comments"]`
)

// InjectDir adds the registered assets to the <head> of every HTML page below
// dir and copies the registered static sources into dir/_static. Pages that
// were already injected are left alone.
func InjectDir(dir string, assets *Assets) (int, error) {
	head, err := assets.HeadHTML()
	if err != nil {
		return 0, fmt.Errorf("failed to render page assets: %w", err)
	}

	pages := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == StaticOutputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		injected, err := injectFile(path, string(head))
		if err != nil {
			return err
		}
		if injected {
			pages++
		}
		return nil
	})
	if err != nil {
		return pages, fmt.Errorf("failed to inject assets into '%s': %w", dir, err)
	}

	if err := copyStaticSources(assets.Static(), dir); err != nil {
		return pages, err
	}
	log.Info("Injected comment assets", "dir", dir, "pages", pages)
	return pages, nil
}

func injectFile(path, head string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	doc, err := goquery.NewDocumentFromReader(f)
	f.Close()
	if err != nil {
		return false, fmt.Errorf("failed to parse '%s': %w", path, err)
	}

	if doc.Find(injectedMarkerSelector).Length() > 0 {
		log.Debug("Page already injected, skipping", "path", path)
		return false, nil
	}
	// the parser always synthesizes a head element
	doc.Find("head").First().AppendHtml(injectedMarker + head)

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return false, fmt.Errorf("failed to serialize '%s': %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write '%s': %w", path, err)
	}
	log.Debug("Injected page", "path", path)
	return true, nil
}
