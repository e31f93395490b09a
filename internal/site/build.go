// Package site is the documentation builder that hosts extensions. It turns
// markdown content and HTML layouts into a static site, and exposes the
// page-asset registry extensions write into.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/doc-comments/internal/config"
	"github.com/Bitlatte/doc-comments/internal/model"
)

const (
	baseLayout   = "base.html"
	singleLayout = "single.html"
	homeLayout   = "home.html"
	partialsDir  = "partials"
)

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// PageData is the value layouts are executed with.
type PageData struct {
	Site *model.SiteData
	Item *model.ContentItem
	// Assets holds the rendered head tags registered by extensions.
	Assets template.HTML
}

// Builder builds one site. A Builder may run Build repeatedly; each run
// starts from a fresh asset registry.
type Builder struct {
	cfg        config.Config
	extensions []model.Extension
	md         goldmark.Markdown
}

func NewBuilder(cfg config.Config, extensions ...model.Extension) *Builder {
	return &Builder{
		cfg:        cfg,
		extensions: extensions,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
	}
}

// Init fires the builder-inited and config-inited events on every extension
// and returns the populated registry. Errors from extensions abort the build.
func Init(cfg config.Config, extensions ...model.Extension) (*Assets, error) {
	assets := NewAssets()
	for _, ext := range extensions {
		meta := ext.Metadata()
		log.Debug("Loaded extension", "name", ext.Name(), "version", meta.Version,
			"parallel_read_safe", meta.ParallelReadSafe, "parallel_write_safe", meta.ParallelWriteSafe)
		if err := ext.BuilderInited(assets); err != nil {
			return nil, fmt.Errorf("extension %s: %w", ext.Name(), err)
		}
	}
	for _, ext := range extensions {
		if err := ext.ConfigInited(assets, cfg); err != nil {
			return nil, fmt.Errorf("extension %s: %w", ext.Name(), err)
		}
	}
	return assets, nil
}

// Build runs the full pipeline and writes the site to the output directory.
func (b *Builder) Build() error {
	cfg := b.cfg
	log.Info("Starting build", "output", cfg.OutputDir, "baseURL", cfg.BaseURL, "title", cfg.SiteTitle)

	assets, err := Init(cfg, b.extensions...)
	if err != nil {
		return err
	}
	head, err := assets.HeadHTML()
	if err != nil {
		return fmt.Errorf("failed to render page assets: %w", err)
	}

	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		return fmt.Errorf("content directory '%s' not found", cfg.ContentDir)
	}
	if _, err := os.Stat(cfg.LayoutsDir); os.IsNotExist(err) {
		return fmt.Errorf("layouts directory '%s' not found", cfg.LayoutsDir)
	}

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", cfg.OutputDir, err)
	}

	if err := copyProjectStatic(cfg.StaticDir, cfg.OutputDir); err != nil {
		return err
	}
	if err := copyStaticSources(assets.Static(), cfg.OutputDir); err != nil {
		return err
	}

	templates, err := b.parseLayouts()
	if err != nil {
		return err
	}

	site := &model.SiteData{
		Title:         cfg.SiteTitle,
		BaseURL:       cfg.BaseURL,
		ContentByType: make(map[string][]*model.ContentItem),
	}
	if site.ContentItems, err = b.collectContent(); err != nil {
		return err
	}
	for _, item := range site.ContentItems {
		site.ContentByType[item.Type] = append(site.ContentByType[item.Type], item)
	}
	log.Info("Collected content", "items", len(site.ContentItems), "types", len(site.ContentByType))

	for _, item := range site.ContentItems {
		layout := b.layoutFor(templates, item)
		out := filepath.Join(cfg.OutputDir, filepath.FromSlash(item.Permalink), "index.html")
		if err := render(templates, layout, out, PageData{Site: site, Item: item, Assets: head}); err != nil {
			return fmt.Errorf("item '%s': %w", item.Title, err)
		}
		log.Debug("Generated page", "path", out, "layout", layout)
	}

	if templates.Lookup(homeLayout) == nil {
		log.Warn("Homepage layout not found, skipping", "layout", homeLayout)
	} else {
		out := filepath.Join(cfg.OutputDir, "index.html")
		if err := render(templates, homeLayout, out, PageData{Site: site, Assets: head}); err != nil {
			return fmt.Errorf("homepage: %w", err)
		}
	}

	log.Info("Build completed", "pages", len(site.ContentItems))
	return nil
}

// parseLayouts parses base.html first, then partials, then every other layout
// so page layouts can override blocks declared by the base.
func (b *Builder) parseLayouts() (*template.Template, error) {
	layoutsDir := b.cfg.LayoutsDir
	var basePath string
	var partials, others []string

	err := filepath.WalkDir(layoutsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case filepath.Dir(path) == filepath.Clean(layoutsDir) && d.Name() == baseLayout:
			basePath = path
		case strings.HasPrefix(filepath.Dir(path), filepath.Join(layoutsDir, partialsDir)):
			partials = append(partials, path)
		default:
			others = append(others, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", layoutsDir, err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found directly in layouts directory '%s'", baseLayout, layoutsDir)
	}

	templates, err := template.ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s and partials: %w", baseLayout, err)
	}
	if len(others) > 0 {
		if templates, err = templates.ParseFiles(others...); err != nil {
			return nil, fmt.Errorf("failed to parse page layouts: %w", err)
		}
	}
	log.Debug("Parsed layouts", "count", 1+len(partials)+len(others))
	return templates, nil
}

func (b *Builder) collectContent() ([]*model.ContentItem, error) {
	sourceDir := b.cfg.ContentDir
	titleCaser := cases.Title(language.English)
	var items []*model.ContentItem

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s': %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}

		fm := make(map[string]interface{})
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			log.Warn("Could not parse frontmatter, treating as plain markdown", "path", path, "error", err)
			body = raw
			fm = make(map[string]interface{})
		}

		var html bytes.Buffer
		if err := b.md.Convert(body, &html); err != nil {
			return fmt.Errorf("failed to convert markdown for '%s': %w", path, err)
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		item := &model.ContentItem{
			SourcePath:  path,
			Permalink:   permalink(relPath),
			ContentHTML: template.HTML(html.String()),
			Frontmatter: fm,
			Type:        "page",
		}

		if title, ok := fm["title"].(string); ok && title != "" {
			item.Title = title
		} else {
			base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			item.Title = titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
		}

		if dir := strings.Split(relPath, "/"); len(dir) > 1 {
			item.Type = dir[0]
		}
		if t, ok := fm["type"].(string); ok && t != "" {
			item.Type = t
		}

		item.Date = frontmatterDate(fm["date"])
		if s, ok := fm["summary"].(string); ok {
			item.Summary = s
		}
		if l, ok := fm["layout"].(string); ok {
			item.Layout = l
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content collection: %w", err)
	}

	// newest first, undated last
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.IsZero() {
			return false
		}
		if items[j].Date.IsZero() {
			return true
		}
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func frontmatterDate(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, format := range dateFormats {
			if parsed, err := time.Parse(format, t); err == nil {
				return parsed
			}
		}
		log.Warn("Could not parse date, use YYYY-MM-DD or RFC3339", "date", t)
	}
	return time.Time{}
}

// permalink maps a content path such as "guide/intro.md" to "/guide/intro/".
func permalink(relPath string) string {
	p := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	if p == "index" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/index")
	return "/" + strings.Trim(p, "/") + "/"
}

func (b *Builder) layoutFor(templates *template.Template, item *model.ContentItem) string {
	if item.Layout != "" {
		if templates.Lookup(item.Layout) != nil {
			return item.Layout
		}
		log.Warn("Frontmatter layout not found", "layout", item.Layout, "item", item.Title)
	}
	if templates.Lookup(singleLayout) != nil {
		return singleLayout
	}
	return baseLayout
}

func render(templates *template.Template, layout, outputPath string, data PageData) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", outputPath, err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", outputPath, err)
	}
	defer f.Close()

	if err := templates.ExecuteTemplate(f, layout, data); err != nil {
		return fmt.Errorf("failed to execute template '%s' for '%s': %w", layout, outputPath, err)
	}
	return nil
}
