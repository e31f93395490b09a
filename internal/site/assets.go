package site

import (
	"bytes"
	"html/template"
	"io/fs"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/Bitlatte/doc-comments/internal/model"
)

// StaticSource is one entry of the static asset search path.
type StaticSource struct {
	FS   fs.FS
	Root string
}

// Assets is the page-asset registry of a single build. It implements
// model.Host and is not safe for concurrent use.
type Assets struct {
	items  []model.Asset
	static []StaticSource
}

var _ model.Host = (*Assets)(nil)

func NewAssets() *Assets {
	return &Assets{}
}

func (a *Assets) AddJSFile(name, url string, attrs map[string]string) {
	a.items = append(a.items, model.Asset{Kind: model.AssetScript, Name: name, URL: url, Attributes: attrs})
}

func (a *Assets) AddInlineJS(name, body string, attrs map[string]string) {
	a.items = append(a.items, model.Asset{Kind: model.AssetScript, Name: name, Body: body, Attributes: attrs})
}

func (a *Assets) AddCSSFile(url, media string) {
	var attrs map[string]string
	if media != "" {
		attrs = map[string]string{"media": media}
	}
	a.items = append(a.items, model.Asset{Kind: model.AssetStylesheet, URL: url, Attributes: attrs})
}

func (a *Assets) AddStaticFS(fsys fs.FS, root string) {
	a.static = append(a.static, StaticSource{FS: fsys, Root: root})
}

// List returns the registered assets in insertion order.
func (a *Assets) List() []model.Asset {
	return append([]model.Asset(nil), a.items...)
}

// Static returns the registered static sources in insertion order.
func (a *Assets) Static() []StaticSource {
	return append([]StaticSource(nil), a.static...)
}

// attrNamePattern limits attribute names to plain lowercase HTML names.
var attrNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

type tag struct {
	Kind  model.AssetKind
	URL   string
	Body  template.JS
	Attrs []template.HTMLAttr
}

var headTemplate = template.Must(template.New("head").Parse(
	`{{range .}}{{if eq .Kind "stylesheet"}}<link rel="stylesheet" href="{{.URL}}"{{range .Attrs}} {{.}}{{end}}>
{{else}}<script{{if .URL}} src="{{.URL}}"{{end}}{{range .Attrs}} {{.}}{{end}}>{{.Body}}</script>
{{end}}{{end}}`))

// tagAttrs renders attributes in name order. Names that are not plain HTML
// attribute names are dropped; values are escaped.
func tagAttrs(attrs map[string]string) []template.HTMLAttr {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]template.HTMLAttr, 0, len(names))
	for _, k := range names {
		if !attrNamePattern.MatchString(k) {
			log.Warn("Dropping invalid asset attribute", "name", k)
			continue
		}
		out = append(out, template.HTMLAttr(k+`="`+template.HTMLEscapeString(attrs[k])+`"`))
	}
	return out
}

// HeadHTML renders every asset as a tag suitable for a page <head>.
func (a *Assets) HeadHTML() (template.HTML, error) {
	tags := make([]tag, 0, len(a.items))
	for _, it := range a.items {
		tags = append(tags, tag{
			Kind:  it.Kind,
			URL:   it.URL,
			Body:  template.JS(it.Body),
			Attrs: tagAttrs(it.Attributes),
		})
	}

	var buf bytes.Buffer
	if err := headTemplate.Execute(&buf, tags); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
