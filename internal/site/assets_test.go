package site

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/doc-comments/internal/model"
)

func parseHead(t *testing.T, head string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><head>" + head + "</head><body></body></html>"))
	require.NoError(t, err)
	return doc
}

func TestAssetsRegistry(t *testing.T) {
	a := NewAssets()
	a.AddJSFile("hypothesis", "https://hypothes.is/embed.js", map[string]string{"async": "async"})
	a.AddCSSFile("https://dokie.li/media/css/dokieli.css", "all")
	a.AddInlineJS("inline", "var x = 1;", nil)
	a.AddStaticFS(fstest.MapFS{}, "_static")

	list := a.List()
	require.Len(t, list, 3)
	assert.Equal(t, model.AssetScript, list[0].Kind)
	assert.Equal(t, model.AssetStylesheet, list[1].Kind)
	assert.Equal(t, map[string]string{"media": "all"}, list[1].Attributes)
	assert.True(t, list[2].Inline())
	require.Len(t, a.Static(), 1)
	assert.Equal(t, "_static", a.Static()[0].Root)

	list[0].URL = "changed"
	assert.Equal(t, "https://hypothes.is/embed.js", a.List()[0].URL)
}

func TestHeadHTML(t *testing.T) {
	a := NewAssets()
	a.AddJSFile("hypothesis", "https://hypothes.is/embed.js", map[string]string{"async": "async"})
	a.AddCSSFile("https://dokie.li/media/css/dokieli.css", "all")
	a.AddInlineJS("utterances", `var s = "a" < "b";`, map[string]string{"async": "async"})

	head, err := a.HeadHTML()
	require.NoError(t, err)
	doc := parseHead(t, string(head))

	scripts := doc.Find("head script")
	require.Equal(t, 2, scripts.Length())

	src, ok := scripts.Eq(0).Attr("src")
	require.True(t, ok)
	assert.Equal(t, "https://hypothes.is/embed.js", src)
	async, _ := scripts.Eq(0).Attr("async")
	assert.Equal(t, "async", async)

	async, _ = scripts.Eq(1).Attr("async")
	assert.Equal(t, "async", async)
	assert.NotContains(t, string(head), "ZgotmplZ")

	_, hasSrc := scripts.Eq(1).Attr("src")
	assert.False(t, hasSrc)
	assert.Equal(t, `var s = "a" < "b";`, scripts.Eq(1).Text())

	link := doc.Find(`head link[rel="stylesheet"]`)
	require.Equal(t, 1, link.Length())
	href, _ := link.Attr("href")
	assert.Equal(t, "https://dokie.li/media/css/dokieli.css", href)
	media, _ := link.Attr("media")
	assert.Equal(t, "all", media)
}

func TestHeadHTMLEscapesAttributeValues(t *testing.T) {
	a := NewAssets()
	a.AddJSFile("x", "https://example.com/a.js", map[string]string{"data-x": `"><script>alert(1)</script>`})

	head, err := a.HeadHTML()
	require.NoError(t, err)
	assert.NotContains(t, string(head), "<script>alert(1)")

	doc := parseHead(t, string(head))
	assert.Equal(t, 1, doc.Find("script").Length())
	v, _ := doc.Find("script").Attr("data-x")
	assert.Equal(t, `"><script>alert(1)</script>`, v)
}

func TestHeadHTMLDropsInvalidAttributeNames(t *testing.T) {
	a := NewAssets()
	a.AddJSFile("x", "https://example.com/a.js", map[string]string{
		"async":          "async",
		"data-kind":      "x",
		`x" onload="bad`: "1",
		"Upper":          "1",
	})

	head, err := a.HeadHTML()
	require.NoError(t, err)
	assert.Equal(t, `<script src="https://example.com/a.js" async="async" data-kind="x"></script>`+"\n", string(head))
}

func TestHeadHTMLEmpty(t *testing.T) {
	head, err := NewAssets().HeadHTML()
	require.NoError(t, err)
	assert.Empty(t, string(head))
}
