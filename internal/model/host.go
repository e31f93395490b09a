package model

import (
	"io/fs"

	"github.com/Bitlatte/doc-comments/internal/config"
)

// Host is the page-asset registry of a running build. Extensions receive it
// explicitly from the builder's lifecycle events.
type Host interface {
	// AddJSFile adds an external script reference to every page.
	AddJSFile(name, url string, attrs map[string]string)
	// AddInlineJS adds an inline script body to every page.
	AddInlineJS(name, body string, attrs map[string]string)
	// AddCSSFile adds an external stylesheet reference to every page.
	AddCSSFile(url, media string)
	// AddStaticFS appends root within fsys to the static asset search path.
	AddStaticFS(fsys fs.FS, root string)
}

// ExtensionMetadata is reported by an extension once it is set up.
type ExtensionMetadata struct {
	Version           string
	ParallelReadSafe  bool
	ParallelWriteSafe bool
}

// Extension hooks into a build. BuilderInited runs once the builder exists,
// ConfigInited once the configuration has been loaded.
type Extension interface {
	Name() string
	Metadata() ExtensionMetadata
	BuilderInited(h Host) error
	ConfigInited(h Host, cfg config.Config) error
}
