// Package comments injects third-party commenting widgets (hypothes.is,
// dokieli, utterances and giscus) into every page of a documentation build.
package comments

import (
	"embed"

	"github.com/charmbracelet/log"

	"github.com/Bitlatte/doc-comments/internal/config"
	"github.com/Bitlatte/doc-comments/internal/model"
)

// Version of the comments extension.
const Version = "0.0.3"

const (
	hypothesisScript = "https://hypothes.is/embed.js"
	dokieliScript    = "https://dokie.li/scripts/dokieli.js"
	dokieliStyle     = "https://dokie.li/media/css/dokieli.css"
	bootstrapScript  = "https://cdn.jsdelivr.net/npm/bootstrap@5.1.0/dist/js/bootstrap.bundle.min.js"
)

// BootstrapName names the bootstrap bundle added to every page.
const BootstrapName = "bootstrap"

// StaticRoot is the directory of bundled assets inside the embedded FS.
const StaticRoot = "_static"

//go:embed _static
var staticFS embed.FS

// RegisterStaticAssets appends the bundled static directory to the host's
// static asset search path.
func RegisterStaticAssets(h model.Host) {
	h.AddStaticFS(staticFS, StaticRoot)
}

// Activate validates raw as a comments_config value and adds the assets of
// every configured provider to h. The bootstrap bundle is always added.
func Activate(h model.Host, raw interface{}) error {
	cfg, err := Parse(raw)
	if err != nil {
		return err
	}
	return Emit(h, cfg)
}

// Emit adds the assets for an already validated configuration.
func Emit(h model.Host, cfg Config) error {
	if cfg.Hypothesis {
		h.AddJSFile(ProviderHypothesis, hypothesisScript, asyncAttrs())
	}

	if cfg.Dokieli {
		h.AddJSFile(ProviderDokieli, dokieliScript, asyncAttrs())
		h.AddCSSFile(dokieliStyle, "all")
	}

	if cfg.Utterances != nil {
		js, err := UtterancesScript(*cfg.Utterances)
		if err != nil {
			return err
		}
		h.AddInlineJS(ProviderUtterances, js, asyncAttrs())
	}

	h.AddJSFile(BootstrapName, bootstrapScript, asyncAttrs())

	if cfg.Giscus != nil {
		js, err := GiscusScript(*cfg.Giscus)
		if err != nil {
			return err
		}
		h.AddInlineJS(ProviderGiscus, js, asyncAttrs())
	}
	return nil
}

// a fresh map per asset, registries may hold on to it
func asyncAttrs() map[string]string {
	return map[string]string{"async": "async"}
}

// Extension wires the configurator into a build's lifecycle events.
type Extension struct{}

func (Extension) Name() string { return "comments" }

func (Extension) Metadata() model.ExtensionMetadata {
	return model.ExtensionMetadata{
		Version:           Version,
		ParallelReadSafe:  true,
		ParallelWriteSafe: true,
	}
}

func (Extension) BuilderInited(h model.Host) error {
	RegisterStaticAssets(h)
	return nil
}

func (Extension) ConfigInited(h model.Host, cfg config.Config) error {
	log.Debug("Activating comments", "config", cfg.Comments)
	return Activate(h, cfg.Comments)
}
