package model

// AssetKind distinguishes scripts from stylesheets.
type AssetKind string

const (
	AssetScript     AssetKind = "script"
	AssetStylesheet AssetKind = "stylesheet"
)

// Asset is a single script or stylesheet to be added to every output page.
// Exactly one of URL or Body is set. Assets are never mutated once added to a
// registry.
type Asset struct {
	Kind       AssetKind         `yaml:"kind"`
	Name       string            `yaml:"name,omitempty"`
	URL        string            `yaml:"url,omitempty"`
	Body       string            `yaml:"body,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Inline reports whether the asset carries its content directly.
func (a Asset) Inline() bool {
	return a.URL == "" && a.Body != ""
}
