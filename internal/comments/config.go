package comments

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/go-viper/mapstructure/v2"
)

// Provider names as they appear in comments_config.
const (
	ProviderHypothesis = "hypothesis"
	ProviderDokieli    = "dokieli"
	ProviderUtterances = "utterances"
	ProviderGiscus     = "giscus"
)

// Utterances holds the options of the utterances widget.
type Utterances struct {
	Repo        string `mapstructure:"repo"`
	IssueTerm   string `mapstructure:"issue-term"`
	Theme       string `mapstructure:"theme"`
	Label       string `mapstructure:"label"`
	CrossOrigin string `mapstructure:"crossorigin"`
	// Selector picks the element the widget is appended to. The last match wins.
	Selector string `mapstructure:"selector"`
}

func defaultUtterances() Utterances {
	return Utterances{
		IssueTerm:   "pathname",
		Theme:       "github-light",
		Label:       "💬 comment",
		CrossOrigin: "anonymous",
		Selector:    "div.section",
	}
}

// Giscus holds the options of the giscus widget.
type Giscus struct {
	Repo             string `mapstructure:"repo"`
	RepoID           string `mapstructure:"repo-id"`
	Category         string `mapstructure:"category"`
	CategoryID       string `mapstructure:"category-id"`
	IssueTerm        string `mapstructure:"issue-term"`
	Theme            string `mapstructure:"theme"`
	CrossOrigin      string `mapstructure:"crossorigin"`
	ReactionsEnabled string `mapstructure:"reactions-enabled"`
	// Selector picks the element whose parent receives the widget.
	Selector string `mapstructure:"selector"`
}

func defaultGiscus() Giscus {
	return Giscus{
		IssueTerm:        "pathname",
		Theme:            "light",
		CrossOrigin:      "anonymous",
		ReactionsEnabled: "1",
		Selector:         "div.prev-next-bottom",
	}
}

// Config is the validated form of comments_config. A nil provider pointer
// means the provider is not configured.
type Config struct {
	Hypothesis bool
	Dokieli    bool
	Utterances *Utterances
	Giscus     *Giscus
}

// Parse validates a raw comments_config value. nil is treated as an empty
// mapping; any other non-mapping value is a configuration error.
func Parse(raw interface{}) (Config, error) {
	var cfg Config
	m, ok := toStringMap(raw)
	if !ok {
		return cfg, configError("comments_config must be a mapping of provider name to options",
			"comments configuration must be a dictionary, got %T", raw)
	}

	for _, key := range sortedKeys(m) {
		switch key {
		case ProviderHypothesis, ProviderDokieli, ProviderUtterances, ProviderGiscus:
		default:
			log.Warn("Ignoring unknown comments provider", "provider", key)
		}
	}

	var err error
	if cfg.Hypothesis, _, err = providerOptions(m, ProviderHypothesis); err != nil {
		return cfg, err
	}
	if cfg.Dokieli, _, err = providerOptions(m, ProviderDokieli); err != nil {
		return cfg, err
	}

	enabled, opts, err := providerOptions(m, ProviderUtterances)
	if err != nil {
		return cfg, err
	}
	if enabled {
		ut := defaultUtterances()
		if err := decodeOptions(ProviderUtterances, opts, &ut); err != nil {
			return cfg, err
		}
		if ut.Repo == "" {
			return cfg, configError("set comments_config.utterances.repo to \"owner/name\"",
				"to use utterances, you must provide a repository")
		}
		cfg.Utterances = &ut
	}

	enabled, opts, err = providerOptions(m, ProviderGiscus)
	if err != nil {
		return cfg, err
	}
	if enabled {
		gi := defaultGiscus()
		if err := decodeOptions(ProviderGiscus, opts, &gi); err != nil {
			return cfg, err
		}
		if gi.Repo == "" {
			return cfg, configError("set comments_config.giscus.repo to \"owner/name\"",
				"to use giscus, you must provide a repository")
		}
		required := []struct{ key, value string }{
			{"repo-id", gi.RepoID},
			{"category", gi.Category},
			{"category-id", gi.CategoryID},
		}
		for _, r := range required {
			if r.value == "" {
				return cfg, configError("copy the values generated on https://giscus.app into comments_config.giscus",
					"to use giscus, you must provide %q", r.key)
			}
		}
		cfg.Giscus = &gi
	}

	return cfg, nil
}

// providerOptions reports whether the provider is enabled and returns its
// option mapping. A present key enables the provider unless its value is false.
func providerOptions(m map[string]interface{}, provider string) (bool, map[string]interface{}, error) {
	v, present := m[provider]
	if !present {
		return false, nil, nil
	}
	switch t := v.(type) {
	case nil:
		return true, nil, nil
	case bool:
		return t, nil, nil
	}
	opts, ok := toStringMap(v)
	if !ok {
		return false, nil, configError("use a mapping of options, true or false",
			"options for %s must be a dictionary, got %T", provider, v)
	}
	return true, opts, nil
}

func decodeOptions(provider string, opts map[string]interface{}, out interface{}) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(opts); err != nil {
		return configError("", "invalid %s options: %v", provider, err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		log.Warn("Ignoring unknown comments options", "provider", provider, "keys", md.Unused)
	}
	return nil
}

// toStringMap accepts the mapping shapes produced by the YAML and JSON
// decoders in use. nil yields an empty mapping.
func toStringMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return map[string]interface{}{}, true
	case map[string]interface{}:
		return t, true
	case map[string]string:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = val
		}
		return m, true
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return m, true
	}
	return nil, false
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
