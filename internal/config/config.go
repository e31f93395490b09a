package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. DOCCOMMENTS_OUTPUTDIR.
const EnvPrefix = "DOCCOMMENTS"

type Config struct {
	SiteTitle  string `mapstructure:"siteTitle"`
	OutputDir  string `mapstructure:"outputDir"`
	BaseURL    string `mapstructure:"baseURL"`
	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	StaticDir  string `mapstructure:"staticDir"`

	// Comments is the raw comments_config value. It is validated by the
	// comments extension, so it is kept untyped here.
	Comments interface{} `mapstructure:"comments_config"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("siteTitle", "Documentation")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
}

// Load reads the configuration from cfgFile, or from ./config.yaml when
// cfgFile is empty. A missing default config file is not an error.
func Load(cfgFile string) (Config, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return cfg, fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
		log.Info("No config file found, using defaults and environment")
	} else {
		log.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	// Unmarshal flattens keys and drops empty mappings such as
	// "hypothesis: {}", which still enable a provider.
	cfg.Comments = v.Get("comments_config")
	return cfg, nil
}
