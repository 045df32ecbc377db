package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/juruen/inkpaper/hwr"
	"github.com/juruen/inkpaper/log"
	"github.com/juruen/inkpaper/paper"
	"github.com/juruen/inkpaper/render"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	appName        = "inkpaper"
	configFileName = "inkpaper.yaml"
	defaultConfig  = ".inkpaper.yaml"

	EnvConfig         = "INKPAPER_CONFIG"
	EnvApplicationKey = "INKPAPER_APPLICATIONKEY"
	EnvHmacKey        = "INKPAPER_HMAC"
	EnvHost           = "INKPAPER_HOST"
)

// Config is the yaml file of the command line tools. Pointers tell unset
// values apart from zero ones.
type Config struct {
	ApplicationKey string               `yaml:"applicationKey"`
	HmacKey        string               `yaml:"hmacKey,omitempty"`
	Host           string               `yaml:"host,omitempty"`
	SSL            *bool                `yaml:"ssl,omitempty"`
	Protocol       string               `yaml:"protocol,omitempty"`
	Type           string               `yaml:"type,omitempty"`
	Width          int                  `yaml:"width,omitempty"`
	Height         int                  `yaml:"height,omitempty"`
	Timeout        *int                 `yaml:"timeout,omitempty"`
	Typeset        bool                 `yaml:"typeset,omitempty"`
	Precision      *int                 `yaml:"precision,omitempty"`
	TextParameters hwr.TextParameter    `yaml:"textParameters"`
	Pen            render.PenParameters `yaml:"penParameters"`
	// Port of the http server
	Port int `yaml:"port,omitempty"`
}

// ConfigPath returns $INKPAPER_CONFIG or the file in the user config dir
func ConfigPath() (string, error) {
	if config, ok := os.LookupEnv(EnvConfig); ok {
		return config, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "no config dir")
		}
		return filepath.Join(home, defaultConfig), nil
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// Load reads the config at path. A missing file gives an empty config.
// Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	content, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Trace.Printf("no config at %s", path)
	case err != nil:
		return nil, errors.Wrapf(err, "can't read config %s", path)
	default:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrapf(err, "can't parse config %s", path)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvApplicationKey); v != "" {
		c.ApplicationKey = v
	}
	if v := os.Getenv(EnvHmacKey); v != "" {
		c.HmacKey = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
}

// Save writes the config, creating its directory
func Save(path string, cfg *Config) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "can't encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "can't create config dir")
	}
	return errors.Wrap(os.WriteFile(path, content, 0600), "can't write config")
}

// PaperOptions validates the config and fills the gaps with defaults
func (c *Config) PaperOptions() (paper.Options, error) {
	opts := paper.DefaultOptions()
	opts.ApplicationKey = c.ApplicationKey
	opts.HmacKey = c.HmacKey
	opts.Typeset = c.Typeset
	opts.TextParameters = c.TextParameters.Normalize()
	opts.Pen = c.Pen.Normalize()

	if c.Host != "" {
		opts.Host = c.Host
	}
	if c.SSL != nil {
		opts.SSL = *c.SSL
	}
	if c.Protocol != "" {
		p, err := paper.ParseProtocol(c.Protocol)
		if err != nil {
			return opts, err
		}
		opts.Protocol = p
	}
	if c.Type != "" {
		t, err := paper.ParseType(c.Type)
		if err != nil {
			return opts, err
		}
		opts.Type = t
	}
	if c.Width > 0 {
		opts.Width = c.Width
	}
	if c.Height > 0 {
		opts.Height = c.Height
	}
	if c.Timeout != nil {
		opts.Timeout = *c.Timeout
	}
	if c.Precision != nil {
		opts.Precision = *c.Precision
	}
	if opts.ApplicationKey == "" {
		log.Warning.Printf("no application key, set %s or applicationKey in the config", EnvApplicationKey)
	}
	return opts, nil
}

// Addr is the listen address of the http server, port overrides the config
func (c *Config) Addr(port int) string {
	if port == 0 {
		port = c.Port
	}
	if port == 0 {
		port = 8080
	}
	return ":" + strconv.Itoa(port)
}
