package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from .sastctl.yaml. Command line flags and
// environment variables take precedence over every field here.
type Config struct {
	Org      string `json:"org,omitempty" jsonschema:"description=Default organization used when --org isn't passed"`
	Endpoint string `json:"endpoint,omitempty" jsonschema:"description=Base URL of the analysis service"`
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env" jsonschema:"description=Name of the environment variable holding the API token. Defaults to SASTCTL_TOKEN"`
}

func (c *Config) Init() error {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return fmt.Errorf("parse endpoint as a URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint scheme must be http or https: %s", c.Endpoint)
		}
	}
	return nil
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".sastctl.yaml", ".sastctl.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

// Find returns the configuration file path, preferring an explicit path and
// falling back to the well-known file names. An empty return means no
// configuration file exists, which is fine.
func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("initialize configuration: %w", err)
	}
	return nil
}
