// Package config loads and validates mentionbench configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Config represents the application configuration. Zero values are filled
// with defaults during Validate, so a missing config file is equivalent to
// an empty one.
type Config struct {
	FuzzyThreshold      float64  `yaml:"fuzzy_threshold"`
	Similarity          string   `yaml:"similarity"`
	TrustedHosts        []string `yaml:"trusted_hosts"`
	CheckURLs           bool     `yaml:"check_urls"`
	CheckTimeoutSeconds int      `yaml:"check_timeout_seconds"`
	Workers             int      `yaml:"workers"`
	OutputDir           string   `yaml:"output_dir"`
	NameColumns         []string `yaml:"name_columns"`
	CitingColumns       []string `yaml:"citing_columns"`
	CitedColumns        []string `yaml:"cited_columns"`
	URLColumn           string   `yaml:"url_column"`
	GoldFile            string   `yaml:"gold_file"`
	GoldColumn          string   `yaml:"gold_column"`
	Baseline            []string `yaml:"baseline"`
}

// DefaultTrustedHosts are the repositories and registries whose hostnames
// count as trusted provenance out of the box. Extensible via trusted_hosts.
func DefaultTrustedHosts() (hosts []string) {
	hosts = []string{
		"doi.org", "dx.doi.org", "handle.net", "hdl.handle.net",
		"pubmed.ncbi.nlm.nih.gov", "ncbi.nlm.nih.gov", "ebi.ac.uk",
		"zenodo.org", "figshare.com", "dataverse.org", "datadryad.org",
		"data.gov", "kaggle.com", "osf.io", "openalex.org", "openaire.eu",
		"github.com", "gitlab.com", "huggingface.co", "opendatalab.com",
		"scidb.cn", "ieee-dataport.org",
	}
	return hosts
}

// DefaultNameColumns are the candidate headers checked, in order, for the
// dataset-name column.
func DefaultNameColumns() (cols []string) {
	cols = []string{"Name", "Name (extracted)", "Dataset", "Dataset Name"}
	return cols
}

// DefaultCitingColumns are the candidate headers for citing/source links.
func DefaultCitingColumns() (cols []string) {
	cols = []string{"Citing Article", "Citing_URL", "Citing", "Used in Which Papers"}
	return cols
}

// DefaultCitedColumns are the candidate headers for cited links.
func DefaultCitedColumns() (cols []string) {
	cols = []string{"Cited Article", "Citied Article", "Cited_URL", "Cited", "Introduced by Which Papers"}
	return cols
}

// Load reads configuration from file. An empty path falls back to
// $HOME/.mentionbench/config.yaml; if that default file does not exist the
// built-in defaults are returned. An explicitly named file must exist.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	defaulted := false
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return cfg, err
		}
		path = filepath.Join(homeDir, ".mentionbench", "config.yaml")
		defaulted = true
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && defaulted {
			// No config file is fine: run on defaults.
			err = cfg.Validate()
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrapf(err, "config validation failed: %s", path)
		return cfg, err
	}

	return cfg, err
}

// Validate fills defaults and rejects invalid settings. Validation failures
// are fatal at startup: no workbook is processed under a bad config.
func (c *Config) Validate() (err error) {
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = 0.9
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		err = errors.Errorf("fuzzy_threshold must be in (0,1], got %v", c.FuzzyThreshold)
		return err
	}

	if c.Similarity == "" {
		c.Similarity = "ratio"
	}

	if len(c.TrustedHosts) == 0 {
		c.TrustedHosts = DefaultTrustedHosts()
	}
	for _, h := range c.TrustedHosts {
		h = strings.TrimSpace(h)
		if h == "" || strings.ContainsAny(h, "/ \t") || strings.Contains(h, "://") {
			err = errors.Errorf("malformed trusted host entry: %q (want a bare hostname)", h)
			return err
		}
	}

	if c.CheckTimeoutSeconds <= 0 {
		c.CheckTimeoutSeconds = 6
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "./evaluation"
	}
	if len(c.NameColumns) == 0 {
		c.NameColumns = DefaultNameColumns()
	}
	if len(c.CitingColumns) == 0 {
		c.CitingColumns = DefaultCitingColumns()
	}
	if len(c.CitedColumns) == 0 {
		c.CitedColumns = DefaultCitedColumns()
	}
	if c.URLColumn == "" {
		c.URLColumn = "Dataset URL"
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		path = filepath.Join(homeDir, ".mentionbench", "config.yaml")
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{}
	err = defaultConfig.Validate()
	if err != nil {
		err = errors.Wrap(err, "failed to build default config")
		return err
	}

	var data []byte
	data, err = yaml.Marshal(defaultConfig)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
