// Package appconf holds application-level configuration: the environment the
// server runs in, HTTP settings, API keys, and pointers to external content.
package appconf

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env command line flag to an Environment.
func EnvFlagToEnvironment(env string) Environment {
	switch env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config holds the runtime configuration for the API server.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	Verbose   bool
	RateLimit int

	// Content endpoints refreshed on a timer, not per-request.
	AdvertsURL     string
	FaresURL       string
	ContentTimeout int // minutes
}

// FileConfig is the YAML shape of the optional config file. Flags and
// environment variables win over file values; the file exists so deployments
// can keep content URLs and rate limits out of the unit file.
type FileConfig struct {
	Port           int      `yaml:"port" validate:"omitempty,gt=0"`
	Env            string   `yaml:"env" validate:"omitempty,oneof=development test production"`
	ApiKeys        []string `yaml:"apiKeys"`
	RateLimit      int      `yaml:"rateLimit" validate:"gte=0"`
	AdvertsURL     string   `yaml:"advertsURL" validate:"omitempty,url"`
	FaresURL       string   `yaml:"faresURL" validate:"omitempty,url"`
	ContentTimeout int      `yaml:"contentTimeoutMins" validate:"gte=0"`
}

// LoadFile reads and validates a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(fc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &fc, nil
}

// Merge applies non-zero file values onto a Config built from flags.
func (c *Config) Merge(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.Env != "" {
		c.Env = EnvFlagToEnvironment(fc.Env)
	}
	if len(fc.ApiKeys) > 0 {
		c.ApiKeys = fc.ApiKeys
	}
	if fc.RateLimit != 0 {
		c.RateLimit = fc.RateLimit
	}
	if fc.AdvertsURL != "" {
		c.AdvertsURL = fc.AdvertsURL
	}
	if fc.FaresURL != "" {
		c.FaresURL = fc.FaresURL
	}
	if fc.ContentTimeout != 0 {
		c.ContentTimeout = fc.ContentTimeout
	}
}
