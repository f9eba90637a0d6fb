package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/sparqlstore"
)

// WikiConfig locates the MediaWiki API and the local page files.
type WikiConfig struct {
	APIURL     string        `env:"WIKI_API_URL" envDefault:"https://tolkiengateway.net/w/api.php"`
	Delay      time.Duration `env:"WIKI_DELAY" envDefault:"500ms"`
	UserAgent  string        `env:"WIKI_USER_AGENT" envDefault:"wikigrapher/1.0"`
	InfoboxDir string        `env:"INFOBOX_DIR" envDefault:"infoboxes"`
}

// PipelineConfig controls a build run.
type PipelineConfig struct {
	OutputFile     string `env:"OUTPUT_FILE" envDefault:"rdf/all_infoboxes.ttl"`
	Workers        int    `env:"PIPELINE_WORKERS" envDefault:"1"`
	VocabularyFile string `env:"VOCABULARY_FILE"`
	ModelDir       string `env:"MODEL_DIR" envDefault:"models"`
	EmbeddingDim   int    `env:"EMBEDDING_DIM" envDefault:"384"`
}

// FusekiConfig locates the SPARQL dataset used by publish and serve.
type FusekiConfig struct {
	URL      string `env:"FUSEKI_URL" envDefault:"http://localhost:3030"`
	Dataset  string `env:"FUSEKI_DATASET" envDefault:"tolkien"`
	User     string `env:"FUSEKI_USER"`
	Password string `env:"FUSEKI_PASSWORD"`
}

// Store returns the sparqlstore configuration.
func (c FusekiConfig) Store() sparqlstore.Config {
	return sparqlstore.Config{
		URL:      c.URL,
		Dataset:  c.Dataset,
		User:     c.User,
		Password: c.Password,
	}
}

// WebConfig holds the serve settings.
type WebConfig struct {
	Addr string `env:"WEB_ADDR" envDefault:":8080"`
}

// Config is the complete environment configuration. Database settings are
// read separately by helper.NewDatabaseConfiguration.
type Config struct {
	Wiki     WikiConfig
	Pipeline PipelineConfig
	Fuseki   FusekiConfig
	Web      WebConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when there is one.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, helper.NewError("load .env file", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, helper.NewError("parse environment", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values env parsing cannot.
func (c *Config) Validate() error {
	var errs []error
	if _, err := url.ParseRequestURI(c.Wiki.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("WIKI_API_URL: %w", err))
	}
	if c.Wiki.Delay < 0 {
		errs = append(errs, errors.New("WIKI_DELAY must not be negative"))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, errors.New("PIPELINE_WORKERS must be at least 1"))
	}
	if c.Pipeline.EmbeddingDim < 1 {
		errs = append(errs, errors.New("EMBEDDING_DIM must be at least 1"))
	}
	if c.Pipeline.OutputFile == "" {
		errs = append(errs, errors.New("OUTPUT_FILE must not be empty"))
	}
	if _, err := url.ParseRequestURI(c.Fuseki.URL); err != nil {
		errs = append(errs, fmt.Errorf("FUSEKI_URL: %w", err))
	}
	return errors.Join(errs...)
}
