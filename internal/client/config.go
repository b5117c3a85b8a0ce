package client

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	// APIURLEnvKey overrides the base URL when no explicit value is given.
	APIURLEnvKey = "AWAP_API_URL"

	DefaultBaseURL         = "http://localhost:8080"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultWorkflowTimeout = 300 * time.Second
	DefaultPollInterval    = 5 * time.Second
	DefaultMaxPollInterval = 30 * time.Second
)

// Config holds the information needed to connect to the marking API server.
type Config struct {
	// BaseURL is the URL of the server (the part before /api/v1/...).
	BaseURL string `json:"baseUrl"`
	// RequestTimeout bounds each individual HTTP exchange.
	RequestTimeout time.Duration `json:"requestTimeout"`
	// WorkflowTimeout bounds the poll loop of a full marking workflow.
	WorkflowTimeout time.Duration `json:"workflowTimeout"`
	// PollInterval is the initial delay between status checks.
	PollInterval time.Duration `json:"pollInterval"`
	// MaxPollInterval caps the backoff of the poll loop.
	MaxPollInterval time.Duration `json:"maxPollInterval"`
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `json:"insecureSkipVerify"`
}

func NewDefault() *Config {
	baseURL := DefaultBaseURL
	if value := os.Getenv(APIURLEnvKey); value != "" {
		baseURL = value
	}
	return &Config{
		BaseURL:         baseURL,
		RequestTimeout:  DefaultRequestTimeout,
		WorkflowTimeout: DefaultWorkflowTimeout,
		PollInterval:    DefaultPollInterval,
		MaxPollInterval: DefaultMaxPollInterval,
	}
}

// DefaultConfigPath returns the default path to the client config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".awap", "client.yaml")
	}
	return filepath.Join(home, ".awap", "client.yaml")
}

// ParseConfigFile reads and validates a client config file. Fields left
// unset in the file keep their defaults.
func ParseConfigFile(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	config := NewDefault()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Persist(filename string) error {
	contents, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(filename, contents, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if len(c.BaseURL) == 0 {
		return fmt.Errorf("invalid configuration: no server found")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid configuration: server format %q: %w", c.BaseURL, err)
	}
	if len(u.Hostname()) == 0 {
		return fmt.Errorf("invalid configuration: server format %q: no hostname", c.BaseURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid configuration: poll interval must be positive")
	}
	if c.MaxPollInterval < c.PollInterval {
		return fmt.Errorf("invalid configuration: max poll interval below poll interval")
	}
	return nil
}

// NewHTTPClientFromConfig returns an HTTP client honoring the config's
// transport timeout and TLS verification toggle.
func NewHTTPClientFromConfig(config *Config) *http.Client {
	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.InsecureSkipVerify,
			},
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
