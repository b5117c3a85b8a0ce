package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service *svcConfig
	Fuzz    *fuzzConfig
}

type svcConfig struct {
	BaseUrl         string `envconfig:"AWAP_API_URL" default:"http://localhost:8080"`
	RequestTimeout  int    `envconfig:"AWAP_REQUEST_TIMEOUT" default:"30"`
	WorkflowTimeout int    `envconfig:"AWAP_WORKFLOW_TIMEOUT" default:"300"`
	PollInterval    int    `envconfig:"AWAP_POLL_INTERVAL" default:"5"`
	LogLevel        string `envconfig:"AWAP_LOG_LEVEL" default:"info"`
	ReportDir       string `envconfig:"AWAP_REPORT_DIR" default:"reports"`
}

type fuzzConfig struct {
	MaxRequests int   `envconfig:"AWAP_FUZZ_MAX_REQUESTS" default:"0"`
	Seed        int64 `envconfig:"AWAP_FUZZ_SEED" default:"0"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
