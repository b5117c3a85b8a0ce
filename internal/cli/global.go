package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/academicworkflow/awap/internal/client"
	"github.com/academicworkflow/awap/internal/config"
)

type GlobalOptions struct {
	ServerUrl      string
	ConfigFilePath string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ServerUrl:      "",
		ConfigFilePath: client.DefaultConfigPath(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the marking API server")
	fs.StringVar(&o.ConfigFilePath, "config", o.ConfigFilePath, "Path to the client config file")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// Client builds a client from the config file when one exists, falling back
// to environment defaults. --server-url wins over both.
func (o *GlobalOptions) Client() (*client.Client, error) {
	clientConfig, err := o.clientConfig()
	if err != nil {
		return nil, err
	}
	if o.ServerUrl != "" {
		clientConfig.BaseURL = o.ServerUrl
	}
	if err := clientConfig.Validate(); err != nil {
		return nil, err
	}
	return client.New(clientConfig), nil
}

func (o *GlobalOptions) clientConfig() (*client.Config, error) {
	if _, err := os.Stat(o.ConfigFilePath); err == nil {
		clientConfig, err := client.ParseConfigFile(o.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return clientConfig, nil
	}

	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	clientConfig := client.NewDefault()
	clientConfig.BaseURL = cfg.Service.BaseUrl
	clientConfig.RequestTimeout = time.Duration(cfg.Service.RequestTimeout) * time.Second
	clientConfig.WorkflowTimeout = time.Duration(cfg.Service.WorkflowTimeout) * time.Second
	clientConfig.PollInterval = time.Duration(cfg.Service.PollInterval) * time.Second
	return clientConfig, nil
}
